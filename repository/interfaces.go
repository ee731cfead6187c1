// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CategoryRepository defines operations for the category tree
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	BySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ProductRepository defines operations for products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByIDs(ctx context.Context, ids []uint) (map[uint]*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
}

// CustomerProfileRepository defines operations for customer profiles
type CustomerProfileRepository interface {
	Repository[models.CustomerProfile, models.CustomerProfileFilter]
	ByName(ctx context.Context, name string) (*models.CustomerProfile, error)
}

// FirmRepository defines operations for firms
type FirmRepository interface {
	Repository[models.Firm, models.FirmFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Firm, error)
	ByIDWithProfile(ctx context.Context, id uint) (*models.Firm, error)
	// LockByID loads the firm with a row lock held until the transaction ends.
	LockByID(ctx context.Context, id uint) (*models.Firm, error)
	AssignProfile(ctx context.Context, firmID uint, profileID *uint) error
}

// PricingRuleRepository defines operations for pricing rules
type PricingRuleRepository interface {
	Repository[models.PricingRule, models.PricingRuleFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	// ListCandidates returns rules of the channel that are global or bound to firmID.
	ListCandidates(ctx context.Context, channel models.SalesChannel, firmID uint) ([]*models.PricingRule, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

// PriceOverrideRepository defines operations for customer price overrides
type PriceOverrideRepository interface {
	Repository[models.CustomerPriceOverride, models.CustomerPriceOverrideFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.CustomerPriceOverride, error)
	// ListCandidates returns every override stored for the (product, firm, channel) key.
	ListCandidates(ctx context.Context, productID, firmID uint, channel models.SalesChannel) ([]*models.CustomerPriceOverride, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

// OrderRepository defines operations for orders and their lines
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, updatedAt time.Time) error
	ListLines(ctx context.Context, orderID uint) ([]*models.OrderLine, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByFirm(ctx context.Context, firmID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
