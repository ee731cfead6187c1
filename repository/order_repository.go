package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepositoryImpl implements OrderRepository
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ByUUID retrieves an order with its lines
func (r *OrderRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.getDB(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("uuid = ?", id).
		Last(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by uuid: %w", err)
	}
	return &order, nil
}

// ByUUIDForUpdate locks the order row for the surrounding transaction
func (r *OrderRepositoryImpl) ByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uuid = ?", id).
		Last(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return &order, nil
}

// UpdateStatus changes only the status column; totals and lines stay frozen
func (r *OrderRepositoryImpl) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, updatedAt time.Time) error {
	res := r.getDB(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"durum":      status,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", orderID, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListLines returns the lines of an order in insertion order
func (r *OrderRepositoryImpl) ListLines(ctx context.Context, orderID uint) ([]*models.OrderLine, error) {
	var lines []*models.OrderLine
	if err := r.getDB(ctx).Where("siparis_id = ?", orderID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	return lines, nil
}

func (r *OrderRepositoryImpl) applyFilter(db *gorm.DB, filter models.OrderFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.FirmID != nil {
		db = db.Where("firma_id = ?", *filter.FirmID)
	}
	if filter.Status != nil {
		db = db.Where("durum = ?", *filter.Status)
	}
	if filter.QuoteID != nil {
		db = db.Where("teklif_id = ?", *filter.QuoteID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}

// ByFilter retrieves orders based on filter criteria
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Order{}), filter)
	query = paginate(query, orderBy, "created_at DESC, id DESC", limit, offset)

	var rows []*models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return rows, nil
}

// Count returns the number of orders matching the filter
func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.Order{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// Exists checks if any order matching the filter exists
func (r *OrderRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
