package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRuleRepositoryImpl implements PricingRuleRepository
type PricingRuleRepositoryImpl struct {
	*BaseRepository[models.PricingRule, models.PricingRuleFilter]
}

// NewPricingRuleRepository creates a new pricing rule repository
func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &PricingRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingRule, models.PricingRuleFilter](db),
	}
}

// ByUUID retrieves a rule by its public UUID
func (r *PricingRuleRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.getDB(ctx).Where("uuid = ?", id).Last(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pricing rule by uuid: %w", err)
	}
	return &rule, nil
}

// ListCandidates narrows by channel and firm binding only. Scope, quantity and
// date checks are done by the matcher so one predicate decides applicability.
func (r *PricingRuleRepositoryImpl) ListCandidates(ctx context.Context, channel models.SalesChannel, firmID uint) ([]*models.PricingRule, error) {
	var rows []*models.PricingRule
	err := r.getDB(ctx).
		Where("musteri_tipi = ?", channel).
		Where("firma_id IS NULL OR firma_id = ?", firmID).
		Order("oncelik ASC, created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate pricing rules: %w", err)
	}
	return rows, nil
}

func (r *PricingRuleRepositoryImpl) applyFilter(db *gorm.DB, filter models.PricingRuleFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Channel != nil {
		db = db.Where("musteri_tipi = ?", *filter.Channel)
	}
	if filter.Scope != nil {
		db = db.Where("kapsam = ?", *filter.Scope)
	}
	if filter.FirmID != nil {
		db = db.Where("firma_id = ?", *filter.FirmID)
	}
	if filter.ProductID != nil {
		db = db.Where("urun_id = ?", *filter.ProductID)
	}
	if filter.CategoryID != nil {
		db = db.Where("kategori_id = ?", *filter.CategoryID)
	}
	return db
}

// ByFilter retrieves rules based on filter criteria
func (r *PricingRuleRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingRuleFilter, orderBy string, limit, offset int) ([]*models.PricingRule, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.PricingRule{}), filter)
	query = paginate(query, orderBy, "oncelik ASC, created_at ASC, id ASC", limit, offset)

	var rows []*models.PricingRule
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	return rows, nil
}

// Count returns the number of rules matching the filter
func (r *PricingRuleRepositoryImpl) Count(ctx context.Context, filter models.PricingRuleFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.PricingRule{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pricing rules: %w", err)
	}
	return count, nil
}

// Exists checks if any rule matching the filter exists
func (r *PricingRuleRepositoryImpl) Exists(ctx context.Context, filter models.PricingRuleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
