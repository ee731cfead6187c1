package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceOverrideRepositoryImpl implements PriceOverrideRepository
type PriceOverrideRepositoryImpl struct {
	*BaseRepository[models.CustomerPriceOverride, models.CustomerPriceOverrideFilter]
}

// NewPriceOverrideRepository creates a new price override repository
func NewPriceOverrideRepository(db *gorm.DB) PriceOverrideRepository {
	return &PriceOverrideRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomerPriceOverride, models.CustomerPriceOverrideFilter](db),
	}
}

// ByUUID retrieves an override by its public UUID
func (r *PriceOverrideRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.CustomerPriceOverride, error) {
	var o models.CustomerPriceOverride
	err := r.getDB(ctx).Where("uuid = ?", id).Last(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find price override by uuid: %w", err)
	}
	return &o, nil
}

// ListCandidates returns the overrides of a lookup key, most recently created first
func (r *PriceOverrideRepositoryImpl) ListCandidates(ctx context.Context, productID, firmID uint, channel models.SalesChannel) ([]*models.CustomerPriceOverride, error) {
	var rows []*models.CustomerPriceOverride
	err := r.getDB(ctx).
		Where("urun_id = ? AND firma_id = ? AND musteri_tipi = ?", productID, firmID, channel).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate price overrides: %w", err)
	}
	return rows, nil
}

func (r *PriceOverrideRepositoryImpl) applyFilter(db *gorm.DB, filter models.CustomerPriceOverrideFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ProductID != nil {
		db = db.Where("urun_id = ?", *filter.ProductID)
	}
	if filter.FirmID != nil {
		db = db.Where("firma_id = ?", *filter.FirmID)
	}
	if filter.Channel != nil {
		db = db.Where("musteri_tipi = ?", *filter.Channel)
	}
	return db
}

// ByFilter retrieves overrides based on filter criteria
func (r *PriceOverrideRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerPriceOverrideFilter, orderBy string, limit, offset int) ([]*models.CustomerPriceOverride, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.CustomerPriceOverride{}), filter)
	query = paginate(query, orderBy, "created_at DESC, id DESC", limit, offset)

	var rows []*models.CustomerPriceOverride
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list price overrides: %w", err)
	}
	return rows, nil
}

// Count returns the number of overrides matching the filter
func (r *PriceOverrideRepositoryImpl) Count(ctx context.Context, filter models.CustomerPriceOverrideFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.CustomerPriceOverride{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count price overrides: %w", err)
	}
	return count, nil
}

// Exists checks if any override matching the filter exists
func (r *PriceOverrideRepositoryImpl) Exists(ctx context.Context, filter models.CustomerPriceOverrideFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
