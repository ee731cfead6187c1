package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"gorm.io/gorm"
)

// CustomerProfileRepositoryImpl implements CustomerProfileRepository
type CustomerProfileRepositoryImpl struct {
	*BaseRepository[models.CustomerProfile, models.CustomerProfileFilter]
}

// NewCustomerProfileRepository creates a new customer profile repository
func NewCustomerProfileRepository(db *gorm.DB) CustomerProfileRepository {
	return &CustomerProfileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomerProfile, models.CustomerProfileFilter](db),
	}
}

// ByName retrieves a profile by its unique name
func (r *CustomerProfileRepositoryImpl) ByName(ctx context.Context, name string) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := r.getDB(ctx).Where("profil_adi = ?", name).Last(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer profile by name: %w", err)
	}
	return &profile, nil
}

func (r *CustomerProfileRepositoryImpl) applyFilter(db *gorm.DB, filter models.CustomerProfileFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("profil_adi = ?", *filter.Name)
	}
	return db
}

// ByFilter retrieves profiles based on filter criteria
func (r *CustomerProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerProfileFilter, orderBy string, limit, offset int) ([]*models.CustomerProfile, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.CustomerProfile{}), filter)
	query = paginate(query, orderBy, "profil_adi ASC", limit, offset)

	var rows []*models.CustomerProfile
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list customer profiles: %w", err)
	}
	return rows, nil
}

// Count returns the number of profiles matching the filter
func (r *CustomerProfileRepositoryImpl) Count(ctx context.Context, filter models.CustomerProfileFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.CustomerProfile{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customer profiles: %w", err)
	}
	return count, nil
}

// Exists checks if any profile matching the filter exists
func (r *CustomerProfileRepositoryImpl) Exists(ctx context.Context, filter models.CustomerProfileFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
