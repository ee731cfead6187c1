package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FirmRepositoryImpl implements FirmRepository
type FirmRepositoryImpl struct {
	*BaseRepository[models.Firm, models.FirmFilter]
}

// NewFirmRepository creates a new firm repository
func NewFirmRepository(db *gorm.DB) FirmRepository {
	return &FirmRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Firm, models.FirmFilter](db),
	}
}

// ByUUID retrieves a firm by its public UUID
func (r *FirmRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Firm, error) {
	var firm models.Firm
	err := r.getDB(ctx).Where("uuid = ?", id).Last(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find firm by uuid: %w", err)
	}
	return &firm, nil
}

// ByIDWithProfile retrieves a firm and its assigned customer profile
func (r *FirmRepositoryImpl) ByIDWithProfile(ctx context.Context, id uint) (*models.Firm, error) {
	var firm models.Firm
	err := r.getDB(ctx).Preload("Profile").Where("id = ?", id).Last(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find firm %d: %w", id, err)
	}
	return &firm, nil
}

// LockByID loads a firm with SELECT ... FOR UPDATE
func (r *FirmRepositoryImpl) LockByID(ctx context.Context, id uint) (*models.Firm, error) {
	var firm models.Firm
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Last(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock firm %d: %w", id, err)
	}
	return &firm, nil
}

// AssignProfile replaces the firm's profile; nil unassigns it
func (r *FirmRepositoryImpl) AssignProfile(ctx context.Context, firmID uint, profileID *uint) error {
	res := r.getDB(ctx).
		Model(&models.Firm{}).
		Where("id = ?", firmID).
		Updates(map[string]any{
			"musteri_profil_id": profileID,
			"updated_at":        utils.UTCNow(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to assign profile to firm %d: %w", firmID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("firm %d: %w", firmID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FirmRepositoryImpl) applyFilter(db *gorm.DB, filter models.FirmFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Type != nil {
		db = db.Where("tipi = ?", *filter.Type)
	}
	if filter.ProfileID != nil {
		db = db.Where("musteri_profil_id = ?", *filter.ProfileID)
	}
	if filter.IsActive != nil {
		db = db.Where("aktif = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves firms based on filter criteria
func (r *FirmRepositoryImpl) ByFilter(ctx context.Context, filter models.FirmFilter, orderBy string, limit, offset int) ([]*models.Firm, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Firm{}), filter)
	query = paginate(query, orderBy, "id ASC", limit, offset)

	var rows []*models.Firm
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list firms: %w", err)
	}
	return rows, nil
}

// Count returns the number of firms matching the filter
func (r *FirmRepositoryImpl) Count(ctx context.Context, filter models.FirmFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.Firm{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count firms: %w", err)
	}
	return count, nil
}

// Exists checks if any firm matching the filter exists
func (r *FirmRepositoryImpl) Exists(ctx context.Context, filter models.FirmFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
