package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl implements CategoryRepository
type CategoryRepositoryImpl struct {
	*BaseRepository[models.Category, models.CategoryFilter]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &CategoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Category, models.CategoryFilter](db),
	}
}

// BySlug retrieves a category by its slug
func (r *CategoryRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	db := r.getDB(ctx)

	var category models.Category
	err := db.Where("slug = ?", slug).Last(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by slug: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) applyFilter(db *gorm.DB, filter models.CategoryFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ParentID != nil {
		db = db.Where("ust_kategori_id = ?", *filter.ParentID)
	}
	if filter.Slug != nil {
		db = db.Where("slug = ?", *filter.Slug)
	}
	if filter.TopLevel != nil {
		if *filter.TopLevel {
			db = db.Where("ust_kategori_id IS NULL")
		} else {
			db = db.Where("ust_kategori_id IS NOT NULL")
		}
	}
	return db
}

// ByFilter retrieves categories based on filter criteria
func (r *CategoryRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Category{}), filter)
	query = paginate(query, orderBy, "id ASC", limit, offset)

	var rows []*models.Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return rows, nil
}

// Count returns the number of categories matching the filter
func (r *CategoryRepositoryImpl) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.Category{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// Exists checks if any category matching the filter exists
func (r *CategoryRepositoryImpl) Exists(ctx context.Context, filter models.CategoryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
