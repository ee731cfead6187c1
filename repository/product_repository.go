package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements ProductRepository
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// ByIDs loads the given products keyed by ID; missing IDs are absent from the map
func (r *ProductRepositoryImpl) ByIDs(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	out := make(map[uint]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []*models.Product
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// ListActive returns every active product with its category, ordered by ID
func (r *ProductRepositoryImpl) ListActive(ctx context.Context) ([]*models.Product, error) {
	var rows []*models.Product
	err := r.getDB(ctx).
		Where("aktif = ?", true).
		Preload("Category").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return rows, nil
}

func (r *ProductRepositoryImpl) applyFilter(db *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if len(filter.IDs) > 0 {
		db = db.Where("id IN ?", filter.IDs)
	}
	if filter.CategoryID != nil {
		db = db.Where("kategori_id = ?", *filter.CategoryID)
	}
	if filter.StockCode != nil {
		db = db.Where("stok_kodu = ?", *filter.StockCode)
	}
	if filter.IsActive != nil {
		db = db.Where("aktif = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves products based on filter criteria
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Product{}), filter)
	query = paginate(query, orderBy, "id ASC", limit, offset)

	var rows []*models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return rows, nil
}

// Count returns the number of products matching the filter
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.Product{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Exists checks if any product matching the filter exists
func (r *ProductRepositoryImpl) Exists(ctx context.Context, filter models.ProductFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
