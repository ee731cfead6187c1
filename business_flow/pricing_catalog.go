package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/shopspring/decimal"
)

// ProductStore is the read side of the product catalog
type ProductStore interface {
	ByID(ctx context.Context, id uint) (*models.Product, error)
}

// CatalogAccessor reads channel list prices
type CatalogAccessor interface {
	// Product returns an active product or ErrProductNotFound.
	Product(ctx context.Context, productID uint) (*models.Product, error)
	BasePrice(ctx context.Context, productID uint, channel models.SalesChannel) (decimal.Decimal, error)
}

type CatalogAccessorImpl struct {
	products ProductStore
}

func NewCatalogAccessor(products ProductStore) CatalogAccessor {
	return &CatalogAccessorImpl{products: products}
}

func (c *CatalogAccessorImpl) Product(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := c.products.ByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	if product == nil || !product.Active() {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (c *CatalogAccessorImpl) BasePrice(ctx context.Context, productID uint, channel models.SalesChannel) (decimal.Decimal, error) {
	product, err := c.Product(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return listPrice(product, channel)
}

func listPrice(product *models.Product, channel models.SalesChannel) (decimal.Decimal, error) {
	if !channel.IsValid() {
		return decimal.Zero, ErrInvalidChannel
	}
	price := product.ListPrice(channel)
	if !price.Valid {
		return decimal.Zero, ErrPriceUnavailable
	}
	return price.Decimal, nil
}
