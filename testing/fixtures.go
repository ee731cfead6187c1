package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCategory creates a top-level category with a unique slug
func (tf *TestFixtures) CreateTestCategory(name string) (*models.Category, error) {
	category := &models.Category{
		Name: models.LocalizedText{utils.LocaleTurkish: name, utils.LocaleGerman: name},
		Slug: fmt.Sprintf("kategori-%d", rand.Intn(1_000_000)),
	}
	if err := tf.DB.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// CreateTestProduct creates an active product. A nil price leaves that channel without a list price.
func (tf *TestFixtures) CreateTestProduct(categoryID uint, name string, customerPrice, subDealerPrice *string) (*models.Product, error) {
	product := &models.Product{
		CategoryID: categoryID,
		Name:       models.LocalizedText{utils.LocaleTurkish: name},
		StockCode:  utils.ToPtr(fmt.Sprintf("PST-%06d", rand.Intn(1_000_000))),
		IsActive:   utils.ToPtr(true),
	}
	if customerPrice != nil {
		product.CustomerPrice = decimal.NewNullDecimal(decimal.RequireFromString(*customerPrice))
	}
	if subDealerPrice != nil {
		product.SubDealerPrice = decimal.NewNullDecimal(decimal.RequireFromString(*subDealerPrice))
	}
	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// CreateTestProfile creates a customer profile with the given signed percentage
func (tf *TestFixtures) CreateTestProfile(name, percent string) (*models.CustomerProfile, error) {
	profile := &models.CustomerProfile{
		Name:                   name,
		GeneralDiscountPercent: decimal.RequireFromString(percent),
	}
	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer profile: %w", err)
	}
	return profile, nil
}

// CreateTestFirm creates an active firm on the given channel
func (tf *TestFixtures) CreateTestFirm(channel models.SalesChannel, profileID *uint) (*models.Firm, error) {
	firm := &models.Firm{
		UUID:      uuid.New(),
		Name:      fmt.Sprintf("Pastane %d", rand.Intn(1_000_000)),
		Type:      channel,
		ProfileID: profileID,
		IsActive:  utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(firm).Error; err != nil {
		return nil, fmt.Errorf("failed to create firm: %w", err)
	}
	return firm, nil
}

// CreateTestRule creates a global pricing rule for a channel
func (tf *TestFixtures) CreateTestRule(channel models.SalesChannel, percent string, priority int, firmID *uint) (*models.PricingRule, error) {
	rule := &models.PricingRule{
		UUID:       uuid.New(),
		Name:       fmt.Sprintf("Kural %d", priority),
		Scope:      models.RuleScopeGlobal,
		Channel:    channel,
		FirmID:     firmID,
		Percentage: decimal.RequireFromString(percent),
		Priority:   priority,
	}
	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create pricing rule: %w", err)
	}
	return rule, nil
}

// CreateTestOverride creates a price override with an optional date window
func (tf *TestFixtures) CreateTestOverride(productID, firmID uint, channel models.SalesChannel, price string, start, end *time.Time) (*models.CustomerPriceOverride, error) {
	override := &models.CustomerPriceOverride{
		UUID:      uuid.New(),
		ProductID: productID,
		FirmID:    firmID,
		Channel:   channel,
		NetPrice:  decimal.RequireFromString(price),
		StartDate: start,
		EndDate:   end,
	}
	if err := tf.DB.DB.Create(override).Error; err != nil {
		return nil, fmt.Errorf("failed to create price override: %w", err)
	}
	return override, nil
}
