package businessflow

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
)

type memProducts map[uint]*models.Product

func (m memProducts) ByID(_ context.Context, id uint) (*models.Product, error) {
	return m[id], nil
}

type memFirms map[uint]*models.Firm

func (m memFirms) ByIDWithProfile(_ context.Context, id uint) (*models.Firm, error) {
	return m[id], nil
}

type memRules []*models.PricingRule

func (m memRules) ListCandidates(_ context.Context, channel models.SalesChannel, firmID uint) ([]*models.PricingRule, error) {
	var out []*models.PricingRule
	for _, r := range m {
		if r.Channel == channel && (r.FirmID == nil || *r.FirmID == firmID) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memOverrides []*models.CustomerPriceOverride

func (m memOverrides) ListCandidates(_ context.Context, productID, firmID uint, channel models.SalesChannel) ([]*models.CustomerPriceOverride, error) {
	var out []*models.CustomerPriceOverride
	for _, o := range m {
		if o.ProductID == productID && o.FirmID == firmID && o.Channel == channel {
			out = append(out, o)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func newTestProduct(id, categoryID uint, customerPrice, subDealerPrice string) *models.Product {
	p := &models.Product{
		ID:         id,
		CategoryID: categoryID,
		Name:       models.LocalizedText{"tr": "Ürün", "de": "Produkt"},
		IsActive:   utils.ToPtr(true),
	}
	if customerPrice != "" {
		p.CustomerPrice = decimal.NewNullDecimal(dec(customerPrice))
	}
	if subDealerPrice != "" {
		p.SubDealerPrice = decimal.NewNullDecimal(dec(subDealerPrice))
	}
	return p
}

func newTestFirm(id uint, channel models.SalesChannel, profilePct string) *models.Firm {
	f := &models.Firm{ID: id, Name: "Pastane", Type: channel, IsActive: utils.ToPtr(true)}
	if profilePct != "" {
		f.ProfileID = utils.ToPtr(uint(100 + id))
		f.Profile = &models.CustomerProfile{ID: 100 + id, Name: "VIP", GeneralDiscountPercent: dec(profilePct)}
	}
	return f
}

type engineFixture struct {
	products  memProducts
	firms     memFirms
	rules     memRules
	overrides memOverrides
	logs      *bytes.Buffer
}

func newEngineFixture() *engineFixture {
	return &engineFixture{
		products: memProducts{},
		firms:    memFirms{},
		logs:     &bytes.Buffer{},
	}
}

func (f *engineFixture) logger() *log.Logger {
	return log.New(f.logs, "", 0)
}

func (f *engineFixture) engine() PricingEngine {
	l := f.logger()
	return NewPricingEngine(
		NewCatalogAccessor(f.products),
		NewProfileDiscountResolver(f.firms),
		NewRuleMatcher(f.rules, l),
		NewOverrideResolver(f.overrides, l),
		l,
	)
}
