package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
)

// PriceRequest identifies one order line to price. AsOf is always explicit.
type PriceRequest struct {
	ProductID uint
	FirmID    uint
	Channel   models.SalesChannel
	Quantity  int
	AsOf      time.Time
}

// PriceResolution is a resolved net unit price and how it was reached
type PriceResolution struct {
	ProductID      uint
	CategoryID     uint
	Quantity       int
	UnitPrice      decimal.Decimal
	Source         models.PriceSource
	BasePrice      *decimal.Decimal
	ProfilePercent *decimal.Decimal
	Rule           *models.PricingRule
	Override       *models.CustomerPriceOverride
	Clamped        bool
}

// LineTotal is the unit price times quantity rounded to cents
func (r *PriceResolution) LineTotal() decimal.Decimal {
	return TotalsLine{UnitPrice: r.UnitPrice, Quantity: r.Quantity}.Total()
}

// AppliedRuleID returns the winning rule's ID, if any
func (r *PriceResolution) AppliedRuleID() *uint {
	if r.Rule == nil {
		return nil
	}
	return utils.ToPtr(r.Rule.ID)
}

// LineResult pairs a request with either its resolution or its failure
type LineResult struct {
	Request    PriceRequest
	Resolution *PriceResolution
	Err        error
}

// PricingEngine resolves net unit prices
type PricingEngine interface {
	ResolveUnitPrice(ctx context.Context, req PriceRequest) (*PriceResolution, error)
	// ResolveLines prices every request independently; one failing line does
	// not affect the others.
	ResolveLines(ctx context.Context, reqs []PriceRequest) []LineResult
}

type PricingEngineImpl struct {
	catalog   CatalogAccessor
	profiles  ProfileDiscountResolver
	rules     RuleMatcher
	overrides OverrideResolver
	logger    *log.Logger
}

func NewPricingEngine(
	catalog CatalogAccessor,
	profiles ProfileDiscountResolver,
	rules RuleMatcher,
	overrides OverrideResolver,
	logger *log.Logger,
) PricingEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &PricingEngineImpl{
		catalog:   catalog,
		profiles:  profiles,
		rules:     rules,
		overrides: overrides,
		logger:    logger,
	}
}

func (e *PricingEngineImpl) ResolveUnitPrice(ctx context.Context, req PriceRequest) (*PriceResolution, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !req.Channel.IsValid() {
		return nil, ErrInvalidChannel
	}
	asOf := utils.DateOf(req.AsOf)

	res := &PriceResolution{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}

	// an override never revives an inactive or deleted product
	product, err := e.catalog.Product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	res.CategoryID = product.CategoryID

	override, err := e.overrides.Override(ctx, req.ProductID, req.FirmID, req.Channel, asOf)
	if err != nil {
		return nil, err
	}
	if override != nil {
		res.Override = override
		res.Source = models.PriceSourceOverride
		res.UnitPrice = e.finalize(req, res, override.NetPrice)
		pricingResolutionsTotal.WithLabelValues(string(res.Source)).Inc()
		return res, nil
	}

	base, err := listPrice(product, req.Channel)
	if err != nil {
		return nil, err
	}
	res.BasePrice = &base
	res.Source = models.PriceSourceComputed

	price := base

	profilePct, err := e.profiles.ProfileDiscount(ctx, req.FirmID)
	if err != nil {
		return nil, err
	}
	if profilePct != nil {
		res.ProfilePercent = profilePct
		price = price.Mul(utils.PercentFactor(*profilePct))
	}

	matched, err := e.rules.MatchRules(ctx, RuleQuery{
		ProductID:  req.ProductID,
		CategoryID: product.CategoryID,
		FirmID:     req.FirmID,
		Channel:    req.Channel,
		Quantity:   req.Quantity,
		AsOf:       asOf,
	})
	if err != nil {
		return nil, err
	}
	if len(matched) > 0 {
		res.Rule = matched[0]
		price = price.Mul(utils.PercentFactor(res.Rule.Percentage))
	}

	res.UnitPrice = e.finalize(req, res, price)
	pricingResolutionsTotal.WithLabelValues(string(res.Source)).Inc()
	return res, nil
}

// finalize rounds to cents and clamps below-zero prices to zero
func (e *PricingEngineImpl) finalize(req PriceRequest, res *PriceResolution, price decimal.Decimal) decimal.Decimal {
	price = utils.RoundMoney(price)
	if price.IsNegative() {
		res.Clamped = true
		pricingNegativeClampedTotal.Inc()
		e.logger.Printf(`{"level":"warn","event":"NegativePriceClamped","product_id":%d,"firm_id":%d,"channel":%q,"computed":%q}`,
			req.ProductID, req.FirmID, req.Channel, price.String())
		return decimal.Zero
	}
	return price
}

func (e *PricingEngineImpl) ResolveLines(ctx context.Context, reqs []PriceRequest) []LineResult {
	out := make([]LineResult, 0, len(reqs))
	for _, req := range reqs {
		res, err := e.ResolveUnitPrice(ctx, req)
		out = append(out, LineResult{Request: req, Resolution: res, Err: err})
	}
	return out
}
