package businessflow

import (
	"context"
	"errors"
	"time"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
)

// pricedBasket is the outcome of pricing every line of a request for one firm
type pricedBasket struct {
	Lines    []dto.PricedLine
	Resolved []*PriceResolution
	Totals   Totals
}

func (b *pricedBasket) failedLines() []dto.PricedLine {
	var failed []dto.PricedLine
	for _, l := range b.Lines {
		if l.Error != nil {
			failed = append(failed, l)
		}
	}
	return failed
}

// priceBasket prices each line independently. Pricing failures stay on their
// line; any other error aborts the whole basket.
func priceBasket(ctx context.Context, engine PricingEngine, firm *models.Firm, lines []dto.PriceLineRequest, asOf time.Time, vatRate decimal.Decimal) (*pricedBasket, error) {
	reqs := make([]PriceRequest, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, PriceRequest{
			ProductID: l.ProductID,
			FirmID:    firm.ID,
			Channel:   firm.Type,
			Quantity:  l.Quantity,
			AsOf:      asOf,
		})
	}

	basket := &pricedBasket{Lines: make([]dto.PricedLine, 0, len(reqs))}
	totalsLines := make([]TotalsLine, 0, len(reqs))

	for _, r := range engine.ResolveLines(ctx, reqs) {
		line := dto.PricedLine{ProductID: r.Request.ProductID, Quantity: r.Request.Quantity}
		if r.Err != nil {
			lineErr, ok := lineErrorOf(r.Err)
			if !ok {
				return nil, r.Err
			}
			line.Error = lineErr
			basket.Lines = append(basket.Lines, line)
			continue
		}

		res := r.Resolution
		line.UnitPrice = formatMoney(res.UnitPrice)
		line.LineTotal = formatMoney(res.LineTotal())
		line.Source = string(res.Source)
		line.Clamped = res.Clamped
		line.Breakdown = toPriceBreakdown(res)

		basket.Lines = append(basket.Lines, line)
		basket.Resolved = append(basket.Resolved, res)
		totalsLines = append(totalsLines, TotalsLine{UnitPrice: res.UnitPrice, Quantity: res.Quantity})
	}

	basket.Totals = ComputeTotals(totalsLines, vatRate)
	return basket, nil
}

func lineErrorOf(err error) (*dto.LineError, bool) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return &dto.LineError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found or inactive"}, true
	case errors.Is(err, ErrPriceUnavailable):
		return &dto.LineError{Code: "PRICE_UNAVAILABLE", Message: "No list price for this sales channel"}, true
	case errors.Is(err, ErrInvalidQuantity):
		return &dto.LineError{Code: "INVALID_QUANTITY", Message: "Quantity must be at least 1"}, true
	}
	return nil, false
}

func toPriceBreakdown(res *PriceResolution) *dto.PriceBreakdown {
	b := &dto.PriceBreakdown{}
	if res.BasePrice != nil {
		b.BasePrice = formatMoney(*res.BasePrice)
	}
	if res.ProfilePercent != nil {
		b.ProfilePercent = utils.ToPtr(formatPercent(*res.ProfilePercent))
	}
	if res.Rule != nil {
		b.RuleID = utils.ToPtr(res.Rule.ID)
		b.RuleName = utils.ToPtr(res.Rule.Name)
		b.RulePercent = utils.ToPtr(formatPercent(res.Rule.Percentage))
	}
	if res.Override != nil {
		b.OverrideID = utils.ToPtr(res.Override.ID)
	}
	return b
}

func toTotalsDTO(t Totals) dto.Totals {
	return dto.Totals{
		Net:     formatMoney(t.Net),
		VATRate: formatPercent(t.VATRate),
		VAT:     formatMoney(t.VAT),
		Gross:   formatMoney(t.Gross),
	}
}

// resolveAsOf parses an optional YYYY-MM-DD date, defaulting to today (UTC)
func resolveAsOf(raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		return utils.UTCToday(), nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
