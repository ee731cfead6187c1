package businessflow

import (
	"context"
	"log"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/app/services"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
)

// QuoteFlow prices a basket without persisting anything
type QuoteFlow interface {
	Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error)
}

type QuoteFlowImpl struct {
	firmRepo repository.FirmRepository
	engine   PricingEngine
	quotes   services.QuoteTokenService
	vatRate  decimal.Decimal
	logger   *log.Logger
}

// NewQuoteFlow constructs a QuoteFlow. quotes may be nil, in which case no token is issued.
func NewQuoteFlow(firmRepo repository.FirmRepository, engine PricingEngine, quotes services.QuoteTokenService, vatRate decimal.Decimal, logger *log.Logger) QuoteFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &QuoteFlowImpl{
		firmRepo: firmRepo,
		engine:   engine,
		quotes:   quotes,
		vatRate:  vatRate,
		logger:   logger,
	}
}

func (f *QuoteFlowImpl) Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error) {
	asOf, err := resolveAsOf(req.AsOf)
	if err != nil {
		return nil, NewBusinessError("QUOTE_INVALID_DATE", "as_of must be YYYY-MM-DD", err)
	}
	if len(req.Lines) == 0 {
		return nil, NewBusinessError("QUOTE_LINES_REQUIRED", "At least one line is required", ErrOrderLinesRequired)
	}

	firm, err := getActiveFirm(ctx, f.firmRepo, req.FirmID)
	if err != nil {
		return nil, NewBusinessError("QUOTE_FIRM_INVALID", "Firm cannot be quoted", err)
	}

	basket, err := priceBasket(ctx, f.engine, firm, req.Lines, asOf, f.vatRate)
	if err != nil {
		return nil, NewBusinessError("QUOTE_PRICING_FAILED", "Failed to price quote", err)
	}

	resp := &dto.QuoteResponse{
		Message: "Quote computed successfully",
		FirmID:  firm.ID,
		Channel: string(firm.Type),
		AsOf:    asOf.Format(utils.DateLayout),
		Lines:   basket.Lines,
		Totals:  toTotalsDTO(basket.Totals),
	}

	if f.quotes == nil || len(basket.Resolved) == 0 {
		return resp, nil
	}
	// orders are priced as of their creation day, so only today's prices can be frozen
	if !asOf.Equal(utils.UTCToday()) {
		return resp, nil
	}

	claims := services.QuoteClaims{
		FirmID:  firm.ID,
		Channel: string(firm.Type),
		AsOf:    resp.AsOf,
		VATRate: formatPercent(f.vatRate),
	}
	for _, res := range basket.Resolved {
		claims.Lines = append(claims.Lines, services.QuoteLine{
			ProductID:     res.ProductID,
			Quantity:      res.Quantity,
			UnitPrice:     formatMoney(res.UnitPrice),
			Source:        string(res.Source),
			AppliedRuleID: res.AppliedRuleID(),
		})
	}

	token, expiresAt, err := f.quotes.Issue(claims)
	if err != nil {
		f.logger.Printf("quote token signing failed for firm %d: %v", firm.ID, err)
		return nil, NewBusinessError("QUOTE_SIGNING_FAILED", "Failed to sign quote", err)
	}
	resp.QuoteToken = token
	resp.ExpiresAt = formatTime(expiresAt)

	return resp, nil
}
