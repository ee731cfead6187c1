package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PriceListFlow renders a firm's personal price list as a workbook
type PriceListFlow interface {
	ExportFirmPriceList(ctx context.Context, req *dto.PriceListExportRequest) (*dto.PriceListExport, error)
}

type PriceListFlowImpl struct {
	firmRepo        repository.FirmRepository
	productRepo     repository.ProductRepository
	engine          PricingEngine
	vatRate         decimal.Decimal
	defaultLocale   string
	fallbackLocales []string
	logger          *log.Logger
}

func NewPriceListFlow(
	firmRepo repository.FirmRepository,
	productRepo repository.ProductRepository,
	engine PricingEngine,
	vatRate decimal.Decimal,
	defaultLocale string,
	fallbackLocales []string,
	logger *log.Logger,
) PriceListFlow {
	if defaultLocale == "" {
		defaultLocale = utils.LocaleGerman
	}
	if len(fallbackLocales) == 0 {
		fallbackLocales = utils.DefaultFallbackLocales
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PriceListFlowImpl{
		firmRepo:        firmRepo,
		productRepo:     productRepo,
		engine:          engine,
		vatRate:         vatRate,
		defaultLocale:   defaultLocale,
		fallbackLocales: fallbackLocales,
		logger:          logger,
	}
}

var priceListHeader = []any{"stock_code", "product", "category", "base_price", "net_price", "source", "rule", "vat_rate", "gross_price", "note"}

// ExportFirmPriceList prices every active product at quantity 1 for the firm's
// channel on the given date. Products that cannot be priced are listed with a note.
func (f *PriceListFlowImpl) ExportFirmPriceList(ctx context.Context, req *dto.PriceListExportRequest) (*dto.PriceListExport, error) {
	asOf, err := resolveAsOf(req.AsOf)
	if err != nil {
		return nil, NewBusinessError("PRICE_LIST_INVALID_DATE", "as_of must be YYYY-MM-DD", err)
	}
	locale := req.Locale
	if locale == "" {
		locale = f.defaultLocale
	}

	firm, err := getActiveFirm(ctx, f.firmRepo, req.FirmID)
	if err != nil {
		return nil, NewBusinessError("PRICE_LIST_FIRM_INVALID", "Firm cannot receive a price list", err)
	}

	products, err := f.productRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("PRICE_LIST_PRODUCTS_FAILED", "Failed to load products", err)
	}

	reqs := make([]PriceRequest, 0, len(products))
	for _, p := range products {
		reqs = append(reqs, PriceRequest{ProductID: p.ID, FirmID: firm.ID, Channel: firm.Type, Quantity: 1, AsOf: asOf})
	}
	results := f.engine.ResolveLines(ctx, reqs)

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := priceListSheetName(firm.Name)
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to prepare worksheet", err)
	}
	_ = xl.SetSheetRow(sheet, "A1", &priceListHeader)

	vatFactor := utils.PercentFactor(f.vatRate)
	for i, r := range results {
		p := products[i]
		stockCode := utils.Deref(p.StockCode)
		name := p.Name.Resolve(locale, f.fallbackLocales, stockCode)
		category := ""
		if p.Category != nil {
			category = p.Category.Name.Resolve(locale, f.fallbackLocales, p.Category.Slug)
		}

		row := []any{stockCode, name, category, "", "", "", "", f.vatRate.InexactFloat64(), "", ""}
		if r.Err != nil {
			lineErr, ok := lineErrorOf(r.Err)
			if !ok {
				return nil, NewBusinessError("PRICE_LIST_PRICING_FAILED", "Failed to price products", r.Err)
			}
			row[9] = lineErr.Message
		} else {
			res := r.Resolution
			if res.BasePrice != nil {
				row[3] = res.BasePrice.InexactFloat64()
			}
			row[4] = res.UnitPrice.InexactFloat64()
			row[5] = string(res.Source)
			if res.Rule != nil {
				row[6] = res.Rule.Name
			}
			row[8] = utils.RoundMoney(res.UnitPrice.Mul(vatFactor)).InexactFloat64()
			if res.Clamped {
				row[9] = "clamped to zero"
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(sheet, cell, &row)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	f.logger.Printf("price list exported for firm %d (%d products, locale %s)", firm.ID, len(products), locale)
	return &dto.PriceListExport{
		FileName: fmt.Sprintf("fiyat_listesi_%d_%s.xlsx", firm.ID, asOf.Format(utils.DateLayout)),
		Content:  buf.Bytes(),
		Rows:     len(products),
	}, nil
}

func priceListSheetName(name string) string {
	// Excel sheet names cannot contain : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := strings.TrimSpace(replacer.Replace(name))
	if safe == "" {
		return "Fiyatlar"
	}
	if r := []rune(safe); len(r) > 31 {
		return string(r[:31])
	}
	return safe
}
