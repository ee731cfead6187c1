package dto

// Money and percentages travel as decimal strings ("9.45", "-10").

// PriceLineRequest is one product/quantity pair to price
type PriceLineRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity"`
}

// QuoteRequest asks for current prices of a basket for a firm
type QuoteRequest struct {
	FirmID uint               `json:"firm_id" validate:"required,gt=0"`
	AsOf   *string            `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Lines  []PriceLineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

// PriceBreakdown explains how a unit price was reached
type PriceBreakdown struct {
	BasePrice      string  `json:"base_price"`
	ProfilePercent *string `json:"profile_percent,omitempty"`
	RuleID         *uint   `json:"rule_id,omitempty"`
	RuleName       *string `json:"rule_name,omitempty"`
	RulePercent    *string `json:"rule_percent,omitempty"`
	OverrideID     *uint   `json:"override_id,omitempty"`
}

// LineError reports why a single line could not be priced
type LineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PricedLine is the outcome of pricing one requested line
type PricedLine struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice string          `json:"unit_price,omitempty"`
	LineTotal string          `json:"line_total,omitempty"`
	Source    string          `json:"source,omitempty"`
	Clamped   bool            `json:"clamped,omitempty"`
	Breakdown *PriceBreakdown `json:"breakdown,omitempty"`
	Error     *LineError      `json:"error,omitempty"`
}

// Totals are the order-level sums of successfully priced lines
type Totals struct {
	Net     string `json:"net"`
	VATRate string `json:"vat_rate"`
	VAT     string `json:"vat"`
	Gross   string `json:"gross"`
}

type QuoteResponse struct {
	Message    string       `json:"message"`
	FirmID     uint         `json:"firm_id"`
	Channel    string       `json:"channel"`
	AsOf       string       `json:"as_of"`
	Lines      []PricedLine `json:"lines"`
	Totals     Totals       `json:"totals"`
	QuoteToken string       `json:"quote_token,omitempty"`
	ExpiresAt  string       `json:"expires_at,omitempty"`
}

// PriceListExportRequest selects the firm, language and date of a price list
type PriceListExportRequest struct {
	FirmID uint    `json:"firm_id" validate:"required,gt=0"`
	Locale string  `json:"locale" validate:"omitempty,oneof=de tr en"`
	AsOf   *string `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PriceListExport is a rendered workbook
type PriceListExport struct {
	FileName string
	Content  []byte
	Rows     int
}
