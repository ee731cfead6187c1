package dto

// CreateOrderRequest places an order. With a quote token the lines and prices
// come from the token and Lines must be empty.
type CreateOrderRequest struct {
	FirmID         uint               `json:"firm_id" validate:"required,gt=0"`
	IdempotencyKey string             `json:"idempotency_key" validate:"required,min=8,max=128"`
	QuoteToken     *string            `json:"quote_token,omitempty" validate:"omitempty,min=16"`
	Notes          *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Lines          []PriceLineRequest `json:"lines,omitempty" validate:"omitempty,max=200,dive"`
}

type OrderLineDTO struct {
	ProductID     uint   `json:"product_id"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	LineTotal     string `json:"line_total"`
	PriceSource   string `json:"price_source"`
	AppliedRuleID *uint  `json:"applied_rule_id,omitempty"`
}

type OrderDTO struct {
	UUID       string         `json:"uuid"`
	FirmID     uint           `json:"firm_id"`
	Channel    string         `json:"channel"`
	OrderDate  string         `json:"order_date"`
	Status     string         `json:"status"`
	NetTotal   string         `json:"net_total"`
	VATRate    string         `json:"vat_rate"`
	VATTotal   string         `json:"vat_total"`
	GrossTotal string         `json:"gross_total"`
	Notes      *string        `json:"notes,omitempty"`
	Lines      []OrderLineDTO `json:"lines"`
	CreatedAt  string         `json:"created_at"`
}

type CreateOrderResponse struct {
	Message     string       `json:"message"`
	Order       OrderDTO     `json:"order"`
	FailedLines []PricedLine `json:"failed_lines,omitempty"`
}

type GetOrderResponse struct {
	Message string   `json:"message"`
	Order   OrderDTO `json:"order"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type UpdateOrderStatusResponse struct {
	Message        string `json:"message"`
	UUID           string `json:"uuid"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}
