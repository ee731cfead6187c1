package handlers

import (
	"github.com/amirphl/pastane-b2b/app/dto"
	businessflow "github.com/amirphl/pastane-b2b/business_flow"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PricingHandlerInterface defines price quote and price list endpoints
type PricingHandlerInterface interface {
	Quote(c fiber.Ctx) error
	ExportPriceList(c fiber.Ctx) error
}

// PricingHandler serves read-only pricing endpoints
type PricingHandler struct {
	quoteFlow     businessflow.QuoteFlow
	priceListFlow businessflow.PriceListFlow
	validator     *validator.Validate
}

func NewPricingHandler(quoteFlow businessflow.QuoteFlow, priceListFlow businessflow.PriceListFlow) PricingHandlerInterface {
	return &PricingHandler{
		quoteFlow:     quoteFlow,
		priceListFlow: priceListFlow,
		validator:     validator.New(),
	}
}

// Quote prices a basket for a firm without creating an order
// @Summary Price Quote
// @Description Resolve net unit prices, line totals and VAT totals for a firm. Lines that cannot be priced carry an error and are left out of the totals.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Basket to price"
// @Success 200 {object} dto.APIResponse{data=dto.QuoteResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Firm inactive"
// @Failure 404 {object} dto.APIResponse "Firm not found"
// @Failure 500 {object} dto.APIResponse "Pricing failed"
// @Router /api/v1/pricing/quote [post]
func (h *PricingHandler) Quote(c fiber.Ctx) error {
	var req dto.QuoteRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/pricing/quote")
	defer releaseRequestContext(ctx)

	res, err := h.quoteFlow.Quote(ctx, &req)
	if err != nil {
		return flowErrorResponse(c, "Quote", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// ExportPriceList downloads the firm's personal price list
// @Summary Firm Price List
// @Description Excel workbook with every active product priced for the firm on the given date
// @Tags Pricing
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param firm_id path int true "Firm ID"
// @Param locale query string false "Name language (de, tr, en)"
// @Param as_of query string false "Pricing date YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Firm not found"
// @Failure 500 {object} dto.APIResponse "Export failed"
// @Router /api/v1/pricing/firms/{firm_id}/price-list.xlsx [get]
func (h *PricingHandler) ExportPriceList(c fiber.Ctx) error {
	firmID, ok := parseUintParam(c, "firm_id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid firm id", "INVALID_FIRM_ID", nil)
	}

	req := dto.PriceListExportRequest{FirmID: firmID, Locale: c.Query("locale")}
	if v := c.Query("as_of"); v != "" {
		req.AsOf = utils.ToPtr(v)
	}
	if ok, err := validate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContextWithTimeout(c, "/api/v1/pricing/firms/:firm_id/price-list.xlsx", 2*defaultRequestTimeout)
	defer releaseRequestContext(ctx)

	export, err := h.priceListFlow.ExportFirmPriceList(ctx, &req)
	if err != nil {
		return flowErrorResponse(c, "Price list export", err)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+export.FileName)
	return c.Send(export.Content)
}
