package handlers

import (
	"github.com/amirphl/pastane-b2b/app/dto"
	businessflow "github.com/amirphl/pastane-b2b/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// OrderHandlerInterface defines order endpoints
type OrderHandlerInterface interface {
	CreateOrder(c fiber.Ctx) error
	GetOrder(c fiber.Ctx) error
	UpdateOrderStatus(c fiber.Ctx) error
}

// OrderHandler handles order placement and lifecycle requests
type OrderHandler struct {
	orderFlow businessflow.OrderFlow
	validator *validator.Validate
}

func NewOrderHandler(orderFlow businessflow.OrderFlow) OrderHandlerInterface {
	return &OrderHandler{
		orderFlow: orderFlow,
		validator: validator.New(),
	}
}

// CreateOrder places an order with prices frozen at submission
// @Summary Create Order
// @Description Price the lines (or take them from a quote token) and persist the order. Lines that cannot be priced are reported and skipped; the order fails when none can be priced.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Order to place"
// @Success 201 {object} dto.APIResponse{data=dto.CreateOrderResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or invalid quote token"
// @Failure 404 {object} dto.APIResponse "Firm not found"
// @Failure 409 {object} dto.APIResponse "Duplicate submission"
// @Failure 422 {object} dto.APIResponse "No line could be priced"
// @Failure 500 {object} dto.APIResponse "Order creation failed"
// @Router /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/orders")
	defer releaseRequestContext(ctx)

	res, err := h.orderFlow.CreateOrder(ctx, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Create order", err)
	}
	return successResponse(c, fiber.StatusCreated, res.Message, res)
}

// GetOrder returns an order with its lines
// @Summary Get Order
// @Tags Orders
// @Produce json
// @Param uuid path string true "Order UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetOrderResponse}
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Router /api/v1/orders/{uuid} [get]
func (h *OrderHandler) GetOrder(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/orders/:uuid")
	defer releaseRequestContext(ctx)

	res, err := h.orderFlow.GetOrder(ctx, c.Params("uuid"))
	if err != nil {
		return flowErrorResponse(c, "Get order", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// UpdateOrderStatus moves an order one step through its lifecycle
// @Summary Update Order Status
// @Description Allowed: Beklemede -> Hazırlanıyor -> Yola Çıktı -> Teslim Edildi, and any non-final status -> İptal Edildi
// @Tags Orders
// @Accept json
// @Produce json
// @Param uuid path string true "Order UUID"
// @Param request body dto.UpdateOrderStatusRequest true "Next status"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateOrderStatusResponse}
// @Failure 400 {object} dto.APIResponse "Unknown status"
// @Failure 404 {object} dto.APIResponse "Order not found"
// @Failure 409 {object} dto.APIResponse "Transition not allowed"
// @Router /api/v1/orders/{uuid}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c fiber.Ctx) error {
	var req dto.UpdateOrderStatusRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/orders/:uuid/status")
	defer releaseRequestContext(ctx)

	res, err := h.orderFlow.UpdateStatus(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Update order status", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}
