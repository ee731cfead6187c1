package handlers

import (
	"github.com/amirphl/pastane-b2b/app/dto"
	businessflow "github.com/amirphl/pastane-b2b/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminPricingHandlerInterface defines admin endpoints for pricing configuration
type AdminPricingHandlerInterface interface {
	CreatePricingRule(c fiber.Ctx) error
	ListPricingRules(c fiber.Ctx) error
	DeletePricingRule(c fiber.Ctx) error
	CreatePriceOverride(c fiber.Ctx) error
	ListPriceOverrides(c fiber.Ctx) error
	DeletePriceOverride(c fiber.Ctx) error
	CreateCustomerProfile(c fiber.Ctx) error
	ListCustomerProfiles(c fiber.Ctx) error
	AssignFirmProfile(c fiber.Ctx) error
}

// AdminPricingHandler implements admin endpoints for rules, overrides and profiles
type AdminPricingHandler struct {
	ruleFlow     businessflow.PricingRuleFlow
	overrideFlow businessflow.PriceOverrideFlow
	profileFlow  businessflow.CustomerProfileFlow
	validator    *validator.Validate
}

func NewAdminPricingHandler(
	ruleFlow businessflow.PricingRuleFlow,
	overrideFlow businessflow.PriceOverrideFlow,
	profileFlow businessflow.CustomerProfileFlow,
) AdminPricingHandlerInterface {
	return &AdminPricingHandler{
		ruleFlow:     ruleFlow,
		overrideFlow: overrideFlow,
		profileFlow:  profileFlow,
		validator:    validator.New(),
	}
}

// CreatePricingRule creates a percentage pricing rule
// @Summary Create Pricing Rule (Admin)
// @Description Rules are immutable; change one by deleting it and creating a replacement
// @Tags Admin Pricing
// @Accept json
// @Produce json
// @Param request body dto.AdminCreatePricingRuleRequest true "Rule payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreatePricingRuleResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or inconsistent scope"
// @Failure 404 {object} dto.APIResponse "Target not found"
// @Router /api/v1/admin/pricing-rules [post]
func (h *AdminPricingHandler) CreatePricingRule(c fiber.Ctx) error {
	var req dto.AdminCreatePricingRuleRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/admin/pricing-rules")
	defer releaseRequestContext(ctx)

	res, err := h.ruleFlow.AdminCreatePricingRule(ctx, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Create pricing rule", err)
	}
	return successResponse(c, fiber.StatusCreated, res.Message, res)
}

// ListPricingRules lists rules in evaluation order
// @Summary List Pricing Rules (Admin)
// @Tags Admin Pricing
// @Produce json
// @Param channel query string false "musteri or alt_bayi"
// @Param firm_id query int false "Only rules bound to this firm"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListPricingRulesResponse}
// @Router /api/v1/admin/pricing-rules [get]
func (h *AdminPricingHandler) ListPricingRules(c fiber.Ctx) error {
	firmID, ok := parseOptionalUintQuery(c, "firm_id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid firm id", "INVALID_FIRM_ID", nil)
	}

	ctx := createRequestContext(c, "/api/v1/admin/pricing-rules")
	defer releaseRequestContext(ctx)

	res, err := h.ruleFlow.AdminListPricingRules(ctx, c.Query("channel"), firmID)
	if err != nil {
		return flowErrorResponse(c, "List pricing rules", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// DeletePricingRule removes a rule
// @Summary Delete Pricing Rule (Admin)
// @Tags Admin Pricing
// @Produce json
// @Param uuid path string true "Rule UUID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminDeleteResponse}
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/admin/pricing-rules/{uuid} [delete]
func (h *AdminPricingHandler) DeletePricingRule(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/admin/pricing-rules/:uuid")
	defer releaseRequestContext(ctx)

	res, err := h.ruleFlow.AdminDeletePricingRule(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Delete pricing rule", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// CreatePriceOverride pins a net price for a firm
// @Summary Create Price Override (Admin)
// @Description Windows of the same product, firm and channel may not overlap
// @Tags Admin Pricing
// @Accept json
// @Produce json
// @Param request body dto.AdminCreatePriceOverrideRequest true "Override payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreatePriceOverrideResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Product or firm not found"
// @Failure 409 {object} dto.APIResponse "Overlapping window"
// @Router /api/v1/admin/price-overrides [post]
func (h *AdminPricingHandler) CreatePriceOverride(c fiber.Ctx) error {
	var req dto.AdminCreatePriceOverrideRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/admin/price-overrides")
	defer releaseRequestContext(ctx)

	res, err := h.overrideFlow.AdminCreatePriceOverride(ctx, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Create price override", err)
	}
	return successResponse(c, fiber.StatusCreated, res.Message, res)
}

// ListPriceOverrides lists a firm's overrides
// @Summary List Price Overrides (Admin)
// @Tags Admin Pricing
// @Produce json
// @Param firm_id query int true "Firm ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListPriceOverridesResponse}
// @Router /api/v1/admin/price-overrides [get]
func (h *AdminPricingHandler) ListPriceOverrides(c fiber.Ctx) error {
	firmID, ok := parseOptionalUintQuery(c, "firm_id")
	if !ok || firmID == nil {
		return errorResponse(c, fiber.StatusBadRequest, "firm_id is required", "INVALID_FIRM_ID", nil)
	}

	ctx := createRequestContext(c, "/api/v1/admin/price-overrides")
	defer releaseRequestContext(ctx)

	res, err := h.overrideFlow.AdminListPriceOverrides(ctx, *firmID)
	if err != nil {
		return flowErrorResponse(c, "List price overrides", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// DeletePriceOverride removes an override
// @Summary Delete Price Override (Admin)
// @Tags Admin Pricing
// @Produce json
// @Param uuid path string true "Override UUID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminDeleteResponse}
// @Failure 404 {object} dto.APIResponse "Override not found"
// @Router /api/v1/admin/price-overrides/{uuid} [delete]
func (h *AdminPricingHandler) DeletePriceOverride(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/admin/price-overrides/:uuid")
	defer releaseRequestContext(ctx)

	res, err := h.overrideFlow.AdminDeletePriceOverride(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Delete price override", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// CreateCustomerProfile creates a discount profile
// @Summary Create Customer Profile (Admin)
// @Tags Admin Pricing
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateCustomerProfileRequest true "Profile payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreateCustomerProfileResponse}
// @Failure 409 {object} dto.APIResponse "Name taken"
// @Router /api/v1/admin/customer-profiles [post]
func (h *AdminPricingHandler) CreateCustomerProfile(c fiber.Ctx) error {
	var req dto.AdminCreateCustomerProfileRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/admin/customer-profiles")
	defer releaseRequestContext(ctx)

	res, err := h.profileFlow.AdminCreateCustomerProfile(ctx, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Create customer profile", err)
	}
	return successResponse(c, fiber.StatusCreated, res.Message, res)
}

// ListCustomerProfiles lists all profiles
// @Summary List Customer Profiles (Admin)
// @Tags Admin Pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminListCustomerProfilesResponse}
// @Router /api/v1/admin/customer-profiles [get]
func (h *AdminPricingHandler) ListCustomerProfiles(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/admin/customer-profiles")
	defer releaseRequestContext(ctx)

	res, err := h.profileFlow.AdminListCustomerProfiles(ctx)
	if err != nil {
		return flowErrorResponse(c, "List customer profiles", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}

// AssignFirmProfile replaces a firm's profile; a null profile_id unassigns it
// @Summary Assign Firm Profile (Admin)
// @Tags Admin Pricing
// @Accept json
// @Produce json
// @Param firm_id path int true "Firm ID"
// @Param request body dto.AdminAssignFirmProfileRequest true "Profile to assign"
// @Success 200 {object} dto.APIResponse{data=dto.AdminAssignFirmProfileResponse}
// @Failure 404 {object} dto.APIResponse "Firm or profile not found"
// @Router /api/v1/admin/firms/{firm_id}/profile [put]
func (h *AdminPricingHandler) AssignFirmProfile(c fiber.Ctx) error {
	firmID, ok := parseUintParam(c, "firm_id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid firm id", "INVALID_FIRM_ID", nil)
	}

	var req dto.AdminAssignFirmProfileRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx := createRequestContext(c, "/api/v1/admin/firms/:firm_id/profile")
	defer releaseRequestContext(ctx)

	res, err := h.profileFlow.AdminAssignFirmProfile(ctx, firmID, &req, clientMetadata(c))
	if err != nil {
		return flowErrorResponse(c, "Assign firm profile", err)
	}
	return successResponse(c, fiber.StatusOK, res.Message, res)
}
