// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/amirphl/pastane-b2b/app/dto"
	businessflow "github.com/amirphl/pastane-b2b/business_flow"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const defaultRequestTimeout = 30 * time.Second

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func bindAndValidate(c fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	return validate(c, v, req)
}

func validate(c fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := v.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return false, errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		messages := make([]string, 0, len(fieldErrs))
		for _, e := range fieldErrs {
			messages = append(messages, getValidationErrorMessage(e))
		}
		return false, errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", messages)
	}
	return true, nil
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "numeric":
		return err.Field() + " must be a decimal number"
	case "datetime":
		return err.Field() + " must be a date in format " + err.Param()
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	case "dive":
		return err.Field() + " contains an invalid item"
	default:
		return err.Field() + " is invalid"
	}
}

// errorStatuses maps flow sentinels to HTTP status codes. Anything unlisted is a 500.
var errorStatuses = []struct {
	err    error
	status int
}{
	{businessflow.ErrFirmNotFound, fiber.StatusNotFound},
	{businessflow.ErrProductNotFound, fiber.StatusNotFound},
	{businessflow.ErrCategoryNotFound, fiber.StatusNotFound},
	{businessflow.ErrProfileNotFound, fiber.StatusNotFound},
	{businessflow.ErrPricingRuleNotFound, fiber.StatusNotFound},
	{businessflow.ErrPriceOverrideNotFound, fiber.StatusNotFound},
	{businessflow.ErrOrderNotFound, fiber.StatusNotFound},
	{businessflow.ErrFirmInactive, fiber.StatusForbidden},
	{businessflow.ErrOverrideWindowOverlap, fiber.StatusConflict},
	{businessflow.ErrProfileNameAlreadyTaken, fiber.StatusConflict},
	{businessflow.ErrInvalidStatusTransition, fiber.StatusConflict},
	{businessflow.ErrDuplicateOrderSubmission, fiber.StatusConflict},
	{businessflow.ErrQuoteAlreadyUsed, fiber.StatusConflict},
	{businessflow.ErrQuoteStale, fiber.StatusConflict},
	{businessflow.ErrAllOrderLinesFailed, fiber.StatusUnprocessableEntity},
	{businessflow.ErrPriceUnavailable, fiber.StatusUnprocessableEntity},
	{businessflow.ErrInvalidChannel, fiber.StatusBadRequest},
	{businessflow.ErrInvalidRuleScope, fiber.StatusBadRequest},
	{businessflow.ErrInvalidPercentage, fiber.StatusBadRequest},
	{businessflow.ErrInvalidNetPrice, fiber.StatusBadRequest},
	{businessflow.ErrStartDateAfterEndDate, fiber.StatusBadRequest},
	{businessflow.ErrInvalidDate, fiber.StatusBadRequest},
	{businessflow.ErrOverrideChannelInvalid, fiber.StatusBadRequest},
	{businessflow.ErrOrderLinesRequired, fiber.StatusBadRequest},
	{businessflow.ErrInvalidOrderStatus, fiber.StatusBadRequest},
	{businessflow.ErrInvalidQuantity, fiber.StatusBadRequest},
	{businessflow.ErrInvalidQuoteToken, fiber.StatusBadRequest},
	{businessflow.ErrQuoteFirmMismatch, fiber.StatusBadRequest},
	{businessflow.ErrQuoteWithLines, fiber.StatusBadRequest},
	{businessflow.ErrQuoteTokenDisabled, fiber.StatusBadRequest},
	{businessflow.ErrProfileNameRequired, fiber.StatusBadRequest},
	{businessflow.ErrCacheNotAvailable, fiber.StatusServiceUnavailable},
}

// flowErrorResponse writes the response for an error returned by a business flow.
// Known failures keep the flow's code and message; the rest are logged and hidden.
func flowErrorResponse(c fiber.Ctx, op string, err error) error {
	var be *businessflow.BusinessError
	if !errors.As(err, &be) {
		log.Printf("%s failed: %v", op, err)
		return errorResponse(c, fiber.StatusInternalServerError, op+" failed", "INTERNAL_ERROR", nil)
	}

	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			var details any
			var linesErr *businessflow.LinesFailedError
			if errors.As(err, &linesErr) {
				details = linesErr.Lines
			}
			return errorResponse(c, m.status, be.Message, be.Code, details)
		}
	}

	log.Printf("%s failed: %v", op, err)
	return errorResponse(c, fiber.StatusInternalServerError, be.Message, be.Code, nil)
}

func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, defaultRequestTimeout)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}

// releaseRequestContext cancels the timeout stored by createRequestContext
func releaseRequestContext(ctx context.Context) {
	if cancel, ok := ctx.Value(utils.CancelFuncKey).(context.CancelFunc); ok {
		cancel()
	}
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	return metadata
}

func parseUintParam(c fiber.Ctx, name string) (uint, bool) {
	raw := c.Params(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func parseOptionalUintQuery(c fiber.Ctx, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, false
	}
	return utils.ToPtr(uint(v)), true
}
