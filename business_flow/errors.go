package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Catalog errors
	ErrProductNotFound  = errors.New("product not found")
	ErrPriceUnavailable = errors.New("price unavailable for channel")
	ErrCategoryNotFound = errors.New("category not found")

	// Firm and profile errors
	ErrFirmNotFound            = errors.New("firm not found")
	ErrFirmInactive            = errors.New("firm is inactive")
	ErrInvalidChannel          = errors.New("invalid sales channel")
	ErrProfileNotFound         = errors.New("customer profile not found")
	ErrProfileNameAlreadyTaken = errors.New("customer profile name already exists")
	ErrProfileNameRequired     = errors.New("customer profile name is required")

	// Rule errors
	ErrInvalidRuleScope    = errors.New("invalid rule scope")
	ErrPricingRuleNotFound = errors.New("pricing rule not found")
	ErrInvalidPercentage   = errors.New("invalid percentage")

	// Override errors
	ErrPriceOverrideNotFound  = errors.New("price override not found")
	ErrOverrideWindowOverlap  = errors.New("override validity window overlaps an existing override")
	ErrInvalidNetPrice        = errors.New("net price must not be negative")
	ErrStartDateAfterEndDate  = errors.New("start date cannot be after end date")
	ErrInvalidDate            = errors.New("invalid date")
	ErrOverrideChannelInvalid = errors.New("override channel does not match firm type")

	// Order errors
	ErrOrderNotFound            = errors.New("order not found")
	ErrOrderLinesRequired       = errors.New("order requires at least one line")
	ErrAllOrderLinesFailed      = errors.New("no order line could be priced")
	ErrInvalidOrderStatus       = errors.New("invalid order status")
	ErrInvalidStatusTransition  = errors.New("order status transition not allowed")
	ErrDuplicateOrderSubmission = errors.New("order submission already in progress")
	ErrInvalidQuantity          = errors.New("quantity must be at least 1")

	// Quote errors
	ErrInvalidQuoteToken  = errors.New("invalid quote token")
	ErrQuoteFirmMismatch  = errors.New("quote was issued for another firm")
	ErrQuoteWithLines     = errors.New("lines must be empty when a quote token is given")
	ErrCacheNotAvailable  = errors.New("cache not available")
	ErrQuoteTokenDisabled = errors.New("quote tokens are not configured")
	ErrQuoteStale         = errors.New("quote was priced for another day")
	ErrQuoteAlreadyUsed   = errors.New("quote has already been ordered")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsPriceUnavailable(err error) bool {
	return errors.Is(err, ErrPriceUnavailable)
}

func IsFirmNotFound(err error) bool {
	return errors.Is(err, ErrFirmNotFound)
}

func IsInvalidRuleScope(err error) bool {
	return errors.Is(err, ErrInvalidRuleScope)
}

func IsOverrideWindowOverlap(err error) bool {
	return errors.Is(err, ErrOverrideWindowOverlap)
}

func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

func IsAllOrderLinesFailed(err error) bool {
	return errors.Is(err, ErrAllOrderLinesFailed)
}

func IsDuplicateOrderSubmission(err error) bool {
	return errors.Is(err, ErrDuplicateOrderSubmission)
}

func IsInvalidQuoteToken(err error) bool {
	return errors.Is(err, ErrInvalidQuoteToken)
}

// ErrorCode returns the BusinessError code carried by err, or "" if none
func ErrorCode(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
