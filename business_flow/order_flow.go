package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/app/services"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderFlow creates orders with frozen prices and moves them through their lifecycle
type OrderFlow interface {
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest, metadata *ClientMetadata) (*dto.CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderUUID string) (*dto.GetOrderResponse, error)
	UpdateStatus(ctx context.Context, orderUUID string, req *dto.UpdateOrderStatusRequest, metadata *ClientMetadata) (*dto.UpdateOrderStatusResponse, error)
}

type OrderFlowImpl struct {
	firmRepo  repository.FirmRepository
	orderRepo repository.OrderRepository
	auditRepo repository.AuditLogRepository
	engine    PricingEngine
	quotes    services.QuoteTokenService
	rc        *redis.Client
	db        *gorm.DB
	vatRate   decimal.Decimal
	lockTTL   time.Duration
	keyPrefix string
	logger    *log.Logger
}

// NewOrderFlow constructs an OrderFlow. quotes and rc may be nil.
func NewOrderFlow(
	firmRepo repository.FirmRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditLogRepository,
	engine PricingEngine,
	quotes services.QuoteTokenService,
	rc *redis.Client,
	db *gorm.DB,
	vatRate decimal.Decimal,
	lockTTL time.Duration,
	keyPrefix string,
	logger *log.Logger,
) OrderFlow {
	if lockTTL <= 0 {
		lockTTL = utils.DefaultOrderLockTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OrderFlowImpl{
		firmRepo:  firmRepo,
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		engine:    engine,
		quotes:    quotes,
		rc:        rc,
		db:        db,
		vatRate:   vatRate,
		lockTTL:   lockTTL,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// CreateOrder prices the lines (or takes them from a verified quote), drops
// lines that could not be priced, and persists the order with its lines in
// one transaction. It fails only when no line survives.
func (f *OrderFlowImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest, metadata *ClientMetadata) (*dto.CreateOrderResponse, error) {
	firm, err := getActiveFirm(ctx, f.firmRepo, req.FirmID)
	if err != nil {
		return nil, NewBusinessError("CREATE_ORDER_FIRM_INVALID", "Firm cannot place orders", err)
	}

	lockKey := fmt.Sprintf("%s%s%d:%s", f.keyPrefix, utils.OrderLockKeyPrefix, firm.ID, req.IdempotencyKey)
	release, err := f.acquireSubmissionLock(ctx, lockKey)
	if err != nil {
		ordersCreatedTotal.WithLabelValues("duplicate").Inc()
		return nil, NewBusinessError("CREATE_ORDER_DUPLICATE", "This order is already being submitted", err)
	}
	succeeded := false
	defer func() { release(succeeded) }()

	orderDate := utils.UTCToday()
	var (
		lines   []models.OrderLine
		failed  []dto.PricedLine
		vatRate = f.vatRate
		quoteID *string
	)

	if req.QuoteToken != nil && *req.QuoteToken != "" {
		var claims *services.QuoteClaims
		claims, err = f.verifyQuote(ctx, firm, *req.QuoteToken, req.Lines, orderDate)
		if err == nil {
			quoteID = &claims.ID
			lines, vatRate, err = linesFromQuote(claims)
		}
		if err != nil {
			f.auditFailure(ctx, firm, req, err, metadata)
			return nil, NewBusinessError("CREATE_ORDER_QUOTE_INVALID", "Quote token rejected", err)
		}
	} else {
		if len(req.Lines) == 0 {
			return nil, NewBusinessError("CREATE_ORDER_LINES_REQUIRED", "At least one line is required", ErrOrderLinesRequired)
		}
		basket, err := priceBasket(ctx, f.engine, firm, req.Lines, orderDate, f.vatRate)
		if err != nil {
			return nil, NewBusinessError("CREATE_ORDER_PRICING_FAILED", "Failed to price order", err)
		}
		failed = basket.failedLines()
		for _, res := range basket.Resolved {
			lines = append(lines, orderLineFrom(res))
		}
	}

	if len(lines) == 0 {
		ordersCreatedTotal.WithLabelValues("all_lines_failed").Inc()
		f.auditFailure(ctx, firm, req, ErrAllOrderLinesFailed, metadata)
		return nil, &BusinessError{
			Code:    "CREATE_ORDER_ALL_LINES_FAILED",
			Message: "No order line could be priced",
			Err:     &LinesFailedError{Lines: failed},
		}
	}

	totalsLines := make([]TotalsLine, 0, len(lines))
	for i := range lines {
		lines[i].LineTotal = TotalsLine{UnitPrice: lines[i].UnitPrice, Quantity: lines[i].Quantity}.Total()
		totalsLines = append(totalsLines, TotalsLine{UnitPrice: lines[i].UnitPrice, Quantity: lines[i].Quantity})
	}
	totals := ComputeTotals(totalsLines, vatRate)

	order := &models.Order{
		UUID:       uuid.New(),
		FirmID:     firm.ID,
		Channel:    firm.Type,
		OrderDate:  orderDate,
		Status:     models.OrderStatusPending,
		NetTotal:   totals.Net,
		VATRate:    totals.VATRate,
		VATTotal:   totals.VAT,
		GrossTotal: totals.Gross,
		Notes:      req.Notes,
		QuoteID:    quoteID,
		Lines:      lines,
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}

	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		if err := f.orderRepo.Save(txCtx, order); err != nil {
			return err
		}
		msg := fmt.Sprintf("Order %s created with %d lines, gross %s", order.UUID, len(order.Lines), formatMoney(order.GrossTotal))
		return createAuditLog(txCtx, f.auditRepo, &firm.ID, models.AuditActionOrderCreated, msg, true, nil, metadata)
	})
	if err != nil {
		// a concurrent order from the same quote trips uk_siparisler_teklif_id
		if quoteID != nil {
			if used, existsErr := f.orderRepo.Exists(ctx, models.OrderFilter{QuoteID: quoteID}); existsErr == nil && used {
				err = ErrQuoteAlreadyUsed
			}
		}
		ordersCreatedTotal.WithLabelValues("error").Inc()
		f.auditFailure(ctx, firm, req, err, metadata)
		return nil, NewBusinessError("CREATE_ORDER_FAILED", "Failed to create order", err)
	}

	succeeded = true
	ordersCreatedTotal.WithLabelValues("created").Inc()

	return &dto.CreateOrderResponse{
		Message:     "Order created successfully",
		Order:       toOrderDTO(order),
		FailedLines: failed,
	}, nil
}

// LinesFailedError carries the per-line reasons when a whole order fails
type LinesFailedError struct {
	Lines []dto.PricedLine
}

func (e *LinesFailedError) Error() string {
	return fmt.Sprintf("%s (%d lines)", ErrAllOrderLinesFailed.Error(), len(e.Lines))
}

func (e *LinesFailedError) Unwrap() error {
	return ErrAllOrderLinesFailed
}

// acquireSubmissionLock claims the idempotency key. The returned release keeps
// the key until it expires on success so a resubmission is refused, and frees
// it on failure so the client can retry.
func (f *OrderFlowImpl) acquireSubmissionLock(ctx context.Context, key string) (func(bool), error) {
	if f.rc == nil {
		return func(bool) {}, nil
	}

	ok, err := f.rc.SetNX(ctx, key, "pending", f.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheNotAvailable, err)
	}
	if !ok {
		return nil, ErrDuplicateOrderSubmission
	}

	return func(succeeded bool) {
		// the request context may already be cancelled here
		bg := context.WithoutCancel(ctx)
		if succeeded {
			if err := f.rc.Set(bg, key, "done", f.lockTTL).Err(); err != nil {
				f.logger.Printf("order lock %s: mark done failed: %v", key, err)
			}
			return
		}
		if err := f.rc.Del(bg, key).Err(); err != nil {
			f.logger.Printf("order lock %s: release failed: %v", key, err)
		}
	}, nil
}

// verifyQuote accepts a token only for its own firm, on the day it was priced,
// and only once.
func (f *OrderFlowImpl) verifyQuote(ctx context.Context, firm *models.Firm, token string, reqLines []dto.PriceLineRequest, orderDate time.Time) (*services.QuoteClaims, error) {
	if f.quotes == nil {
		return nil, ErrQuoteTokenDisabled
	}
	if len(reqLines) > 0 {
		return nil, ErrQuoteWithLines
	}

	claims, err := f.quotes.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuoteToken, err)
	}
	if claims.FirmID != firm.ID || models.SalesChannel(claims.Channel) != firm.Type {
		return nil, ErrQuoteFirmMismatch
	}
	if claims.ID == "" {
		return nil, ErrInvalidQuoteToken
	}
	if claims.AsOf != orderDate.Format(utils.DateLayout) {
		return nil, fmt.Errorf("%w: quoted %s, ordering %s", ErrQuoteStale, claims.AsOf, orderDate.Format(utils.DateLayout))
	}

	used, err := f.orderRepo.Exists(ctx, models.OrderFilter{QuoteID: &claims.ID})
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrQuoteAlreadyUsed
	}
	return claims, nil
}

func linesFromQuote(claims *services.QuoteClaims) ([]models.OrderLine, decimal.Decimal, error) {
	vatRate, err := decimal.NewFromString(claims.VATRate)
	if err != nil {
		return nil, decimal.Zero, ErrInvalidQuoteToken
	}

	lines := make([]models.OrderLine, 0, len(claims.Lines))
	for _, ql := range claims.Lines {
		price, err := decimal.NewFromString(ql.UnitPrice)
		if err != nil || price.IsNegative() || ql.Quantity < 1 || !models.PriceSource(ql.Source).IsValid() {
			return nil, decimal.Zero, ErrInvalidQuoteToken
		}
		lines = append(lines, models.OrderLine{
			ProductID:     ql.ProductID,
			Quantity:      ql.Quantity,
			UnitPrice:     price,
			PriceSource:   models.PriceSource(ql.Source),
			AppliedRuleID: ql.AppliedRuleID,
		})
	}
	return lines, vatRate, nil
}

func (f *OrderFlowImpl) auditFailure(ctx context.Context, firm *models.Firm, req *dto.CreateOrderRequest, cause error, metadata *ClientMetadata) {
	errMsg := fmt.Sprintf("Create order failed for firm %d (key %s): %s", firm.ID, req.IdempotencyKey, cause.Error())
	_ = createAuditLog(ctx, f.auditRepo, &firm.ID, models.AuditActionOrderCreateFailed, errMsg, false, &errMsg, metadata)
}

// GetOrder returns an order and its lines
func (f *OrderFlowImpl) GetOrder(ctx context.Context, orderUUID string) (*dto.GetOrderResponse, error) {
	id, err := uuid.Parse(orderUUID)
	if err != nil {
		return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", ErrOrderNotFound)
	}

	order, err := f.orderRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("GET_ORDER_FAILED", "Failed to load order", err)
	}
	if order == nil {
		return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", ErrOrderNotFound)
	}

	return &dto.GetOrderResponse{
		Message: "Order retrieved successfully",
		Order:   toOrderDTO(order),
	}, nil
}

// UpdateStatus applies one state machine transition; prices are never touched
func (f *OrderFlowImpl) UpdateStatus(ctx context.Context, orderUUID string, req *dto.UpdateOrderStatusRequest, metadata *ClientMetadata) (*dto.UpdateOrderStatusResponse, error) {
	id, err := uuid.Parse(orderUUID)
	if err != nil {
		return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", ErrOrderNotFound)
	}

	next := models.OrderStatus(req.Status)
	if !next.IsValid() {
		return nil, NewBusinessError("ORDER_STATUS_INVALID", "Unknown order status", ErrInvalidOrderStatus)
	}

	var (
		order    *models.Order
		previous models.OrderStatus
	)
	err = withTx(ctx, f.db, func(txCtx context.Context) error {
		var err error
		order, err = f.orderRepo.ByUUIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		previous = order.Status
		if !previous.CanTransitionTo(next) {
			return ErrInvalidStatusTransition
		}
		if err := f.orderRepo.UpdateStatus(txCtx, order.ID, next, utils.UTCNow()); err != nil {
			return err
		}
		msg := fmt.Sprintf("Order %s status %s -> %s", order.UUID, previous, next)
		return createAuditLog(txCtx, f.auditRepo, &order.FirmID, models.AuditActionOrderStatusChanged, msg, true, nil, metadata)
	})
	if err != nil {
		if order != nil {
			errMsg := fmt.Sprintf("Order %s status change to %s failed: %s", order.UUID, next, err.Error())
			_ = createAuditLog(ctx, f.auditRepo, &order.FirmID, models.AuditActionOrderStatusChangeFailed, errMsg, false, &errMsg, metadata)
		}
		switch {
		case errors.Is(err, ErrOrderNotFound):
			return nil, NewBusinessError("ORDER_NOT_FOUND", "Order not found", err)
		case errors.Is(err, ErrInvalidStatusTransition):
			return nil, NewBusinessErrorf("ORDER_STATUS_TRANSITION_NOT_ALLOWED", "Cannot move order from %s to %s", err, previous, next)
		}
		return nil, NewBusinessError("ORDER_STATUS_UPDATE_FAILED", "Failed to update order status", err)
	}

	return &dto.UpdateOrderStatusResponse{
		Message:        "Order status updated successfully",
		UUID:           order.UUID.String(),
		PreviousStatus: string(previous),
		Status:         string(next),
	}, nil
}

func orderLineFrom(res *PriceResolution) models.OrderLine {
	return models.OrderLine{
		ProductID:     res.ProductID,
		Quantity:      res.Quantity,
		UnitPrice:     res.UnitPrice,
		LineTotal:     res.LineTotal(),
		PriceSource:   res.Source,
		AppliedRuleID: res.AppliedRuleID(),
	}
}

func toOrderDTO(o *models.Order) dto.OrderDTO {
	lines := make([]dto.OrderLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineDTO{
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     formatMoney(l.UnitPrice),
			LineTotal:     formatMoney(l.LineTotal),
			PriceSource:   string(l.PriceSource),
			AppliedRuleID: l.AppliedRuleID,
		})
	}
	return dto.OrderDTO{
		UUID:       o.UUID.String(),
		FirmID:     o.FirmID,
		Channel:    string(o.Channel),
		OrderDate:  o.OrderDate.Format(utils.DateLayout),
		Status:     string(o.Status),
		NetTotal:   formatMoney(o.NetTotal),
		VATRate:    formatPercent(o.VATRate),
		VATTotal:   formatMoney(o.VATTotal),
		GrossTotal: formatMoney(o.GrossTotal),
		Notes:      o.Notes,
		Lines:      lines,
		CreatedAt:  formatTime(o.CreatedAt),
	}
}
