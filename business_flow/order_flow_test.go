package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/app/services"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	*engineFixture
	firmRepo  *fakeFirmRepo
	orderRepo *fakeOrderRepo
	auditRepo *fakeAuditRepo
	quotes    services.QuoteTokenService
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := bakeryFixture()
	f.products[2] = newTestProduct(2, 20, "", "5.00")
	return &orderFixture{
		engineFixture: f,
		firmRepo:      newFakeFirmRepo(f.firms),
		orderRepo:     &fakeOrderRepo{},
		auditRepo:     &fakeAuditRepo{},
		quotes:        newTestQuoteService(t),
	}
}

func (f *orderFixture) flow() OrderFlow {
	return NewOrderFlow(f.firmRepo, f.orderRepo, f.auditRepo, f.engine(), f.quotes, nil, nil, dec("7"), 0, "", f.logger())
}

func (f *orderFixture) quoteFlow() QuoteFlow {
	return NewQuoteFlow(f.firmRepo, f.engine(), f.quotes, dec("7"), f.logger())
}

func TestCreateOrder_FreezesResolvedPrices(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.flow().CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0001",
		Lines:          []dto.PriceLineRequest{{ProductID: 1, Quantity: 2}},
	}, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	assert.Equal(t, string(models.OrderStatusPending), resp.Order.Status)
	assert.Equal(t, "18.90", resp.Order.NetTotal)
	assert.Equal(t, "1.32", resp.Order.VATTotal)
	assert.Equal(t, "20.22", resp.Order.GrossTotal)
	require.Len(t, resp.Order.Lines, 1)
	assert.Equal(t, "9.45", resp.Order.Lines[0].UnitPrice)
	assert.Empty(t, resp.FailedLines)

	require.Len(t, f.orderRepo.orders, 1)
	stored := f.orderRepo.orders[0]
	assert.Equal(t, models.ChannelCustomer, stored.Channel)
	assert.True(t, stored.Lines[0].LineTotal.Equal(dec("18.90")))
	assert.Equal(t, []string{models.AuditActionOrderCreated}, f.auditRepo.actions())
}

func TestCreateOrder_DropsUnpricedLines(t *testing.T) {
	f := newOrderFixture(t)

	// product 2 has no customer price
	resp, err := f.flow().CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0002",
		Lines: []dto.PriceLineRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 1},
		},
	}, nil)
	require.NoError(t, err)

	require.Len(t, resp.Order.Lines, 1)
	require.Len(t, resp.FailedLines, 1)
	assert.Equal(t, uint(2), resp.FailedLines[0].ProductID)
	assert.Equal(t, "PRICE_UNAVAILABLE", resp.FailedLines[0].Error.Code)
}

func TestCreateOrder_AllLinesFailed(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.flow().CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0003",
		Lines: []dto.PriceLineRequest{
			{ProductID: 2, Quantity: 1},
			{ProductID: 404, Quantity: 1},
		},
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllOrderLinesFailed)

	var linesErr *LinesFailedError
	require.True(t, errors.As(err, &linesErr))
	assert.Len(t, linesErr.Lines, 2)
	assert.Empty(t, f.orderRepo.orders)
	assert.Equal(t, []string{models.AuditActionOrderCreateFailed}, f.auditRepo.actions())
}

func TestCreateOrder_SaveFailureIsAudited(t *testing.T) {
	f := newOrderFixture(t)
	f.orderRepo.saveErr = errStoreDown

	_, err := f.flow().CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0004",
		Lines:          []dto.PriceLineRequest{{ProductID: 1, Quantity: 1}},
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, []string{models.AuditActionOrderCreateFailed}, f.auditRepo.actions())
}

func TestCreateOrder_FromQuoteKeepsQuotedPrices(t *testing.T) {
	f := newOrderFixture(t)

	quote, err := f.quoteFlow().Quote(context.Background(), &dto.QuoteRequest{
		FirmID: 7,
		Lines:  []dto.PriceLineRequest{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)

	// a later rule change must not reach the quoted order
	f.rules[0].Percentage = dec("50")

	resp, err := f.flow().CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0005",
		QuoteToken:     &quote.QuoteToken,
	}, nil)
	require.NoError(t, err)

	require.Len(t, resp.Order.Lines, 1)
	assert.Equal(t, "9.45", resp.Order.Lines[0].UnitPrice)
	assert.Equal(t, "37.80", resp.Order.NetTotal)
	assert.Equal(t, quote.Totals.Gross, resp.Order.GrossTotal)
}

func TestCreateOrder_QuoteTokenRejections(t *testing.T) {
	f := newOrderFixture(t)
	f.firms[9] = newTestFirm(9, models.ChannelCustomer, "")

	quote, err := f.quoteFlow().Quote(context.Background(), &dto.QuoteRequest{
		FirmID: 7,
		Lines:  []dto.PriceLineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  *dto.CreateOrderRequest
		want error
	}{
		{
			name: "token plus lines",
			req:  &dto.CreateOrderRequest{FirmID: 7, IdempotencyKey: "order-0006", QuoteToken: &quote.QuoteToken, Lines: []dto.PriceLineRequest{{ProductID: 1, Quantity: 1}}},
			want: ErrQuoteWithLines,
		},
		{
			name: "other firm",
			req:  &dto.CreateOrderRequest{FirmID: 9, IdempotencyKey: "order-0007", QuoteToken: &quote.QuoteToken},
			want: ErrQuoteFirmMismatch,
		},
		{
			name: "tampered",
			req:  &dto.CreateOrderRequest{FirmID: 7, IdempotencyKey: "order-0008", QuoteToken: utils.ToPtr(quote.QuoteToken + "x")},
			want: ErrInvalidQuoteToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.flow().CreateOrder(context.Background(), tt.req, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.orderRepo.orders)
}

func TestCreateOrder_QuoteFromAnotherDayIsStale(t *testing.T) {
	f := newOrderFixture(t)
	// a promotion that ran only in January 2020
	f.rules = append(f.rules, &models.PricingRule{
		ID:         50,
		Name:       "Ocak kampanyası",
		Scope:      models.RuleScopeGlobal,
		Channel:    models.ChannelCustomer,
		Percentage: dec("-50"),
		Priority:   -1,
		StartDate:  dayPtr("2020-01-01"),
		EndDate:    dayPtr("2020-01-31"),
	})

	quote, err := f.quoteFlow().Quote(context.Background(), &dto.QuoteRequest{
		FirmID: 7,
		AsOf:   utils.ToPtr("2020-01-15"),
		Lines:  []dto.PriceLineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Empty(t, quote.QuoteToken, "only today's prices are signed")

	// a token signed for that day is refused when ordering today
	token, _, err := f.quotes.Issue(services.QuoteClaims{
		FirmID:  7,
		Channel: string(models.ChannelCustomer),
		AsOf:    "2020-01-15",
		VATRate: "7.00",
		Lines:   []services.QuoteLine{{ProductID: 1, Quantity: 1, UnitPrice: "4.50", Source: string(models.PriceSourceComputed)}},
	})
	require.NoError(t, err)

	_, err = f.flow().CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0011",
		QuoteToken:     &token,
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuoteStale)
	assert.Empty(t, f.orderRepo.orders)
	assert.Equal(t, []string{models.AuditActionOrderCreateFailed}, f.auditRepo.actions())
}

func TestCreateOrder_QuoteIsSingleUse(t *testing.T) {
	f := newOrderFixture(t)
	flow := f.flow()

	quote, err := f.quoteFlow().Quote(context.Background(), &dto.QuoteRequest{
		FirmID: 7,
		Lines:  []dto.PriceLineRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, quote.QuoteToken)

	first, err := flow.CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0012",
		QuoteToken:     &quote.QuoteToken,
	}, nil)
	require.NoError(t, err)
	require.Len(t, f.orderRepo.orders, 1)
	require.NotNil(t, f.orderRepo.orders[0].QuoteID)

	// a fresh idempotency key does not make the quote reusable
	_, err = flow.CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0013",
		QuoteToken:     &quote.QuoteToken,
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuoteAlreadyUsed)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.Equal(t, first.Order.GrossTotal, quote.Totals.Gross)
}

func TestCreateOrder_QuoteTokenDisabled(t *testing.T) {
	f := newOrderFixture(t)
	flow := NewOrderFlow(f.firmRepo, f.orderRepo, f.auditRepo, f.engine(), nil, nil, nil, dec("7"), 0, "", f.logger())

	_, err := flow.CreateOrder(context.Background(), &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0009",
		QuoteToken:     utils.ToPtr("eyJhbGciOiJIUzI1NiJ9.e30.sig"),
	}, nil)
	assert.ErrorIs(t, err, ErrQuoteTokenDisabled)
}

func TestUpdateStatus_FollowsStateMachine(t *testing.T) {
	f := newOrderFixture(t)
	flow := f.flow()
	ctx := context.Background()

	created, err := flow.CreateOrder(ctx, &dto.CreateOrderRequest{
		FirmID:         7,
		IdempotencyKey: "order-0010",
		Lines:          []dto.PriceLineRequest{{ProductID: 1, Quantity: 1}},
	}, nil)
	require.NoError(t, err)
	id := created.Order.UUID

	resp, err := flow.UpdateStatus(ctx, id, &dto.UpdateOrderStatusRequest{Status: string(models.OrderStatusProcessing)}, nil)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusPending), resp.PreviousStatus)
	assert.Equal(t, string(models.OrderStatusProcessing), resp.Status)

	_, err = flow.UpdateStatus(ctx, id, &dto.UpdateOrderStatusRequest{Status: string(models.OrderStatusPending)}, nil)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = flow.UpdateStatus(ctx, id, &dto.UpdateOrderStatusRequest{Status: "Kayıp"}, nil)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = flow.UpdateStatus(ctx, "not-a-uuid", &dto.UpdateOrderStatusRequest{Status: string(models.OrderStatusCancelled)}, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	got, err := flow.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusProcessing), got.Order.Status)
	assert.Equal(t, "9.45", got.Order.Lines[0].UnitPrice, "status changes never reprice")

	assert.Equal(t, []string{
		models.AuditActionOrderCreated,
		models.AuditActionOrderStatusChanged,
		models.AuditActionOrderStatusChangeFailed,
	}, f.auditRepo.actions())
}
