package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirphl/pastane-b2b/app/dto"
	businessflow "github.com/amirphl/pastane-b2b/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuoteFlow struct {
	got *dto.QuoteRequest
	res *dto.QuoteResponse
	err error
}

func (f *fakeQuoteFlow) Quote(_ context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error) {
	f.got = req
	return f.res, f.err
}

type fakePriceListFlow struct {
	got *dto.PriceListExportRequest
	res *dto.PriceListExport
	err error
}

func (f *fakePriceListFlow) ExportFirmPriceList(_ context.Context, req *dto.PriceListExportRequest) (*dto.PriceListExport, error) {
	f.got = req
	return f.res, f.err
}

type fakeOrderFlow struct {
	createErr error
	getErr    error
	statusErr error
	metadata  *businessflow.ClientMetadata
}

func (f *fakeOrderFlow) CreateOrder(_ context.Context, req *dto.CreateOrderRequest, metadata *businessflow.ClientMetadata) (*dto.CreateOrderResponse, error) {
	f.metadata = metadata
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.CreateOrderResponse{Message: "Order created", Order: dto.OrderDTO{FirmID: req.FirmID}}, nil
}

func (f *fakeOrderFlow) GetOrder(_ context.Context, orderUUID string) (*dto.GetOrderResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &dto.GetOrderResponse{Message: "Order retrieved", Order: dto.OrderDTO{UUID: orderUUID}}, nil
}

func (f *fakeOrderFlow) UpdateStatus(_ context.Context, orderUUID string, req *dto.UpdateOrderStatusRequest, _ *businessflow.ClientMetadata) (*dto.UpdateOrderStatusResponse, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &dto.UpdateOrderStatusResponse{Message: "Order status updated", UUID: orderUUID, Status: req.Status}, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Details any    `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestPricingHandlerQuote(t *testing.T) {
	flow := &fakeQuoteFlow{res: &dto.QuoteResponse{Message: "Prices resolved", FirmID: 7}}
	app := fiber.New()
	app.Post("/quote", NewPricingHandler(flow, &fakePriceListFlow{}).Quote)

	t.Run("Success", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/quote", `{"firm_id":7,"lines":[{"product_id":1,"quantity":0}]}`)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, body.Success)
		require.NotNil(t, flow.got)
		// quantity checks are per line inside the flow
		assert.Equal(t, 0, flow.got.Lines[0].Quantity)
	})

	cases := []struct {
		name string
		body string
		code string
	}{
		{"MalformedJSON", `{"firm_id":`, "INVALID_REQUEST"},
		{"MissingFirm", `{"lines":[{"product_id":1,"quantity":1}]}`, "VALIDATION_ERROR"},
		{"NoLines", `{"firm_id":7,"lines":[]}`, "VALIDATION_ERROR"},
		{"BadDate", `{"firm_id":7,"as_of":"01.02.2024","lines":[{"product_id":1,"quantity":1}]}`, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/quote", tc.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestPricingHandlerErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"NotFound", businessflow.NewBusinessError("QUOTE_FIRM_NOT_FOUND", "Firm not found", businessflow.ErrFirmNotFound), fiber.StatusNotFound, "QUOTE_FIRM_NOT_FOUND"},
		{"Inactive", businessflow.NewBusinessError("QUOTE_FIRM_INACTIVE", "Firm is inactive", businessflow.ErrFirmInactive), fiber.StatusForbidden, "QUOTE_FIRM_INACTIVE"},
		{"Unexpected", errors.New("connection reset"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/quote", NewPricingHandler(&fakeQuoteFlow{err: tc.err}, &fakePriceListFlow{}).Quote)
			status, body := doJSON(t, app, http.MethodPost, "/quote", `{"firm_id":7,"lines":[{"product_id":1,"quantity":1}]}`)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestPricingHandlerExportPriceList(t *testing.T) {
	flow := &fakePriceListFlow{res: &dto.PriceListExport{FileName: "fiyat_listesi_3_2024-03-01.xlsx", Content: []byte("PK\x03\x04"), Rows: 1}}
	app := fiber.New()
	app.Get("/firms/:firm_id/price-list.xlsx", NewPricingHandler(&fakeQuoteFlow{}, flow).ExportPriceList)

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/firms/3/price-list.xlsx?locale=tr&as_of=2024-03-01", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "fiyat_listesi_3_2024-03-01.xlsx")
		content, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("PK\x03\x04"), content)

		require.NotNil(t, flow.got)
		assert.Equal(t, uint(3), flow.got.FirmID)
		assert.Equal(t, "tr", flow.got.Locale)
		require.NotNil(t, flow.got.AsOf)
		assert.Equal(t, "2024-03-01", *flow.got.AsOf)
	})

	t.Run("BadFirmID", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/firms/abc/price-list.xlsx", "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "INVALID_FIRM_ID", body.Error.Code)
	})

	t.Run("UnsupportedLocale", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/firms/3/price-list.xlsx?locale=fr", "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	})
}

func TestOrderHandler(t *testing.T) {
	t.Run("CreateOrder", func(t *testing.T) {
		flow := &fakeOrderFlow{}
		app := fiber.New()
		app.Post("/orders", NewOrderHandler(flow).CreateOrder)

		status, body := doJSON(t, app, http.MethodPost, "/orders", `{"firm_id":4,"idempotency_key":"order-0001","lines":[{"product_id":1,"quantity":2}]}`)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.True(t, body.Success)
		require.NotNil(t, flow.metadata)
	})

	t.Run("CreateOrderMissingIdempotencyKey", func(t *testing.T) {
		app := fiber.New()
		app.Post("/orders", NewOrderHandler(&fakeOrderFlow{}).CreateOrder)

		status, body := doJSON(t, app, http.MethodPost, "/orders", `{"firm_id":4,"lines":[{"product_id":1,"quantity":2}]}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	})

	t.Run("AllLinesFailedCarriesLines", func(t *testing.T) {
		failed := []dto.PricedLine{{ProductID: 1, Quantity: 2, Error: &dto.LineError{Code: "PRICE_UNAVAILABLE", Message: "No list price"}}}
		flow := &fakeOrderFlow{createErr: &businessflow.BusinessError{
			Code:    "CREATE_ORDER_ALL_LINES_FAILED",
			Message: "No order line could be priced",
			Err:     &businessflow.LinesFailedError{Lines: failed},
		}}
		app := fiber.New()
		app.Post("/orders", NewOrderHandler(flow).CreateOrder)

		status, body := doJSON(t, app, http.MethodPost, "/orders", `{"firm_id":4,"idempotency_key":"order-0002","lines":[{"product_id":1,"quantity":2}]}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.Equal(t, "CREATE_ORDER_ALL_LINES_FAILED", body.Error.Code)
		lines, ok := body.Error.Details.([]any)
		require.True(t, ok)
		assert.Len(t, lines, 1)
	})

	t.Run("GetOrderNotFound", func(t *testing.T) {
		flow := &fakeOrderFlow{getErr: businessflow.NewBusinessError("GET_ORDER_NOT_FOUND", "Order not found", businessflow.ErrOrderNotFound)}
		app := fiber.New()
		app.Get("/orders/:uuid", NewOrderHandler(flow).GetOrder)

		status, body := doJSON(t, app, http.MethodGet, "/orders/8c0e6a52-5f3c-4b59-9d1e-8f2a1d3c4b5a", "")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "GET_ORDER_NOT_FOUND", body.Error.Code)
	})

	t.Run("UpdateStatusConflict", func(t *testing.T) {
		flow := &fakeOrderFlow{statusErr: businessflow.NewBusinessError("ORDER_STATUS_TRANSITION_INVALID", "Status change not allowed", businessflow.ErrInvalidStatusTransition)}
		app := fiber.New()
		app.Put("/orders/:uuid/status", NewOrderHandler(flow).UpdateOrderStatus)

		status, body := doJSON(t, app, http.MethodPut, "/orders/8c0e6a52-5f3c-4b59-9d1e-8f2a1d3c4b5a/status", `{"status":"Teslim Edildi"}`)
		assert.Equal(t, fiber.StatusConflict, status)
		assert.Equal(t, "ORDER_STATUS_TRANSITION_INVALID", body.Error.Code)
	})
}
