package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirphl/pastane-b2b/config"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHandlers answers every route with 200 so only routing and middleware are under test
type stubHandlers struct{}

func (stubHandlers) ok(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func (s stubHandlers) Quote(c fiber.Ctx) error                 { return s.ok(c) }
func (s stubHandlers) ExportPriceList(c fiber.Ctx) error       { return s.ok(c) }
func (s stubHandlers) CreateOrder(c fiber.Ctx) error           { return s.ok(c) }
func (s stubHandlers) GetOrder(c fiber.Ctx) error              { return s.ok(c) }
func (s stubHandlers) UpdateOrderStatus(c fiber.Ctx) error     { return s.ok(c) }
func (s stubHandlers) CreatePricingRule(c fiber.Ctx) error     { return s.ok(c) }
func (s stubHandlers) ListPricingRules(c fiber.Ctx) error      { return s.ok(c) }
func (s stubHandlers) DeletePricingRule(c fiber.Ctx) error     { return s.ok(c) }
func (s stubHandlers) CreatePriceOverride(c fiber.Ctx) error   { return s.ok(c) }
func (s stubHandlers) ListPriceOverrides(c fiber.Ctx) error    { return s.ok(c) }
func (s stubHandlers) DeletePriceOverride(c fiber.Ctx) error   { return s.ok(c) }
func (s stubHandlers) CreateCustomerProfile(c fiber.Ctx) error { return s.ok(c) }
func (s stubHandlers) ListCustomerProfiles(c fiber.Ctx) error  { return s.ok(c) }
func (s stubHandlers) AssignFirmProfile(c fiber.Ctx) error     { return s.ok(c) }

func newTestRouter(t *testing.T, env map[string]string) *fiber.App {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("QUOTE_SECRET_KEY", "test-secret-key-for-quotes-0123456789")
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.LoadProductionConfig()
	require.NoError(t, err)

	stub := stubHandlers{}
	r := NewFiberRouter(cfg, Handlers{Pricing: stub, Order: stub, AdminPricing: stub}, nil)
	r.SetupRoutes()
	return r.GetApp()
}

func status(t *testing.T, app *fiber.App, method, path string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRoutes(t *testing.T) {
	app := newTestRouter(t, map[string]string{
		"ADMIN_API_KEYS":  "admin-key",
		"METRICS_ENABLED": "true",
	})

	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"health", http.MethodGet, "/api/v1/health", nil, fiber.StatusOK},
		{"quote open without client keys", http.MethodPost, "/api/v1/pricing/quote", nil, fiber.StatusOK},
		{"price list", http.MethodGet, "/api/v1/pricing/firms/3/price-list.xlsx", nil, fiber.StatusOK},
		{"order status", http.MethodPut, "/api/v1/orders/abc/status", nil, fiber.StatusOK},
		{"admin without key", http.MethodGet, "/api/v1/admin/pricing-rules", nil, fiber.StatusUnauthorized},
		{"admin wrong key", http.MethodGet, "/api/v1/admin/pricing-rules", map[string]string{"X-API-Key": "nope"}, fiber.StatusUnauthorized},
		{"admin with key", http.MethodGet, "/api/v1/admin/pricing-rules", map[string]string{"X-API-Key": "admin-key"}, fiber.StatusOK},
		{"assign profile", http.MethodPut, "/api/v1/admin/firms/3/profile", map[string]string{"X-API-Key": "admin-key"}, fiber.StatusOK},
		{"metrics", http.MethodGet, "/metrics", nil, fiber.StatusOK},
		{"unknown", http.MethodGet, "/api/v1/nope", nil, fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status(t, app, tt.method, tt.path, tt.headers))
		})
	}
}

func TestRoutes_ClientKeysRequired(t *testing.T) {
	app := newTestRouter(t, map[string]string{
		"REQUIRE_API_KEY":  "true",
		"ALLOWED_API_KEYS": "client-key",
		"ADMIN_API_KEYS":   "admin-key",
	})

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, http.MethodPost, "/api/v1/pricing/quote", nil))
	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodPost, "/api/v1/pricing/quote", map[string]string{"X-API-Key": "client-key"}))
	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/api/v1/orders/abc", map[string]string{"X-API-Key": "admin-key"}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, http.MethodGet, "/api/v1/admin/customer-profiles", map[string]string{"X-API-Key": "client-key"}))
}
