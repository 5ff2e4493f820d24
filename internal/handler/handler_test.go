package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sefazor/integrations-backend/internal/service"
	"github.com/sefazor/integrations-backend/pkg/utils"
	"github.com/sefazor/integrations-backend/pkg/zapier"
)

type stubProber struct {
	err   error
	panic interface{}
}

func (p *stubProber) ProbeOne(ctx context.Context) error {
	if p.panic != nil {
		panic(p.panic)
	}
	return p.err
}

type stubProvider struct {
	portalCustomers []string
	url             string
	err             error
}

func (p *stubProvider) CreateBillingPortalSession(ctx context.Context, customerID string) (string, error) {
	p.portalCustomers = append(p.portalCustomers, customerID)
	return p.url, p.err
}

func (p *stubProvider) CreateCheckoutSession(ctx context.Context, priceID, customerID, successURL, cancelURL string) (string, error) {
	return p.url, p.err
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	}
	return resp.StatusCode, body
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestSupabaseTestConnection(t *testing.T) {
	tests := []struct {
		name        string
		prober      service.Prober
		expose      bool
		wantStatus  int
		wantBody    map[string]interface{}
		wantErrLogs int
	}{
		{
			name:       "row returned",
			prober:     &stubProber{},
			expose:     true,
			wantStatus: http.StatusOK,
			wantBody:   map[string]interface{}{"status": "success", "message": "Supabase connection successful!"},
		},
		{
			name:        "store returns error",
			prober:      &stubProber{err: errors.New(`permission denied for table users`)},
			expose:      true,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    map[string]interface{}{"status": "error", "message": "permission denied for table users"},
			wantErrLogs: 1,
		},
		{
			name:        "store throws",
			prober:      &stubProber{panic: errors.New("dial tcp: i/o timeout")},
			expose:      true,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    map[string]interface{}{"status": "error", "message": "dial tcp: i/o timeout"},
			wantErrLogs: 1,
		},
		{
			name:        "details hidden",
			prober:      &stubProber{err: errors.New(`permission denied for table users`)},
			expose:      false,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    map[string]interface{}{"status": "error", "message": "upstream service error"},
			wantErrLogs: 1,
		},
		{
			name:        "database not configured",
			prober:      nil,
			expose:      true,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    map[string]interface{}{"status": "error", "message": "SUPABASE_DB_URL is not configured"},
			wantErrLogs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observed()
			h := NewSupabaseHandler(service.NewConnectivityService(tt.prober), tt.expose, logger)
			app := fiber.New()
			app.Get("/api/supabase/test", h.TestConnection)

			status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/supabase/test", nil))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantErrLogs, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		})
	}
}

func TestSupabaseTestConnectionIdempotent(t *testing.T) {
	h := NewSupabaseHandler(service.NewConnectivityService(&stubProber{}), true, zap.NewNop())
	app := fiber.New()
	app.Get("/api/supabase/test", h.TestConnection)

	first, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/supabase/test", nil))
	second, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/supabase/test", nil))

	assert.Equal(t, first, second)
}

func newZapierApp(secret string, logger *zap.Logger) *fiber.App {
	svc := service.NewZapierService(secret, nil, zapier.NewClient(""), logger)
	h := NewZapierHandler(svc, true, logger)
	app := fiber.New()
	app.Get("/api/zapier/test", h.TestConfig)
	app.Post("/api/zapier/webhook", h.ReceiveWebhook)
	app.Post("/api/zapier/send", h.SendWebhook)
	return app
}

func TestZapierTestConfig(t *testing.T) {
	status, body := doRequest(t, newZapierApp("", zap.NewNop()), httptest.NewRequest(http.MethodGet, "/api/zapier/test", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "ZAPIER_WEBHOOK_SECRET is not configured", body["message"])

	status, body = doRequest(t, newZapierApp("any-value", zap.NewNop()), httptest.NewRequest(http.MethodGet, "/api/zapier/test", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
}

func webhookRequest(secret *string, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/zapier/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != nil {
		req.Header.Set(zapier.SecretHeader, *secret)
	}
	return req
}

func TestZapierReceiveWebhook(t *testing.T) {
	good := "s3cret"
	bad := "nope"
	empty := ""

	tests := []struct {
		name         string
		secret       *string
		body         string
		wantStatus   int
		wantMessage  string
		wantReceived int
	}{
		{"valid", &good, `{"lead":{"name":"Ada"}}`, http.StatusOK, "Webhook received successfully!", 1},
		{"wrong secret", &bad, `{"lead":{}}`, http.StatusUnauthorized, "Unauthorized", 0},
		{"missing header", nil, `{"lead":{}}`, http.StatusUnauthorized, "Unauthorized", 0},
		{"empty header", &empty, `{"lead":{}}`, http.StatusUnauthorized, "Unauthorized", 0},
		{"unparsable body", &good, `{"lead":`, http.StatusInternalServerError, "Internal Server Error", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observed()
			app := newZapierApp("s3cret", logger)

			status, body := doRequest(t, app, webhookRequest(tt.secret, tt.body))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, map[string]interface{}{"message": tt.wantMessage}, body)
			assert.Equal(t, tt.wantReceived, logs.FilterMessage("Zapier webhook received").Len())
		})
	}
}

func TestZapierReceiveWebhookNotConfigured(t *testing.T) {
	empty := ""
	status, body := doRequest(t, newZapierApp("", zap.NewNop()), webhookRequest(&empty, `{}`))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "ZAPIER_WEBHOOK_SECRET is not configured", body["message"])
}

func TestZapierSendWebhookNotConfigured(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/zapier/send", strings.NewReader(`{"a":1}`))
	status, body := doRequest(t, newZapierApp("", zap.NewNop()), req)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "ZAPIER_WEBHOOK_URL is not configured", body["message"])
}

func newPaymentApp(provider service.SessionProvider) *fiber.App {
	h := NewPaymentHandler(
		service.NewBillingService(provider),
		service.NewStripeWebhookService("", nil, zap.NewNop()),
		utils.NewValidator(),
		true,
		zap.NewNop(),
	)
	app := fiber.New()
	app.Post("/api/stripe/portal", h.CreatePortalSession)
	app.Post("/api/stripe/checkout", h.CreateCheckoutSession)
	app.Post("/api/stripe/webhook", h.HandleStripeWebhook)
	return app
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreatePortalSession(t *testing.T) {
	provider := &stubProvider{url: "https://billing.stripe.com/p/session/test_1"}
	app := newPaymentApp(provider)

	status, body := doRequest(t, app, jsonRequest("/api/stripe/portal", `{"customer_id":"cus_abc"}`))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"url": "https://billing.stripe.com/p/session/test_1"}, body)
	assert.Equal(t, []string{"cus_abc"}, provider.portalCustomers)
}

func TestCreatePortalSessionErrors(t *testing.T) {
	t.Run("invalid customer id", func(t *testing.T) {
		provider := &stubProvider{}
		status, body := doRequest(t, newPaymentApp(provider), jsonRequest("/api/stripe/portal", `{"customer_id":"abc"}`))

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "CustomerID failed stripe_id=cus", body["message"])
		assert.Empty(t, provider.portalCustomers)
	})

	t.Run("malformed body", func(t *testing.T) {
		status, _ := doRequest(t, newPaymentApp(&stubProvider{}), jsonRequest("/api/stripe/portal", `{`))

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("provider error", func(t *testing.T) {
		app := newPaymentApp(&stubProvider{err: errors.New("No such customer: 'cus_missing'")})
		status, body := doRequest(t, app, jsonRequest("/api/stripe/portal", `{"customer_id":"cus_missing"}`))

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "No such customer: 'cus_missing'", body["message"])
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	app := newPaymentApp(&stubProvider{url: "https://checkout.stripe.com/c/pay/cs_test_1"})

	status, body := doRequest(t, app, jsonRequest("/api/stripe/checkout",
		`{"price_id":"price_123","customer_id":"cus_abc","success_url":"https://x/success","cancel_url":"https://x/cancel"}`))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", body["url"])
}

func TestCreateCheckoutSessionValidation(t *testing.T) {
	app := newPaymentApp(&stubProvider{})

	status, body := doRequest(t, app, jsonRequest("/api/stripe/checkout",
		`{"price_id":"price_123","customer_id":"cus_abc","success_url":"https://x/success"}`))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CancelURL failed required", body["message"])
}

func TestHandleStripeWebhookNotConfigured(t *testing.T) {
	status, body := doRequest(t, newPaymentApp(&stubProvider{}), jsonRequest("/api/stripe/webhook", `{}`))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "STRIPE_WEBHOOK_SECRET is not configured", body["message"])
}
