package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/checkout-gateway/internal/metrics"
	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
	"github.com/akylbek/payment-system/checkout-gateway/internal/processor"
	"github.com/akylbek/payment-system/checkout-gateway/internal/service"
)

const johnDoe = `{
	"payment_token": "%s",
	"product_id": 1,
	"customer": {"first_name": "John", "last_name": "Doe", "email": "test@example.com", "phone": "1234567890"},
	"country": "US"
}`

func newStack(t *testing.T, processorURL string, staticDir string) (http.Handler, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	client := processor.NewClient(processor.Config{
		BaseURL:  processorURL,
		Username: "api-user",
		Password: "secret",
		Timeout:  2 * time.Second,
	})
	orders := service.NewOrderService(client, nil, metrics.NewOrderMetrics(registry))

	return NewRouter(RouterDeps{
		Orders:         orders,
		AppKey:         "app-key-123",
		Registry:       registry,
		StaticDir:      staticDir,
		AllowedOrigins: []string{"https://shop.example.com"},
	}), registry
}

func fakeProcessor(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("payment_token") {
		case "tok_live_abc":
			_, _ = w.Write([]byte(`{"response_code":"100","order_id":"5001"}`))
		default:
			_, _ = w.Write([]byte(`{"response_code":"201","error_message":"Card declined"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postOrder(h http.Handler, path, body string) (*httptest.ResponseRecorder, models.GatewayResponse) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp models.GatewayResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestOrderScenarioAccepted(t *testing.T) {
	h, _ := newStack(t, fakeProcessor(t).URL, "")

	w, resp := postOrder(h, "/orders", strings.Replace(johnDoe, "%s", "tok_live_abc", 1))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "5001", resp.OrderID)
	assert.Equal(t, "100", resp.ResponseCode)
}

func TestOrderScenarioDeclined(t *testing.T) {
	h, _ := newStack(t, fakeProcessor(t).URL, "")

	w, resp := postOrder(h, "/orders", strings.Replace(johnDoe, "%s", "tok_declined", 1))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Card declined", resp.Message)
	assert.Equal(t, "201", resp.ResponseCode)
	assert.Equal(t, models.ErrorTypeDecline, resp.ErrorType)
}

func TestOrderScenarioProcessorUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	h, _ := newStack(t, deadURL, "")

	w, resp := postOrder(h, "/orders", strings.Replace(johnDoe, "%s", "tok_live_abc", 1))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.ResponseCode)
	assert.Equal(t, models.ErrorTypeTransport, resp.ErrorType)
}

func TestLegacyOrderRoute(t *testing.T) {
	h, _ := newStack(t, fakeProcessor(t).URL, "")
	body := `{"payment_token":"tok_live_abc","product_id":1,"first_name":"John","last_name":"Doe",
		"email":"test@example.com","phone":"1234567890","country":"US"}`

	w, resp := postOrder(h, "/api/sticky/new-order", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5001", resp.OrderID)
}

func TestMetricsEndpointExposesOrderCounters(t *testing.T) {
	h, _ := newStack(t, fakeProcessor(t).URL, "")
	postOrder(h, "/orders", strings.Replace(johnDoe, "%s", "tok_declined", 1))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `checkout_orders_total{outcome="decline"} 1`)
}

func TestConfigRoutes(t *testing.T) {
	h, _ := newStack(t, fakeProcessor(t).URL, "")

	for _, path := range []string{"/config", "/api/sticky/config"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"app_key":"app-key-123"}`, w.Body.String(), path)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	h, _ := newStack(t, fakeProcessor(t).URL, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticFilesServedForUnmatchedRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>checkout</h1>"), 0o644))
	h, _ := newStack(t, fakeProcessor(t).URL, dir)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "checkout")
}
