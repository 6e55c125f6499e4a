package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

const outboundIPMessage = "This is the IP the payment processor sees from this server"

// DiagnosticsHandler reports the server's public IP so it can be
// allow-listed with the processor.
type DiagnosticsHandler struct {
	lookupURL  string
	httpClient *http.Client
	cache      interfaces.OutboundIPCache
	cacheTTL   time.Duration
}

// NewDiagnosticsHandler accepts a nil cache; every request then performs a
// live lookup.
func NewDiagnosticsHandler(lookupURL string, cache interfaces.OutboundIPCache, cacheTTL time.Duration) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		lookupURL:  lookupURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (h *DiagnosticsHandler) GetOutboundIP(c *gin.Context) {
	ctx := c.Request.Context()

	if ip, ok := h.cached(ctx); ok {
		c.JSON(http.StatusOK, gin.H{"ip": ip, "message": outboundIPMessage, "cached": true})
		return
	}

	ip, err := h.lookup(ctx)
	if err != nil {
		telemetry.Logger.Error("Outbound IP lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.cache != nil && h.cacheTTL > 0 {
		if err := h.cache.Set(ctx, ip, h.cacheTTL); err != nil {
			telemetry.Logger.Warn("Failed to cache outbound IP", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"ip": ip, "message": outboundIPMessage, "cached": false})
}

func (h *DiagnosticsHandler) cached(ctx context.Context) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	ip, ok, err := h.cache.Get(ctx)
	if err != nil {
		telemetry.Logger.Warn("Outbound IP cache unavailable", zap.Error(err))
		return "", false
	}
	return ip, ok
}

func (h *DiagnosticsHandler) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.lookupURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip lookup returned HTTP %d", resp.StatusCode)
	}

	var out struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.IP == "" {
		return "", fmt.Errorf("ip lookup returned no address")
	}
	return out.IP, nil
}
