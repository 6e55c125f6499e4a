package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

const (
	DefaultTokenField = "payment_token"
	DefaultTimeout    = 8 * time.Second

	newOrderPath = "/new_order"
	maxBodyBytes = 1 << 20
)

type Config struct {
	BaseURL    string
	Username   string
	Password   string
	TokenField string
	Timeout    time.Duration
}

// Client is the order gateway in front of the processor's legacy API.
// It holds only read-only configuration and is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.TokenField == "" {
		cfg.TokenField = DefaultTokenField
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateOrder submits the order once. It never returns an error: every
// failure is reported in the response, with ErrorType telling a decline
// apart from a transport failure. There is no retry; a retried charge
// could bill the customer twice.
func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) *models.GatewayResponse {
	ctx, span := telemetry.Tracer.Start(ctx, "processor.new_order")
	defer span.End()

	telemetry.Logger.Info("Creating processor order",
		zap.String("payment_token", telemetry.TokenPrefix(req.PaymentToken)),
		zap.Int("product_id", req.ProductID),
		zap.String("email", req.Customer.Email),
	)

	resp := c.send(ctx, req)

	span.SetAttributes(
		attribute.String("order.outcome", resp.Outcome()),
		attribute.String("order.response_code", resp.ResponseCode),
		attribute.Int("http.status_code", resp.HTTPStatus),
	)
	if resp.ErrorType == models.ErrorTypeTransport {
		span.SetStatus(codes.Error, resp.Message)
	}

	if resp.Success {
		telemetry.Logger.Info("Processor order created",
			zap.String("order_id", resp.OrderID),
			zap.String("response_code", resp.ResponseCode),
		)
	} else {
		telemetry.Logger.Warn("Processor order failed",
			zap.String("error_type", string(resp.ErrorType)),
			zap.String("response_code", resp.ResponseCode),
			zap.String("message", resp.Message),
			zap.String("details", resp.Details),
		)
	}
	return resp
}

func (c *Client) send(ctx context.Context, req models.OrderRequest) *models.GatewayResponse {
	body := BuildPayload(req, c.cfg.TokenField).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+newOrderPath, strings.NewReader(body))
	if err != nil {
		return networkError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return networkError(fmt.Errorf("failed to execute request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return networkError(fmt.Errorf("failed to read response: %w", err))
	}

	fields, decodeErr := decodeBody(respBody)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		resp := &models.GatewayResponse{
			ErrorType:  models.ErrorTypeTransport,
			HTTPStatus: httpResp.StatusCode,
			Details:    fmt.Sprintf("HTTP %d", httpResp.StatusCode),
			Raw:        string(respBody),
		}
		if decodeErr == nil {
			resp.Raw = fields
			resp.Message = firstField(fields, "error_message", "message")
		}
		if resp.Message == "" {
			resp.Message = fmt.Sprintf("processor returned HTTP %d", httpResp.StatusCode)
		}
		return resp
	}

	if decodeErr != nil {
		return &models.GatewayResponse{
			ErrorType:  models.ErrorTypeTransport,
			HTTPStatus: httpResp.StatusCode,
			Message:    "processor returned an unreadable response",
			Details:    fmt.Sprintf("HTTP %d", httpResp.StatusCode),
			Raw:        string(respBody),
		}
	}

	return Classify(fields)
}

func decodeBody(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("empty response body")
	}
	return fields, nil
}

func networkError(err error) *models.GatewayResponse {
	return &models.GatewayResponse{
		ErrorType: models.ErrorTypeTransport,
		Message:   err.Error(),
		Details:   "Network error",
		Raw:       err.Error(),
	}
}
