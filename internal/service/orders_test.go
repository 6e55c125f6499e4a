package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

type mockGateway struct {
	CreateOrderFunc func(ctx context.Context, req models.OrderRequest) *models.GatewayResponse
	calls           int
}

func (m *mockGateway) CreateOrder(ctx context.Context, req models.OrderRequest) *models.GatewayResponse {
	m.calls++
	return m.CreateOrderFunc(ctx, req)
}

type recordingPublisher struct {
	events []models.OrderResultEvent
	err    error
}

func (p *recordingPublisher) PublishOrderResult(_ context.Context, event models.OrderResultEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) ObserveOrder(outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func order() models.OrderRequest {
	return models.OrderRequest{
		PaymentToken: "tok_declined",
		Customer:     models.CustomerInfo{FirstName: "John", LastName: "Doe", Email: "test@example.com", Phone: "1234567890"},
	}
}

func TestCreateOrderReportsOutcome(t *testing.T) {
	gw := &mockGateway{CreateOrderFunc: func(context.Context, models.OrderRequest) *models.GatewayResponse {
		return &models.GatewayResponse{ResponseCode: "201", Message: "Card declined", ErrorType: models.ErrorTypeDecline}
	}}
	pub := &recordingPublisher{}
	m := &recordingMetrics{}

	resp := NewOrderService(gw, pub, m).CreateOrder(context.Background(), order())

	assert.False(t, resp.Success)
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, []string{"decline"}, m.outcomes)
	if assert.Len(t, pub.events, 1) {
		assert.Equal(t, "decline", pub.events[0].Outcome)
		assert.Equal(t, "201", pub.events[0].ResponseCode)
	}
}

func TestCreateOrderIgnoresPublishFailure(t *testing.T) {
	want := &models.GatewayResponse{Success: true, OrderID: "5001", ResponseCode: "100"}
	gw := &mockGateway{CreateOrderFunc: func(context.Context, models.OrderRequest) *models.GatewayResponse {
		return want
	}}
	pub := &recordingPublisher{err: errors.New("nats: connection closed")}

	resp := NewOrderService(gw, pub, nil).CreateOrder(context.Background(), order())

	assert.Same(t, want, resp)
}

func TestCreateOrderWithoutPublishers(t *testing.T) {
	gw := &mockGateway{CreateOrderFunc: func(context.Context, models.OrderRequest) *models.GatewayResponse {
		return &models.GatewayResponse{ErrorType: models.ErrorTypeTransport, Message: "dial tcp: connection refused"}
	}}

	resp := NewOrderService(gw, nil, nil).CreateOrder(context.Background(), order())

	assert.Equal(t, "transport", resp.Outcome())
}
