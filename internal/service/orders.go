package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/events"
	"github.com/akylbek/payment-system/checkout-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-gateway/internal/metrics"
	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

// OrderService runs one order attempt through the gateway and reports the
// outcome to metrics and the event stream. It keeps no state between calls.
type OrderService struct {
	gateway   interfaces.OrderGateway
	publisher events.Publisher
	metrics   metrics.OrderMetrics
	now       func() time.Time
}

func NewOrderService(
	gateway interfaces.OrderGateway,
	publisher events.Publisher,
	orderMetrics metrics.OrderMetrics,
) *OrderService {
	if publisher == nil {
		publisher = events.Multi{}
	}
	if orderMetrics == nil {
		orderMetrics = metrics.Nop{}
	}
	return &OrderService{
		gateway:   gateway,
		publisher: publisher,
		metrics:   orderMetrics,
		now:       time.Now,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) *models.GatewayResponse {
	start := s.now()
	resp := s.gateway.CreateOrder(ctx, req)
	s.metrics.ObserveOrder(resp.Outcome(), s.now().Sub(start))

	// The shopper's result does not depend on event delivery.
	if err := s.publisher.PublishOrderResult(ctx, events.NewOrderResultEvent(req, resp)); err != nil {
		telemetry.Logger.Error("Failed to publish order result",
			zap.String("outcome", resp.Outcome()),
			zap.String("order_id", resp.OrderID),
			zap.Error(err),
		)
	}
	return resp
}
