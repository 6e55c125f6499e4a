package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

// OrderResultTopic is used both as the Kafka topic and the NATS subject.
const OrderResultTopic = "order.result"

type Publisher interface {
	PublishOrderResult(ctx context.Context, event models.OrderResultEvent) error
}

// NewOrderResultEvent builds the event for one order attempt. Only a
// prefix of the token is carried.
func NewOrderResultEvent(req models.OrderRequest, resp *models.GatewayResponse) models.OrderResultEvent {
	return models.OrderResultEvent{
		EventID:       uuid.New().String(),
		Outcome:       resp.Outcome(),
		OrderID:       resp.OrderID,
		TransactionID: resp.TransactionID,
		ResponseCode:  resp.ResponseCode,
		Message:       resp.Message,
		TokenPrefix:   telemetry.TokenPrefix(req.PaymentToken),
		OccurredAt:    time.Now().UTC(),
	}
}

// Multi fans an event out to every configured publisher.
type Multi []Publisher

func (m Multi) PublishOrderResult(ctx context.Context, event models.OrderResultEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishOrderResult(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
