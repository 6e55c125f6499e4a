package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

// natsConn is the subset of *nats.Conn used here.
type natsConn interface {
	Publish(subj string, data []byte) error
}

type NATSPublisher struct {
	nc natsConn
}

func NewNATSPublisher(nc natsConn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) PublishOrderResult(_ context.Context, event models.OrderResultEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order result: %w", err)
	}
	if err := p.nc.Publish(OrderResultTopic, eventJSON); err != nil {
		return fmt.Errorf("failed to publish order result to nats: %w", err)
	}
	return nil
}
