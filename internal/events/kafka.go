package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaWriter returns an async writer for the order result topic;
// delivery failures are logged, never surfaced to the shopper.
func NewKafkaWriter(brokers string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    OrderResultTopic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				telemetry.Logger.Error("Failed to deliver order result events",
					zap.Int("count", len(messages)),
					zap.Error(err),
				)
			}
		},
	}
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishOrderResult(ctx context.Context, event models.OrderResultEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order result: %w", err)
	}

	key := event.OrderID
	if key == "" {
		key = event.EventID
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: eventJSON}); err != nil {
		return fmt.Errorf("failed to write order result to kafka: %w", err)
	}
	return nil
}
