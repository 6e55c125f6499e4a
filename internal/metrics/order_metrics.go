package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics records the outcome of every order attempt.
type OrderMetrics interface {
	ObserveOrder(outcome string, duration time.Duration)
}

type orderMetrics struct {
	orders           *prometheus.CounterVec
	processorLatency *prometheus.HistogramVec
}

func NewOrderMetrics(registry *prometheus.Registry) OrderMetrics {
	return &orderMetrics{
		orders: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_orders_total",
				Help: "Order attempts by outcome (success, decline, transport)",
			},
			[]string{"outcome"},
		),
		processorLatency: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "checkout_processor_request_duration_seconds",
				Help:    "Latency of order creation calls to the payment processor",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
}

func (m *orderMetrics) ObserveOrder(outcome string, duration time.Duration) {
	m.orders.WithLabelValues(outcome).Inc()
	m.processorLatency.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Nop discards observations.
type Nop struct{}

func (Nop) ObserveOrder(string, time.Duration) {}
