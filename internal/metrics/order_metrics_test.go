package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOrderCountsByOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewOrderMetrics(registry).(*orderMetrics)

	m.ObserveOrder("success", 120*time.Millisecond)
	m.ObserveOrder("decline", 90*time.Millisecond)
	m.ObserveOrder("decline", 95*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.orders.WithLabelValues("decline")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.orders.WithLabelValues("transport")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.processorLatency))
}
