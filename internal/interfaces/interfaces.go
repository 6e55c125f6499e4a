package interfaces

import (
	"context"
	"time"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

// OrderGateway defines the contract for submitting an order to the processor.
// Implementations report every failure inside the returned response.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) *models.GatewayResponse
}

// OutboundIPCache defines the contract for caching the server's public IP.
// Get returns ok=false on a miss.
type OutboundIPCache interface {
	Get(ctx context.Context) (ip string, ok bool, err error)
	Set(ctx context.Context, ip string, ttl time.Duration) error
}
