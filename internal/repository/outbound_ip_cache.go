package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const outboundIPKey = "checkout:outbound_ip"

type OutboundIPCache struct {
	client redis.Cmdable
}

func NewOutboundIPCache(client redis.Cmdable) *OutboundIPCache {
	return &OutboundIPCache{client: client}
}

func (c *OutboundIPCache) Get(ctx context.Context) (string, bool, error) {
	ip, err := c.client.Get(ctx, outboundIPKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ip, true, nil
}

func (c *OutboundIPCache) Set(ctx context.Context, ip string, ttl time.Duration) error {
	return c.client.Set(ctx, outboundIPKey, ip, ttl).Err()
}
