package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aradhik11/fx-trading/internal/gateway"
)

// RateCache stores fetched rate tables in Redis so repeated conversions do
// not hammer the upstream provider. Decimal values survive the JSON
// round-trip as strings, so no precision is lost in the cache.
type RateCache struct {
	client *redis.Client
}

func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{client: client}
}

func (c *RateCache) Get(ctx context.Context, baseCurrency string) (gateway.Rates, error) {
	val, err := c.client.Get(ctx, "fx_rates:"+baseCurrency).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached rates: %w", err)
	}

	var rates gateway.Rates
	if err := json.Unmarshal([]byte(val), &rates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached rates: %w", err)
	}
	return rates, nil
}

func (c *RateCache) Save(ctx context.Context, baseCurrency string, rates gateway.Rates, ttl time.Duration) error {
	bytes, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	return c.client.Set(ctx, "fx_rates:"+baseCurrency, bytes, ttl).Err()
}
