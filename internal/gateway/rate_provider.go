package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Rates maps currency codes to their rate against a base currency.
type Rates map[string]decimal.Decimal

// RateProvider supplies exchange rates. Implementations may cache; a failure
// of the upstream source surfaces as domain.ErrRateUnavailable.
type RateProvider interface {
	// GetExchangeRate returns the positive source->target rate.
	GetExchangeRate(ctx context.Context, sourceCurrency, targetCurrency string) (decimal.Decimal, error)

	// GetExchangeRates returns the full table for a base currency.
	GetExchangeRates(ctx context.Context, baseCurrency string) (Rates, error)
}

// RateCache stores fetched rate tables for a bounded time.
type RateCache interface {
	// Get returns the cached table, or (nil, nil) on a miss.
	Get(ctx context.Context, baseCurrency string) (Rates, error)

	Save(ctx context.Context, baseCurrency string, rates Rates, ttl time.Duration) error
}
