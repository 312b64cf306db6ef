package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

const defaultCacheTTL = 5 * time.Minute

// Service implements gateway.RateProvider: a cache in front of the upstream
// client. The cache is optional and fail-open; if Redis is down we still
// serve rates, just slower.
type Service struct {
	client *Client
	cache  gateway.RateCache
	ttl    time.Duration
}

func NewService(client *Client, cache gateway.RateCache) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    defaultCacheTTL,
	}
}

func (s *Service) GetExchangeRates(ctx context.Context, baseCurrency string) (gateway.Rates, error) {
	if s.cache != nil {
		rates, err := s.cache.Get(ctx, baseCurrency)
		if err != nil {
			log.Warn().Err(err).Str("base", baseCurrency).Msg("rate cache lookup failed, falling through to provider")
		} else if rates != nil {
			return rates, nil
		}
	}

	rates, err := s.client.FetchRates(ctx, baseCurrency)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, baseCurrency, rates, s.ttl); err != nil {
			log.Warn().Err(err).Str("base", baseCurrency).Msg("failed to cache rates")
		}
	}
	return rates, nil
}

// GetExchangeRate picks the source->target rate out of the table for the
// source currency. Rates must be strictly positive to be usable.
func (s *Service) GetExchangeRate(ctx context.Context, sourceCurrency, targetCurrency string) (decimal.Decimal, error) {
	rates, err := s.GetExchangeRates(ctx, sourceCurrency)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates[targetCurrency]
	if !ok || rate.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: no %s->%s rate", domain.ErrRateUnavailable, sourceCurrency, targetCurrency)
	}
	return rate, nil
}
