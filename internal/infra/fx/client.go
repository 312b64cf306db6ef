package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

// Client fetches exchange rates from an exchangerate-api.com style endpoint:
// GET {baseURL}/{apiKey}/latest/{currency} returns the full conversion table
// for that base. Any failure (network, non-200, malformed payload) surfaces
// as domain.ErrRateUnavailable.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type ratesResponse struct {
	Result          string                     `json:"result"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

func (c *Client) FetchRates(ctx context.Context, baseCurrency string) (gateway.Rates, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, baseCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrRateUnavailable, resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	if payload.Result != "success" || len(payload.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: provider returned no rates for %s", domain.ErrRateUnavailable, baseCurrency)
	}

	return gateway.Rates(payload.ConversionRates), nil
}
