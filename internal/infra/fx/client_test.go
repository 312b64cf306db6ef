package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Aradhik11/fx-trading/internal/domain"
)

func TestClientFetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/test-key/latest/NGN", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": "success",
			"base_code": "NGN",
			"conversion_rates": {"USD": 0.0025, "EUR": 0.0023}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	rates, err := client.FetchRates(context.Background(), "NGN")
	require.NoError(t, err)
	require.Len(t, rates, 2)
	require.True(t, rates["USD"].Equal(decimal.RequireFromString("0.0025")))
}

func TestClientFetchRatesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.FetchRates(context.Background(), "NGN")
	require.ErrorIs(t, err, domain.ErrRateUnavailable)
}

func TestClientFetchRatesEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": "error"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.FetchRates(context.Background(), "NGN")
	require.ErrorIs(t, err, domain.ErrRateUnavailable)
}

func TestClientFetchRatesConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key")
	_, err := client.FetchRates(context.Background(), "NGN")
	require.ErrorIs(t, err, domain.ErrRateUnavailable)
}
