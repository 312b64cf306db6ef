package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

type FxHandler struct {
	rateProvider gateway.RateProvider
}

func NewFxHandler(rateProvider gateway.RateProvider) *FxHandler {
	return &FxHandler{rateProvider: rateProvider}
}

type RatesResponse struct {
	BaseCode        string        `json:"base_code"`
	ConversionRates gateway.Rates `json:"conversion_rates"`
}

// Rates returns the conversion table for a base currency (default USD).
func (h *FxHandler) Rates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = "USD"
	}

	rates, err := h.rateProvider.GetExchangeRates(r.Context(), base)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "Exchange rate unavailable")
			return
		}
		log.Error().Err(err).Str("base", base).Msg("failed to fetch rates")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, RatesResponse{
		BaseCode:        base,
		ConversionRates: rates,
	})
}
