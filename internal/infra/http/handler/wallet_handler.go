package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/infra/http/middleware"
	"github.com/Aradhik11/fx-trading/internal/usecase"
)

// WalletHandler exposes the wallet operations over HTTP. The user identity
// always comes from the verified token in the request context, never from
// the payload.
type WalletHandler struct {
	fundUseCase    *usecase.FundWalletUseCase
	convertUseCase *usecase.ConvertCurrencyUseCase
	tradeUseCase   *usecase.TradeCurrencyUseCase
	getUseCase     *usecase.GetWalletsUseCase
}

func NewWalletHandler(
	fundUC *usecase.FundWalletUseCase,
	convertUC *usecase.ConvertCurrencyUseCase,
	tradeUC *usecase.TradeCurrencyUseCase,
	getUC *usecase.GetWalletsUseCase,
) *WalletHandler {
	return &WalletHandler{
		fundUseCase:    fundUC,
		convertUseCase: convertUC,
		tradeUseCase:   tradeUC,
		getUseCase:     getUC,
	}
}

type FundWalletRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type ConvertCurrencyRequest struct {
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
	Amount         decimal.Decimal `json:"amount"`
}

type WalletResponse struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type FundWalletResponse struct {
	TransactionID string         `json:"transaction_id"`
	Wallet        WalletResponse `json:"wallet"`
}

type ConvertCurrencyResponse struct {
	TransactionID string          `json:"transaction_id"`
	Rate          decimal.Decimal `json:"rate"`
	SourceWallet  WalletResponse  `json:"source_wallet"`
	TargetWallet  WalletResponse  `json:"target_wallet"`
}

func (h *WalletHandler) Fund(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req FundWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	output, err := h.fundUseCase.Execute(r.Context(), usecase.FundWalletInput{
		UserID:   userID,
		Currency: req.Currency,
		Amount:   req.Amount,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, FundWalletResponse{
		TransactionID: output.TransactionID,
		Wallet:        toWalletResponse(output.Wallet),
	})
}

func (h *WalletHandler) Convert(w http.ResponseWriter, r *http.Request) {
	h.exchange(w, r, false)
}

func (h *WalletHandler) Trade(w http.ResponseWriter, r *http.Request) {
	h.exchange(w, r, true)
}

func (h *WalletHandler) exchange(w http.ResponseWriter, r *http.Request, trade bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ConvertCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	input := usecase.ConvertCurrencyInput{
		UserID:         userID,
		SourceCurrency: req.SourceCurrency,
		TargetCurrency: req.TargetCurrency,
		Amount:         req.Amount,
	}

	var (
		output *usecase.ConvertCurrencyOutput
		err    error
	)
	if trade {
		output, err = h.tradeUseCase.Execute(r.Context(), input)
	} else {
		output, err = h.convertUseCase.Execute(r.Context(), input)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ConvertCurrencyResponse{
		TransactionID: output.TransactionID,
		Rate:          output.Rate,
		SourceWallet:  toWalletResponse(output.SourceWallet),
		TargetWallet:  toWalletResponse(output.TargetWallet),
	})
}

func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wallets, err := h.getUseCase.Execute(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list wallets")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]WalletResponse, 0, len(wallets))
	for _, wallet := range wallets {
		response = append(response, toWalletResponse(wallet))
	}
	respondJSON(w, http.StatusOK, response)
}

func toWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID,
		Currency:  w.Currency,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

// respondDomainError maps domain errors to stable HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrSameCurrency):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWalletNotFound):
		respondError(w, http.StatusNotFound, "Wallet not found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, "Insufficient balance")
	case errors.Is(err, domain.ErrRateUnavailable):
		respondError(w, http.StatusServiceUnavailable, "Exchange rate unavailable")
	case errors.Is(err, domain.ErrStorageContention):
		// The operation rolled back cleanly; the client may retry.
		respondError(w, http.StatusConflict, "Operation conflicted, please retry")
	default:
		log.Error().Err(err).Msg("internal error processing wallet operation")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
