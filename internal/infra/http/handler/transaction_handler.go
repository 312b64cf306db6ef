package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/infra/http/middleware"
	"github.com/Aradhik11/fx-trading/internal/usecase"
)

type TransactionHandler struct {
	listUseCase *usecase.ListTransactionsUseCase
}

func NewTransactionHandler(listUC *usecase.ListTransactionsUseCase) *TransactionHandler {
	return &TransactionHandler{listUseCase: listUC}
}

type TransactionResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	SourceCurrency string          `json:"source_currency"`
	SourceAmount   decimal.Decimal `json:"source_amount"`
	TargetCurrency string          `json:"target_currency"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	Rate           decimal.Decimal `json:"rate"`
	CreatedAt      string          `json:"created_at"`
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := parseQueryInt(r, "limit")
	offset := parseQueryInt(r, "offset")

	transactions, err := h.listUseCase.Execute(r.Context(), usecase.ListTransactionsInput{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list transactions")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, toTransactionResponse(tx))
	}
	respondJSON(w, http.StatusOK, response)
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Type:           string(t.Type),
		Status:         string(t.Status),
		SourceCurrency: t.SourceCurrency,
		SourceAmount:   t.SourceAmount,
		TargetCurrency: t.TargetCurrency,
		TargetAmount:   t.TargetAmount,
		Rate:           t.Rate,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}

func parseQueryInt(r *http.Request, name string) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0
	}
	return int32(value)
}
