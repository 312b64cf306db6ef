package usecase

import (
	"context"
	"fmt"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
)

type ListTransactionsInput struct {
	UserID string
	Limit  int32
	Offset int32
}

type ListTransactionsUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewListTransactions(transactionRepo gateway.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepository: transactionRepo,
	}
}

// Execute returns the user's ledger entries, newest first.
func (u *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	transactions, err := u.transactionRepository.GetByUser(ctx, input.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
