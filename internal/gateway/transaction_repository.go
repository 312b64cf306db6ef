package gateway

import (
	"context"

	"github.com/Aradhik11/fx-trading/internal/domain"
)

type TransactionRepository interface {
	// Create appends one ledger entry and fills in the generated ID and
	// CreatedAt. Entries are immutable once written.
	Create(ctx context.Context, transaction *domain.Transaction) error

	// GetByUser returns the user's entries, newest first.
	GetByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Transaction, error)

	// WithTx follows the same pattern as WalletRepository so the ledger
	// append joins the wallet mutation's atomic transaction.
	WithTx(tx TransactionObject) TransactionRepository
}
