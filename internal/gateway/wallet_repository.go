package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
)

// WalletRepository is the persistence contract for wallets. The usecases only
// interact with this; they do not know or care that it is Postgres.
type WalletRepository interface {
	GetByUser(ctx context.Context, userID string) ([]*domain.Wallet, error)

	// GetForUpdate returns the (userID, currency) wallet with its row locked
	// (SELECT ... FOR UPDATE). Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, userID, currency string) (*domain.Wallet, error)

	// GetOrCreateForUpdate is GetForUpdate with lazy creation: a wallet that
	// does not exist yet is created with a zero balance, then locked.
	GetOrCreateForUpdate(ctx context.Context, userID, currency string) (*domain.Wallet, error)

	// Debit subtracts amount, guarded in SQL by balance >= amount so the
	// non-negativity invariant holds even if the caller skipped the check.
	// Returns the updated wallet, or domain.ErrInsufficientFunds.
	Debit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error)

	// Credit adds amount and returns the updated wallet.
	Credit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error)

	// WithTx returns a copy of the repository bound to the given transaction,
	// so its statements participate in the enclosing BEGIN...COMMIT.
	WithTx(tx TransactionObject) WalletRepository
}
