package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

// dbtx is the slice of pgx both *pgxpool.Pool and pgx.Tx satisfy, so the
// same repository code runs pooled or inside a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WalletRepository implements gateway.WalletRepository using pgx/v5.
// Monetary columns are NUMERIC(20,8) and scan straight into
// decimal.Decimal via the registered pgx-shopspring-decimal codec.
type WalletRepository struct {
	db dbtx
}

func NewWalletRepository(db dbtx) *WalletRepository {
	return &WalletRepository{db: db}
}

const walletColumns = `id, user_id, currency, balance, created_at, updated_at`

func (r *WalletRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 ORDER BY currency`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wallets: %w", err)
	}
	return wallets, nil
}

// GetForUpdate locks the wallet row for the rest of the enclosing
// transaction. Nobody else touches it until commit or rollback.
func (r *WalletRepository) GetForUpdate(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 AND currency = $2 FOR UPDATE`,
		userID, currency,
	)
	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return wallet, nil
}

// GetOrCreateForUpdate inserts the wallet with a zero balance if it does not
// exist yet, then locks it. ON CONFLICT DO NOTHING makes the insert safe
// against a concurrent first-funding of the same pair; whoever loses the
// race simply locks the winner's row.
func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wallets (id, user_id, currency, balance)
		 VALUES ($1, $2, $3, 0)
		 ON CONFLICT (user_id, currency) DO NOTHING`,
		uuid.NewString(), userID, currency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.GetForUpdate(ctx, userID, currency)
}

// Debit validates the balance in the database itself: the WHERE clause only
// matches while balance >= amount, so a wallet can never go negative.
func (r *WalletRepository) Debit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE wallets
		 SET balance = balance - $2, updated_at = now()
		 WHERE id = $1 AND balance >= $2
		 RETURNING `+walletColumns,
		walletID, amount,
	)
	wallet, err := scanWallet(row)
	if err != nil {
		// No row matched: the balance guard failed.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}
	return wallet, nil
}

func (r *WalletRepository) Credit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE wallets
		 SET balance = balance + $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+walletColumns,
		walletID, amount,
	)
	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return wallet, nil
}

// WithTx returns a copy of the repository bound to a specific transaction.
func (r *WalletRepository) WithTx(tx gateway.TransactionObject) gateway.WalletRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &WalletRepository{db: pgTx}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Currency, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
