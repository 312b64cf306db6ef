package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

// Uow implements gateway.TransactionManager over a pgx pool.
type Uow struct {
	pool *pgxpool.Pool
}

func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{pool: pool}
}

// Run executes fn inside one ACID transaction: rollback if fn returns an
// error, commit otherwise. The pgx.Tx travels to the repositories through
// the context under gateway.TransactionKey.
func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel: pgx.ReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Deferred rollback: if Commit is never reached (error or panic),
	// every row lock is released and every in-flight mutation discarded.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Bound lock waits so an operation stuck behind a contended wallet row
	// fails fast with a retryable error instead of queueing forever.
	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '3s'"); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, tx)

	if err := fn(ctxWithTx); err != nil {
		return translateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// translateError surfaces Postgres lock timeouts, serialization failures and
// deadlocks as domain.ErrStorageContention so callers know a retry is safe.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01":
			return fmt.Errorf("%w: %s", domain.ErrStorageContention, pgErr.Code)
		}
	}
	return err
}
