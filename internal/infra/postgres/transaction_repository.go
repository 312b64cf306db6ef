package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

type TransactionRepository struct {
	db dbtx
}

func NewTransactionRepository(db dbtx) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends one ledger entry. Called through WithTx it joins the wallet
// mutation's transaction, so the entry and the balance change are durable
// together or not at all.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	id := uuid.NewString()

	row := r.db.QueryRow(ctx,
		`INSERT INTO transactions
		   (id, user_id, type, status, source_currency, source_amount,
		    target_currency, target_amount, rate, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		id, tx.UserID, tx.Type, tx.Status,
		tx.SourceCurrency, tx.SourceAmount,
		tx.TargetCurrency, tx.TargetAmount,
		tx.Rate, tx.Metadata,
	)
	if err := row.Scan(&tx.ID, &tx.CreatedAt); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, status, source_currency, source_amount,
		        target_currency, target_amount, rate, metadata, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Status,
			&t.SourceCurrency, &t.SourceAmount,
			&t.TargetCurrency, &t.TargetAmount,
			&t.Rate, &t.Metadata, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to read transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransactionRepository{db: pgTx}
}
