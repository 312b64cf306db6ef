package gateway

import "context"

// TransactionObject is the opaque badge that carries the database transaction.
type TransactionObject interface{}

// TransactionManager knows how to begin/commit transactions (Unit of Work).
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionKeyType avoids key collisions in the context.
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"
