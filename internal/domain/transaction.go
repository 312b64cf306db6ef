package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeFunding    TransactionType = "funding"
	TypeConversion TransactionType = "conversion"
	TypeTrade      TransactionType = "trade"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is one immutable ledger entry. It is written in the same
// database transaction as the wallet mutation it describes: the two commit
// or roll back together, never one without the other.
//
// The type is declared by the caller at creation time. A trade is recorded
// as a trade from the start; we never relabel rows after the fact, because
// "most recent row for this user" is a moving target under concurrency.
type Transaction struct {
	ID             string
	UserID         string
	Type           TransactionType
	Status         TransactionStatus
	SourceCurrency string
	SourceAmount   decimal.Decimal
	TargetCurrency string
	TargetAmount   decimal.Decimal
	// Rate is the exchange rate applied (1 for same-currency funding).
	Rate      decimal.Decimal
	Metadata  *string
	CreatedAt time.Time
}
