package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every monetary amount is kept at.
// It matches the NUMERIC(20,8) columns, so converting back and forth between
// currencies can never accumulate rounding drift beyond the ledger precision.
const Scale = 8

// Wallet represents one per-user, per-currency balance.
// The pair (UserID, Currency) is unique; the balance is never negative.
type Wallet struct {
	ID        string
	UserID    string
	Currency  string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSufficientFunds validates that the wallet can cover a debit
// before we even touch the database.
func (w *Wallet) HasSufficientFunds(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !w.HasSufficientFunds(amount) {
		return ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

func (w *Wallet) Credit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// ConvertAmount values amount in the target currency at the given rate,
// rounded to the ledger scale. Every credit of a conversion goes through this
// so the conservation property holds at exactly Scale fractional digits.
func ConvertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(Scale)
}
