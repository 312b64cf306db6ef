package domain

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidCurrency   = errors.New("currency code must not be empty")
	ErrSameCurrency      = errors.New("source and target currencies cannot be the same")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrRateUnavailable   = errors.New("exchange rate unavailable")
	// ErrStorageContention marks lock timeouts and transaction conflicts.
	// The operation rolled back cleanly and is safe to retry.
	ErrStorageContention = errors.New("storage contention")
)
