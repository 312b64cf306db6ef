package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

type ConvertCurrencyInput struct {
	UserID         string
	SourceCurrency string
	TargetCurrency string
	Amount         decimal.Decimal
}

type ConvertCurrencyOutput struct {
	SourceWallet  *domain.Wallet
	TargetWallet  *domain.Wallet
	Rate          decimal.Decimal
	TransactionID string
}

// ConvertCurrencyUseCase moves value between two of a user's currency wallets
// at a fetched exchange rate. Trade shares these exact mechanics and only
// differs in the type recorded on the ledger entry, so both run through
// execute with the intent passed in.
type ConvertCurrencyUseCase struct {
	walletRepository      gateway.WalletRepository
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	rateProvider          gateway.RateProvider
	eventPublisher        gateway.EventPublisher
}

func NewConvertCurrency(
	walletRepo gateway.WalletRepository,
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	rateProvider gateway.RateProvider,
	publisher gateway.EventPublisher,
) *ConvertCurrencyUseCase {
	return &ConvertCurrencyUseCase{
		walletRepository:      walletRepo,
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		rateProvider:          rateProvider,
		eventPublisher:        publisher,
	}
}

func (u *ConvertCurrencyUseCase) Execute(ctx context.Context, input ConvertCurrencyInput) (*ConvertCurrencyOutput, error) {
	return u.execute(ctx, input, domain.TypeConversion)
}

func (u *ConvertCurrencyUseCase) execute(ctx context.Context, input ConvertCurrencyInput, intent domain.TransactionType) (*ConvertCurrencyOutput, error) {
	// Validations run before any rate fetch, lock, or transaction.
	if input.Amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.SourceCurrency == "" || input.TargetCurrency == "" {
		return nil, domain.ErrInvalidCurrency
	}
	if input.SourceCurrency == input.TargetCurrency {
		return nil, domain.ErrSameCurrency
	}

	// The rate is fetched before the wallet transaction opens, so no row
	// lock is ever held across the network call. The flip side is that the
	// rate can be seconds stale by commit time; fetching inside the lock
	// would serialize every conversion behind provider latency, so the
	// staleness is accepted and the applied rate is recorded on the entry.
	rate, err := u.rateProvider.GetExchangeRate(ctx, input.SourceCurrency, input.TargetCurrency)
	if err != nil {
		return nil, err
	}
	convertedAmount := domain.ConvertAmount(input.Amount, rate)

	var (
		out     *ConvertCurrencyOutput
		created *domain.Transaction
	)

	err = u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("critical: transaction not found in context")
		}

		walletRepoTx := u.walletRepository.WithTx(transactionObject)
		transactionRepoTx := u.transactionRepository.WithTx(transactionObject)

		// Lock both wallet rows in lexicographic currency order. Two
		// conversions on the same user running in opposite directions
		// (NGN->USD and USD->NGN) always lock the same row first, so
		// they cannot deadlock each other.
		var sourceWallet, targetWallet *domain.Wallet
		lockWallet := func(currency string) error {
			var err error
			if currency == input.SourceCurrency {
				// The source must already exist and hold funds.
				sourceWallet, err = walletRepoTx.GetForUpdate(contextWithTx, input.UserID, currency)
			} else {
				// The target is created lazily with a zero balance.
				targetWallet, err = walletRepoTx.GetOrCreateForUpdate(contextWithTx, input.UserID, currency)
			}
			if err != nil {
				return fmt.Errorf("failed to lock wallet %s/%s: %w", input.UserID, currency, err)
			}
			return nil
		}

		firstCurrency, secondCurrency := input.SourceCurrency, input.TargetCurrency
		if firstCurrency > secondCurrency {
			firstCurrency, secondCurrency = secondCurrency, firstCurrency
		}
		if err := lockWallet(firstCurrency); err != nil {
			return err
		}
		if err := lockWallet(secondCurrency); err != nil {
			return err
		}

		if !sourceWallet.HasSufficientFunds(input.Amount) {
			return domain.ErrInsufficientFunds
		}

		// The Debit query re-checks balance >= amount in SQL; a concurrent
		// writer cannot slip between the check above and this update while
		// we hold the row lock, but the guard costs nothing.
		sourceWallet, err := walletRepoTx.Debit(contextWithTx, sourceWallet.ID, input.Amount)
		if err != nil {
			return fmt.Errorf("failed to debit %s wallet: %w", input.SourceCurrency, err)
		}

		targetWallet, err = walletRepoTx.Credit(contextWithTx, targetWallet.ID, convertedAmount)
		if err != nil {
			return fmt.Errorf("failed to credit %s wallet: %w", input.TargetCurrency, err)
		}

		// The intent (conversion vs trade) is written at creation time.
		created = &domain.Transaction{
			UserID:         input.UserID,
			Type:           intent,
			Status:         domain.StatusCompleted,
			SourceCurrency: input.SourceCurrency,
			SourceAmount:   input.Amount,
			TargetCurrency: input.TargetCurrency,
			TargetAmount:   convertedAmount,
			Rate:           rate,
		}
		if err := transactionRepoTx.Create(contextWithTx, created); err != nil {
			return fmt.Errorf("failed to record %s transaction: %w", intent, err)
		}

		out = &ConvertCurrencyOutput{
			SourceWallet:  sourceWallet,
			TargetWallet:  targetWallet,
			Rate:          rate,
			TransactionID: created.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishTransactionEvent(ctx, u.eventPublisher, created)

	return out, nil
}
