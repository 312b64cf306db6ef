package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

type FundWalletInput struct {
	UserID   string
	Currency string
	Amount   decimal.Decimal
}

type FundWalletOutput struct {
	Wallet        *domain.Wallet
	TransactionID string
}

// FundWalletUseCase deposits into a (user, currency) wallet, creating it
// lazily on first use. The balance update and its ledger entry are one
// atomic unit: either both commit or neither does.
type FundWalletUseCase struct {
	walletRepository      gateway.WalletRepository
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
}

func NewFundWallet(
	walletRepo gateway.WalletRepository,
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *FundWalletUseCase {
	return &FundWalletUseCase{
		walletRepository:      walletRepo,
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *FundWalletUseCase) Execute(ctx context.Context, input FundWalletInput) (*FundWalletOutput, error) {
	// Cheap local checks before any lock is taken or transaction opened.
	// A zero amount is rejected, never silently accepted as a no-op.
	if input.Amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.Currency == "" {
		return nil, domain.ErrInvalidCurrency
	}

	var (
		wallet  *domain.Wallet
		created *domain.Transaction
	)

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("critical: transaction not found in context")
		}

		walletRepoTx := u.walletRepository.WithTx(transactionObject)
		transactionRepoTx := u.transactionRepository.WithTx(transactionObject)

		// Lock the wallet row (creating it first if this is the user's
		// first deposit in this currency). Concurrent deposits on the same
		// wallet serialize here and each one observes the previous balance.
		locked, err := walletRepoTx.GetOrCreateForUpdate(contextWithTx, input.UserID, input.Currency)
		if err != nil {
			return fmt.Errorf("failed to lock wallet %s/%s: %w", input.UserID, input.Currency, err)
		}

		wallet, err = walletRepoTx.Credit(contextWithTx, locked.ID, input.Amount)
		if err != nil {
			return fmt.Errorf("failed to credit wallet %s: %w", locked.ID, err)
		}

		created = &domain.Transaction{
			UserID:         input.UserID,
			Type:           domain.TypeFunding,
			Status:         domain.StatusCompleted,
			SourceCurrency: input.Currency,
			SourceAmount:   input.Amount,
			TargetCurrency: input.Currency,
			TargetAmount:   input.Amount,
			Rate:           decimal.NewFromInt(1),
		}
		if err := transactionRepoTx.Create(contextWithTx, created); err != nil {
			return fmt.Errorf("failed to record funding transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	publishTransactionEvent(ctx, u.eventPublisher, created)

	return &FundWalletOutput{
		Wallet:        wallet,
		TransactionID: created.ID,
	}, nil
}

// publishTransactionEvent emits transaction.completed after commit. Event
// delivery is best effort: a broker failure is logged, never surfaced to the
// caller, because the money already moved.
func publishTransactionEvent(ctx context.Context, publisher gateway.EventPublisher, tx *domain.Transaction) {
	if publisher == nil {
		return
	}

	event := map[string]interface{}{
		"transaction_id":  tx.ID,
		"user_id":         tx.UserID,
		"type":            tx.Type,
		"status":          tx.Status,
		"source_currency": tx.SourceCurrency,
		"source_amount":   tx.SourceAmount,
		"target_currency": tx.TargetCurrency,
		"target_amount":   tx.TargetAmount,
		"rate":            tx.Rate,
	}
	if err := publisher.Publish(ctx, "fx_events", "transaction.completed", event); err != nil {
		log.Error().Err(err).Str("transaction_id", tx.ID).Msg("failed to publish transaction event")
	}
}
