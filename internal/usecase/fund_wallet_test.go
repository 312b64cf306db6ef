package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Aradhik11/fx-trading/internal/domain"
)

func TestFundWallet_RejectsNonPositiveAmount(t *testing.T) {
	engine := newTestEngine(decimal.Zero)

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-50),
	} {
		_, err := engine.fund.Execute(context.Background(), FundWalletInput{
			UserID:   "user-1",
			Currency: "NGN",
			Amount:   amount,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	// Rejected before any transaction: nothing was created.
	require.Zero(t, engine.store.entryCount())
	require.True(t, engine.store.balanceOf("user-1", "NGN").IsZero())
}

func TestFundWallet_RejectsEmptyCurrency(t *testing.T) {
	engine := newTestEngine(decimal.Zero)

	_, err := engine.fund.Execute(context.Background(), FundWalletInput{
		UserID: "user-1",
		Amount: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestFundWallet_CreatesWalletLazily(t *testing.T) {
	engine := newTestEngine(decimal.Zero)

	output, err := engine.fund.Execute(context.Background(), FundWalletInput{
		UserID:   "user-1",
		Currency: "NGN",
		Amount:   decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.Equal(t, "NGN", output.Wallet.Currency)
	require.True(t, output.Wallet.Balance.Equal(decimal.NewFromInt(1000)))
	require.NotEmpty(t, output.TransactionID)
}

func TestFundWallet_AccumulatesBalance(t *testing.T) {
	engine := newTestEngine(decimal.Zero)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := engine.fund.Execute(ctx, FundWalletInput{
			UserID:   "user-1",
			Currency: "USD",
			Amount:   decimal.RequireFromString("10.50"),
		})
		require.NoError(t, err)
	}

	require.True(t, engine.store.balanceOf("user-1", "USD").Equal(decimal.RequireFromString("31.50")))
	require.Equal(t, 3, engine.store.entryCount())
}

func TestFundWallet_WritesPairedLedgerEntry(t *testing.T) {
	engine := newTestEngine(decimal.Zero)

	_, err := engine.fund.Execute(context.Background(), FundWalletInput{
		UserID:   "user-1",
		Currency: "NGN",
		Amount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	entries, err := engine.txRepo.GetByUser(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	require.Equal(t, domain.TypeFunding, entry.Type)
	require.Equal(t, domain.StatusCompleted, entry.Status)
	require.Equal(t, "NGN", entry.SourceCurrency)
	require.Equal(t, "NGN", entry.TargetCurrency)
	require.True(t, entry.SourceAmount.Equal(decimal.NewFromInt(500)))
	require.True(t, entry.TargetAmount.Equal(decimal.NewFromInt(500)))
	require.True(t, entry.Rate.Equal(decimal.NewFromInt(1)))
}

func TestFundWallet_ConcurrentFundsDoNotLoseUpdates(t *testing.T) {
	engine := newTestEngine(decimal.Zero)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.fund.Execute(context.Background(), FundWalletInput{
				UserID:   "user-1",
				Currency: "NGN",
				Amount:   decimal.NewFromInt(500),
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.True(t, engine.store.balanceOf("user-1", "NGN").Equal(decimal.NewFromInt(1000)))
	require.Equal(t, 2, engine.store.entryCount())
}

func TestFundWallet_RollsBackWhenLedgerAppendFails(t *testing.T) {
	engine := newTestEngine(decimal.Zero)
	boom := errors.New("storage failure")
	engine.txRepo.failCreate = boom

	_, err := engine.fund.Execute(context.Background(), FundWalletInput{
		UserID:   "user-1",
		Currency: "NGN",
		Amount:   decimal.NewFromInt(500),
	})
	require.ErrorIs(t, err, boom)

	// Full rollback: no wallet mutation, no ledger entry.
	require.True(t, engine.store.balanceOf("user-1", "NGN").IsZero())
	require.Zero(t, engine.store.entryCount())
}

func TestFundWallet_PublishesEventAfterCommit(t *testing.T) {
	store := newMemLedger()
	walletRepo := &fakeWalletRepo{store: store}
	txRepo := &fakeTransactionRepo{store: store}
	publisher := &recordingPublisher{}
	fund := NewFundWallet(walletRepo, txRepo, &memUow{store: store}, publisher)

	_, err := fund.Execute(context.Background(), FundWalletInput{
		UserID:   "user-1",
		Currency: "NGN",
		Amount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	require.Equal(t, domain.TypeFunding, publisher.events[0]["type"])
	require.Equal(t, "user-1", publisher.events[0]["user_id"])
}
