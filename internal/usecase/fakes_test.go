package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Aradhik11/fx-trading/internal/domain"
	"github.com/Aradhik11/fx-trading/internal/gateway"
)

// memLedger backs the in-memory fakes. One instance plays the role of the
// database: wallets keyed by (user, currency) plus an append-only entry log.
type memLedger struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet
	entries []*domain.Transaction
}

func newMemLedger() *memLedger {
	return &memLedger{wallets: make(map[string]*domain.Wallet)}
}

func walletKey(userID, currency string) string {
	return userID + "/" + currency
}

func (m *memLedger) snapshot() (map[string]*domain.Wallet, []*domain.Transaction) {
	wallets := make(map[string]*domain.Wallet, len(m.wallets))
	for k, w := range m.wallets {
		clone := *w
		wallets[k] = &clone
	}
	entries := append([]*domain.Transaction(nil), m.entries...)
	return wallets, entries
}

func (m *memLedger) balanceOf(userID, currency string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[walletKey(userID, currency)]
	if !ok {
		return decimal.Zero
	}
	return w.Balance
}

func (m *memLedger) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// memUow serializes units of work the way row locks do in Postgres: one
// writer at a time, and a failed unit restores the pre-transaction state so
// rollback semantics hold for the atomicity tests.
type memUow struct {
	store *memLedger
}

func (u *memUow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	wallets, entries := u.store.snapshot()

	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, u.store)
	if err := fn(ctxWithTx); err != nil {
		u.store.wallets = wallets
		u.store.entries = entries
		return err
	}
	return nil
}

// fakeWalletRepo implements gateway.WalletRepository over the memLedger.
// Callers hold the store lock through memUow, so methods touch the maps
// directly.
type fakeWalletRepo struct {
	store *memLedger
}

func (r *fakeWalletRepo) GetByUser(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var wallets []*domain.Wallet
	for _, w := range r.store.wallets {
		if w.UserID == userID {
			clone := *w
			wallets = append(wallets, &clone)
		}
	}
	return wallets, nil
}

func (r *fakeWalletRepo) GetForUpdate(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	w, ok := r.store.wallets[walletKey(userID, currency)]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	clone := *w
	return &clone, nil
}

func (r *fakeWalletRepo) GetOrCreateForUpdate(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	key := walletKey(userID, currency)
	if _, ok := r.store.wallets[key]; !ok {
		now := time.Now()
		r.store.wallets[key] = &domain.Wallet{
			ID:        uuid.NewString(),
			UserID:    userID,
			Currency:  currency,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	clone := *r.store.wallets[key]
	return &clone, nil
}

func (r *fakeWalletRepo) findByID(walletID string) *domain.Wallet {
	for _, w := range r.store.wallets {
		if w.ID == walletID {
			return w
		}
	}
	return nil
}

func (r *fakeWalletRepo) Debit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	w := r.findByID(walletID)
	if w == nil {
		return nil, domain.ErrWalletNotFound
	}
	// Mirrors the SQL guard AND balance >= amount.
	if w.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	w.UpdatedAt = time.Now()
	clone := *w
	return &clone, nil
}

func (r *fakeWalletRepo) Credit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	w := r.findByID(walletID)
	if w == nil {
		return nil, domain.ErrWalletNotFound
	}
	w.Balance = w.Balance.Add(amount)
	w.UpdatedAt = time.Now()
	clone := *w
	return &clone, nil
}

func (r *fakeWalletRepo) WithTx(tx gateway.TransactionObject) gateway.WalletRepository {
	return r
}

type fakeTransactionRepo struct {
	store      *memLedger
	failCreate error
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now()
	clone := *tx
	r.store.entries = append(r.store.entries, &clone)
	return nil
}

func (r *fakeTransactionRepo) GetByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*domain.Transaction
	// Insertion order is creation order; walk backwards for newest first.
	for i := len(r.store.entries) - 1; i >= 0; i-- {
		e := r.store.entries[i]
		if e.UserID != userID {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if int32(len(result)) == limit {
			break
		}
		clone := *e
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeTransactionRepo) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	return r
}

type fakeRateProvider struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (p *fakeRateProvider) GetExchangeRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	p.calls++
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.rate, nil
}

func (p *fakeRateProvider) GetExchangeRates(ctx context.Context, base string) (gateway.Rates, error) {
	if p.err != nil {
		return nil, p.err
	}
	return gateway.Rates{}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	event, ok := body.(map[string]interface{})
	if !ok {
		return errors.New("unexpected event payload")
	}
	p.events = append(p.events, event)
	return nil
}

// testEngine bundles the wired usecases and their backing store.
type testEngine struct {
	store   *memLedger
	txRepo  *fakeTransactionRepo
	rates   *fakeRateProvider
	fund    *FundWalletUseCase
	convert *ConvertCurrencyUseCase
	trade   *TradeCurrencyUseCase
}

func newTestEngine(rate decimal.Decimal) *testEngine {
	store := newMemLedger()
	walletRepo := &fakeWalletRepo{store: store}
	txRepo := &fakeTransactionRepo{store: store}
	uow := &memUow{store: store}
	rates := &fakeRateProvider{rate: rate}

	convert := NewConvertCurrency(walletRepo, txRepo, uow, rates, nil)
	return &testEngine{
		store:   store,
		txRepo:  txRepo,
		rates:   rates,
		fund:    NewFundWallet(walletRepo, txRepo, uow, nil),
		convert: convert,
		trade:   NewTradeCurrency(convert),
	}
}
