package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type sequentialIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequentialIDs) Generate() string {
	return fmt.Sprintf("%s%06d", g.prefix, g.n.Add(1))
}

type memoryEnv struct {
	store   *memory.Store
	wallets *memory.WalletRepository
	log     *memory.TransactionLog
	users   *memory.UserRepository
	outbox  *memory.OutboxRepository
	uow     *usecase.UnitOfWork
	ledger  *usecase.LedgerUseCase
	history *usecase.HistoryUseCase
	recon   *usecase.ReconciliationUseCase
}

func newMemoryEnv(t *testing.T) *memoryEnv {
	t.Helper()

	store := memory.NewStore()
	env := &memoryEnv{
		store:   store,
		wallets: memory.NewWalletRepository(store),
		log:     memory.NewTransactionLog(store),
		users:   memory.NewUserRepository(store),
		outbox:  memory.NewOutboxRepository(store),
	}

	env.uow = usecase.NewUnitOfWork(memory.NewTxManager(store), nil)
	env.ledger = usecase.NewLedgerUseCase(env.uow, env.wallets, env.log, env.outbox, &sequentialIDs{prefix: "id-"}, nil, nil, zerolog.Nop())
	env.history = usecase.NewHistoryUseCase(env.wallets, env.log)
	env.recon = usecase.NewReconciliationUseCase(env.wallets, env.log)

	return env
}

// seedWallet creates a user and wallet, crediting balance through the ledger
// so the transaction log stays consistent.
func (e *memoryEnv) seedWallet(t *testing.T, walletID, email string, balance decimal.Decimal) *domain.Wallet {
	t.Helper()

	now := time.Now().UTC()
	user := &domain.User{ID: "user-" + walletID, Email: email, CPF: "cpf-" + walletID, CreatedAt: now, UpdatedAt: now}
	wallet := domain.NewWallet(walletID, user, now)

	err := e.uow.Do(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		if err := e.users.Create(ctx, tx, user); err != nil {
			return err
		}
		return e.wallets.Create(ctx, tx, wallet)
	})
	if err != nil {
		t.Fatalf("seed wallet %s: %v", walletID, err)
	}

	if balance.IsPositive() {
		if _, err := e.ledger.Deposit(context.Background(), walletID, balance); err != nil {
			t.Fatalf("seed deposit %s: %v", walletID, err)
		}
	}

	return wallet
}

func (e *memoryEnv) balance(t *testing.T, walletID string) decimal.Decimal {
	t.Helper()

	w, err := e.wallets.GetByID(context.Background(), walletID)
	if err != nil {
		t.Fatalf("get wallet %s: %v", walletID, err)
	}
	return w.Balance
}

func (e *memoryEnv) records(t *testing.T, walletID string) []*domain.TransactionRecord {
	t.Helper()

	records, err := e.log.ListByWallet(context.Background(), domain.TransactionFilter{WalletID: walletID})
	if err != nil {
		t.Fatalf("list records %s: %v", walletID, err)
	}
	return records
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decimalMatcher matches decimals by value rather than representation.
type decimalMatcher struct {
	want decimal.Decimal
}

func decEq(s string) decimalMatcher {
	return decimalMatcher{want: dec(s)}
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is decimal " + m.want.String()
}
