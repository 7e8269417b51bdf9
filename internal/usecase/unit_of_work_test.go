package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)
	tx := mocks.NewMockTx(ctrl)

	gomock.InOrder(
		txm.EXPECT().Begin(gomock.Any()).Return(tx, nil),
		tx.EXPECT().Commit(gomock.Any()).Return(nil),
		tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	uow := usecase.NewUnitOfWork(txm, nil)

	called := false
	err := uow.Do(context.Background(), func(ctx context.Context, got usecase.Tx) error {
		called = true
		if got != tx {
			t.Fatalf("expected the begun transaction to be passed through")
		}
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("expected unit of work context to carry a deadline")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected fn to be called")
	}
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)
	tx := mocks.NewMockTx(ctrl)

	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uow := usecase.NewUnitOfWork(txm, nil)
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(context.Context, usecase.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestUnitOfWork_BeginError(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)

	beginErr := errors.New("pool exhausted")
	txm.EXPECT().Begin(gomock.Any()).Return(nil, beginErr)

	uow := usecase.NewUnitOfWork(txm, nil)

	err := uow.Do(context.Background(), func(context.Context, usecase.Tx) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error, got %v", err)
	}
}

func TestUnitOfWork_RetriesWholeUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	first := mocks.NewMockTx(ctrl)
	second := mocks.NewMockTx(ctrl)

	conflict := errors.New("serialization failure")

	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		if err := op(); !errors.Is(err, conflict) {
			return err
		}
		return op()
	})

	gomock.InOrder(
		txm.EXPECT().Begin(gomock.Any()).Return(first, nil),
		first.EXPECT().Commit(gomock.Any()).Return(conflict),
		first.EXPECT().Rollback(gomock.Any()).Return(nil),
		txm.EXPECT().Begin(gomock.Any()).Return(second, nil),
		second.EXPECT().Commit(gomock.Any()).Return(nil),
		second.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	uow := usecase.NewUnitOfWork(txm, retrier)

	runs := 0
	err := uow.Do(context.Background(), func(context.Context, usecase.Tx) error {
		runs++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != 2 {
		t.Fatalf("expected fn to run twice, got %d", runs)
	}
}

func TestLedgerUseCase_TransferRollsBackWhenLogFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)
	tx := mocks.NewMockTx(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	txLog := mocks.NewMockTransactionLog(ctrl)
	outbox := mocks.NewMockOutboxRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	now := time.Now().UTC()
	sender := &domain.Wallet{ID: "a", UserID: "u-a", OwnerEmail: "a@example.com", Balance: dec("100"), CreatedAt: now}
	receiver := &domain.Wallet{ID: "b", UserID: "u-b", OwnerEmail: "b@example.com", Balance: dec("0"), CreatedAt: now}
	logErr := errors.New("disk full")

	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	walletRepo.EXPECT().GetByIDsForUpdate(gomock.Any(), tx, []string{"a", "b"}).Return([]*domain.Wallet{sender, receiver}, nil)
	walletRepo.EXPECT().AdjustBalance(gomock.Any(), tx, "a", decEq("-40"), gomock.Any()).Return(&domain.Wallet{ID: "a", Balance: dec("60")}, nil)
	walletRepo.EXPECT().AdjustBalance(gomock.Any(), tx, "b", decEq("40"), gomock.Any()).Return(&domain.Wallet{ID: "b", Balance: dec("40")}, nil)
	txLog.EXPECT().Append(gomock.Any(), tx, gomock.Any()).Return(logErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	// No Commit, no outbox write, no cache invalidation.
	tx.EXPECT().Commit(gomock.Any()).Times(0)
	outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	uow := usecase.NewUnitOfWork(txm, nil)
	ledger := usecase.NewLedgerUseCase(uow, walletRepo, txLog, outbox, &sequentialIDs{}, cache, nil, zerolog.Nop())

	_, err := ledger.Transfer(context.Background(), domain.TransferIntent{SenderWalletID: "a", ReceiverWalletID: "b", Amount: dec("40")})
	if !errors.Is(err, logErr) {
		t.Fatalf("expected log error, got %v", err)
	}
}

func TestLedgerUseCase_DepositInvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)
	tx := mocks.NewMockTx(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	txLog := mocks.NewMockTransactionLog(ctrl)
	outbox := mocks.NewMockOutboxRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	walletRepo.EXPECT().GetByIDsForUpdate(gomock.Any(), tx, []string{"w1"}).Return([]*domain.Wallet{{ID: "w1", UserID: "u1"}}, nil)
	walletRepo.EXPECT().AdjustBalance(gomock.Any(), tx, "w1", decEq("12.34"), gomock.Any()).
		Return(&domain.Wallet{ID: "w1", UserID: "u1", Balance: dec("12.34")}, nil)
	txLog.EXPECT().Append(gomock.Any(), tx, gomock.Any()).DoAndReturn(func(_ context.Context, _ usecase.Tx, r *domain.TransactionRecord) error {
		if r.Description != "Deposit of 12.34" {
			t.Fatalf("unexpected description %q", r.Description)
		}
		return nil
	})
	outbox.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(func(_ context.Context, _ usecase.Tx, e *domain.OutboxEvent) error {
		if e.EventType != domain.EventTypeWalletDeposited || e.AggregateID != "w1" {
			t.Fatalf("unexpected event %+v", e)
		}
		return nil
	})
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), "wallet:user:u1").Return(errors.New("redis down"))

	uow := usecase.NewUnitOfWork(txm, nil)
	ledger := usecase.NewLedgerUseCase(uow, walletRepo, txLog, outbox, &sequentialIDs{}, cache, nil, zerolog.Nop())

	wallet, err := ledger.Deposit(context.Background(), "w1", dec("12.345"))
	if err != nil {
		t.Fatalf("cache failure must not fail a committed deposit: %v", err)
	}
	if !wallet.Balance.Equal(dec("12.34")) {
		t.Fatalf("unexpected balance %s", wallet.Balance)
	}
}

func TestLedgerUseCase_WithdrawTimestampsAfterLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTxManager(ctrl)
	tx := mocks.NewMockTx(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	txLog := mocks.NewMockTransactionLog(ctrl)
	outbox := mocks.NewMockOutboxRepository(ctrl)

	var lockedAt time.Time
	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	gomock.InOrder(
		walletRepo.EXPECT().GetByIDsForUpdate(gomock.Any(), tx, []string{"w1"}).
			DoAndReturn(func(context.Context, usecase.Tx, []string) ([]*domain.Wallet, error) {
				time.Sleep(2 * time.Millisecond)
				lockedAt = time.Now().UTC().Truncate(time.Microsecond)
				return []*domain.Wallet{{ID: "w1", Balance: dec("50")}}, nil
			}),
		walletRepo.EXPECT().AdjustBalance(gomock.Any(), tx, "w1", decEq("-20"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ usecase.Tx, _ string, _ decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error) {
				if updatedAt.Before(lockedAt) {
					t.Fatalf("timestamp %v taken before the lock at %v", updatedAt, lockedAt)
				}
				return &domain.Wallet{ID: "w1", Balance: dec("30"), UpdatedAt: updatedAt}, nil
			}),
	)
	txLog.EXPECT().Append(gomock.Any(), tx, gomock.Any()).DoAndReturn(func(_ context.Context, _ usecase.Tx, r *domain.TransactionRecord) error {
		if r.CreatedAt.Before(lockedAt) {
			t.Fatalf("record created at %v, before the lock at %v", r.CreatedAt, lockedAt)
		}
		return nil
	})
	outbox.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uow := usecase.NewUnitOfWork(txm, nil)
	ledger := usecase.NewLedgerUseCase(uow, walletRepo, txLog, outbox, &sequentialIDs{}, nil, nil, zerolog.Nop())

	if _, err := ledger.Withdraw(context.Background(), "w1", dec("20")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
