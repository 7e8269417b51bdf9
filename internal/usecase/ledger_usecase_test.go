package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

func TestLedgerUseCase_Deposit(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantBalance string
		wantDesc    string
		expectError error
	}{
		{name: "whole amount", amount: "100", wantBalance: "100.00", wantDesc: "Deposit of 100.00"},
		{name: "cents", amount: "10.50", wantBalance: "10.50", wantDesc: "Deposit of 10.50"},
		{name: "extra places are truncated", amount: "10.999", wantBalance: "10.99", wantDesc: "Deposit of 10.99"},
		{name: "truncates to zero", amount: "0.009", expectError: domain.ErrInvalidAmount},
		{name: "zero", amount: "0", expectError: domain.ErrInvalidAmount},
		{name: "negative", amount: "-5", expectError: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMemoryEnv(t)
			env.seedWallet(t, "w1", "alice@example.com", decimal.Zero)

			wallet, err := env.ledger.Deposit(context.Background(), "w1", dec(tt.amount))

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if !env.balance(t, "w1").IsZero() {
					t.Fatalf("balance changed after rejected deposit")
				}
				if len(env.records(t, "w1")) != 0 {
					t.Fatalf("record written for rejected deposit")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !wallet.Balance.Equal(dec(tt.wantBalance)) {
				t.Fatalf("expected balance %s, got %s", tt.wantBalance, wallet.Balance)
			}

			records := env.records(t, "w1")
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
			r := records[0]
			if r.Kind != domain.TransactionKindDeposit || !r.Amount.Equal(dec(tt.wantBalance)) || r.Description != tt.wantDesc {
				t.Fatalf("unexpected record: %+v", r)
			}
		})
	}
}

func TestLedgerUseCase_Withdraw(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantBalance string
		expectError error
	}{
		{name: "partial", amount: "30.25", wantBalance: "69.75"},
		{name: "entire balance", amount: "100", wantBalance: "0"},
		{name: "above balance", amount: "100.01", wantBalance: "100", expectError: domain.ErrInsufficientFunds},
		{name: "three places rejected", amount: "1.005", wantBalance: "100", expectError: domain.ErrInvalidAmount},
		{name: "zero", amount: "0", wantBalance: "100", expectError: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMemoryEnv(t)
			env.seedWallet(t, "w1", "alice@example.com", dec("100"))

			_, err := env.ledger.Withdraw(context.Background(), "w1", dec(tt.amount))

			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
			if tt.expectError == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := env.balance(t, "w1"); !got.Equal(dec(tt.wantBalance)) {
				t.Fatalf("expected balance %s, got %s", tt.wantBalance, got)
			}

			records := env.records(t, "w1")
			wantRecords := 2
			if tt.expectError != nil {
				wantRecords = 1
			}
			if len(records) != wantRecords {
				t.Fatalf("expected %d records, got %d", wantRecords, len(records))
			}

			if tt.expectError == nil {
				r := records[0]
				if r.Kind != domain.TransactionKindWithdrawal || !r.Amount.Equal(dec(tt.amount).Neg()) {
					t.Fatalf("unexpected withdrawal record: %+v", r)
				}
				if r.Description != "Withdrawal of "+domain.FormatAmount(dec(tt.amount)) {
					t.Fatalf("unexpected description %q", r.Description)
				}
			}
		})
	}
}

func TestLedgerUseCase_BalanceLimit(t *testing.T) {
	env := newMemoryEnv(t)
	env.seedWallet(t, "w1", "alice@example.com", domain.MaxAmount)
	env.seedWallet(t, "w2", "bob@example.com", dec("1"))

	_, err := env.ledger.Deposit(context.Background(), "w1", domain.MaxAmount)
	if !errors.Is(err, domain.ErrBalanceLimit) {
		t.Fatalf("expected ErrBalanceLimit on deposit, got %v", err)
	}

	_, err = env.ledger.Transfer(context.Background(), domain.TransferIntent{
		SenderWalletID:   "w2",
		ReceiverWalletID: "w1",
		Amount:           dec("0.01"),
	})
	if !errors.Is(err, domain.ErrBalanceLimit) {
		t.Fatalf("expected ErrBalanceLimit on transfer, got %v", err)
	}

	if !env.balance(t, "w1").Equal(domain.MaxAmount) {
		t.Fatalf("receiver balance changed: %s", env.balance(t, "w1"))
	}
	if !env.balance(t, "w2").Equal(dec("1")) {
		t.Fatalf("sender balance changed: %s", env.balance(t, "w2"))
	}
	if n := len(env.records(t, "w1")); n != 1 {
		t.Fatalf("expected only the seed record, got %d", n)
	}
}

func TestLedgerUseCase_WithdrawUnknownWallet(t *testing.T) {
	env := newMemoryEnv(t)

	_, err := env.ledger.Withdraw(context.Background(), "missing", dec("1"))
	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Transfer(t *testing.T) {
	env := newMemoryEnv(t)
	env.seedWallet(t, "w1", "alice@example.com", dec("500"))
	env.seedWallet(t, "w2", "bob@example.com", dec("500"))

	result, err := env.ledger.Transfer(context.Background(), domain.TransferIntent{
		SenderWalletID:   "w1",
		ReceiverWalletID: "w2",
		Amount:           dec("200"),
		Description:      "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Sender.Balance.Equal(dec("300")) || !result.Receiver.Balance.Equal(dec("700")) {
		t.Fatalf("unexpected balances: sender=%s receiver=%s", result.Sender.Balance, result.Receiver.Balance)
	}

	if !result.SenderRecord.Amount.Add(result.ReceiverRecord.Amount).IsZero() {
		t.Fatalf("transfer records do not cancel out")
	}

	if result.SenderRecord.Description != "Transfer to bob@example.com: rent" {
		t.Fatalf("unexpected sender description %q", result.SenderRecord.Description)
	}
	if result.ReceiverRecord.Description != "Transfer from alice@example.com: rent" {
		t.Fatalf("unexpected receiver description %q", result.ReceiverRecord.Description)
	}

	// Exactly one TRANSFER record per side, on top of the seed deposit.
	for _, id := range []string{"w1", "w2"} {
		records := env.records(t, id)
		if len(records) != 2 {
			t.Fatalf("expected 2 records for %s, got %d", id, len(records))
		}
		if records[0].Kind != domain.TransactionKindTransfer {
			t.Fatalf("expected newest record of %s to be a transfer, got %s", id, records[0].Kind)
		}
	}

	events, err := env.outbox.GetUnpublished(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := events[len(events)-1]
	if last.EventType != domain.EventTypeTransferCompleted {
		t.Fatalf("expected transfer.completed event, got %s", last.EventType)
	}
}

func TestLedgerUseCase_TransferRejections(t *testing.T) {
	tests := []struct {
		name        string
		intent      domain.TransferIntent
		expectError error
	}{
		{
			name:        "self transfer",
			intent:      domain.TransferIntent{SenderWalletID: "w1", ReceiverWalletID: "w1", Amount: dec("10")},
			expectError: domain.ErrSelfTransfer,
		},
		{
			name:        "insufficient funds",
			intent:      domain.TransferIntent{SenderWalletID: "w1", ReceiverWalletID: "w2", Amount: dec("100.01")},
			expectError: domain.ErrInsufficientFunds,
		},
		{
			name:        "unknown receiver",
			intent:      domain.TransferIntent{SenderWalletID: "w1", ReceiverWalletID: "w9", Amount: dec("10")},
			expectError: domain.ErrWalletNotFound,
		},
		{
			name:        "negative amount",
			intent:      domain.TransferIntent{SenderWalletID: "w1", ReceiverWalletID: "w2", Amount: dec("-10")},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "sub-cent amount",
			intent:      domain.TransferIntent{SenderWalletID: "w1", ReceiverWalletID: "w2", Amount: dec("0.001")},
			expectError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMemoryEnv(t)
			env.seedWallet(t, "w1", "alice@example.com", dec("100"))
			env.seedWallet(t, "w2", "bob@example.com", dec("100"))

			_, err := env.ledger.Transfer(context.Background(), tt.intent)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}

			for _, id := range []string{"w1", "w2"} {
				if got := env.balance(t, id); !got.Equal(dec("100")) {
					t.Fatalf("balance of %s changed to %s", id, got)
				}
				if n := len(env.records(t, id)); n != 1 {
					t.Fatalf("expected only the seed record for %s, got %d", id, n)
				}
			}
		})
	}
}

func TestLedgerUseCase_ForUserHelpers(t *testing.T) {
	env := newMemoryEnv(t)
	env.seedWallet(t, "w1", "alice@example.com", dec("50"))
	env.seedWallet(t, "w2", "bob@example.com", decimal.Zero)
	ctx := context.Background()

	if _, err := env.ledger.DepositForUser(ctx, "user-w1", dec("25")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := env.ledger.WithdrawForUser(ctx, "user-w1", dec("5")); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	result, err := env.ledger.TransferFromUser(ctx, usecase.TransferFromUserInput{
		SenderUserID:     "user-w1",
		ReceiverWalletID: "w2",
		Amount:           dec("70"),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !result.Sender.Balance.IsZero() || !result.Receiver.Balance.Equal(dec("70")) {
		t.Fatalf("unexpected balances %s / %s", result.Sender.Balance, result.Receiver.Balance)
	}
	if result.SenderRecord.Description != "Transfer to bob@example.com: No description" {
		t.Fatalf("unexpected description %q", result.SenderRecord.Description)
	}

	if _, err := env.ledger.DepositForUser(ctx, "nobody", dec("1")); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestLedgerUseCase_ConcurrentOppositeTransfers(t *testing.T) {
	env := newMemoryEnv(t)
	env.seedWallet(t, "w1", "alice@example.com", dec("1000"))
	env.seedWallet(t, "w2", "bob@example.com", dec("1000"))

	const rounds = 50
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)

	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.ledger.Transfer(context.Background(), domain.TransferIntent{SenderWalletID: "w1", ReceiverWalletID: "w2", Amount: dec("3")})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := env.ledger.Transfer(context.Background(), domain.TransferIntent{SenderWalletID: "w2", ReceiverWalletID: "w1", Amount: dec("1")})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("transfer failed: %v", err)
		}
	}

	b1, b2 := env.balance(t, "w1"), env.balance(t, "w2")
	if !b1.Add(b2).Equal(dec("2000")) {
		t.Fatalf("funds not conserved: %s + %s", b1, b2)
	}
	if !b1.Equal(dec("900")) || !b2.Equal(dec("1100")) {
		t.Fatalf("unexpected balances: %s / %s", b1, b2)
	}

	for _, id := range []string{"w1", "w2"} {
		result, err := env.recon.ReconcileWallet(context.Background(), id)
		if err != nil {
			t.Fatalf("reconcile %s: %v", id, err)
		}
		if !result.IsReconciled {
			t.Fatalf("wallet %s out of balance: %+v", id, result)
		}
		if result.RecordCount != rounds*2+1 {
			t.Fatalf("expected %d records for %s, got %d", rounds*2+1, id, result.RecordCount)
		}
	}
}

func TestLedgerUseCase_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	env := newMemoryEnv(t)
	env.seedWallet(t, "w1", "alice@example.com", dec("100"))

	const attempts = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.Withdraw(context.Background(), "w1", dec("10"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if succeeded != 10 {
		t.Fatalf("expected exactly 10 successful withdrawals, got %d", succeeded)
	}
	if !env.balance(t, "w1").IsZero() {
		t.Fatalf("expected zero balance, got %s", env.balance(t, "w1"))
	}
}

func TestLedgerUseCase_RecordTimestampsStrictlyIncrease(t *testing.T) {
	env := newMemoryEnv(t)
	env.seedWallet(t, "w1", "alice@example.com", decimal.Zero)

	for i := 0; i < 20; i++ {
		if _, err := env.ledger.Deposit(context.Background(), "w1", dec("1")); err != nil {
			t.Fatalf("deposit: %v", err)
		}
	}

	records := env.records(t, "w1")
	for i := 1; i < len(records); i++ {
		if !records[i-1].CreatedAt.After(records[i].CreatedAt) {
			t.Fatalf("records %d and %d are not strictly ordered", i-1, i)
		}
	}
}
