package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	walletRepo WalletRepository
	txLog      TransactionLog
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(walletRepo WalletRepository, txLog TransactionLog) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo: walletRepo,
		txLog:      txLog,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	WalletID          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	RecordCount       int64
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileWallet compares the stored balance with the sum of the wallet's records.
func (uc *ReconciliationUseCase) ReconcileWallet(ctx context.Context, walletID string) (*ReconciliationResult, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, wallet)
}

// ReconcileUser reconciles the wallet owned by userID.
func (uc *ReconciliationUseCase) ReconcileUser(ctx context.Context, userID string) (*ReconciliationResult, error) {
	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, wallet)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, wallet *domain.Wallet) (*ReconciliationResult, error) {
	sum, count, err := uc.txLog.SumByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	difference := wallet.Balance.Sub(sum)

	return &ReconciliationResult{
		WalletID:          wallet.ID,
		RecordedBalance:   wallet.Balance,
		CalculatedBalance: sum,
		Difference:        difference,
		RecordCount:       count,
		IsReconciled:      difference.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}
