package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// HistoryUseCase serves transaction history queries.
type HistoryUseCase struct {
	walletRepo WalletRepository
	txLog      TransactionLog
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(walletRepo WalletRepository, txLog TransactionLog) *HistoryUseCase {
	return &HistoryUseCase{
		walletRepo: walletRepo,
		txLog:      txLog,
	}
}

// ListTransactions returns the records of a wallet, newest first, or
// ErrWalletNotFound for an unknown wallet. startDate and endDate are
// inclusive YYYY-MM-DD days in UTC; malformed or empty values leave that
// side of the range open.
func (uc *HistoryUseCase) ListTransactions(ctx context.Context, walletID, startDate, endDate string) ([]*domain.TransactionRecord, error) {
	if _, err := uc.walletRepo.GetByID(ctx, walletID); err != nil {
		return nil, err
	}

	return uc.listRecords(ctx, walletID, startDate, endDate)
}

// ListTransactionsForUser resolves the caller's wallet and lists its records.
func (uc *HistoryUseCase) ListTransactionsForUser(ctx context.Context, userID, startDate, endDate string) ([]*domain.TransactionRecord, error) {
	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return uc.listRecords(ctx, wallet.ID, startDate, endDate)
}

func (uc *HistoryUseCase) listRecords(ctx context.Context, walletID, startDate, endDate string) ([]*domain.TransactionRecord, error) {
	filter := domain.TransactionFilter{WalletID: walletID}

	if from, ok := parseDay(startDate); ok {
		filter.From = &from
	}

	if to, ok := parseDay(endDate); ok {
		next := to.AddDate(0, 0, 1)
		filter.To = &next
	}

	records, err := uc.txLog.ListByWallet(ctx, filter)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []*domain.TransactionRecord{}
	}

	return records, nil
}

func parseDay(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	day, err := time.ParseInLocation(HistoryDateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	return day, true
}
