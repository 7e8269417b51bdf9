package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionLog implements usecase.TransactionLog.
type TransactionLog struct {
	store *Store
}

// NewTransactionLog creates a new TransactionLog.
func NewTransactionLog(store *Store) *TransactionLog {
	return &TransactionLog{store: store}
}

// Append stages a record. Seq is assigned on commit.
func (l *TransactionLog) Append(_ context.Context, tx usecase.Tx, record *domain.TransactionRecord) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	if _, ok := t.wallet(record.WalletID); !ok {
		return domain.ErrWalletNotFound
	}

	t.records = append(t.records, record)

	return nil
}

// ListByWallet returns committed records ordered by created_at DESC, seq DESC.
func (l *TransactionLog) ListByWallet(_ context.Context, filter domain.TransactionFilter) ([]*domain.TransactionRecord, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	records := make([]*domain.TransactionRecord, 0)
	for _, r := range l.store.records[filter.WalletID] {
		if !filter.Matches(r) {
			continue
		}
		out := *r
		records = append(records, &out)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].Seq > records[j].Seq
	})

	return records, nil
}

// SumByWallet returns the sum and count of committed record amounts.
func (l *TransactionLog) SumByWallet(_ context.Context, walletID string) (decimal.Decimal, int64, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	sum := decimal.Zero
	records := l.store.records[walletID]
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}

	return sum, int64(len(records)), nil
}
