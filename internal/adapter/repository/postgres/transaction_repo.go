package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionLog.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Append inserts a record within a transaction and stores the assigned
// sequence number on it.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Tx, record *domain.TransactionRecord) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	seq, err := queries.AppendTransaction(ctx, generated.AppendTransactionParams{
		ID:          record.ID,
		WalletID:    record.WalletID,
		Amount:      decimalToNumeric(record.Amount),
		Kind:        string(record.Kind),
		Description: record.Description,
		CreatedAt:   timeToPgTimestamptz(record.CreatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrForeignKeyViolation {
			return domain.ErrWalletNotFound
		}
		return err
	}

	record.Seq = seq

	return nil
}

// ListByWallet returns the wallet's records, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, filter domain.TransactionFilter) ([]*domain.TransactionRecord, error) {
	rows, err := r.queries.ListTransactionsByWallet(ctx, generated.ListTransactionsByWalletParams{
		WalletID: filter.WalletID,
		FromTime: optionalTimestamptz(filter.From),
		ToTime:   optionalTimestamptz(filter.To),
	})
	if err != nil {
		return nil, err
	}

	records := make([]*domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toTransactionRecord(row))
	}

	return records, nil
}

// SumByWallet returns the sum of all record amounts and their count.
func (r *TransactionRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, int64, error) {
	row, err := r.queries.SumTransactionsByWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, 0, err
	}

	return numericToDecimal(row.Total), row.RecordCount, nil
}

func toTransactionRecord(row generated.Transaction) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:          row.ID,
		WalletID:    row.WalletID,
		Amount:      numericToDecimal(row.Amount),
		Kind:        domain.TransactionKind(row.Kind),
		Description: row.Description,
		CreatedAt:   row.CreatedAt.Time,
		Seq:         row.Seq,
	}
}
