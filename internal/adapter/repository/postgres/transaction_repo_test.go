package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

var transactionColumns = []string{"seq", "id", "wallet_id", "amount", "kind", "description", "created_at"}

func TestTransactionRepositoryAppend(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)
	tx := beginMockTx(t, pool)
	now := time.Now().UTC()

	pool.ExpectQuery("INSERT INTO transactions").
		WithArgs("t-1", "w-1", pgxmock.AnyArg(), "DEPOSIT", "Deposit of 10.00", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))

	record := &domain.TransactionRecord{
		ID:          "t-1",
		WalletID:    "w-1",
		Amount:      decimal.NewFromInt(10),
		Kind:        domain.TransactionKindDeposit,
		Description: "Deposit of 10.00",
		CreatedAt:   now,
	}
	require.NoError(t, repo.Append(context.Background(), tx, record))
	assert.Equal(t, int64(42), record.Seq)
	assertExpectations(t, pool)
}

func TestTransactionRepositoryAppendLongDescription(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)
	tx := beginMockTx(t, pool)
	description := "Transfer to " + strings.Repeat("x", 240) + "@example.com: " + strings.Repeat("note ", 100)

	pool.ExpectQuery("INSERT INTO transactions").
		WithArgs("t-1", "w-1", pgxmock.AnyArg(), "TRANSFER", description, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	record := &domain.TransactionRecord{
		ID:          "t-1",
		WalletID:    "w-1",
		Amount:      decimal.NewFromInt(-5),
		Kind:        domain.TransactionKindTransfer,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Append(context.Background(), tx, record))
	assert.Equal(t, int64(7), record.Seq)
	assertExpectations(t, pool)
}

func TestTransactionRepositoryAppendUnknownWallet(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("INSERT INTO transactions").
		WithArgs("t-1", "w-404", pgxmock.AnyArg(), "DEPOSIT", "", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	record := &domain.TransactionRecord{ID: "t-1", WalletID: "w-404", Amount: decimal.NewFromInt(1), Kind: domain.TransactionKindDeposit}
	err := repo.Append(context.Background(), tx, record)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assertExpectations(t, pool)
}

func TestTransactionRepositoryListByWallet(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)
	later := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)

	pool.ExpectQuery("FROM transactions").
		WithArgs("w-1", pgtype.Timestamptz{}, pgtype.Timestamptz{}).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow(int64(2), "t-2", "w-1", numeric(t, "-5.00"), "WITHDRAWAL", "Withdrawal of 5.00", stamp(later)).
			AddRow(int64(1), "t-1", "w-1", numeric(t, "20.00"), "DEPOSIT", "Deposit of 20.00", stamp(earlier)))

	records, err := repo.ListByWallet(context.Background(), domain.TransactionFilter{WalletID: "w-1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "t-2", records[0].ID)
	assert.Equal(t, domain.TransactionKindWithdrawal, records[0].Kind)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, int64(1), records[1].Seq)
	assertExpectations(t, pool)
}

func TestTransactionRepositoryListByWalletBounds(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	pool.ExpectQuery("FROM transactions").
		WithArgs("w-1", stamp(from), stamp(to)).
		WillReturnRows(pgxmock.NewRows(transactionColumns))

	records, err := repo.ListByWallet(context.Background(), domain.TransactionFilter{WalletID: "w-1", From: &from, To: &to})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assertExpectations(t, pool)
}

func TestTransactionRepositorySumByWallet(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectQuery("SUM\\(amount\\)").
		WithArgs("w-1").
		WillReturnRows(pgxmock.NewRows([]string{"total", "record_count"}).AddRow(numeric(t, "115.00"), int64(3)))

	total, count, err := repo.SumByWallet(context.Background(), "w-1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(115)))
	assert.Equal(t, int64(3), count)
	assertExpectations(t, pool)
}
