package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/usecase"
)

var walletColumns = []string{"id", "user_id", "owner_email", "balance", "created_at", "updated_at"}

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Tx {
	t.Helper()
	pool.ExpectBegin()

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	require.NoError(t, err)

	return tx
}

func numeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	return decimalToNumeric(decimal.RequireFromString(s))
}

func stamp(at time.Time) pgtype.Timestamptz {
	return timeToPgTimestamptz(at)
}
