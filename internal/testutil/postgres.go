// Package testutil provides fixtures for tests that need a real PostgreSQL.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB migrates and connects to TEST_DATABASE_URL. The test is skipped
// when the variable is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(pool.Close)
	db.TruncateAll(ctx)

	return db
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE outbox_events, transactions, wallets, users CASCADE`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestWallet inserts a user and a wallet holding balance. The balance
// is written directly, without a matching transaction record.
func (db *TestDB) CreateTestWallet(ctx context.Context, email string, balance decimal.Decimal) *domain.Wallet {
	db.t.Helper()

	now := time.Now().UTC()
	ts := pgtype.Timestamptz{Time: now, Valid: true}

	user := &domain.User{
		ID:        GenerateID(),
		Email:     email,
		Username:  "fixture",
		CPF:       cpfFor(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.Queries.CreateUser(ctx, generated.CreateUserParams{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		Cpf:          user.CPF,
		PasswordHash: "x",
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test user: %v", err)
	}

	var numericBalance pgtype.Numeric
	_ = numericBalance.Scan(balance.String())

	wallet := domain.NewWallet(GenerateID(), user, now)
	wallet.Balance = balance

	err = db.Queries.CreateWallet(ctx, generated.CreateWalletParams{
		ID:        wallet.ID,
		UserID:    user.ID,
		Balance:   numericBalance,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test wallet: %v", err)
	}

	return wallet
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}

// cpfFor derives a stable 11 digit CPF from s.
func cpfFor(s string) string {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}

	digits := make([]byte, domain.CPFLength)
	for i := range digits {
		digits[i] = byte('0' + h%10)
		h /= 10
	}
	return string(digits)
}
