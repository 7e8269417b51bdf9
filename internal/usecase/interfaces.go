package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Tx, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	// GetByIDsForUpdate locks the wallets in ascending id order.
	GetByIDsForUpdate(ctx context.Context, tx Tx, ids []string) ([]*domain.Wallet, error)
	// AdjustBalance adds delta to the balance unless the result would be negative.
	AdjustBalance(ctx context.Context, tx Tx, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error)
}

// TransactionLog defines the append-only store of transaction records.
type TransactionLog interface {
	Append(ctx context.Context, tx Tx, record *domain.TransactionRecord) error
	// ListByWallet returns records newest first.
	ListByWallet(ctx context.Context, filter domain.TransactionFilter) ([]*domain.TransactionRecord, error)
	SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, int64, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Tx, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Tx represents a storage transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Retrier re-runs op while it fails with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// EventPublisher delivers outbox events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}
