package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a unit of work
	// This prevents long-running transactions from blocking wallet rows
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultWalletCacheTTL is how long a wallet projection stays cached
	DefaultWalletCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// HistoryDateLayout is the accepted format of history date bounds
	HistoryDateLayout = "2006-01-02"
)

// IdempotencyPending is stored under an idempotency key while the first
// request carrying it is still being processed.
const IdempotencyPending = "processing"

// Ledger operation names used in logs and metrics.
const (
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
	OperationTransfer = "transfer"
)

func walletCacheKey(userID string) string {
	return "wallet:user:" + userID
}
