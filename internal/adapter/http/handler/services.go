package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Wallet, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// TokenIssuer issues access tokens.
type TokenIssuer interface {
	Generate(user *domain.User) (*auth.Token, error)
}

// WalletService defines wallet reads.
type WalletService interface {
	GetWalletByUser(ctx context.Context, userID string) (*domain.Wallet, error)
}

// LedgerService defines the balance-changing operations.
type LedgerService interface {
	DepositForUser(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error)
	WithdrawForUser(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error)
	TransferFromUser(ctx context.Context, input usecase.TransferFromUserInput) (*domain.TransferResult, error)
}

// HistoryService defines transaction history queries.
type HistoryService interface {
	ListTransactionsForUser(ctx context.Context, userID, startDate, endDate string) ([]*domain.TransactionRecord, error)
}

// ReconciliationService defines balance reconciliation.
type ReconciliationService interface {
	ReconcileUser(ctx context.Context, userID string) (*usecase.ReconciliationResult, error)
}
