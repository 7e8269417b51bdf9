package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return newWalletRepository(pool)
}

func newWalletRepository(db generated.DBTX) *WalletRepository {
	return &WalletRepository{queries: generated.New(db)}
}

// Create inserts a wallet within a transaction.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Tx, wallet *domain.Wallet) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateWallet(ctx, generated.CreateWalletParams{
		ID:        wallet.ID,
		UserID:    wallet.UserID,
		Balance:   decimalToNumeric(wallet.Balance),
		CreatedAt: timeToPgTimestamptz(wallet.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(wallet.UpdatedAt),
	})
	if err == nil {
		return nil
	}

	switch pgErrorCode(err) {
	case pgErrForeignKeyViolation:
		return domain.ErrUserNotFound
	case pgErrUniqueViolation:
		return fmt.Errorf("user %s already owns a wallet: %w", wallet.UserID, domain.ErrUserExists)
	}

	return err
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return toWallet(row.ID, row.UserID, row.OwnerEmail, row.Balance, row.CreatedAt, row.UpdatedAt), nil
}

// GetByUserID retrieves the wallet owned by a user.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return toWallet(row.ID, row.UserID, row.OwnerEmail, row.Balance, row.CreatedAt, row.UpdatedAt), nil
}

// GetByIDsForUpdate locks the given wallets with SELECT ... FOR UPDATE.
// Missing ids are left out of the result.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Tx, ids []string) ([]*domain.Wallet, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetWalletsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	wallets := make([]*domain.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, toWallet(row.ID, row.UserID, row.OwnerEmail, row.Balance, row.CreatedAt, row.UpdatedAt))
	}

	return wallets, nil
}

// AdjustBalance applies delta in a single guarded UPDATE. When no row is
// updated the wallet is either missing or would go negative.
func (r *WalletRepository) AdjustBalance(ctx context.Context, tx usecase.Tx, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.AdjustWalletBalance(ctx, generated.AdjustWalletBalanceParams{
		Delta:     decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
		ID:        id,
	})
	if err != nil {
		switch pgErrorCode(err) {
		case pgErrCheckViolation:
			return nil, domain.ErrInsufficientFunds
		case pgErrNumericOverflow:
			return nil, domain.ErrBalanceLimit
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		exists, err := queries.WalletExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrWalletNotFound
		}
		return nil, domain.ErrInsufficientFunds
	}

	return toWallet(row.ID, row.UserID, row.OwnerEmail, row.Balance, row.CreatedAt, row.UpdatedAt), nil
}

func toWallet(id, userID, ownerEmail string, balance pgtype.Numeric, createdAt, updatedAt pgtype.Timestamptz) *domain.Wallet {
	return &domain.Wallet{
		ID:         id,
		UserID:     userID,
		OwnerEmail: ownerEmail,
		Balance:    numericToDecimal(balance),
		CreatedAt:  createdAt.Time,
		UpdatedAt:  updatedAt.Time,
	}
}
