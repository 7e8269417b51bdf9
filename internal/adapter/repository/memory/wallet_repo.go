package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// Create stages a new wallet.
func (r *WalletRepository) Create(_ context.Context, tx usecase.Tx, wallet *domain.Wallet) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, idTaken := r.store.wallets[wallet.ID]
	_, userTaken := r.store.walletByUser[wallet.UserID]
	r.store.mu.RUnlock()

	if idTaken || userTaken {
		return fmt.Errorf("wallet for user %s already exists", wallet.UserID)
	}

	stored := *wallet
	t.wallets[wallet.ID] = &stored

	return nil
}

// GetByID retrieves a committed wallet by ID.
func (r *WalletRepository) GetByID(_ context.Context, id string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}

	return r.store.project(w), nil
}

// GetByUserID retrieves the committed wallet owned by userID.
func (r *WalletRepository) GetByUserID(_ context.Context, userID string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.walletByUser[userID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}

	return r.store.project(r.store.wallets[id]), nil
}

// GetByIDsForUpdate locks the existing wallets among ids in ascending id order.
// Missing ids are skipped.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Tx, ids []string) ([]*domain.Wallet, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	wallets := make([]*domain.Wallet, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			continue
		}

		if _, ok := t.wallet(id); !ok {
			continue
		}

		if err := t.lock(ctx, id); err != nil {
			return nil, err
		}

		// Re-read after the lock so the snapshot includes the previous holder's commit.
		w, _ := t.wallet(id)
		out := *w
		wallets = append(wallets, &out)
	}

	return wallets, nil
}

// AdjustBalance locks the wallet and applies delta unless the balance would go negative.
func (r *WalletRepository) AdjustBalance(ctx context.Context, tx usecase.Tx, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.Wallet, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	if _, ok := t.wallet(id); !ok {
		return nil, domain.ErrWalletNotFound
	}

	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}

	current, _ := t.wallet(id)

	balance, err := current.ApplyDelta(delta)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Balance = balance
	next.UpdatedAt = updatedAt
	t.wallets[id] = &next

	out := next
	return &out, nil
}
