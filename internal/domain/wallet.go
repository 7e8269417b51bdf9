package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the balance of exactly one user.
type Wallet struct {
	ID         string
	UserID     string
	OwnerEmail string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewWallet returns an empty wallet owned by the given user.
func NewWallet(id string, user *User, now time.Time) *Wallet {
	return &Wallet{
		ID:         id,
		UserID:     user.ID,
		OwnerEmail: user.Email,
		Balance:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ValidateDebit checks if the wallet can be debited by amount.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDelta returns the balance after adding delta. It fails with
// ErrInsufficientFunds below zero and ErrBalanceLimit above MaxAmount.
func (w *Wallet) ApplyDelta(delta decimal.Decimal) (decimal.Decimal, error) {
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return w.Balance, ErrInsufficientFunds
	}
	if next.GreaterThan(MaxAmount) {
		return w.Balance, fmt.Errorf("%w of %s", ErrBalanceLimit, MaxAmount.StringFixed(MoneyScale))
	}
	return next, nil
}

// Owner returns the label used when annotating transfer records.
func (w *Wallet) Owner() string {
	if w.OwnerEmail != "" {
		return w.OwnerEmail
	}
	return w.UserID
}
