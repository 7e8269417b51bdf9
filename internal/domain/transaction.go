package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a transaction record.
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal TransactionKind = "WITHDRAWAL"
	TransactionKindTransfer   TransactionKind = "TRANSFER"
)

// IsValid reports whether k is a known kind.
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindDeposit, TransactionKindWithdrawal, TransactionKindTransfer:
		return true
	}
	return false
}

// TransactionRecord is an immutable entry of a wallet's history.
// Amount is positive for credits and negative for debits.
type TransactionRecord struct {
	ID          string
	WalletID    string
	Amount      decimal.Decimal
	Kind        TransactionKind
	Description string
	CreatedAt   time.Time
	// Seq is the storage insertion order, used to break CreatedAt ties.
	Seq int64
}

// TransactionFilter selects records of one wallet.
// From is inclusive, To is exclusive; nil bounds are open.
type TransactionFilter struct {
	WalletID string
	From     *time.Time
	To       *time.Time
}

// Matches reports whether the record falls inside the filter bounds.
func (f TransactionFilter) Matches(r *TransactionRecord) bool {
	if r.WalletID != f.WalletID {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !r.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}
