package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const noDescription = "No description"

// TransferIntent is a request to move funds between two wallets.
// It is never persisted; a committed intent yields two TransactionRecords.
type TransferIntent struct {
	SenderWalletID   string
	ReceiverWalletID string
	Amount           decimal.Decimal
	Description      string
}

// Validate validates the transfer request.
func (t *TransferIntent) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.SenderWalletID == t.ReceiverWalletID {
		return ErrSelfTransfer
	}

	return nil
}

// SenderDescription annotates the debit record with the receiver identity.
func (t *TransferIntent) SenderDescription(receiver string) string {
	return fmt.Sprintf("Transfer to %s: %s", receiver, t.note())
}

// ReceiverDescription annotates the credit record with the sender identity.
func (t *TransferIntent) ReceiverDescription(sender string) string {
	return fmt.Sprintf("Transfer from %s: %s", sender, t.note())
}

func (t *TransferIntent) note() string {
	if t.Description == "" {
		return noDescription
	}
	return t.Description
}

// TransferResult is the committed outcome of a transfer.
type TransferResult struct {
	Sender         *Wallet
	Receiver       *Wallet
	SenderRecord   *TransactionRecord
	ReceiverRecord *TransactionRecord
}
