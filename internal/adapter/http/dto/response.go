package dto

import (
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse represents a registered user. The password hash is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CPF       string    `json:"cpf"`
	WalletID  string    `json:"wallet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to response.
func UserFromDomain(u *domain.User, w *domain.Wallet) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CPF:       u.CPF,
		CreatedAt: u.CreatedAt,
	}
	if w != nil {
		resp.WalletID = w.ID
	}
	return resp
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"user_email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Email:     w.OwnerEmail,
		Balance:   domain.FormatAmount(w.Balance),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// OperationResponse is returned by deposit and withdrawal.
type OperationResponse struct {
	Detail string          `json:"detail"`
	Wallet *WalletResponse `json:"wallet"`
}

// TransactionResponse represents a transaction record.
type TransactionResponse struct {
	ID          string    `json:"id"`
	WalletID    string    `json:"wallet_id"`
	Amount      string    `json:"amount"`
	Kind        string    `json:"transaction_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain record to response.
func TransactionFromDomain(r *domain.TransactionRecord) *TransactionResponse {
	return &TransactionResponse{
		ID:          r.ID,
		WalletID:    r.WalletID,
		Amount:      domain.FormatAmount(r.Amount),
		Kind:        string(r.Kind),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// TransactionsFromDomain converts records to responses. The result is never nil.
func TransactionsFromDomain(records []*domain.TransactionRecord) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, TransactionFromDomain(r))
	}
	return out
}

// TransferResponse represents a committed transfer.
type TransferResponse struct {
	SenderWalletID   string               `json:"sender_wallet_id"`
	ReceiverWalletID string               `json:"receiver_wallet_id"`
	Amount           string               `json:"amount"`
	SenderBalance    string               `json:"sender_balance"`
	Record           *TransactionResponse `json:"record"`
}

// TransferFromDomain converts a transfer result to response. Only the
// sender's side is exposed to the caller.
func TransferFromDomain(r *domain.TransferResult) *TransferResponse {
	return &TransferResponse{
		SenderWalletID:   r.Sender.ID,
		ReceiverWalletID: r.Receiver.ID,
		Amount:           domain.FormatAmount(r.SenderRecord.Amount.Neg()),
		SenderBalance:    domain.FormatAmount(r.Sender.Balance),
		Record:           TransactionFromDomain(r.SenderRecord),
	}
}

// ReconciliationResponse represents a reconciliation result.
type ReconciliationResponse struct {
	WalletID          string    `json:"wallet_id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	RecordCount       int64     `json:"record_count"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		WalletID:          r.WalletID,
		RecordedBalance:   domain.FormatAmount(r.RecordedBalance),
		CalculatedBalance: domain.FormatAmount(r.CalculatedBalance),
		Difference:        domain.FormatAmount(r.Difference),
		RecordCount:       r.RecordCount,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}
