package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	CPF      string `json:"cpf"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Username: r.Username,
		CPF:      r.CPF,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AmountRequest is the body of deposit and withdrawal requests.
// Amount accepts a JSON string or number.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input for the authenticated sender.
func (r *CreateTransferRequest) ToUseCaseInput(senderUserID string) usecase.TransferFromUserInput {
	return usecase.TransferFromUserInput{
		SenderUserID:     senderUserID,
		ReceiverWalletID: r.ReceiverWalletID,
		Amount:           r.Amount,
		Description:      r.Description,
	}
}
