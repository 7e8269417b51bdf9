package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount     = errors.New("amount must be a positive value with at most two decimal places")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrBalanceLimit      = errors.New("balance would exceed the maximum allowed")

	// Lookup errors
	ErrWalletNotFound = errors.New("wallet not found")
	ErrUserNotFound   = errors.New("user not found")

	// Registration errors
	ErrUserExists = errors.New("user with this email or cpf already exists")
)
