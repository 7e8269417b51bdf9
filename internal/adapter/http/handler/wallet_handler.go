package handler

import (
	"fmt"
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// WalletHandler serves the caller's wallet.
type WalletHandler struct {
	wallets WalletService
	ledger  LedgerService
	recon   ReconciliationService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets WalletService, ledger LedgerService, recon ReconciliationService) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		ledger:  ledger,
		recon:   recon,
	}
}

// Get returns the caller's wallet.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	wallet, err := h.wallets.GetWalletByUser(r.Context(), p.UserID)
	if err != nil {
		writeDomainError(w, r, "failed to get wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Deposit credits the caller's wallet.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.ledger.DepositForUser(r.Context(), p.UserID, req.Amount)
	if err != nil {
		writeDomainError(w, r, "deposit failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationResponse{
		Detail: fmt.Sprintf("Successfully deposited %s to your wallet", domain.FormatAmount(domain.QuantizeDeposit(req.Amount))),
		Wallet: dto.WalletFromDomain(wallet),
	})
}

// Withdraw debits the caller's wallet.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.ledger.WithdrawForUser(r.Context(), p.UserID, req.Amount)
	if err != nil {
		writeDomainError(w, r, "withdrawal failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationResponse{
		Detail: fmt.Sprintf("Successfully withdrew %s from your wallet", domain.FormatAmount(req.Amount)),
		Wallet: dto.WalletFromDomain(wallet),
	})
}

// Reconcile compares the caller's balance with the transaction log.
func (h *WalletHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.recon.ReconcileUser(r.Context(), p.UserID)
	if err != nil {
		writeDomainError(w, r, "reconciliation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}
