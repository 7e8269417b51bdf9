package handler

import (
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
)

// TransferHandler handles transfers and transaction history.
type TransferHandler struct {
	ledger  LedgerService
	history HistoryService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ledger LedgerService, history HistoryService) *TransferHandler {
	return &TransferHandler{ledger: ledger, history: history}
}

// Create moves funds from the caller's wallet to another wallet.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.ReceiverWalletID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body", "receiver_wallet_id is required")
		return
	}

	result, err := h.ledger.TransferFromUser(r.Context(), req.ToUseCaseInput(p.UserID))
	if err != nil {
		writeDomainError(w, r, "transfer failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(result))
}

// History lists the caller's transactions, newest first. start_date and
// end_date are optional YYYY-MM-DD bounds; malformed values are ignored.
func (h *TransferHandler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	records, err := h.history.ListTransactionsForUser(r.Context(), p.UserID, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(records))
}
