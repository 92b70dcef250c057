package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/calculator"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	PreviewSplit(input usecase.SplitInput) (*calculator.Allocation, error)
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string, expectedVersion int64) error
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListForGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error)
	History(ctx context.Context, id string) ([]*domain.AuditLog, error)
	ItemsFromReceipt(receipt *domain.Receipt) (*usecase.ReceiptItems, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Preview computes a split without storing anything.
func (h *TransactionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.SplitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	alloc, err := h.transactionUC.PreviewSplit(req.ToSplitInput())
	if err != nil {
		writeDomainError(w, r, "failed to compute split", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AllocationFromCalculator(alloc))
}

// Create records a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	tx, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.transactionUC.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Update replaces a transaction wholesale.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	tx, err := h.transactionUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	version, err := parseVersionQuery(r)
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return
	}

	if err := h.transactionUC.DeleteTransaction(r.Context(), chi.URLParam(r, "id"), version); err != nil {
		writeDomainError(w, r, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History lists the audit trail of a transaction.
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	logs, err := h.transactionUC.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

// ListForUser lists transactions involving a user.
func (h *TransactionHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", defaultPageLimit), parseIntQuery(r, "offset", 0))

	txs, err := h.transactionUC.ListForUser(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Limit:        limit,
		Offset:       offset,
	})
}

// ListForGroup lists transactions recorded in a group.
func (h *TransactionHandler) ListForGroup(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", defaultPageLimit), parseIntQuery(r, "offset", 0))

	txs, err := h.transactionUC.ListForGroup(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Limit:        limit,
		Offset:       offset,
	})
}

// ReceiptItems converts receipt extraction output into split items.
func (h *TransactionHandler) ReceiptItems(w http.ResponseWriter, r *http.Request) {
	var req dto.ReceiptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	items, err := h.transactionUC.ItemsFromReceipt(req.ToDomain())
	if err != nil {
		writeDomainError(w, r, "failed to read receipt", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptItemsFromUseCase(items))
}
