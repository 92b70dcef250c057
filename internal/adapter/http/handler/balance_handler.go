package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, userID string) (*domain.BalanceSummary, error)
	Reconcile(ctx context.Context, userID string, external map[string]decimal.Decimal) ([]domain.IntegrityWarning, error)
	GroupSettleUp(ctx context.Context, groupID string) (*usecase.GroupSettlement, error)
}

// BalanceHandler serves balance projections.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns a user's balance summary.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.balanceUC.GetBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(summary))
}

// Reconcile compares computed balances with externally supplied ones.
func (h *BalanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconcileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return
	}

	warnings, err := h.balanceUC.Reconcile(r.Context(), chi.URLParam(r, "id"), req.Balances)
	if err != nil {
		writeDomainError(w, r, "failed to reconcile balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileFromDomain(warnings))
}

// SettleUp returns a group's net positions and suggested payments.
func (h *BalanceHandler) SettleUp(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.balanceUC.GroupSettleUp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to compute settle-up", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettleUpFromUseCase(settlement))
}
