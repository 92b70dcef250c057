package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/usecase"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	MarkParticipantPaid(ctx context.Context, input usecase.MarkPaidInput) (*usecase.SettlementResult, error)
	SettleWholeTransaction(ctx context.Context, input usecase.SettleInput) (*usecase.SettlementResult, error)
}

// SettlementHandler handles payment recording. Balances of affected users
// are invalidated after every successful change.
type SettlementHandler struct {
	settlementUC SettlementService
	balances     usecase.BalanceInvalidator
}

// NewSettlementHandler creates a new SettlementHandler. balances may be nil.
func NewSettlementHandler(settlementUC SettlementService, balances usecase.BalanceInvalidator) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, balances: balances}
}

// MarkPaid marks one participant's share paid.
func (h *SettlementHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkPaidRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeDomainError(w, r, "invalid request body", err)
			return
		}
	}

	input := req.ToUseCaseInput(chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	result, err := h.settlementUC.MarkParticipantPaid(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to mark participant paid", err)
		return
	}

	h.invalidate(r.Context(), result)
	writeJSON(w, http.StatusOK, dto.SettlementFromUseCase(result))
}

// Settle marks every unpaid share of a transaction paid.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeDomainError(w, r, "invalid request body", err)
			return
		}
	}

	result, err := h.settlementUC.SettleWholeTransaction(r.Context(), usecase.SettleInput{
		TransactionID:   chi.URLParam(r, "id"),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		writeDomainError(w, r, "failed to settle transaction", err)
		return
	}

	h.invalidate(r.Context(), result)
	writeJSON(w, http.StatusOK, dto.SettlementFromUseCase(result))
}

func (h *SettlementHandler) invalidate(ctx context.Context, result *usecase.SettlementResult) {
	if h.balances == nil || len(result.Affected) == 0 {
		return
	}
	h.balances.Invalidate(context.WithoutCancel(ctx), result.Affected...)
}
