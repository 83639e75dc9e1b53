package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	Credit(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error)
	Debit(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error)
	Adjust(ctx context.Context, input usecase.MutationInput) (*domain.LedgerEntry, error)
}

// BalanceHandler handles balance mutation requests. Each request produces
// exactly one ledger entry.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Credit increases the card balance.
func (h *BalanceHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "failed to credit card", h.balanceUC.Credit)
}

// Debit decreases the card balance. A location is required.
func (h *BalanceHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "failed to debit card", h.balanceUC.Debit)
}

// Adjust applies a signed correction.
func (h *BalanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "failed to adjust card", h.balanceUC.Adjust)
}

func (h *BalanceHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	apply func(context.Context, usecase.MutationInput) (*domain.LedgerEntry, error),
) {
	var req dto.MutationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), actorID(r))
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	entry, err := apply(r.Context(), input)
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
