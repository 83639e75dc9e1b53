package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/domain"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListByCard(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	ListByLocation(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

// EntryHandler handles ledger entry requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// ListByCard lists the movement history of a card.
func (h *EntryHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "failed to list card entries", h.entryUC.ListByCard)
}

// ListByLocation lists the entries attributed to a branch.
func (h *EntryHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "failed to list location entries", h.entryUC.ListByLocation)
}

func (h *EntryHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fetch func(context.Context, string, domain.EntryFilter) ([]*domain.LedgerEntry, error),
) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	entries, err := fetch(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
