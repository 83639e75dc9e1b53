package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/giftledger/internal/adapter/http/dto"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// CardService defines the behavior needed by CardHandler.
type CardService interface {
	CreateCard(ctx context.Context, input usecase.CreateCardInput) (*domain.GiftCard, error)
	GetCard(ctx context.Context, id string) (*domain.GiftCard, error)
	LookupCard(ctx context.Context, ref string) (*domain.GiftCard, error)
	ListCards(ctx context.Context, input usecase.ListCardsInput) ([]*domain.GiftCard, error)
	ChangeExternalID(ctx context.Context, id, externalID string) (*domain.GiftCard, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.GiftCard, error)
	ArchiveCard(ctx context.Context, id string) (*domain.GiftCard, error)
	RestoreCard(ctx context.Context, id string) (*domain.GiftCard, error)
	PurgeCard(ctx context.Context, id string) error
}

// CardHandler handles gift card lifecycle requests.
type CardHandler struct {
	cardUC CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardUC CardService) *CardHandler {
	return &CardHandler{cardUC: cardUC}
}

// Create issues a new card with a zero balance.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	card, err := h.cardUC.CreateCard(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create card", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CardFromDomain(card))
}

// Get retrieves a card by ID.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardUC.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}

// Lookup resolves a scanned reference, either the card ID or its external ID.
func (h *CardHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing card reference", "")
		return
	}

	card, err := h.cardUC.LookupCard(r.Context(), ref)
	if err != nil {
		writeDomainError(w, "failed to look up card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}

// List lists cards.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatusQuery(r)
	if err != nil {
		writeDomainError(w, "invalid status filter", err)
		return
	}

	cards, err := h.cardUC.ListCards(r.Context(), usecase.ListCardsInput{
		Status: status,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list cards", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCardsResponse{
		Cards: dto.CardsFromDomain(cards),
		Total: int64(len(cards)),
	})
}

// ChangeExternalID replaces the printed identifier of a card.
func (h *CardHandler) ChangeExternalID(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeExternalIDRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	card, err := h.cardUC.ChangeExternalID(r.Context(), chi.URLParam(r, "id"), req.ExternalID)
	if err != nil {
		writeDomainError(w, "failed to change external id", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}

// Activate allows balance mutations on the card again.
func (h *CardHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.respondCard(w, "failed to activate card")(h.cardUC.SetActive(r.Context(), chi.URLParam(r, "id"), true))
}

// Deactivate blocks balance mutations on the card.
func (h *CardHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.respondCard(w, "failed to deactivate card")(h.cardUC.SetActive(r.Context(), chi.URLParam(r, "id"), false))
}

// Archive hides the card from default listings.
func (h *CardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.respondCard(w, "failed to archive card")(h.cardUC.ArchiveCard(r.Context(), chi.URLParam(r, "id")))
}

// Restore brings an archived card back.
func (h *CardHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.respondCard(w, "failed to restore card")(h.cardUC.RestoreCard(r.Context(), chi.URLParam(r, "id")))
}

// Purge permanently hides the card and frees its external ID.
func (h *CardHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.cardUC.PurgeCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to purge card", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) respondCard(w http.ResponseWriter, message string) func(*domain.GiftCard, error) {
	return func(card *domain.GiftCard, err error) {
		if err != nil {
			writeDomainError(w, message, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
	}
}
