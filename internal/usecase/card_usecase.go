package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
)

// CardUseCase handles the gift card lifecycle. It never touches balances.
type CardUseCase struct {
	cardRepo  CardRepository
	ownerRepo OwnerRepository
	idGen     IDGenerator
	notifier  Notifier
	logger    zerolog.Logger
}

// NewCardUseCase creates a new CardUseCase. idGen produces card ids.
func NewCardUseCase(
	cardRepo CardRepository,
	ownerRepo OwnerRepository,
	idGen IDGenerator,
	notifier Notifier,
	logger zerolog.Logger,
) *CardUseCase {
	if notifier == nil {
		notifier = NoopNotifier{}
	}

	return &CardUseCase{
		cardRepo:  cardRepo,
		ownerRepo: ownerRepo,
		idGen:     idGen,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateCardInput represents input for creating a card.
type CreateCardInput struct {
	OwnerID    *string
	ExpiresAt  *time.Time
	Active     *bool
	ExternalID string
}

// CreateCard creates a card with a zero balance.
func (uc *CardUseCase) CreateCard(ctx context.Context, input CreateCardInput) (*domain.GiftCard, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if err := domain.ValidateExternalID(externalID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &domain.GiftCard{
		ID:         uc.idGen.Generate(),
		ExternalID: externalID,
		Active:     true,
		Balance:    decimal.Zero,
		ExpiresAt:  input.ExpiresAt,
		Status:     domain.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Active != nil {
		card.Active = *input.Active
	}

	if input.OwnerID != nil {
		owner, err := uc.ownerRepo.GetByID(ctx, *input.OwnerID)
		if err != nil {
			return nil, err
		}
		card.OwnerID = &owner.ID
		card.OwnerName = &owner.Name
	}

	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, uc.logger, card.ID, domain.EventTypeCardCreated, domain.CardCreatedEvent{
		CardID:     card.ID,
		ExternalID: card.ExternalID,
	})

	return card, nil
}

// GetCard retrieves a card by ID.
func (uc *CardUseCase) GetCard(ctx context.Context, id string) (*domain.GiftCard, error) {
	return uc.cardRepo.GetByID(ctx, id)
}

// LookupCard resolves a scanned reference, either the card UUID or its
// external id.
func (uc *CardUseCase) LookupCard(ctx context.Context, ref string) (*domain.GiftCard, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrCardNotFound
	}
	return uc.cardRepo.GetByReference(ctx, ref)
}

// ListCardsInput represents input for listing cards.
type ListCardsInput struct {
	Status domain.StatusFilter
	Limit  int
	Offset int
}

// ListCards lists cards with pagination.
func (uc *CardUseCase) ListCards(ctx context.Context, input ListCardsInput) ([]*domain.GiftCard, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.cardRepo.List(ctx, input.Status, limit, offset)
}

// ChangeExternalID replaces the human-facing identifier. The balance is not
// touched.
func (uc *CardUseCase) ChangeExternalID(ctx context.Context, id, externalID string) (*domain.GiftCard, error) {
	externalID = strings.TrimSpace(externalID)
	if err := domain.ValidateExternalID(externalID); err != nil {
		return nil, err
	}

	card, err := uc.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if card.ExternalID == externalID {
		return card, nil
	}

	now := time.Now().UTC()
	if err := uc.cardRepo.UpdateExternalID(ctx, id, externalID, now); err != nil {
		return nil, err
	}

	old := card.ExternalID
	card.ExternalID = externalID
	card.UpdatedAt = now

	notify(ctx, uc.notifier, uc.logger, card.ID, domain.EventTypeCardReferenceChanged, domain.CardReferenceChangedEvent{
		CardID:        card.ID,
		OldExternalID: old,
		NewExternalID: externalID,
	})

	return card, nil
}

// SetActive activates or deactivates a card.
func (uc *CardUseCase) SetActive(ctx context.Context, id string, active bool) (*domain.GiftCard, error) {
	card, err := uc.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if card.Status == domain.StatusArchived {
		return nil, domain.ErrCardArchived
	}

	if card.Active == active {
		return card, nil
	}

	now := time.Now().UTC()
	if err := uc.cardRepo.SetActive(ctx, id, active, now); err != nil {
		return nil, err
	}

	card.Active = active
	card.UpdatedAt = now
	return card, nil
}

// ArchiveCard hides a card from default queries. It can be restored.
func (uc *CardUseCase) ArchiveCard(ctx context.Context, id string) (*domain.GiftCard, error) {
	return uc.transition(ctx, id, domain.StatusActive, domain.StatusArchived)
}

// RestoreCard brings an archived card back.
func (uc *CardUseCase) RestoreCard(ctx context.Context, id string) (*domain.GiftCard, error) {
	return uc.transition(ctx, id, domain.StatusArchived, domain.StatusActive)
}

// PurgeCard permanently removes a card from every query. Its entries stay in
// the ledger.
func (uc *CardUseCase) PurgeCard(ctx context.Context, id string) error {
	card, err := uc.cardRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.cardRepo.SetStatus(ctx, id, domain.StatusPurged, time.Now().UTC()); err != nil {
		return err
	}

	notify(ctx, uc.notifier, uc.logger, card.ID, domain.EventTypeCardPurged, domain.CardPurgedEvent{
		CardID:     card.ID,
		ExternalID: card.ExternalID,
	})

	return nil
}

func (uc *CardUseCase) transition(ctx context.Context, id string, from, to domain.RecordStatus) (*domain.GiftCard, error) {
	card, err := uc.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// already there
	if card.Status == to {
		return card, nil
	}

	if card.Status != from {
		return nil, domain.ErrCardNotFound
	}

	now := time.Now().UTC()
	if err := uc.cardRepo.SetStatus(ctx, id, to, now); err != nil {
		return nil, err
	}

	card.Status = to
	card.UpdatedAt = now
	return card, nil
}
