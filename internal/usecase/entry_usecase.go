package usecase

import (
	"context"

	"github.com/iho/giftledger/internal/domain"
)

// EntryUseCase handles ledger entry queries.
type EntryUseCase struct {
	entryRepo    EntryRepository
	cardRepo     CardRepository
	locationRepo LocationRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, cardRepo CardRepository, locationRepo LocationRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo:    entryRepo,
		cardRepo:     cardRepo,
		locationRepo: locationRepo,
	}
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListByCard lists a card's entries in ledger order.
func (uc *EntryUseCase) ListByCard(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if _, err := uc.cardRepo.GetByID(ctx, cardID); err != nil {
		return nil, err
	}

	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.entryRepo.ListByCard(ctx, cardID, filter)
}

// ListByLocation lists the entries attributed to a location.
func (uc *EntryUseCase) ListByLocation(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if _, err := uc.locationRepo.GetByID(ctx, locationID); err != nil {
		return nil, err
	}

	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.entryRepo.ListByLocation(ctx, locationID, filter)
}

func validatePeriod(filter domain.EntryFilter) error {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return domain.ErrInvalidPeriod
	}
	return nil
}
