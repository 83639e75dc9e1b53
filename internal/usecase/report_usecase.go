package usecase

import (
	"context"
	"time"

	"github.com/iho/giftledger/internal/domain"
)

// ReportUseCase builds summaries over ledger entries.
type ReportUseCase struct {
	cardRepo     CardRepository
	entryRepo    EntryRepository
	locationRepo LocationRepository
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(cardRepo CardRepository, entryRepo EntryRepository, locationRepo LocationRepository) *ReportUseCase {
	return &ReportUseCase{
		cardRepo:     cardRepo,
		entryRepo:    entryRepo,
		locationRepo: locationRepo,
	}
}

// ClosureFilter selects the entries of a branch closure.
type ClosureFilter struct {
	From       *time.Time
	To         *time.Time
	Kind       *domain.EntryKind
	ActorID    *string
	LocationID string
}

// ClosureReport is the summary of a location over a period.
type ClosureReport struct {
	GeneratedAt time.Time
	Location    *domain.Location
	Filter      ClosureFilter
	Entries     []*domain.LedgerEntry
	Summary     domain.Summary
}

// LocationClosure summarizes every entry attributed to a location.
func (uc *ReportUseCase) LocationClosure(ctx context.Context, filter ClosureFilter) (*ClosureReport, error) {
	location, err := uc.locationRepo.GetByID(ctx, filter.LocationID)
	if err != nil {
		return nil, err
	}

	entryFilter := domain.EntryFilter{
		From:    filter.From,
		To:      filter.To,
		Kind:    filter.Kind,
		ActorID: filter.ActorID,
	}
	if err := validatePeriod(entryFilter); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByLocation(ctx, location.ID, entryFilter)
	if err != nil {
		return nil, err
	}

	return &ClosureReport{
		GeneratedAt: time.Now().UTC(),
		Location:    location,
		Filter:      filter,
		Entries:     entries,
		Summary:     domain.Summarize(entries),
	}, nil
}

// CardStatement lists a card's entries over a period with their summary.
type CardStatement struct {
	GeneratedAt time.Time
	From        *time.Time
	To          *time.Time
	Card        *domain.GiftCard
	Entries     []*domain.LedgerEntry
	Summary     domain.Summary
}

// CardStatement builds the statement of a card.
func (uc *ReportUseCase) CardStatement(ctx context.Context, cardID string, from, to *time.Time) (*CardStatement, error) {
	card, err := uc.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	filter := domain.EntryFilter{From: from, To: to}
	if err := validatePeriod(filter); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByCard(ctx, card.ID, filter)
	if err != nil {
		return nil, err
	}

	return &CardStatement{
		GeneratedAt: time.Now().UTC(),
		From:        from,
		To:          to,
		Card:        card,
		Entries:     entries,
		Summary:     domain.Summarize(entries),
	}, nil
}
