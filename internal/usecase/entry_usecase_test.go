package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
	"github.com/iho/giftledger/internal/usecase/mocks"
)

func seedEntries(t *testing.T, repo *mocks.MockEntryRepository, entries ...*domain.LedgerEntry) {
	t.Helper()
	for _, e := range entries {
		if e.Status == "" {
			e.Status = domain.StatusActive
		}
		if err := repo.Create(context.Background(), nil, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestEntryUseCase_ListByCard(t *testing.T) {
	cards := mocks.NewMockCardRepository()
	cards.Add(&domain.GiftCard{ID: "card-1", Active: true})

	base := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	entries := mocks.NewMockEntryRepository()
	seedEntries(t, entries,
		&domain.LedgerEntry{ID: "e2", CardID: "card-1", Kind: domain.KindDebit, Amount: decimal.NewFromInt(5), CreatedAt: base.Add(time.Hour)},
		&domain.LedgerEntry{ID: "e1", CardID: "card-1", Kind: domain.KindCredit, Amount: decimal.NewFromInt(50), CreatedAt: base},
		&domain.LedgerEntry{ID: "e3", CardID: "card-2", Kind: domain.KindCredit, Amount: decimal.NewFromInt(1), CreatedAt: base},
	)

	uc := usecase.NewEntryUseCase(entries, cards, mocks.NewMockLocationRepository())

	got, err := uc.ListByCard(context.Background(), "card-1", domain.EntryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
		t.Errorf("expected e1,e2 in ledger order, got %v", got)
	}

	if _, err := uc.ListByCard(context.Background(), "missing", domain.EntryFilter{}); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}

	from, to := base.Add(time.Hour), base
	_, err = uc.ListByCard(context.Background(), "card-1", domain.EntryFilter{From: &from, To: &to})
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestEntryUseCase_ListByLocation(t *testing.T) {
	locations := mocks.NewMockLocationRepository()
	_ = locations.Create(context.Background(), &domain.Location{ID: "loc-1", Name: "Centro"})

	entries := mocks.NewMockEntryRepository()
	seedEntries(t, entries,
		&domain.LedgerEntry{ID: "e1", CardID: "card-1", Kind: domain.KindDebit, LocationID: strPtr("loc-1")},
		&domain.LedgerEntry{ID: "e2", CardID: "card-1", Kind: domain.KindCredit},
	)

	uc := usecase.NewEntryUseCase(entries, mocks.NewMockCardRepository(), locations)

	got, err := uc.ListByLocation(context.Background(), "loc-1", domain.EntryFilter{})
	if err != nil || len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("expected only e1, got %v %v", got, err)
	}

	if _, err := uc.ListByLocation(context.Background(), "loc-404", domain.EntryFilter{}); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestEntryUseCase_GetEntry(t *testing.T) {
	entries := mocks.NewMockEntryRepository()
	seedEntries(t, entries, &domain.LedgerEntry{ID: "e1", CardID: "card-1", Kind: domain.KindCredit})

	uc := usecase.NewEntryUseCase(entries, mocks.NewMockCardRepository(), mocks.NewMockLocationRepository())

	e, err := uc.GetEntry(context.Background(), "e1")
	if err != nil || e.Sequence != 1 {
		t.Errorf("unexpected entry %v %v", e, err)
	}

	if _, err := uc.GetEntry(context.Background(), "nope"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}
