package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
	"github.com/iho/giftledger/internal/usecase/mocks"
)

func TestReportUseCase_LocationClosure(t *testing.T) {
	locations := mocks.NewMockLocationRepository()
	require.NoError(t, locations.Create(context.Background(), &domain.Location{ID: "loc-1", Name: "Centro"}))

	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	entries := mocks.NewMockEntryRepository()
	seedEntries(t, entries,
		&domain.LedgerEntry{ID: "e1", CardID: "a", Kind: domain.KindCredit, Amount: decimal.NewFromInt(500), LocationID: strPtr("loc-1"), ActorID: strPtr("admin-1"), CreatedAt: day.Add(9 * time.Hour)},
		&domain.LedgerEntry{ID: "e2", CardID: "b", Kind: domain.KindDebit, Amount: decimal.NewFromInt(200), LocationID: strPtr("loc-1"), ActorID: strPtr("admin-2"), CreatedAt: day.Add(10 * time.Hour)},
		&domain.LedgerEntry{ID: "e3", CardID: "a", Kind: domain.KindAdjustment, Amount: decimal.NewFromInt(-30), LocationID: strPtr("loc-1"), ActorID: strPtr("admin-1"), CreatedAt: day.Add(11 * time.Hour)},
		&domain.LedgerEntry{ID: "e4", CardID: "c", Kind: domain.KindDebit, Amount: decimal.NewFromInt(10), LocationID: strPtr("loc-1"), CreatedAt: day.Add(30 * time.Hour)},
		&domain.LedgerEntry{ID: "e5", CardID: "d", Kind: domain.KindDebit, Amount: decimal.NewFromInt(99), LocationID: strPtr("loc-2"), CreatedAt: day.Add(9 * time.Hour)},
	)

	uc := usecase.NewReportUseCase(mocks.NewMockCardRepository(), entries, locations)

	from, to := day, day.Add(24*time.Hour-time.Nanosecond)
	report, err := uc.LocationClosure(context.Background(), usecase.ClosureFilter{LocationID: "loc-1", From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, "Centro", report.Location.Name)
	assert.Len(t, report.Entries, 3)
	assert.Equal(t, 3, report.Summary.TotalEntries)
	assert.Equal(t, 2, report.Summary.UniqueCards)
	assert.True(t, report.Summary.TotalCredits.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Summary.TotalDebits.Equal(decimal.NewFromInt(230)))
	assert.True(t, report.Summary.NetDifference.Equal(decimal.NewFromInt(270)))
	assert.Equal(t, 1, report.Summary.ByKind[domain.KindAdjustment].Count)

	report, err = uc.LocationClosure(context.Background(), usecase.ClosureFilter{LocationID: "loc-1", ActorID: strPtr("admin-1")})
	require.NoError(t, err)
	assert.Len(t, report.Entries, 2)

	debit := domain.KindDebit
	report, err = uc.LocationClosure(context.Background(), usecase.ClosureFilter{LocationID: "loc-1", Kind: &debit})
	require.NoError(t, err)
	assert.Len(t, report.Entries, 2)

	_, err = uc.LocationClosure(context.Background(), usecase.ClosureFilter{LocationID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrLocationNotFound))
}

func TestReportUseCase_CardStatement(t *testing.T) {
	cards := mocks.NewMockCardRepository()
	cards.Add(&domain.GiftCard{ID: "card-1", ExternalID: "EMP-1", Active: true, Balance: decimal.NewFromInt(70)})

	entries := mocks.NewMockEntryRepository()
	seedEntries(t, entries,
		&domain.LedgerEntry{ID: "e1", CardID: "card-1", Kind: domain.KindCredit, Amount: decimal.NewFromInt(100)},
		&domain.LedgerEntry{ID: "e2", CardID: "card-1", Kind: domain.KindDebit, Amount: decimal.NewFromInt(30)},
	)

	uc := usecase.NewReportUseCase(cards, entries, mocks.NewMockLocationRepository())

	statement, err := uc.CardStatement(context.Background(), "card-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "EMP-1", statement.Card.ExternalID)
	assert.Len(t, statement.Entries, 2)
	assert.True(t, statement.Summary.NetDifference.Equal(decimal.NewFromInt(70)))

	_, err = uc.CardStatement(context.Background(), "ghost", nil, nil)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}
