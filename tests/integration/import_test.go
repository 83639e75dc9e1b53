package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/adapter/sheet"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
	"github.com/iho/giftledger/tests/testutil"
)

func TestImportSpreadsheet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	svc := testDB.NewServices(nil)

	t.Run("mixed batch applies valid rows and reports the rest", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		location := testDB.CreateTestLocation(ctx, "Centro")
		funded := testDB.CreateTestCard(ctx, nil)
		empty := testDB.CreateTestCard(ctx, nil)
		fresh := testDB.CreateTestCard(ctx, nil)

		if _, err := svc.Balances.Credit(ctx, usecase.MutationInput{CardID: funded.ID, Amount: decimal.NewFromInt(50)}); err != nil {
			t.Fatalf("seed credit failed: %v", err)
		}

		csv := strings.Join([]string{
			"card,monto,descripcion,sucursal",
			fmt.Sprintf("%s,-20,lunch,Centro", funded.ExternalID),
			fmt.Sprintf("%s,-5,,Centro", empty.ExternalID),
			fmt.Sprintf("%s,100,bonus,Nowhere", fresh.ID),
			"GC-UNKNOWN,10,,",
			fmt.Sprintf("%s,abc,,", empty.ExternalID),
			fmt.Sprintf("%s,-1,,Centro", funded.ExternalID),
		}, "\n")

		source, err := sheet.Open("carga.csv", strings.NewReader(csv), sheet.DefaultOptions())
		if err != nil {
			t.Fatalf("open sheet failed: %v", err)
		}
		defer source.Close()

		result, err := svc.Imports.Run(ctx, usecase.ImportInput{Source: source, ActorID: "admin-1"})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}

		if result.Stats.Processed != 2 || result.Stats.Errors != 4 || result.Stats.TotalRows != 6 {
			t.Fatalf("unexpected stats %+v", result.Stats)
		}
		if !result.Stats.TotalCredited.Equal(decimal.NewFromInt(100)) || !result.Stats.TotalDebited.Equal(decimal.NewFromInt(20)) {
			t.Errorf("unexpected totals %+v", result.Stats)
		}

		wantErrors := map[int]error{
			3: domain.ErrInsufficientBalance,
			5: domain.ErrCardNotFound,
			6: domain.ErrMalformedAmount,
			7: domain.ErrDuplicateReference,
		}
		for _, rowErr := range result.Errors {
			want, ok := wantErrors[rowErr.Row]
			if !ok {
				t.Errorf("unexpected error on row %d: %s", rowErr.Row, rowErr.Message)
				continue
			}
			if !errors.Is(rowErr.Err, want) {
				t.Errorf("row %d: expected %v, got %v", rowErr.Row, want, rowErr.Err)
			}
		}

		for _, tc := range []struct {
			id   string
			want int64
		}{
			{funded.ID, 30},
			{empty.ID, 0},
			{fresh.ID, 100},
		} {
			card, err := svc.CardRepo.GetByID(ctx, tc.id)
			if err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if !card.Balance.Equal(decimal.NewFromInt(tc.want)) {
				t.Errorf("card %s: expected %d, got %s", tc.id, tc.want, card.Balance)
			}
		}

		entries, err := svc.EntryRepo.ListByLocation(ctx, location.ID, domain.EntryFilter{})
		if err != nil {
			t.Fatalf("list by location failed: %v", err)
		}
		if len(entries) != 1 || entries[0].ActorID == nil || *entries[0].ActorID != "admin-1" {
			t.Errorf("expected one debit at Centro by admin-1, got %+v", entries)
		}

		closure, err := svc.Reports.LocationClosure(ctx, usecase.ClosureFilter{LocationID: location.ID})
		if err != nil {
			t.Fatalf("closure failed: %v", err)
		}
		if !closure.Summary.TotalDebits.Equal(decimal.NewFromInt(20)) {
			t.Errorf("expected closure debits 20, got %s", closure.Summary.TotalDebits)
		}
	})

	t.Run("multiple rows per card when allowed", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)
		rows := []usecase.ImportRow{
			{Number: 2, CardRef: card.ExternalID, Amount: "10"},
			{Number: 3, CardRef: card.ExternalID, Amount: "15"},
		}

		result, err := svc.Imports.Run(ctx, usecase.ImportInput{
			Source:               usecase.NewSliceSource(rows, 1),
			AllowMultiplePerCard: true,
		})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if result.Stats.Processed != 2 {
			t.Fatalf("expected both rows to apply, got %+v", result.Errors)
		}

		stored, _ := svc.CardRepo.GetByID(ctx, card.ID)
		if !stored.Balance.Equal(decimal.NewFromInt(25)) {
			t.Errorf("expected balance 25, got %s", stored.Balance)
		}
	})
}
