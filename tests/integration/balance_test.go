package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
	"github.com/iho/giftledger/tests/testutil"
)

func strPtr(s string) *string { return &s }

func TestBalanceMutations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	svc := testDB.NewServices(nil)

	t.Run("credit then debit keeps the ledger chain", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)
		location := testDB.CreateTestLocation(ctx, "")

		credit, err := svc.Balances.Credit(ctx, usecase.MutationInput{
			CardID:  card.ID,
			Amount:  decimal.NewFromInt(100),
			ActorID: strPtr("cashier-1"),
		})
		if err != nil {
			t.Fatalf("credit failed: %v", err)
		}
		if !credit.BalanceBefore.IsZero() || !credit.BalanceAfter.Equal(decimal.NewFromInt(100)) {
			t.Errorf("unexpected credit snapshot %s -> %s", credit.BalanceBefore, credit.BalanceAfter)
		}

		debit, err := svc.Balances.Debit(ctx, usecase.MutationInput{
			CardID:     card.ID,
			Amount:     decimal.RequireFromString("30.50"),
			LocationID: &location.ID,
		})
		if err != nil {
			t.Fatalf("debit failed: %v", err)
		}
		if !debit.BalanceBefore.Equal(credit.BalanceAfter) {
			t.Errorf("expected debit to start from %s, got %s", credit.BalanceAfter, debit.BalanceBefore)
		}
		if debit.Sequence <= credit.Sequence {
			t.Errorf("expected increasing sequence, got %d after %d", debit.Sequence, credit.Sequence)
		}
		if !strings.HasPrefix(debit.Folio(), "TRX-") {
			t.Errorf("unexpected folio %q", debit.Folio())
		}

		stored, err := svc.CardRepo.GetByID(ctx, card.ID)
		if err != nil {
			t.Fatalf("failed to reload card: %v", err)
		}
		if !stored.Balance.Equal(decimal.RequireFromString("69.50")) {
			t.Errorf("expected balance 69.50, got %s", stored.Balance)
		}

		result, err := svc.Reconciliation.ReconcileCard(ctx, card.ID)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}
		if !result.IsReconciled || result.EntryCount != 2 {
			t.Errorf("expected reconciled card with 2 entries, got %+v", result)
		}
	})

	t.Run("overdraft is rejected without writing an entry", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)
		location := testDB.CreateTestLocation(ctx, "")

		if _, err := svc.Balances.Credit(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(10)}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}

		_, err := svc.Balances.Debit(ctx, usecase.MutationInput{
			CardID:     card.ID,
			Amount:     decimal.NewFromInt(11),
			LocationID: &location.ID,
		})
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}

		entries, err := svc.EntryRepo.ListByCard(ctx, card.ID, domain.EntryFilter{})
		if err != nil {
			t.Fatalf("list entries failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the credit entry, got %d", len(entries))
		}
	})

	t.Run("debit requires a location", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)

		_, err := svc.Balances.Debit(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(1)})
		if !errors.Is(err, domain.ErrLocationRequired) {
			t.Fatalf("expected ErrLocationRequired, got %v", err)
		}
	})

	t.Run("negative adjustment below zero is rejected", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)
		if _, err := svc.Balances.Credit(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(20)}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}

		if _, err := svc.Balances.Adjust(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(-25)}); !errors.Is(err, domain.ErrNegativeBalanceRejected) {
			t.Fatalf("expected ErrNegativeBalanceRejected, got %v", err)
		}

		entry, err := svc.Balances.Adjust(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(-20)})
		if err != nil {
			t.Fatalf("adjustment to zero failed: %v", err)
		}
		if !entry.BalanceAfter.IsZero() {
			t.Errorf("expected zero balance, got %s", entry.BalanceAfter)
		}
	})

	t.Run("inactive card rejects mutations", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)
		if _, err := svc.Cards.SetActive(ctx, card.ID, false); err != nil {
			t.Fatalf("deactivate failed: %v", err)
		}

		if _, err := svc.Balances.Credit(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(5)}); !errors.Is(err, domain.ErrCardInactive) {
			t.Fatalf("expected ErrCardInactive, got %v", err)
		}
	})

	t.Run("ledger stays consistent", func(t *testing.T) {
		drifts, err := svc.Reconciliation.CheckLedgerConsistency(ctx)
		if err != nil {
			t.Fatalf("consistency check failed: %v (drifts: %+v)", err, drifts)
		}
	})
}
