package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLedgerEntry_SignedAmount(t *testing.T) {
	tests := []struct {
		kind     EntryKind
		amount   string
		expected string
	}{
		{KindCredit, "50", "50"},
		{KindDebit, "50", "-50"},
		{KindAdjustment, "-40", "-40"},
		{KindAdjustment, "40", "40"},
	}

	for _, tt := range tests {
		e := &LedgerEntry{Kind: tt.kind, Amount: decimal.RequireFromString(tt.amount)}
		if !e.SignedAmount().Equal(decimal.RequireFromString(tt.expected)) {
			t.Errorf("%s %s: expected %s, got %s", tt.kind, tt.amount, tt.expected, e.SignedAmount())
		}
	}
}

func TestLedgerEntry_Folio(t *testing.T) {
	e := &LedgerEntry{
		Sequence:  42,
		CreatedAt: time.Date(2025, 10, 1, 15, 4, 5, 0, time.UTC),
	}

	if got := e.Folio(); got != "TRX-20251001-000042" {
		t.Errorf("unexpected folio %q", got)
	}
}

func TestLedgerEntry_Consistent(t *testing.T) {
	e := &LedgerEntry{
		Kind:          KindDebit,
		Amount:        decimal.NewFromInt(20),
		BalanceBefore: decimal.NewFromInt(100),
		BalanceAfter:  decimal.NewFromInt(80),
	}
	if !e.Consistent() {
		t.Error("expected consistent entry")
	}

	e.BalanceAfter = decimal.NewFromInt(120)
	if e.Consistent() {
		t.Error("expected inconsistent entry")
	}
}

func TestParseEntryKind(t *testing.T) {
	if k, err := ParseEntryKind("debit"); err != nil || k != KindDebit {
		t.Fatalf("expected debit, got %q err=%v", k, err)
	}

	if _, err := ParseEntryKind("refund"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
