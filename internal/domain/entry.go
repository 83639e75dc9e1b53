package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the closed set of ledger mutation kinds.
type EntryKind string

const (
	KindCredit     EntryKind = "credit"
	KindDebit      EntryKind = "debit"
	KindAdjustment EntryKind = "adjustment"
)

// ParseEntryKind parses a kind name.
func ParseEntryKind(s string) (EntryKind, error) {
	switch k := EntryKind(s); k {
	case KindCredit, KindDebit, KindAdjustment:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntryKind, s)
}

// LedgerEntry is an immutable record of one balance mutation.
type LedgerEntry struct {
	CreatedAt     time.Time
	ID            string
	CardID        string
	Kind          EntryKind
	Status        RecordStatus
	Description   *string
	ActorID       *string
	LocationID    *string
	LocationName  *string
	Sequence      int64
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// SignedAmount returns the entry's effect on the card balance.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == KindDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Folio is the human readable receipt number, e.g. TRX-20251001-000042.
func (e *LedgerEntry) Folio() string {
	return fmt.Sprintf("TRX-%s-%06d", e.CreatedAt.Format("20060102"), e.Sequence)
}

// Consistent reports whether the snapshots agree with the amount.
func (e *LedgerEntry) Consistent() bool {
	return e.BalanceBefore.Add(e.SignedAmount()).Equal(e.BalanceAfter)
}
