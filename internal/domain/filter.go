package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryFilter narrows ledger entry queries. Nil fields do not filter.
// A Limit of zero or less returns every matching entry.
type EntryFilter struct {
	From    *time.Time
	To      *time.Time
	Kind    *EntryKind
	ActorID *string
	Status  StatusFilter
	Limit   int
	Offset  int
}

// Matches reports whether e passes the filter, ignoring pagination.
func (f EntryFilter) Matches(e *LedgerEntry) bool {
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.CreatedAt.After(*f.To) {
		return false
	}
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}
	if f.ActorID != nil && (e.ActorID == nil || *e.ActorID != *f.ActorID) {
		return false
	}

	for _, s := range f.Status.Resolve() {
		if string(e.Status) == s {
			return true
		}
	}
	return false
}

// BalanceDrift is a card whose stored balance differs from its entry sum.
type BalanceDrift struct {
	CardID     string
	ExternalID string
	Recorded   decimal.Decimal
	Calculated decimal.Decimal
}

// Difference returns recorded minus calculated.
func (d BalanceDrift) Difference() decimal.Decimal {
	return d.Recorded.Sub(d.Calculated)
}
