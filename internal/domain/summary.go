package domain

import "github.com/shopspring/decimal"

// KindTotal counts entries of one kind and sums their amounts.
type KindTotal struct {
	Count  int
	Amount decimal.Decimal
}

// Summary aggregates a set of ledger entries.
type Summary struct {
	ByKind        map[EntryKind]KindTotal
	TotalCredits  decimal.Decimal
	TotalDebits   decimal.Decimal
	NetDifference decimal.Decimal
	TotalEntries  int
	UniqueCards   int
}

// Tally accumulates credit and debit buckets. Adjustments are split by sign.
type Tally struct {
	credits decimal.Decimal
	debits  decimal.Decimal
	byKind  map[EntryKind]KindTotal
	cards   map[string]struct{}
	count   int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		credits: decimal.Zero,
		debits:  decimal.Zero,
		byKind: map[EntryKind]KindTotal{
			KindCredit:     {Amount: decimal.Zero},
			KindDebit:      {Amount: decimal.Zero},
			KindAdjustment: {Amount: decimal.Zero},
		},
		cards: make(map[string]struct{}),
	}
}

// AddCredit adds a balance increase of the given magnitude.
func (t *Tally) AddCredit(amount decimal.Decimal) {
	t.add(KindCredit, amount.Abs())
}

// AddDebit adds a balance decrease of the given magnitude.
func (t *Tally) AddDebit(amount decimal.Decimal) {
	t.add(KindDebit, amount.Abs())
}

// AddAdjustment adds a signed adjustment.
func (t *Tally) AddAdjustment(amount decimal.Decimal) {
	t.add(KindAdjustment, amount)
}

// AddEntry adds a ledger entry and records its card.
func (t *Tally) AddEntry(e *LedgerEntry) {
	t.add(e.Kind, e.Amount)
	t.cards[e.CardID] = struct{}{}
}

func (t *Tally) add(kind EntryKind, amount decimal.Decimal) {
	kt := t.byKind[kind]
	kt.Count++
	kt.Amount = kt.Amount.Add(amount)
	t.byKind[kind] = kt
	t.count++

	switch {
	case kind == KindCredit:
		t.credits = t.credits.Add(amount)
	case kind == KindDebit:
		t.debits = t.debits.Add(amount)
	case amount.IsPositive():
		t.credits = t.credits.Add(amount)
	default:
		t.debits = t.debits.Add(amount.Abs())
	}
}

// Credits returns the credit bucket.
func (t *Tally) Credits() decimal.Decimal { return t.credits }

// Debits returns the debit bucket.
func (t *Tally) Debits() decimal.Decimal { return t.debits }

// Net returns credits minus debits.
func (t *Tally) Net() decimal.Decimal { return t.credits.Sub(t.debits) }

// Summary returns a snapshot of the tally.
func (t *Tally) Summary() Summary {
	byKind := make(map[EntryKind]KindTotal, len(t.byKind))
	for k, v := range t.byKind {
		byKind[k] = v
	}

	return Summary{
		ByKind:        byKind,
		TotalCredits:  t.credits,
		TotalDebits:   t.debits,
		NetDifference: t.Net(),
		TotalEntries:  t.count,
		UniqueCards:   len(t.cards),
	}
}

// Summarize aggregates entries into a Summary.
func Summarize(entries []*LedgerEntry) Summary {
	t := NewTally()
	for _, e := range entries {
		t.AddEntry(e)
	}
	return t.Summary()
}

// Replay folds entries, in ledger order, starting from a zero balance.
func Replay(entries []*LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.SignedAmount())
	}
	return balance
}
