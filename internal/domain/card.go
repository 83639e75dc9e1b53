package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GiftCard holds a prepaid balance. Balance is only written by the balance
// mutation engine and never goes below zero.
type GiftCard struct {
	ID         string
	ExternalID string
	OwnerID    *string
	OwnerName  *string
	Active     bool
	Balance    decimal.Decimal
	ExpiresAt  *time.Time
	Status     RecordStatus
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CheckMutable returns an error if the card cannot accept balance mutations.
func (c *GiftCard) CheckMutable() error {
	switch c.Status {
	case StatusArchived:
		return ErrCardArchived
	case StatusPurged:
		return ErrCardPurged
	}

	if !c.Active {
		return ErrCardInactive
	}
	return nil
}

// ApplyCredit returns the balance after crediting amount.
func (c *GiftCard) ApplyCredit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return c.Balance, ErrInvalidAmount
	}
	return c.Balance.Add(amount), nil
}

// ApplyDebit returns the balance after debiting amount.
func (c *GiftCard) ApplyDebit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return c.Balance, ErrInvalidAmount
	}

	after := c.Balance.Sub(amount)
	if after.IsNegative() {
		return c.Balance, ErrInsufficientBalance
	}
	return after, nil
}

// ApplyAdjustment returns the balance after a signed adjustment.
func (c *GiftCard) ApplyAdjustment(amount decimal.Decimal) (decimal.Decimal, error) {
	after := c.Balance.Add(amount)
	if after.IsNegative() {
		return c.Balance, ErrNegativeBalanceRejected
	}
	return after, nil
}

// Apply dispatches on kind.
func (c *GiftCard) Apply(kind EntryKind, amount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case KindCredit:
		return c.ApplyCredit(amount)
	case KindDebit:
		return c.ApplyDebit(amount)
	case KindAdjustment:
		return c.ApplyAdjustment(amount)
	default:
		return c.Balance, ErrInvalidEntryKind
	}
}

// DisplayOwner returns the owner name or a placeholder for unassigned cards.
func (c *GiftCard) DisplayOwner() string {
	if c.OwnerName == nil || *c.OwnerName == "" {
		return UnassignedOwner
	}
	return *c.OwnerName
}

// UnassignedOwner is shown for cards without an owner.
const UnassignedOwner = "Unassigned"
