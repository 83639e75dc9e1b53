package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGiftCard_ApplyDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		expected    decimal.Decimal
		expectError error
	}{
		{
			name:     "debit less than balance",
			balance:  decimal.NewFromInt(100),
			amount:   decimal.NewFromInt(30),
			expected: decimal.NewFromInt(70),
		},
		{
			name:     "debit exact balance",
			balance:  decimal.NewFromInt(100),
			amount:   decimal.NewFromInt(100),
			expected: decimal.Zero,
		},
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(500),
			amount:      decimal.NewFromInt(600),
			expectError: ErrInsufficientBalance,
		},
		{
			name:        "zero amount",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.Zero,
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &GiftCard{Balance: tt.balance, Active: true}

			after, err := card.ApplyDebit(tt.amount)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if !card.Balance.Equal(tt.balance) {
					t.Errorf("balance must not change on error, got %s", card.Balance)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !after.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, after)
			}
		})
	}
}

func TestGiftCard_ApplyCredit(t *testing.T) {
	card := &GiftCard{Balance: decimal.RequireFromString("100.00")}

	after, err := card.ApplyCredit(decimal.RequireFromString("50.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !after.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("expected 150.00, got %s", after)
	}

	if _, err := card.ApplyCredit(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestGiftCard_ApplyAdjustment(t *testing.T) {
	card := &GiftCard{Balance: decimal.NewFromInt(100)}

	after, err := card.ApplyAdjustment(decimal.NewFromInt(-40))
	if err != nil || !after.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected 60, got %s (err=%v)", after, err)
	}

	after, err = card.ApplyAdjustment(decimal.Zero)
	if err != nil || !after.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("zero adjustment should be a no-op, got %s (err=%v)", after, err)
	}

	if _, err := card.ApplyAdjustment(decimal.NewFromInt(-101)); !errors.Is(err, ErrNegativeBalanceRejected) {
		t.Fatalf("expected ErrNegativeBalanceRejected, got %v", err)
	}
}

func TestGiftCard_CheckMutable(t *testing.T) {
	tests := []struct {
		name   string
		card   GiftCard
		expect error
	}{
		{"active", GiftCard{Active: true, Status: StatusActive}, nil},
		{"inactive", GiftCard{Active: false, Status: StatusActive}, ErrCardInactive},
		{"archived", GiftCard{Active: true, Status: StatusArchived}, ErrCardArchived},
		{"purged", GiftCard{Active: true, Status: StatusPurged}, ErrCardPurged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.card.CheckMutable(); !errors.Is(err, tt.expect) {
				t.Errorf("expected %v, got %v", tt.expect, err)
			}
		})
	}
}

func TestGiftCard_DisplayOwner(t *testing.T) {
	card := &GiftCard{}
	if card.DisplayOwner() != UnassignedOwner {
		t.Errorf("expected placeholder, got %q", card.DisplayOwner())
	}

	name := "Ana Ruiz"
	card.OwnerName = &name
	if card.DisplayOwner() != name {
		t.Errorf("expected %q, got %q", name, card.DisplayOwner())
	}
}
