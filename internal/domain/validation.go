package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidExternalID   = errors.New("invalid external id")
	ErrInvalidLocationName = errors.New("invalid location name")
	ErrInvalidOwnerName    = errors.New("invalid owner name")
	ErrInvalidEntryKind    = errors.New("invalid entry kind")
)

// Validation constants
const (
	MaxExternalIDLength   = 64
	MaxLocationNameLength = 255
	MaxOwnerNameLength    = 255
	MaxDescriptionLength  = 500
	AmountScale           = 2
)

// NormalizeAmount rounds an amount to the ledger scale.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountScale)
}

// ValidateMutation checks the preconditions that do not depend on the
// current balance.
func ValidateMutation(kind EntryKind, amount decimal.Decimal, locationID *string) error {
	hasLocation := locationID != nil && strings.TrimSpace(*locationID) != ""

	switch kind {
	case KindCredit:
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}
	case KindDebit:
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}
		if !hasLocation {
			return ErrLocationRequired
		}
	case KindAdjustment:
		// zero is accepted here; stricter callers reject it themselves
		if amount.IsNegative() && !hasLocation {
			return ErrLocationRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEntryKind, kind)
	}

	return nil
}

// ValidateExternalID validates the human-facing card identifier.
func ValidateExternalID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidExternalID)
	}

	if len(id) > MaxExternalIDLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidExternalID, MaxExternalIDLength)
	}

	if strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("%w: must not contain whitespace", ErrInvalidExternalID)
	}

	return nil
}

// ValidateLocationName validates a branch name.
func ValidateLocationName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidLocationName)
	}

	if len(name) > MaxLocationNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidLocationName, MaxLocationNameLength)
	}

	return nil
}

// ValidateOwnerName validates an owner's display name.
func ValidateOwnerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidOwnerName)
	}

	if len(name) > MaxOwnerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidOwnerName, MaxOwnerNameLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
