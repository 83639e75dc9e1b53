package domain

import "errors"

var (
	// Mutation errors
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrLocationRequired        = errors.New("location required for balance reductions")
	ErrInsufficientBalance     = errors.New("insufficient balance: transaction would result in negative balance")
	ErrNegativeBalanceRejected = errors.New("adjustment would result in negative balance")

	// Card errors
	ErrCardNotFound        = errors.New("gift card not found")
	ErrCardInactive        = errors.New("gift card is inactive")
	ErrCardArchived        = errors.New("gift card is archived")
	ErrCardPurged          = errors.New("gift card has been purged")
	ErrDuplicateExternalID = errors.New("external id already in use")

	// Reference errors
	ErrLocationNotFound      = errors.New("location not found")
	ErrDuplicateLocationName = errors.New("location name already in use")
	ErrOwnerNotFound         = errors.New("owner not found")
	ErrEntryNotFound         = errors.New("ledger entry not found")
	ErrInvalidPeriod         = errors.New("period start must not be after its end")

	// Import row errors
	ErrReferenceRequired  = errors.New("card reference and amount are required")
	ErrDuplicateReference = errors.New("duplicate card reference in file (multiple charges not allowed)")
	ErrMalformedAmount    = errors.New("invalid amount")
	ErrZeroAmount         = errors.New("amount cannot be zero")

	// Run level errors
	ErrImportAborted      = errors.New("import aborted")
	ErrInconsistentLedger = errors.New("ledger is inconsistent: card balances do not match entries")
)

// businessErrors are failures caused by the request itself rather than the
// infrastructure. They are reported to the caller and never retried.
var businessErrors = []error{
	ErrInvalidAmount,
	ErrLocationRequired,
	ErrInsufficientBalance,
	ErrNegativeBalanceRejected,
	ErrCardNotFound,
	ErrCardInactive,
	ErrCardArchived,
	ErrCardPurged,
	ErrDuplicateExternalID,
	ErrLocationNotFound,
	ErrDuplicateLocationName,
	ErrOwnerNotFound,
	ErrEntryNotFound,
	ErrInvalidPeriod,
	ErrReferenceRequired,
	ErrDuplicateReference,
	ErrMalformedAmount,
	ErrZeroAmount,
	ErrInvalidExternalID,
	ErrInvalidLocationName,
	ErrInvalidOwnerName,
	ErrInvalidEntryKind,
}

// IsBusinessError reports whether err wraps one of the domain sentinels.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
