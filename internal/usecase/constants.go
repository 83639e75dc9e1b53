package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultImportChunkSize is the number of rows read per chunk during imports
	DefaultImportChunkSize = 100

	// ImportDescriptionPrefix prefixes descriptions of entries written by imports
	ImportDescriptionPrefix = "Bulk load"

	// NotAvailable is shown in import reports for missing references and locations
	NotAvailable = "N/A"
)
