package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
)

// CardRepository defines data access for gift cards.
// Purged cards are never returned.
type CardRepository interface {
	Create(ctx context.Context, card *domain.GiftCard) error
	GetByID(ctx context.Context, id string) (*domain.GiftCard, error)
	// GetByReference resolves a card by its UUID or its external id.
	GetByReference(ctx context.Context, ref string) (*domain.GiftCard, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.GiftCard, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateExternalID(ctx context.Context, id, externalID string, updatedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
	SetStatus(ctx context.Context, id string, status domain.RecordStatus, updatedAt time.Time) error
	List(ctx context.Context, filter domain.StatusFilter, limit, offset int) ([]*domain.GiftCard, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	// Create inserts the entry and fills in its Sequence.
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	// ListByCard returns entries in ledger order.
	ListByCard(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	ListByLocation(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

// LocationRepository defines data access for locations.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	// FindByNameOrID matches the exact name first, then the id.
	FindByNameOrID(ctx context.Context, ref string) (*domain.Location, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Location, error)
}

// OwnerRepository defines data access for card owners.
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	GetByID(ctx context.Context, id string) (*domain.Owner, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency returns every card whose balance differs from its entry sum.
	CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
