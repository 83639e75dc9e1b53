package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// MockCardRepository is an in-memory CardRepository. GetByIDForUpdate holds a
// per-card lock until the MockTransaction it was given ends.
type MockCardRepository struct {
	mu    sync.RWMutex
	cards map[string]*domain.GiftCard
	locks map[string]*sync.Mutex

	CreateFunc           func(ctx context.Context, card *domain.GiftCard) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.GiftCard, error)
	GetByReferenceFunc   func(ctx context.Context, ref string) (*domain.GiftCard, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.GiftCard, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateExternalIDFunc func(ctx context.Context, id, externalID string, updatedAt time.Time) error
	SetActiveFunc        func(ctx context.Context, id string, active bool, updatedAt time.Time) error
	SetStatusFunc        func(ctx context.Context, id string, status domain.RecordStatus, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, filter domain.StatusFilter, limit, offset int) ([]*domain.GiftCard, error)
}

func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{
		cards: make(map[string]*domain.GiftCard),
		locks: make(map[string]*sync.Mutex),
	}
}

// Add stores a copy of card, filling in defaults for tests.
func (m *MockCardRepository) Add(card *domain.GiftCard) {
	c := *card
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[c.ID] = &c
}

// Balance returns the stored balance of a card.
func (m *MockCardRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.cards[id]; ok {
		return c.Balance
	}
	return decimal.Zero
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.GiftCard) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.ExternalID == card.ExternalID && c.Status != domain.StatusPurged {
			return domain.ErrDuplicateExternalID
		}
	}
	c := *card
	m.cards[c.ID] = &c
	return nil
}

func (m *MockCardRepository) GetByID(ctx context.Context, id string) (*domain.GiftCard, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.cards[id]; ok && c.Status != domain.StatusPurged {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCardNotFound
}

func (m *MockCardRepository) GetByReference(ctx context.Context, ref string) (*domain.GiftCard, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.cards {
		if c.Status == domain.StatusPurged {
			continue
		}
		if c.ID == ref || c.ExternalID == ref {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCardNotFound
}

func (m *MockCardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.GiftCard, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}

	if mtx, ok := tx.(*MockTransaction); ok {
		lock := m.lockFor(id)
		lock.Lock()
		mtx.OnFinish(lock.Unlock)
	}

	return m.GetByID(ctx, id)
}

func (m *MockCardRepository) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

func (m *MockCardRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	return m.update(id, func(c *domain.GiftCard) {
		c.Balance = balance
		c.Version++
		c.UpdatedAt = updatedAt
	})
}

func (m *MockCardRepository) UpdateExternalID(ctx context.Context, id, externalID string, updatedAt time.Time) error {
	if m.UpdateExternalIDFunc != nil {
		return m.UpdateExternalIDFunc(ctx, id, externalID, updatedAt)
	}
	m.mu.RLock()
	for _, c := range m.cards {
		if c.ID != id && c.ExternalID == externalID && c.Status != domain.StatusPurged {
			m.mu.RUnlock()
			return domain.ErrDuplicateExternalID
		}
	}
	m.mu.RUnlock()
	return m.update(id, func(c *domain.GiftCard) {
		c.ExternalID = externalID
		c.UpdatedAt = updatedAt
	})
}

func (m *MockCardRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active, updatedAt)
	}
	return m.update(id, func(c *domain.GiftCard) {
		c.Active = active
		c.UpdatedAt = updatedAt
	})
}

func (m *MockCardRepository) SetStatus(ctx context.Context, id string, status domain.RecordStatus, updatedAt time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status, updatedAt)
	}
	return m.update(id, func(c *domain.GiftCard) {
		c.Status = status
		c.UpdatedAt = updatedAt
	})
}

func (m *MockCardRepository) update(id string, fn func(*domain.GiftCard)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok || c.Status == domain.StatusPurged {
		return domain.ErrCardNotFound
	}
	fn(c)
	return nil
}

func (m *MockCardRepository) List(ctx context.Context, filter domain.StatusFilter, limit, offset int) ([]*domain.GiftCard, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, limit, offset)
	}
	statuses := make(map[string]bool)
	for _, s := range filter.Resolve() {
		statuses[s] = true
	}

	m.mu.RLock()
	var cards []*domain.GiftCard
	for _, c := range m.cards {
		if statuses[string(c.Status)] {
			cp := *c
			cards = append(cards, &cp)
		}
	}
	m.mu.RUnlock()

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID < cards[j].ID
		}
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return paginate(cards, limit, offset), nil
}

// MockEntryRepository is an in-memory EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
	seq     int64

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListByCardFunc     func(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	ListByLocationFunc func(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// All returns every stored entry in insertion order.
func (m *MockEntryRepository) All() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	entry.Sequence = m.seq
	e := *entry
	m.entries = append(m.entries, &e)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListByCard(ctx context.Context, cardID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if m.ListByCardFunc != nil {
		return m.ListByCardFunc(ctx, cardID, filter)
	}
	return m.list(filter, func(e *domain.LedgerEntry) bool { return e.CardID == cardID }), nil
}

func (m *MockEntryRepository) ListByLocation(ctx context.Context, locationID string, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if m.ListByLocationFunc != nil {
		return m.ListByLocationFunc(ctx, locationID, filter)
	}
	return m.list(filter, func(e *domain.LedgerEntry) bool {
		return e.LocationID != nil && *e.LocationID == locationID
	}), nil
}

func (m *MockEntryRepository) list(filter domain.EntryFilter, match func(*domain.LedgerEntry) bool) []*domain.LedgerEntry {
	m.mu.RLock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if match(e) && filter.Matches(e) {
			cp := *e
			entries = append(entries, &cp)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].Sequence < entries[j].Sequence
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return paginate(entries, filter.Limit, filter.Offset)
}

// MockLocationRepository is an in-memory LocationRepository.
type MockLocationRepository struct {
	mu        sync.RWMutex
	locations map[string]*domain.Location

	CreateFunc         func(ctx context.Context, location *domain.Location) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Location, error)
	FindByNameOrIDFunc func(ctx context.Context, ref string) (*domain.Location, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]*domain.Location, error)
}

func NewMockLocationRepository() *MockLocationRepository {
	return &MockLocationRepository{
		locations: make(map[string]*domain.Location),
	}
}

func (m *MockLocationRepository) Create(ctx context.Context, location *domain.Location) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, location)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.locations {
		if l.Name == location.Name {
			return domain.ErrDuplicateLocationName
		}
	}
	l := *location
	m.locations[l.ID] = &l
	return nil
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.locations[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (m *MockLocationRepository) FindByNameOrID(ctx context.Context, ref string) (*domain.Location, error) {
	if m.FindByNameOrIDFunc != nil {
		return m.FindByNameOrIDFunc(ctx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.locations {
		if l.Name == ref {
			cp := *l
			return &cp, nil
		}
	}
	if l, ok := m.locations[ref]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (m *MockLocationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Location, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	var locations []*domain.Location
	for _, l := range m.locations {
		cp := *l
		locations = append(locations, &cp)
	}
	m.mu.RUnlock()

	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return paginate(locations, limit, offset), nil
}

// MockOwnerRepository is an in-memory OwnerRepository.
type MockOwnerRepository struct {
	mu     sync.RWMutex
	owners map[string]*domain.Owner

	CreateFunc  func(ctx context.Context, owner *domain.Owner) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Owner, error)
}

func NewMockOwnerRepository() *MockOwnerRepository {
	return &MockOwnerRepository{
		owners: make(map[string]*domain.Owner),
	}
}

func (m *MockOwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, owner)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o := *owner
	m.owners[o.ID] = &o
	return nil
}

func (m *MockOwnerRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.owners[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrOwnerNotFound
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) ([]domain.BalanceDrift, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return nil, nil
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns every stored event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
	}
	return paginate(out, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return paginate(out, limit, offset), nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu    sync.Mutex
	begun int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

// Begun returns how many transactions were started.
func (m *MockTransactionManager) Begun() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begun
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	m.mu.Lock()
	m.begun++
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction. Callbacks
// registered with OnFinish run once, on the first Commit or Rollback.
type MockTransaction struct {
	mu         sync.Mutex
	finished   bool
	onFinish   []func()
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// OnFinish registers fn to run when the transaction ends.
func (m *MockTransaction) OnFinish(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinish = append(m.onFinish, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	var err error
	if m.CommitFunc != nil {
		err = m.CommitFunc(ctx)
	}
	m.finish(func() { m.Committed = err == nil })
	return err
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	var err error
	if m.RollbackFunc != nil {
		err = m.RollbackFunc(ctx)
	}
	m.finish(func() { m.RolledBack = true })
	return err
}

func (m *MockTransaction) finish(mark func()) {
	m.mu.Lock()
	if m.finished {
		m.mu.Unlock()
		return
	}
	m.finished = true
	mark()
	fns := m.onFinish
	m.onFinish = nil
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte
	Gets int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
