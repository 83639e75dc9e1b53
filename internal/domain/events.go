package domain

import "time"

// Event types
const (
	EventTypeCardCreated          = "card.created"
	EventTypeCardReferenceChanged = "card.reference_changed"
	EventTypeCardPurged           = "card.purged"
	EventTypeCardBalanceChanged   = "card.balance_changed"
)

// Aggregate types
const (
	AggregateTypeCard = "gift_card"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CardCreatedEvent payload
type CardCreatedEvent struct {
	CardID     string `json:"card_id"`
	ExternalID string `json:"external_id"`
}

// CardReferenceChangedEvent payload. Consumers regenerate QR artifacts.
type CardReferenceChangedEvent struct {
	CardID        string `json:"card_id"`
	OldExternalID string `json:"old_external_id"`
	NewExternalID string `json:"new_external_id"`
}

// CardPurgedEvent payload. Consumers delete QR artifacts.
type CardPurgedEvent struct {
	CardID     string `json:"card_id"`
	ExternalID string `json:"external_id"`
}

// BalanceChangedEvent payload
type BalanceChangedEvent struct {
	CardID        string  `json:"card_id"`
	EntryID       string  `json:"entry_id"`
	Kind          string  `json:"kind"`
	Amount        string  `json:"amount"`
	BalanceBefore string  `json:"balance_before"`
	BalanceAfter  string  `json:"balance_after"`
	LocationID    *string `json:"location_id,omitempty"`
}

// NewBalanceChangedEvent builds the payload for a committed entry.
func NewBalanceChangedEvent(e *LedgerEntry) BalanceChangedEvent {
	return BalanceChangedEvent{
		CardID:        e.CardID,
		EntryID:       e.ID,
		Kind:          string(e.Kind),
		Amount:        e.Amount.StringFixed(AmountScale),
		BalanceBefore: e.BalanceBefore.StringFixed(AmountScale),
		BalanceAfter:  e.BalanceAfter.StringFixed(AmountScale),
		LocationID:    e.LocationID,
	}
}
