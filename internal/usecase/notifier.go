package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/giftledger/internal/domain"
)

// OutboxNotifier records notifications as outbox events in their own
// transaction. The event publisher delivers them later.
type OutboxNotifier struct {
	txManager  TransactionManager
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewOutboxNotifier creates a new OutboxNotifier.
func NewOutboxNotifier(txManager TransactionManager, outboxRepo OutboxRepository, idGen IDGenerator) *OutboxNotifier {
	return &OutboxNotifier{
		txManager:  txManager,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// Notify stores an event for the gift card aggregate.
func (n *OutboxNotifier) Notify(ctx context.Context, aggregateID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            n.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: domain.AggregateTypeCard,
		EventType:     eventType,
		Payload:       body,
		CreatedAt:     time.Now().UTC(),
	}

	tx, err := n.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := n.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// notify sends a notification and logs, rather than returns, failures.
func notify(ctx context.Context, n Notifier, logger zerolog.Logger, aggregateID, eventType string, payload any) {
	if err := n.Notify(ctx, aggregateID, eventType, payload); err != nil {
		logger.Warn().Err(err).
			Str("aggregate_id", aggregateID).
			Str("event_type", eventType).
			Msg("failed to record notification")
	}
}
