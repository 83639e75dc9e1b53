package postgres

import (
	"context"
	"time"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// NullOutboxRepository drops every event. It backs deployments that run
// with OUTBOX_ENABLED=false and one-shot CLI commands.
type NullOutboxRepository struct{}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

func (NullOutboxRepository) Create(context.Context, usecase.Transaction, *domain.OutboxEvent) error {
	return nil
}

func (NullOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (NullOutboxRepository) MarkPublished(context.Context, string, time.Time) error { return nil }

func (NullOutboxRepository) GetByAggregate(context.Context, string, string, int, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (NullOutboxRepository) DeletePublished(context.Context, time.Time) error { return nil }
