package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/iho/giftledger/internal/adapter/repository/postgres"
	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/infrastructure/eventpublisher"
	"github.com/iho/giftledger/internal/usecase"
	"github.com/iho/giftledger/tests/testutil"
)

func TestOutboxNotifications(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	outboxRepo := postgresRepo.NewOutboxRepository(testDB.Pool)
	svc := testDB.NewServices(outboxRepo)

	t.Run("card lifecycle and balance changes are recorded", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card, err := svc.Cards.CreateCard(ctx, usecase.CreateCardInput{ExternalID: "GC-2001"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := svc.Balances.Credit(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(40)}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}
		if _, err := svc.Cards.ChangeExternalID(ctx, card.ID, "GC-2002"); err != nil {
			t.Fatalf("change external id failed: %v", err)
		}

		events, err := outboxRepo.GetByAggregate(ctx, domain.AggregateTypeCard, card.ID, 10, 0)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}

		seen := map[string]bool{}
		for _, e := range events {
			seen[e.EventType] = true
		}
		for _, want := range []string{
			domain.EventTypeCardCreated,
			domain.EventTypeCardBalanceChanged,
			domain.EventTypeCardReferenceChanged,
		} {
			if !seen[want] {
				t.Errorf("expected %s event, got %v", want, seen)
			}
		}
	})

	t.Run("publisher delivers to a redis stream", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		card := testDB.CreateTestCard(ctx, nil)
		if _, err := svc.Balances.Credit(ctx, usecase.MutationInput{CardID: card.ID, Amount: decimal.NewFromInt(10)}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}

		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		defer client.Close()

		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewRedisStreamPublisher(client, "giftledger:events", 1000),
			Logger:     zerolog.Nop(),
			Interval:   50 * time.Millisecond,
		})

		runCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_ = publisher.Start(runCtx)

		length, err := client.XLen(ctx, "giftledger:events").Result()
		if err != nil {
			t.Fatalf("failed to read stream: %v", err)
		}
		if length != 1 {
			t.Errorf("expected one streamed event, got %d", length)
		}

		pending, err := outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}
		if len(pending) != 0 {
			t.Errorf("expected every event to be marked published, got %d pending", len(pending))
		}
	})
}
