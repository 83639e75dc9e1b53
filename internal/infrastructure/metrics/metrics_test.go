package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/iho/giftledger/internal/usecase"
)

var _ usecase.MetricsRecorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m.Mutations == nil || m.ImportRows == nil || m.OutboxEvents == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.RecordMutation("credit", decimal.NewFromInt(10), time.Millisecond)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestRecordMutation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordMutation("debit", decimal.RequireFromString("-25.50"), 20*time.Millisecond)
	m.RecordMutation("debit", decimal.NewFromInt(4), time.Millisecond)
	m.RecordMutationError("debit", "insufficient_balance")

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("debit")); got != 2 {
		t.Fatalf("expected 2 debits, got %v", got)
	}
	if got := testutil.ToFloat64(m.MutationErrors.WithLabelValues("debit", "insufficient_balance")); got != 1 {
		t.Fatalf("expected 1 rejected debit, got %v", got)
	}
}

func TestRecordImport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordImport(8, 2, time.Second)
	m.RecordImport(1, 0, time.Second)

	if got := testutil.ToFloat64(m.ImportRuns); got != 2 {
		t.Fatalf("expected 2 runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.ImportRows.WithLabelValues("processed")); got != 9 {
		t.Fatalf("expected 9 processed rows, got %v", got)
	}
	if got := testutil.ToFloat64(m.ImportRows.WithLabelValues("failed")); got != 2 {
		t.Fatalf("expected 2 failed rows, got %v", got)
	}
}

func TestRecordOutboxEvent(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordOutboxEvent("card.created", nil)
	m.RecordOutboxEvent("card.created", errors.New("stream down"))

	if got := testutil.ToFloat64(m.OutboxEvents.WithLabelValues("card.created", "published")); got != 1 {
		t.Fatalf("expected 1 published, got %v", got)
	}
	if got := testutil.ToFloat64(m.OutboxEvents.WithLabelValues("card.created", "failed")); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
}
