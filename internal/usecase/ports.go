package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Notifier delivers post-commit notifications. Delivery failures never
// affect the mutation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, aggregateID, eventType string, payload any) error
}

// MetricsRecorder records domain metrics.
type MetricsRecorder interface {
	RecordMutation(kind string, amount decimal.Decimal, duration time.Duration)
	RecordMutationError(kind, reason string)
	RecordImport(processed, failed int, duration time.Duration)
}

// NoopRetrier runs the operation once.
type NoopRetrier struct{}

func (NoopRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, string, any) error { return nil }

// NoopMetrics discards metrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordMutation(string, decimal.Decimal, time.Duration) {}
func (NoopMetrics) RecordMutationError(string, string)                    {}
func (NoopMetrics) RecordImport(int, int, time.Duration)                  {}
