package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds the ledger's Prometheus metrics and implements
// usecase.MetricsRecorder.
type Metrics struct {
	// Balance mutation metrics
	Mutations        *prometheus.CounterVec
	MutationAmount   *prometheus.HistogramVec
	MutationDuration *prometheus.HistogramVec
	MutationErrors   *prometheus.CounterVec

	// Bulk import metrics
	ImportRuns     prometheus.Counter
	ImportRows     *prometheus.CounterVec
	ImportDuration prometheus.Histogram

	// Outbox metrics
	OutboxEvents *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftledger_mutations_total",
				Help: "Total committed balance mutations by kind",
			},
			[]string{"kind"},
		),
		MutationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "giftledger_mutation_amount",
				Help:    "Absolute amounts of committed balance mutations",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"kind"},
		),
		MutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "giftledger_mutation_duration_seconds",
				Help:    "Duration of balance mutations including lock wait",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		MutationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftledger_mutation_errors_total",
				Help: "Rejected or failed balance mutations by kind and reason",
			},
			[]string{"kind", "reason"},
		),

		ImportRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "giftledger_import_runs_total",
			Help: "Total bulk import runs",
		}),
		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftledger_import_rows_total",
				Help: "Bulk import rows by outcome",
			},
			[]string{"outcome"},
		),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "giftledger_import_duration_seconds",
			Help:    "Duration of bulk import runs",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		}),

		OutboxEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftledger_outbox_events_total",
				Help: "Outbox events handled by the publisher",
			},
			[]string{"event_type", "result"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftledger_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
	}
}

// RecordMutation records a committed balance mutation.
func (m *Metrics) RecordMutation(kind string, amount decimal.Decimal, duration time.Duration) {
	m.Mutations.WithLabelValues(kind).Inc()
	m.MutationAmount.WithLabelValues(kind).Observe(amount.Abs().InexactFloat64())
	m.MutationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordMutationError records a rejected or failed mutation.
func (m *Metrics) RecordMutationError(kind, reason string) {
	m.MutationErrors.WithLabelValues(kind, reason).Inc()
}

// RecordImport records the outcome of one import run.
func (m *Metrics) RecordImport(processed, failed int, duration time.Duration) {
	m.ImportRuns.Inc()
	m.ImportRows.WithLabelValues("processed").Add(float64(processed))
	m.ImportRows.WithLabelValues("failed").Add(float64(failed))
	m.ImportDuration.Observe(duration.Seconds())
}

// RecordOutboxEvent records a publish attempt.
func (m *Metrics) RecordOutboxEvent(eventType string, err error) {
	result := "published"
	if err != nil {
		result = "failed"
	}
	m.OutboxEvents.WithLabelValues(eventType, result).Inc()
}

// RecordRateLimitHit records a throttled request.
func (m *Metrics) RecordRateLimitHit(path string) {
	m.RateLimitHits.WithLabelValues(path).Inc()
}
