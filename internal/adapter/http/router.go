package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/giftledger/internal/adapter/http/handler"
	"github.com/iho/giftledger/internal/adapter/http/middleware"
	"github.com/iho/giftledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CardHandler     *handler.CardHandler
	BalanceHandler  *handler.BalanceHandler
	EntryHandler    *handler.EntryHandler
	ReportHandler   *handler.ReportHandler
	ImportHandler   *handler.ImportHandler
	LocationHandler *handler.LocationHandler
	OwnerHandler    *handler.OwnerHandler
	HealthHandler   *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// ImportLimiter throttles uploads per client. Nil disables it.
	ImportLimiter *middleware.RateLimiter
	Logger        zerolog.Logger
	// MetricsHandler serves /metrics. Nil uses the default registry.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Owners
		r.Route("/owners", func(r chi.Router) {
			r.Post("/", cfg.OwnerHandler.Create)
			r.Get("/{id}", cfg.OwnerHandler.Get)
		})

		// Locations
		r.Route("/locations", func(r chi.Router) {
			r.Post("/", cfg.LocationHandler.Create)
			r.Get("/", cfg.LocationHandler.List)
			r.Get("/lookup", cfg.LocationHandler.Lookup)
			r.Get("/{id}", cfg.LocationHandler.Get)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByLocation)
			r.Get("/{id}/closure", cfg.ReportHandler.Closure)
		})

		// Cards
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cfg.CardHandler.Create)
			r.Get("/", cfg.CardHandler.List)
			r.Get("/lookup", cfg.CardHandler.Lookup)
			r.Get("/{id}", cfg.CardHandler.Get)
			r.Delete("/{id}", cfg.CardHandler.Purge)
			r.Patch("/{id}/external-id", cfg.CardHandler.ChangeExternalID)
			r.Post("/{id}/activate", cfg.CardHandler.Activate)
			r.Post("/{id}/deactivate", cfg.CardHandler.Deactivate)
			r.Post("/{id}/archive", cfg.CardHandler.Archive)
			r.Post("/{id}/restore", cfg.CardHandler.Restore)

			r.Post("/{id}/credit", cfg.BalanceHandler.Credit)
			r.Post("/{id}/debit", cfg.BalanceHandler.Debit)
			r.Post("/{id}/adjustments", cfg.BalanceHandler.Adjust)

			r.Get("/{id}/entries", cfg.EntryHandler.ListByCard)
			r.Get("/{id}/statement", cfg.ReportHandler.Statement)
			r.Get("/{id}/reconciliation", cfg.ReportHandler.Reconcile)
		})

		// Entries
		r.Get("/entries/{id}", cfg.EntryHandler.Get)

		// Imports
		r.Group(func(r chi.Router) {
			if cfg.ImportLimiter != nil {
				r.Use(cfg.ImportLimiter.Limit)
			}
			r.Post("/imports", cfg.ImportHandler.Upload)
		})

		// Ledger
		r.Get("/ledger/consistency", cfg.ReportHandler.CheckConsistency)
		r.Get("/ledger/reconciliation", cfg.ReportHandler.ReconciliationReport)
	})

	return r
}
