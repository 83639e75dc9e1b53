package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/giftledger/internal/adapter/http"
	"github.com/iho/giftledger/internal/adapter/http/handler"
	"github.com/iho/giftledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/giftledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/giftledger/internal/adapter/repository/redis"
	"github.com/iho/giftledger/internal/adapter/sheet"
	"github.com/iho/giftledger/internal/infrastructure/config"
	"github.com/iho/giftledger/internal/infrastructure/eventpublisher"
	applogger "github.com/iho/giftledger/internal/infrastructure/logger"
	"github.com/iho/giftledger/internal/infrastructure/metrics"
	"github.com/iho/giftledger/internal/infrastructure/postgres"
	"github.com/iho/giftledger/internal/infrastructure/redis"
	"github.com/iho/giftledger/internal/usecase"
)

// streamMaxLen caps the approximate length of the outbox stream.
const streamMaxLen = 100000

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	logger := applogger.New(applogger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Str("path", cfg.MigrationsPath).Msg("migrations applied")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New(nil)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout))
	cardRepo := postgresRepo.NewCardRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	ownerRepo := postgresRepo.NewOwnerRepository(pool)
	locationRepo := redisRepo.NewLocationCache(
		postgresRepo.NewLocationRepository(pool),
		redisRepo.NewCache(redisClient),
		cfg.LocationCacheTTL,
		logger,
	)
	outboxRepo := newOutboxRepository(cfg, pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	cardIDGen := postgresRepo.NewUUIDGenerator()
	retrier := postgresRepo.NewRetrierWithLogger(applogger.Component(logger, "retrier"))
	notifier := usecase.NewOutboxNotifier(txManager, outboxRepo, idGen)

	// Initialize use cases
	balanceUC := usecase.NewBalanceUseCase(txManager, cardRepo, entryRepo, idGen, retrier, notifier, appMetrics, logger)
	cardUC := usecase.NewCardUseCase(cardRepo, ownerRepo, cardIDGen, notifier, logger)
	entryUC := usecase.NewEntryUseCase(entryRepo, cardRepo, locationRepo)
	importUC := usecase.NewImportUseCase(balanceUC, cardRepo, locationRepo, appMetrics, applogger.Component(logger, "import"))
	locationUC := usecase.NewLocationUseCase(locationRepo, idGen)
	ownerUC := usecase.NewOwnerUseCase(ownerRepo, idGen)
	reportUC := usecase.NewReportUseCase(cardRepo, entryRepo, locationRepo)
	reconUC := usecase.NewReconciliationUseCase(cardRepo, entryRepo, ledgerRepo)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(
		handler.PingerFunc(pool.Ping),
		handler.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	)

	importLimiter := middleware.NewRateLimiter(cfg.ImportRateLimit, cfg.ImportRateBurst).WithRecorder(appMetrics)
	go cleanupLimiters(ctx, importLimiter, time.Hour)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CardHandler:      handler.NewCardHandler(cardUC),
		BalanceHandler:   handler.NewBalanceHandler(balanceUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		ReportHandler:    handler.NewReportHandler(reportUC, reconUC),
		ImportHandler:    handler.NewImportHandler(importUC, importConfig(cfg)),
		LocationHandler:  handler.NewLocationHandler(locationUC),
		OwnerHandler:     handler.NewOwnerHandler(ownerUC),
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		ImportLimiter:    importLimiter,
		Logger:           logger,
	})

	// Start outbox publisher
	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  newPublisher(cfg, redisClient, logger),
			Recorder:   appMetrics,
			Logger:     applogger.Component(logger, "outbox"),
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	// Create server
	server := newHTTPServer(cfg, router)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func importConfig(cfg *config.Config) handler.ImportConfig {
	return handler.ImportConfig{
		Sheet: sheet.Options{
			HeadingRow: cfg.ImportHeadingRow,
			StartRow:   cfg.ImportStartRow,
			ChunkSize:  cfg.ImportChunkSize,
		},
		MaxUploadBytes: cfg.ImportMaxUploadBytes,
		AllowMultiple:  cfg.ImportAllowMultiple,
	}
}

func newOutboxRepository(cfg *config.Config, pool *pgxpool.Pool) usecase.OutboxRepository {
	if !cfg.OutboxEnabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(pool)
}

// newPublisher streams events to Redis when a stream is configured and
// falls back to logging them.
func newPublisher(cfg *config.Config, client *goredis.Client, logger zerolog.Logger) eventpublisher.Publisher {
	if cfg.OutboxStream == "" || client == nil {
		return eventpublisher.NewLogPublisher(logger)
	}
	return eventpublisher.NewRedisStreamPublisher(client, cfg.OutboxStream, streamMaxLen)
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(every)
		}
	}
}
