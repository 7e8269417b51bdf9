package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/usecase"
)

const limiterIdleTimeout = 3 * time.Minute

// storage is the set of repositories selected by STORAGE_DRIVER.
type storage struct {
	txManager usecase.TxManager
	retrier   usecase.Retrier
	wallets   usecase.WalletRepository
	txLog     usecase.TransactionLog
	users     usecase.UserRepository
	outbox    usecase.OutboxRepository
	checks    []handler.Check
	close     func()
}

// application holds everything the server process runs.
type application struct {
	handler     http.Handler
	relay       *eventpublisher.Relay
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func newApplication(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*application, error) {
	app := &application{}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewWithRegisterer(registry)

	store, err := openStorage(ctx, cfg, logger, m)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.close)

	var (
		cache       usecase.Cache
		idempotency usecase.IdempotencyStore
		publisher   usecase.EventPublisher = eventpublisher.NewLogPublisher(logger)
		checks                             = store.checks
	)

	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, cfg.RedisURL, redis.Options{PoolSize: cfg.RedisPoolSize})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		logger.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(client)
		idempotency = redisRepo.NewIdempotencyStore(client)
		publisher = redisRepo.NewPublisher(client, cfg.EventsChannel)
		checks = append(checks, redisCheck(client))
	}

	idGen := postgresRepo.NewULIDGenerator()
	uow := usecase.NewUnitOfWork(store.txManager, store.retrier)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	users := usecase.NewUserUseCase(uow, store.users, store.wallets, store.outbox, idGen, m)
	wallets := usecase.NewWalletUseCase(store.wallets, cache, cfg.WalletCacheTTL, m, logger)
	ledger := usecase.NewLedgerUseCase(uow, store.wallets, store.txLog, store.outbox, idGen, cache, m, logger)
	history := usecase.NewHistoryUseCase(store.wallets, store.txLog)
	recon := usecase.NewReconciliationUseCase(store.wallets, store.txLog)

	app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	app.relay = eventpublisher.NewRelay(eventpublisher.Config{
		OutboxRepo: store.outbox,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     &logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})

	app.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(users, jwtManager),
		WalletHandler:    handler.NewWalletHandler(wallets, ledger, recon),
		TransferHandler:  handler.NewTransferHandler(ledger, history),
		HealthHandler:    handler.NewHealthHandler(checks...),
		TokenVerifier:    jwtManager,
		IdempotencyStore: idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      app.rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           &logger,
	})

	return app, nil
}

func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memoryRepo.NewStore()
		return &storage{
			txManager: memoryRepo.NewTxManager(store),
			wallets:   memoryRepo.NewWalletRepository(store),
			txLog:     memoryRepo.NewTransactionLog(store),
			users:     memoryRepo.NewUserRepository(store),
			outbox:    memoryRepo.NewOutboxRepository(store),
			close:     func() {},
		}, nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg, logger, m)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("connected to postgres")

	return &storage{
		txManager: postgresRepo.NewTxManager(pool),
		retrier:   postgresRepo.NewRetrier().WithLogger(logger).WithMetrics(m),
		wallets:   postgresRepo.NewWalletRepository(pool),
		txLog:     postgresRepo.NewTransactionRepository(pool),
		users:     postgresRepo.NewUserRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		checks:    []handler.Check{postgresCheck(pool)},
		close:     pool.Close,
	}, nil
}

func postgresCheck(pool *pgxpool.Pool) handler.Check {
	return handler.Check{Name: "postgres", Ping: pool.Ping}
}

func redisCheck(client *goredis.Client) handler.Check {
	return handler.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// runBackground starts the outbox relay and the rate limiter janitor. Both
// stop when ctx is cancelled.
func (a *application) runBackground(ctx context.Context) {
	go func() {
		_ = a.relay.Start(ctx)
	}()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.rateLimiter.CleanupLimiters(limiterIdleTimeout)
			}
		}
	}()
}

// Close releases connections in reverse order of acquisition.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
