package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/dailyledger/internal/adapter/http"
	"github.com/iho/dailyledger/internal/adapter/http/handler"
	"github.com/iho/dailyledger/internal/adapter/http/middleware"
	"github.com/iho/dailyledger/internal/adapter/idgen"
	"github.com/iho/dailyledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/dailyledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/dailyledger/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/dailyledger/internal/adapter/repository/sqlite"
	"github.com/iho/dailyledger/internal/infrastructure/config"
	"github.com/iho/dailyledger/internal/infrastructure/logger"
	"github.com/iho/dailyledger/internal/infrastructure/metrics"
	"github.com/iho/dailyledger/internal/infrastructure/postgres"
	"github.com/iho/dailyledger/internal/infrastructure/redis"
	"github.com/iho/dailyledger/internal/usecase"
)

const limiterCleanupInterval = time.Minute

// store is a transaction repository that can report its health.
type store interface {
	usecase.TransactionRepository
	handler.Pinger
}

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	txRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := map[string]handler.Pinger{"store": txRepo}
	recorder := metrics.New(prometheus.DefaultRegisterer)

	balanceOpts := []usecase.BalanceOption{usecase.WithBalanceMetrics(recorder)}
	var idempotencyStore usecase.IdempotencyStore

	// Connect to Redis
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		balanceOpts = append(balanceOpts, usecase.WithBalanceCache(redisRepo.NewCache(redisClient), cfg.BalanceCacheTTL))
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = redis.NewPinger(redisClient)
	}

	// Initialize use cases
	txUC := usecase.NewTransactionUseCase(txRepo, idgen.NewULIDGenerator()).WithMetrics(recorder)
	balanceUC := usecase.NewBalanceUseCase(txRepo, balanceOpts...)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(txUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		HealthHandler:      handler.NewHealthHandler(checks),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Logger:             log.Logger,
		MetricsHandler:     promhttp.Handler(),
	})

	server := newServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if rateLimiter != nil {
		g.Go(func() error {
			return rateLimiter.Run(gctx, limiterCleanupInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// openStore builds the configured transaction store. The returned func
// releases its resources.
func openStore(ctx context.Context, cfg *config.Config) (store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewTransactionRepository(), func() {}, nil

	case config.StoreSQLite:
		repo, err := sqliteRepo.NewTransactionRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close sqlite store")
			}
		}, nil

	case config.StorePostgres:
		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		retrier := postgresRepo.NewRetrier().WithLogger(log.Logger)
		return postgresRepo.NewTransactionRepository(pool).WithRetrier(retrier), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
