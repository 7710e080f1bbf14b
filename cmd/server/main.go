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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobudget/internal/adapter/http"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gobudget/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobudget/internal/adapter/repository/redis"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/infrastructure/cachewarmer"
	"github.com/iho/gobudget/internal/infrastructure/config"
	"github.com/iho/gobudget/internal/infrastructure/logger"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/infrastructure/postgres"
	redisInfra "github.com/iho/gobudget/internal/infrastructure/redis"
	"github.com/iho/gobudget/internal/recurrence"
	"github.com/iho/gobudget/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokens, err := newJWTManager(cfg)
	if err != nil {
		return err
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redisInfra.NewClient(ctx, redisInfra.ClientConfig{
		URL:      cfg.RedisURL,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go cleanupLimiters(ctx, rateLimiter, log)

	routerCfg, warmer := buildRouterConfig(cfg, log, pool, redisClient, tokens, rateLimiter)
	router := httpAdapter.NewRouter(routerCfg)

	if warmer != nil {
		go func() {
			if err := warmer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("cache warmer stopped")
			}
		}()
	}

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth_enabled", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func buildRouterConfig(
	cfg *config.Config,
	log zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	tokens *auth.JWTManager,
	rateLimiter *middleware.RateLimiter,
) (httpAdapter.RouterConfig, *cachewarmer.Warmer) {
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	ruleRepo := postgresRepo.NewRecurringRuleRepository(pool)
	balanceRepo := postgresRepo.NewDailyBalanceRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Initialize use cases
	balanceUC := usecase.NewBalanceUseCase(txManager, accountRepo, txnRepo, balanceRepo, cfg.MaxBalanceRangeDays, log, m)
	ledgerUC := usecase.NewLedgerUseCase(
		txManager,
		accountRepo,
		txnRepo,
		ruleRepo,
		balanceUC,
		recurrence.NewExpander(cfg.RecurrenceHorizonMonths),
		idGen,
		retrier,
		log,
		m,
	)
	accountUC := usecase.NewAccountUseCase(accountRepo, balanceUC, idGen, log, m)
	reconcileUC := usecase.NewReconciliationUseCase(accountRepo, txnRepo, balanceRepo, balanceUC, m)
	userUC := usecase.NewUserUseCase(userRepo, tokens, idGen, m)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC, reconcileUC),
		AuthHandler:        handler.NewAuthHandler(userUC),
		HealthHandler: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Check: pool.Ping},
			handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		),
		Authenticator:    newAuthenticator(cfg, tokens),
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		MetricsHandler:   promhttp.Handler(),
		Logger:           log,
	}

	return routerCfg, newCacheWarmer(cfg, log, accountRepo, balanceUC)
}

// newCacheWarmer returns nil when warming is disabled.
func newCacheWarmer(cfg *config.Config, log zerolog.Logger, accounts cachewarmer.AccountSource, materializer cachewarmer.Materializer) *cachewarmer.Warmer {
	if cfg.CacheWarmInterval <= 0 {
		return nil
	}
	return cachewarmer.New(cachewarmer.Config{
		Accounts:     accounts,
		Materializer: materializer,
		Logger:       log,
		Interval:     cfg.CacheWarmInterval,
		Days:         cfg.CacheWarmDays,
	})
}

// newJWTManager refuses to start with token auth and no signing secret.
func newJWTManager(cfg *config.Config) (*auth.JWTManager, error) {
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), nil
}

func newAuthenticator(cfg *config.Config, tokens *auth.JWTManager) *middleware.Authenticator {
	if !cfg.AuthEnabled {
		return middleware.NewAuthenticator(nil)
	}
	return middleware.NewAuthenticator(tokens)
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

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := rl.CleanupLimiters(limiterIdleTimeout); removed > 0 {
				log.Debug().Int("removed", removed).Msg("pruned idle rate limiters")
			}
		}
	}
}
