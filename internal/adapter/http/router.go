package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	BalanceHandler     *handler.BalanceHandler
	AuthHandler        *handler.AuthHandler
	HealthHandler      *handler.HealthHandler
	Authenticator      *middleware.Authenticator
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	MetricsHandler     http.Handler
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = middleware.NewAuthenticator(nil)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Wrap)

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Get("/me", cfg.AuthHandler.Me)

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Patch("/{id}", cfg.AccountHandler.Update)
				r.Post("/{id}/archive", cfg.AccountHandler.Archive)
				r.Post("/{id}/unarchive", cfg.AccountHandler.Unarchive)
				r.Get("/{id}/balance", cfg.BalanceHandler.Balance)
				r.Get("/{id}/balances", cfg.BalanceHandler.Series)
				r.Post("/{id}/balances/materialize", cfg.BalanceHandler.Materialize)
				r.Post("/{id}/reconcile", cfg.BalanceHandler.ReconcileAccount)
			})

			// Transactions
			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Put("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
				r.Get("/{id}/recurrence", cfg.TransactionHandler.Recurrence)
			})

			r.Get("/recurring-rules", cfg.TransactionHandler.ListRules)
			r.Get("/recurring-rules/{id}", cfg.TransactionHandler.GetRule)

			r.Get("/net-worth", cfg.BalanceHandler.NetWorth)
			r.Post("/reconcile", cfg.BalanceHandler.ReconcileAll)
		})
	})

	return r
}
