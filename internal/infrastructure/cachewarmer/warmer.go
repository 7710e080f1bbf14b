package cachewarmer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
)

// AccountSource pages through accounts whose balances should be kept warm.
type AccountSource interface {
	ListActive(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// Materializer fills the daily balance cache for an account over a date range.
type Materializer interface {
	Materialize(ctx context.Context, userID, accountID string, start, end time.Time) (int, error)
}

// Warmer periodically materializes upcoming daily balances so projection
// reads hit the cache.
type Warmer struct {
	accounts     AccountSource
	materializer Materializer
	logger       zerolog.Logger
	batchSize    int
	interval     time.Duration
	days         int
	now          func() time.Time
}

// Config for Warmer.
type Config struct {
	Accounts     AccountSource
	Materializer Materializer
	Logger       zerolog.Logger
	BatchSize    int           // Accounts fetched per page
	Interval     time.Duration // Time between passes
	Days         int           // Days ahead of today to materialize
}

// New creates a new Warmer.
func New(cfg Config) *Warmer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Days == 0 {
		cfg.Days = 90
	}

	return &Warmer{
		accounts:     cfg.Accounts,
		materializer: cfg.Materializer,
		logger:       cfg.Logger.With().Str("component", "cache_warmer").Logger(),
		batchSize:    cfg.BatchSize,
		interval:     cfg.Interval,
		days:         cfg.Days,
		now:          time.Now,
	}
}

// Start runs warm passes until the context is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	w.logger.Info().
		Int("batch_size", w.batchSize).
		Dur("interval", w.interval).
		Int("days", w.days).
		Msg("cache warmer started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Warm immediately on start
	if _, err := w.warm(ctx); err != nil {
		w.logger.Error().Err(err).Msg("error warming cache on start")
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("cache warmer shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.warm(ctx); err != nil {
				w.logger.Error().Err(err).Msg("error warming cache")
			}
		}
	}
}

// warm runs one pass over every active account and returns how many were
// materialized successfully.
func (w *Warmer) warm(ctx context.Context) (int, error) {
	start := calendar.Normalize(w.now())
	end := start.AddDate(0, 0, w.days)

	warmed := 0
	for offset := 0; ; offset += w.batchSize {
		accounts, err := w.accounts.ListActive(ctx, w.batchSize, offset)
		if err != nil {
			return warmed, err
		}

		for _, account := range accounts {
			if ctx.Err() != nil {
				return warmed, ctx.Err()
			}

			days, err := w.materializer.Materialize(ctx, account.UserID, account.ID, start, end)
			if err != nil {
				w.logger.Error().Err(err).
					Str("account_id", account.ID).
					Msg("failed to warm account")
				// Continue warming other accounts even if one fails
				continue
			}

			w.logger.Debug().
				Str("account_id", account.ID).
				Int("days", days).
				Msg("account warmed")
			warmed++
		}

		if len(accounts) < w.batchSize {
			break
		}
	}

	if warmed > 0 {
		w.logger.Info().Int("accounts", warmed).Msg("cache warm pass complete")
	}

	return warmed, nil
}
