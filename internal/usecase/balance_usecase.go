package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/balance"
	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

// BalanceCache keeps the daily balance cache in step with writes.
type BalanceCache interface {
	// Recompute refreshes cached rows of account dated on or after from.
	// Failures are logged, never returned.
	Recompute(ctx context.Context, account *domain.Account, from time.Time)
	InvalidateAccount(ctx context.Context, accountID string) error
}

// BalanceUseCase answers balance queries, reading through the daily
// balance cache and falling back to the transaction history.
type BalanceUseCase struct {
	txManager    TxManager
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	balanceRepo  DailyBalanceRepository
	maxRangeDays int
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. maxRangeDays <= 0 uses
// DefaultMaxRangeDays.
func NewBalanceUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	balanceRepo DailyBalanceRepository,
	maxRangeDays int,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &BalanceUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		balanceRepo:  balanceRepo,
		maxRangeDays: maxRangeDays,
		logger:       logger,
		metrics:      metrics,
	}
}

// BalanceResult is an account balance at the end of a day.
type BalanceResult struct {
	AccountID string
	Currency  string
	Date      time.Time
	Balance   decimal.Decimal
	Cached    bool
}

// GetBalance returns the balance of an account at the end of date. An
// unknown account yields ErrAccountNotFound, never a zero balance.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, userID, accountID string, date time.Time) (*BalanceResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	return uc.balanceAt(ctx, account, calendar.Normalize(date))
}

func (uc *BalanceUseCase) balanceAt(ctx context.Context, account *domain.Account, date time.Time) (*BalanceResult, error) {
	result := &BalanceResult{
		AccountID: account.ID,
		Currency:  account.Currency,
		Date:      date,
	}

	row, err := uc.balanceRepo.Get(ctx, account.ID, date)
	switch {
	case err == nil:
		result.Balance = row.Balance
		result.Cached = true
		uc.recordLookup(metrics.SourceCache)
		return result, nil
	case !errors.Is(err, domain.ErrDailyBalanceNotFound):
		// the cache is optional; history is authoritative
		uc.logger.Warn().Err(err).
			Str("account_id", account.ID).
			Str("date", calendar.Format(date)).
			Msg("daily balance cache read failed, computing from history")
	}

	txns, err := uc.txnRepo.ListByAccountUpTo(ctx, account.ID, date)
	if err != nil {
		return nil, err
	}

	result.Balance = balance.At(account, txns, date)
	uc.recordLookup(metrics.SourceComputed)

	return result, nil
}

// GetBalanceSeries returns one balance per day in [start, end] for a
// calendar view. Fully cached ranges are served from the cache.
func (uc *BalanceUseCase) GetBalanceSeries(ctx context.Context, userID, accountID string, start, end time.Time) ([]domain.DailyBalance, error) {
	start, end, err := uc.normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	days := calendar.DaysBetween(start, end) + 1

	cached, err := uc.balanceRepo.ListRange(ctx, account.ID, start, end)
	if err != nil {
		uc.logger.Warn().Err(err).Str("account_id", account.ID).Msg("daily balance cache range read failed")
	} else if len(cached) == days {
		out := make([]domain.DailyBalance, 0, days)
		for _, row := range cached {
			out = append(out, *row)
		}
		uc.recordLookup(metrics.SourceCache)
		return out, nil
	}

	return uc.computeSeries(ctx, account, start, end)
}

func (uc *BalanceUseCase) computeSeries(ctx context.Context, account *domain.Account, start, end time.Time) ([]domain.DailyBalance, error) {
	txns, err := uc.txnRepo.ListByAccountUpTo(ctx, account.ID, end)
	if err != nil {
		return nil, err
	}

	uc.recordLookup(metrics.SourceComputed)

	return balance.Series(account, txns, start, end), nil
}

// Materialize computes and stores a cached balance for every day in
// [start, end]. It is idempotent: re-running an overlapping range writes
// the same values. Archived accounts are rejected.
func (uc *BalanceUseCase) Materialize(ctx context.Context, userID, accountID string, start, end time.Time) (int, error) {
	start, end, err := uc.normalizeRange(start, end)
	if err != nil {
		return 0, err
	}

	account, err := uc.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}

	if account.Archived {
		return 0, domain.ErrAccountArchived
	}

	return uc.materialize(ctx, account, start, end)
}

// materialize writes the series for account under its row lock. Ledger
// writes hold the same lock until they commit, so the history read here
// includes every committed write and no later write can be overwritten by
// these rows. The account is re-read under the lock; the caller's copy may
// be stale.
func (uc *BalanceUseCase) materialize(ctx context.Context, account *domain.Account, start, end time.Time) (int, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(txCtx)

	locked, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, account.UserID, []string{account.ID})
	if err != nil {
		return 0, err
	}
	if len(locked) == 0 {
		return 0, domain.ErrAccountNotFound
	}
	account = locked[0]
	if account.Archived {
		return 0, domain.ErrAccountArchived
	}

	rows, err := uc.computeSeries(txCtx, account, start, end)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for i := range rows {
		rows[i].ComputedAt = now
	}

	if err := uc.balanceRepo.UpsertBatch(txCtx, tx, rows); err != nil {
		return 0, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceRowsMaterialized.Add(float64(len(rows)))
	}

	return len(rows), nil
}

// Recompute rematerializes cached rows from from up to the newest cached
// date. Rows past the newest cached date are not created. When
// rematerializing fails the rows are dropped instead, so a stale value is
// never served; the on-the-fly path covers the gap.
func (uc *BalanceUseCase) Recompute(ctx context.Context, account *domain.Account, from time.Time) {
	start := time.Now()
	from = calendar.Normalize(from)

	err := uc.recompute(ctx, account, from)

	if uc.metrics != nil {
		uc.metrics.BalanceRecomputeDuration.Observe(time.Since(start).Seconds())
	}

	if err == nil {
		return
	}

	if uc.metrics != nil {
		uc.metrics.BalanceRecomputeErrors.Inc()
	}

	log := uc.logger.Error().Err(err).
		Str("account_id", account.ID).
		Str("from", calendar.Format(from))

	if delErr := uc.balanceRepo.DeleteFrom(ctx, account.ID, from); delErr != nil {
		log.AnErr("invalidate_error", delErr).Msg("balance recompute failed and cache could not be invalidated")
		return
	}

	log.Msg("balance recompute failed, cached rows invalidated")
}

func (uc *BalanceUseCase) recompute(ctx context.Context, account *domain.Account, from time.Time) error {
	if account.Archived {
		return uc.balanceRepo.DeleteFrom(ctx, account.ID, from)
	}

	latest, ok, err := uc.balanceRepo.LatestDate(ctx, account.ID)
	if err != nil {
		return err
	}
	if !ok || latest.Before(from) {
		return nil
	}

	// chunk so a long-lived cache never exceeds the range guard
	for chunkStart := from; !chunkStart.After(latest); {
		chunkEnd := calendar.Min(latest, calendar.AddInterval(chunkStart, calendar.Day, uc.maxRangeDays-1))
		if _, err := uc.materialize(ctx, account, chunkStart, chunkEnd); err != nil {
			return fmt.Errorf("materialize %s..%s: %w", calendar.Format(chunkStart), calendar.Format(chunkEnd), err)
		}
		chunkStart = calendar.AddInterval(chunkEnd, calendar.Day, 1)
	}

	return nil
}

// InvalidateAccount drops every cached row of an account.
func (uc *BalanceUseCase) InvalidateAccount(ctx context.Context, accountID string) error {
	return uc.balanceRepo.DeleteByAccount(ctx, accountID)
}

// NetWorthResult sums balances per currency.
type NetWorthResult struct {
	Date     time.Time
	Totals   map[string]decimal.Decimal
	Accounts []*BalanceResult
}

// NetWorth returns assets minus debts per currency at the end of date.
// Archived accounts are excluded.
func (uc *BalanceUseCase) NetWorth(ctx context.Context, userID string, date time.Time) (*NetWorthResult, error) {
	date = calendar.Normalize(date)

	accounts, err := uc.accountRepo.List(ctx, userID, false, maxAccountsPerUser, 0)
	if err != nil {
		return nil, err
	}

	result := &NetWorthResult{
		Date:   date,
		Totals: make(map[string]decimal.Decimal),
	}

	byCurrency := make(map[string][]*domain.Account)
	balances := make(map[string]decimal.Decimal, len(accounts))

	for _, account := range accounts {
		if account.Archived {
			continue
		}

		b, err := uc.balanceAt(ctx, account, date)
		if err != nil {
			return nil, err
		}

		result.Accounts = append(result.Accounts, b)
		balances[account.ID] = b.Balance
		byCurrency[account.Currency] = append(byCurrency[account.Currency], account)
	}

	for currency, group := range byCurrency {
		result.Totals[currency] = balance.NetWorth(group, balances)
	}

	return result, nil
}

func (uc *BalanceUseCase) normalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	start = calendar.Normalize(start)
	end = calendar.Normalize(end)

	if end.Before(start) {
		return start, end, domain.ErrInvalidDateRange
	}

	if days := calendar.DaysBetween(start, end) + 1; days > uc.maxRangeDays {
		return start, end, fmt.Errorf("%w: %d days requested, at most %d allowed", domain.ErrRangeTooLarge, days, uc.maxRangeDays)
	}

	return start, end, nil
}

func (uc *BalanceUseCase) recordLookup(source string) {
	if uc.metrics != nil {
		uc.metrics.BalanceLookups.WithLabelValues(source).Inc()
	}
}
