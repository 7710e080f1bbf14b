package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/balance"
	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

// ReconciliationUseCase checks the daily balance cache against the
// transaction history it memoizes.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	balanceRepo DailyBalanceRepository
	balances    *BalanceUseCase
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	balanceRepo DailyBalanceRepository,
	balances *BalanceUseCase,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		balanceRepo: balanceRepo,
		balances:    balances,
		metrics:     metrics,
	}
}

// ReconcileInput selects the account and range to check.
type ReconcileInput struct {
	UserID    string
	AccountID string
	Start     time.Time
	End       time.Time
	// Repair rematerializes the range when anything is off.
	Repair bool
}

// Discrepancy is a cached row that disagrees with history.
type Discrepancy struct {
	Date     time.Time
	Cached   decimal.Decimal
	Computed decimal.Decimal
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID     string
	Start         time.Time
	End           time.Time
	CachedDays    int
	MissingDays   int
	Discrepancies []Discrepancy
	Repaired      bool
	CheckedAt     time.Time
}

// IsReconciled reports whether every cached row matched.
func (r *ReconciliationResult) IsReconciled() bool {
	return len(r.Discrepancies) == 0
}

// ReconcileAccount compares cached daily balances in [start, end] with
// balances computed from history.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, input ReconcileInput) (*ReconciliationResult, error) {
	start, end, err := uc.balances.normalizeRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.UserID, input.AccountID)
	if err != nil {
		return nil, err
	}

	cached, err := uc.balanceRepo.ListRange(ctx, account.ID, start, end)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.ListByAccountUpTo(ctx, account.ID, end)
	if err != nil {
		return nil, err
	}

	expected := make(map[time.Time]decimal.Decimal)
	for _, row := range balance.Series(account, txns, start, end) {
		expected[row.Date] = row.Balance
	}

	result := &ReconciliationResult{
		AccountID:  account.ID,
		Start:      start,
		End:        end,
		CachedDays: len(cached),
		CheckedAt:  time.Now().UTC(),
	}

	for _, row := range cached {
		date := calendar.Normalize(row.Date)
		want, ok := expected[date]
		if !ok || !want.Equal(row.Balance) {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Date:     date,
				Cached:   row.Balance,
				Computed: want,
			})
		}
	}

	result.MissingDays = len(expected) - len(cached)
	if result.MissingDays < 0 {
		result.MissingDays = 0
	}

	if uc.metrics != nil && len(result.Discrepancies) > 0 {
		uc.metrics.BalanceDiscrepancies.Add(float64(len(result.Discrepancies)))
	}

	if input.Repair && len(result.Discrepancies) > 0 && !account.Archived {
		if _, err := uc.balances.materialize(ctx, account, start, end); err != nil {
			return nil, fmt.Errorf("repair daily balances: %w", err)
		}
		result.Repaired = true
	}

	return result, nil
}

// ReconcileAllAccounts reconciles every active account of a user.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context, userID string, start, end time.Time, repair bool) ([]*ReconciliationResult, error) {
	accounts, err := uc.accountRepo.List(ctx, userID, false, maxAccountsPerUser, 0)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, account := range accounts {
		result, err := uc.ReconcileAccount(ctx, ReconcileInput{
			UserID:    userID,
			AccountID: account.ID,
			Start:     start,
			End:       end,
			Repair:    repair,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}
