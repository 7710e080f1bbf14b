package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/postgres/generated"
	"github.com/iho/gobudget/internal/usecase"
)

// DailyBalanceRepository implements usecase.DailyBalanceRepository on the
// daily_balances table.
type DailyBalanceRepository struct {
	queries *generated.Queries
}

// NewDailyBalanceRepository creates a new DailyBalanceRepository.
func NewDailyBalanceRepository(pool *pgxpool.Pool) *DailyBalanceRepository {
	return newDailyBalanceRepository(pool)
}

func newDailyBalanceRepository(db generated.DBTX) *DailyBalanceRepository {
	return &DailyBalanceRepository{queries: generated.New(db)}
}

// Get returns the cached balance for one day.
func (r *DailyBalanceRepository) Get(ctx context.Context, accountID string, date time.Time) (*domain.DailyBalance, error) {
	row, err := r.queries.GetDailyBalance(ctx, generated.GetDailyBalanceParams{
		AccountID: accountID,
		Date:      timeToPgDate(date),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDailyBalanceNotFound
		}
		return nil, err
	}

	return rowToDailyBalance(row), nil
}

// ListRange returns cached rows in [start, end] ordered by date.
func (r *DailyBalanceRepository) ListRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.DailyBalance, error) {
	rows, err := r.queries.ListDailyBalances(ctx, generated.ListDailyBalancesParams{
		AccountID: accountID,
		Date:      timeToPgDate(start),
		Date_2:    timeToPgDate(end),
	})
	if err != nil {
		return nil, err
	}

	balances := make([]*domain.DailyBalance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, rowToDailyBalance(row))
	}

	return balances, nil
}

// UpsertBatch writes rows in a single pipelined batch inside tx.
func (r *DailyBalanceRepository) UpsertBatch(ctx context.Context, tx usecase.Tx, rows []domain.DailyBalance) error {
	if len(rows) == 0 {
		return nil
	}

	params := make([]generated.UpsertDailyBalanceParams, 0, len(rows))
	for _, row := range rows {
		params = append(params, generated.UpsertDailyBalanceParams{
			AccountID:  row.AccountID,
			Date:       timeToPgDate(row.Date),
			Balance:    decimalToNumeric(row.Balance),
			ComputedAt: timeToPgTimestamptz(row.ComputedAt),
		})
	}

	var batchErr error
	queriesFor(tx).UpsertDailyBalance(ctx, params).Exec(func(_ int, err error) {
		if err != nil && batchErr == nil {
			batchErr = err
		}
	})

	return batchErr
}

// LatestDate returns the newest cached date for the account.
func (r *DailyBalanceRepository) LatestDate(ctx context.Context, accountID string) (time.Time, bool, error) {
	latest, err := r.queries.GetLatestDailyBalanceDate(ctx, accountID)
	if err != nil {
		return time.Time{}, false, err
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}

	return pgDateToTime(latest), true, nil
}

// DeleteFrom drops cached rows dated on or after from.
func (r *DailyBalanceRepository) DeleteFrom(ctx context.Context, accountID string, from time.Time) error {
	return r.queries.DeleteDailyBalancesFrom(ctx, generated.DeleteDailyBalancesFromParams{
		AccountID: accountID,
		Date:      timeToPgDate(from),
	})
}

// DeleteByAccount drops every cached row of the account.
func (r *DailyBalanceRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	return r.queries.DeleteDailyBalancesByAccount(ctx, accountID)
}

func rowToDailyBalance(row generated.DailyBalance) *domain.DailyBalance {
	return &domain.DailyBalance{
		AccountID:  row.AccountID,
		Date:       pgDateToTime(row.Date),
		Balance:    numericToDecimal(row.Balance),
		ComputedAt: row.ComputedAt.Time,
	}
}
