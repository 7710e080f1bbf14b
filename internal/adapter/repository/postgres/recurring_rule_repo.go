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

// RecurringRuleRepository implements usecase.RecurringRuleRepository.
type RecurringRuleRepository struct {
	queries *generated.Queries
}

// NewRecurringRuleRepository creates a new RecurringRuleRepository.
func NewRecurringRuleRepository(pool *pgxpool.Pool) *RecurringRuleRepository {
	return newRecurringRuleRepository(pool)
}

func newRecurringRuleRepository(db generated.DBTX) *RecurringRuleRepository {
	return &RecurringRuleRepository{queries: generated.New(db)}
}

// Create inserts a rule inside tx.
func (r *RecurringRuleRepository) Create(ctx context.Context, tx usecase.Tx, rule *domain.RecurringRule) error {
	return queriesFor(tx).CreateRecurringRule(ctx, generated.CreateRecurringRuleParams{
		ID:                  rule.ID,
		UserID:              rule.UserID,
		AccountID:           rule.AccountID,
		ToAccountID:         stringPtrToText(rule.ToAccountID),
		OriginTransactionID: rule.OriginTransactionID,
		Type:                string(rule.Template.Type),
		Amount:              decimalToNumeric(rule.Template.Amount),
		Currency:            rule.Template.Currency,
		Description:         rule.Template.Description,
		Category:            rule.Template.Category,
		Frequency:           string(rule.Frequency),
		Interval:            int32(rule.Interval),
		StartDate:           timeToPgDate(rule.StartDate),
		EndDate:             timePtrToPgDate(rule.EndDate),
		Active:              rule.Active,
		CreatedAt:           timeToPgTimestamptz(rule.CreatedAt),
		UpdatedAt:           timeToPgTimestamptz(rule.UpdatedAt),
	})
}

// GetByID retrieves a rule owned by userID.
func (r *RecurringRuleRepository) GetByID(ctx context.Context, userID, id string) (*domain.RecurringRule, error) {
	row, err := r.queries.GetRecurringRuleByID(ctx, generated.GetRecurringRuleByIDParams{ID: id, UserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	return rowToRecurringRule(row), nil
}

// Deactivate stops a rule from being treated as live.
func (r *RecurringRuleRepository) Deactivate(ctx context.Context, tx usecase.Tx, id string, updatedAt time.Time) error {
	n, err := queriesFor(tx).DeactivateRecurringRule(ctx, generated.DeactivateRecurringRuleParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

// List returns a page of the user's rules.
func (r *RecurringRuleRepository) List(ctx context.Context, userID string, activeOnly bool, limit, offset int) ([]*domain.RecurringRule, error) {
	rows, err := r.queries.ListRecurringRules(ctx, generated.ListRecurringRulesParams{
		UserID:     userID,
		ActiveOnly: activeOnly,
		RowLimit:   int32(limit),
		RowOffset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	rules := make([]*domain.RecurringRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, rowToRecurringRule(row))
	}

	return rules, nil
}

func rowToRecurringRule(row generated.RecurringRule) *domain.RecurringRule {
	return &domain.RecurringRule{
		ID:                  row.ID,
		UserID:              row.UserID,
		AccountID:           row.AccountID,
		ToAccountID:         textToStringPtr(row.ToAccountID),
		OriginTransactionID: row.OriginTransactionID,
		Template: domain.RuleTemplate{
			Type:        domain.TransactionType(row.Type),
			Amount:      numericToDecimal(row.Amount),
			Currency:    row.Currency,
			Description: row.Description,
			Category:    row.Category,
		},
		Frequency: domain.Frequency(row.Frequency),
		Interval:  int(row.Interval),
		StartDate: pgDateToTime(row.StartDate),
		EndDate:   pgDateToTimePtr(row.EndDate),
		Active:    row.Active,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
