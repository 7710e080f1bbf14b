package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/recurrence"
)

// LedgerUseCase is the write path for transactions. It links recurring
// rules to their transactions, applies delete modes and keeps the daily
// balance cache in step.
type LedgerUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	ruleRepo    RecurringRuleRepository
	balances    BalanceCache
	expander    *recurrence.Expander
	idGen       IDGenerator
	retrier     Retrier
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	ruleRepo RecurringRuleRepository,
	balances BalanceCache,
	expander *recurrence.Expander,
	idGen IDGenerator,
	retrier Retrier,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		ruleRepo:    ruleRepo,
		balances:    balances,
		expander:    expander,
		idGen:       idGen,
		retrier:     retrier,
		logger:      logger,
		metrics:     metrics,
	}
}

// RecurrenceInput marks a new transaction as recurring.
type RecurrenceInput struct {
	Frequency string
	Interval  int
	EndDate   *time.Time
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	UserID      string
	AccountID   string
	ToAccountID *string
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Category    string
	Cleared     bool
	Recurrence  *RecurrenceInput
}

// CreateTransactionResult holds everything a create persisted.
type CreateTransactionResult struct {
	Transaction *domain.Transaction
	Rule        *domain.RecurringRule
	Instances   []*domain.Transaction
}

// CreateTransaction persists a transaction. When Recurrence is set it
// also creates the rule, links the transaction to it and inserts the
// generated instances, all in one database transaction.
func (uc *LedgerUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*CreateTransactionResult, error) {
	base, err := buildTransaction(input.UserID, input.AccountID, input.ToAccountID, input.Type, input.Amount, input.Date, input.Description, input.Category, input.Cleared)
	if err != nil {
		uc.recordError("create")
		return nil, err
	}

	var freq domain.Frequency
	var interval int
	var endDate *time.Time
	if rec := input.Recurrence; rec != nil {
		if rec.Interval < 0 {
			uc.recordError("create")
			return nil, domain.ErrInvalidInterval
		}
		freq = domain.NormalizeFrequency(rec.Frequency)
		interval = domain.NormalizeInterval(rec.Interval)
		if rec.EndDate != nil {
			end := calendar.Normalize(*rec.EndDate)
			if end.Before(base.Date) {
				uc.recordError("create")
				return nil, domain.ErrInvalidEndDate
			}
			endDate = &end
		}
	}

	var result *CreateTransactionResult
	var accounts map[string]*domain.Account

	err = uc.retrier.Retry(ctx, func() error {
		var err error
		result, accounts, err = uc.createOnce(ctx, base.Clone(), input.Recurrence != nil, freq, interval, endDate)
		return err
	})
	if err != nil {
		uc.recordError("create")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(result.Transaction.Type)).Inc()
		if result.Rule != nil {
			uc.metrics.RecurringRulesCreated.Inc()
			uc.metrics.RecurringInstancesGenerated.Add(float64(len(result.Instances)))
		}
	}

	if result.Rule != nil {
		uc.logger.Info().
			Str("transaction_id", result.Transaction.ID).
			Str("rule_id", result.Rule.ID).
			Str("frequency", string(result.Rule.Frequency)).
			Int("interval", result.Rule.Interval).
			Int("instances", len(result.Instances)).
			Msg("recurring rule created")
	}

	uc.recompute(ctx, accounts, result.Transaction.Date)

	return result, nil
}

func (uc *LedgerUseCase) createOnce(
	ctx context.Context,
	txn *domain.Transaction,
	recurring bool,
	freq domain.Frequency,
	interval int,
	endDate *time.Time,
) (*CreateTransactionResult, map[string]*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(txCtx)

	accounts, err := uc.lockAccounts(txCtx, tx, txn.UserID, txn.AccountIDs())
	if err != nil {
		return nil, nil, err
	}

	if err := checkAccounts(txn, accounts); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	txn.ID = uc.idGen.Generate()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, nil, err
	}

	result := &CreateTransactionResult{Transaction: txn}

	if recurring {
		rule := domain.NewRuleFromTransaction(uc.idGen.Generate(), txn, freq, interval, endDate, now)
		if err := rule.Validate(); err != nil {
			return nil, nil, err
		}

		if err := uc.ruleRepo.Create(txCtx, tx, rule); err != nil {
			return nil, nil, err
		}

		if err := uc.txnRepo.SetRecurringRule(txCtx, tx, txn.ID, rule.ID); err != nil {
			return nil, nil, err
		}
		ruleID := rule.ID
		txn.RecurringRuleID = &ruleID

		instances := uc.expander.Expand(txn, rule, uc.idGen)
		if len(instances) > 0 {
			if err := uc.txnRepo.CreateBatch(txCtx, tx, instances); err != nil {
				return nil, nil, err
			}
		}

		result.Rule = rule
		result.Instances = instances
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	return result, accounts, nil
}

// UpdateTransactionInput replaces the editable fields of one transaction.
// Recurring instances are updated individually; the rule is untouched.
type UpdateTransactionInput struct {
	UserID      string
	ID          string
	AccountID   string
	ToAccountID *string
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Category    string
	Cleared     bool
}

// UpdateTransaction edits a single transaction and recomputes every
// account it touched before or touches after the edit.
func (uc *LedgerUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	next, err := buildTransaction(input.UserID, input.AccountID, input.ToAccountID, input.Type, input.Amount, input.Date, input.Description, input.Category, input.Cleared)
	if err != nil {
		uc.recordError("update")
		return nil, err
	}

	var updated *domain.Transaction
	var from time.Time
	var accounts map[string]*domain.Account

	err = uc.retrier.Retry(ctx, func() error {
		var err error
		updated, from, accounts, err = uc.updateOnce(ctx, input.ID, next.Clone())
		return err
	})
	if err != nil {
		uc.recordError("update")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsUpdated.Inc()
	}

	uc.recompute(ctx, accounts, from)

	return updated, nil
}

func (uc *LedgerUseCase) updateOnce(ctx context.Context, id string, next *domain.Transaction) (*domain.Transaction, time.Time, map[string]*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, time.Time{}, nil, err
	}
	defer tx.Rollback(txCtx)

	existing, err := uc.txnRepo.GetByIDForUpdate(txCtx, tx, next.UserID, id)
	if err != nil {
		return nil, time.Time{}, nil, err
	}

	ids := append(existing.AccountIDs(), next.AccountIDs()...)
	accounts, err := uc.lockAccounts(txCtx, tx, next.UserID, ids)
	if err != nil {
		return nil, time.Time{}, nil, err
	}

	if err := checkAccounts(next, accounts); err != nil {
		return nil, time.Time{}, nil, err
	}

	next.ID = existing.ID
	next.RecurringRuleID = existing.RecurringRuleID
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = time.Now().UTC()

	if err := uc.txnRepo.Update(txCtx, tx, next); err != nil {
		return nil, time.Time{}, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, time.Time{}, nil, err
	}

	return next, calendar.Min(existing.Date, next.Date), accounts, nil
}

// DeleteResult reports what a delete removed.
type DeleteResult struct {
	Mode            domain.DeleteMode
	Deleted         int64
	RuleDeactivated bool
}

// DeleteTransaction removes a transaction. DeleteModeThis removes only
// that row. DeleteModeFuture on a recurring transaction removes it and
// every instance of its rule dated on or after it, then deactivates the
// rule; on a standalone transaction it behaves like DeleteModeThis.
func (uc *LedgerUseCase) DeleteTransaction(ctx context.Context, userID, id string, mode domain.DeleteMode) (*DeleteResult, error) {
	if mode != domain.DeleteModeThis && mode != domain.DeleteModeFuture {
		return nil, domain.ErrInvalidDeleteMode
	}

	var result *DeleteResult
	var from time.Time
	var accounts map[string]*domain.Account

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, from, accounts, err = uc.deleteOnce(ctx, userID, id, mode)
		return err
	})
	if err != nil {
		uc.recordError("delete")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.WithLabelValues(string(result.Mode)).Add(float64(result.Deleted))
		if result.RuleDeactivated {
			uc.metrics.RecurringRulesDeactivated.Inc()
		}
	}

	uc.recompute(ctx, accounts, from)

	return result, nil
}

func (uc *LedgerUseCase) deleteOnce(ctx context.Context, userID, id string, mode domain.DeleteMode) (*DeleteResult, time.Time, map[string]*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, time.Time{}, nil, err
	}
	defer tx.Rollback(txCtx)

	txn, err := uc.txnRepo.GetByIDForUpdate(txCtx, tx, userID, id)
	if err != nil {
		return nil, time.Time{}, nil, err
	}

	accounts, err := uc.lockAccounts(txCtx, tx, userID, txn.AccountIDs())
	if err != nil {
		return nil, time.Time{}, nil, err
	}

	var rule *domain.RecurringRule
	if mode == domain.DeleteModeFuture && txn.RecurringRuleID != nil {
		rule, err = uc.ruleRepo.GetByID(txCtx, userID, *txn.RecurringRuleID)
		if err != nil && !errors.Is(err, domain.ErrRuleNotFound) {
			return nil, time.Time{}, nil, err
		}
		if rule == nil {
			uc.logger.Warn().
				Str("transaction_id", txn.ID).
				Str("rule_id", *txn.RecurringRuleID).
				Msg("recurring rule missing, deleting single transaction")
		}
	}

	result := &DeleteResult{Mode: domain.DeleteModeThis}

	if rule == nil {
		if err := uc.txnRepo.Delete(txCtx, tx, userID, txn.ID); err != nil {
			return nil, time.Time{}, nil, err
		}
		result.Deleted = 1
	} else {
		deleted, err := uc.txnRepo.DeleteByRuleFrom(txCtx, tx, rule.ID, txn.Date)
		if err != nil {
			return nil, time.Time{}, nil, err
		}

		if err := uc.ruleRepo.Deactivate(txCtx, tx, rule.ID, time.Now().UTC()); err != nil {
			return nil, time.Time{}, nil, err
		}

		// single-instance edits may have moved instances to other accounts
		if extra := missingAccountIDs(deleted, accounts); len(extra) > 0 {
			more, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, userID, extra)
			if err != nil {
				return nil, time.Time{}, nil, err
			}
			for _, acc := range more {
				accounts[acc.ID] = acc
			}
		}

		result.Mode = domain.DeleteModeFuture
		result.Deleted = int64(len(deleted))
		result.RuleDeactivated = true
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, time.Time{}, nil, err
	}

	return result, txn.Date, accounts, nil
}

// GetTransaction returns a transaction owned by userID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, userID, id)
}

// TransactionState returns whether a transaction is standalone, the origin
// of a rule or a generated instance.
func (uc *LedgerUseCase) TransactionState(ctx context.Context, userID, id string) (domain.RecurrenceState, error) {
	txn, err := uc.txnRepo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.RecurrenceState{}, err
	}

	return uc.stateOf(ctx, txn)
}

func (uc *LedgerUseCase) stateOf(ctx context.Context, txn *domain.Transaction) (domain.RecurrenceState, error) {
	if txn.RecurringRuleID == nil {
		return domain.Standalone(), nil
	}

	rule, err := uc.ruleRepo.GetByID(ctx, txn.UserID, *txn.RecurringRuleID)
	if err != nil && !errors.Is(err, domain.ErrRuleNotFound) {
		return domain.RecurrenceState{}, err
	}

	return domain.StateOf(txn, rule), nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	UserID    string
	AccountID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ListTransactions lists transactions ordered by date.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	filter := domain.TransactionFilter{
		UserID:    input.UserID,
		AccountID: input.AccountID,
		Limit:     limit,
		Offset:    offset,
	}

	if input.From != nil {
		from := calendar.Normalize(*input.From)
		filter.From = &from
	}
	if input.To != nil {
		to := calendar.Normalize(*input.To)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidDateRange
	}

	return uc.txnRepo.List(ctx, filter)
}

// GetRecurringRule returns a rule owned by userID.
func (uc *LedgerUseCase) GetRecurringRule(ctx context.Context, userID, id string) (*domain.RecurringRule, error) {
	return uc.ruleRepo.GetByID(ctx, userID, id)
}

// ListRecurringRules lists a user's rules, optionally only active ones.
func (uc *LedgerUseCase) ListRecurringRules(ctx context.Context, userID string, activeOnly bool, limit, offset int) ([]*domain.RecurringRule, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.ruleRepo.List(ctx, userID, activeOnly, limit, offset)
}

// lockAccounts locks the given accounts in sorted order to avoid deadlocks.
func (uc *LedgerUseCase) lockAccounts(ctx context.Context, tx Tx, userID string, ids []string) (map[string]*domain.Account, error) {
	ids = uniqueSorted(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, userID, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}

	return byID, nil
}

func (uc *LedgerUseCase) recompute(ctx context.Context, accounts map[string]*domain.Account, from time.Time) {
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		uc.balances.Recompute(ctx, accounts[id], from)
	}
}

func (uc *LedgerUseCase) recordError(operation string) {
	if uc.metrics != nil {
		uc.metrics.TransactionErrors.WithLabelValues(operation).Inc()
	}
}

// buildTransaction validates raw input into a transaction without
// touching storage.
func buildTransaction(
	userID, accountID string,
	toAccountID *string,
	typ string,
	amount decimal.Decimal,
	date time.Time,
	description, category string,
	cleared bool,
) (*domain.Transaction, error) {
	txnType, err := domain.ParseTransactionType(typ)
	if err != nil {
		return nil, err
	}

	description, err = domain.ValidateText("description", description, domain.MaxDescriptionLength)
	if err != nil {
		return nil, err
	}

	category, err = domain.ValidateText("category", category, domain.MaxCategoryLength)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Type:        txnType,
		Amount:      amount,
		Description: description,
		Category:    category,
		Cleared:     cleared,
	}

	if !date.IsZero() {
		txn.Date = calendar.Normalize(date)
	}

	if toAccountID != nil {
		to := *toAccountID
		txn.ToAccountID = &to
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	return txn, nil
}

// checkAccounts verifies the accounts a transaction will touch and stamps
// the source account's currency on it.
func checkAccounts(txn *domain.Transaction, accounts map[string]*domain.Account) error {
	source, ok := accounts[txn.AccountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if source.Archived {
		return domain.ErrAccountArchived
	}

	if txn.ToAccountID != nil {
		dest, ok := accounts[*txn.ToAccountID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if dest.Archived {
			return domain.ErrAccountArchived
		}
		if dest.Currency != source.Currency {
			return domain.ErrCurrencyMismatch
		}
	}

	txn.Currency = source.Currency

	return nil
}

func missingAccountIDs(txns []*domain.Transaction, known map[string]*domain.Account) []string {
	var ids []string
	for _, txn := range txns {
		for _, id := range txn.AccountIDs() {
			if _, ok := known[id]; !ok {
				ids = append(ids, id)
			}
		}
	}
	return uniqueSorted(ids)
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
