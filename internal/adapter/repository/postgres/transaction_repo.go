package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/postgres/generated"
	"github.com/iho/gobudget/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a single transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	return queriesFor(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:              txn.ID,
		UserID:          txn.UserID,
		AccountID:       txn.AccountID,
		ToAccountID:     stringPtrToText(txn.ToAccountID),
		Type:            string(txn.Type),
		Amount:          decimalToNumeric(txn.Amount),
		Currency:        txn.Currency,
		Date:            timeToPgDate(txn.Date),
		Description:     txn.Description,
		Category:        txn.Category,
		Cleared:         txn.Cleared,
		RecurringRuleID: stringPtrToText(txn.RecurringRuleID),
		CreatedAt:       timeToPgTimestamptz(txn.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(txn.UpdatedAt),
	})
}

// CreateBatch bulk-inserts generated instances with COPY. Rows without
// timestamps are stamped with the current time.
func (r *TransactionRepository) CreateBatch(ctx context.Context, tx usecase.Tx, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	now := time.Now().UTC()
	params := make([]generated.CreateTransactionsParams, 0, len(txns))
	for _, txn := range txns {
		createdAt, updatedAt := txn.CreatedAt, txn.UpdatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if updatedAt.IsZero() {
			updatedAt = now
		}

		params = append(params, generated.CreateTransactionsParams{
			ID:              txn.ID,
			UserID:          txn.UserID,
			AccountID:       txn.AccountID,
			ToAccountID:     stringPtrToText(txn.ToAccountID),
			Type:            string(txn.Type),
			Amount:          decimalToNumeric(txn.Amount),
			Currency:        txn.Currency,
			Date:            timeToPgDate(txn.Date),
			Description:     txn.Description,
			Category:        txn.Category,
			Cleared:         txn.Cleared,
			RecurringRuleID: stringPtrToText(txn.RecurringRuleID),
			CreatedAt:       timeToPgTimestamptz(createdAt),
			UpdatedAt:       timeToPgTimestamptz(updatedAt),
		})
	}

	n, err := queriesFor(tx).CreateTransactions(ctx, params)
	if err != nil {
		return err
	}
	if n != int64(len(params)) {
		return fmt.Errorf("copied %d of %d transactions", n, len(params))
	}

	return nil
}

// GetByID retrieves a transaction owned by userID.
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, generated.GetTransactionByIDParams{ID: id, UserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, userID, id string) (*domain.Transaction, error) {
	row, err := queriesFor(tx).GetTransactionByIDForUpdate(ctx, generated.GetTransactionByIDForUpdateParams{ID: id, UserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// Update persists every mutable field. The recurring rule link is left alone.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	n, err := queriesFor(tx).UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:          txn.ID,
		UserID:      txn.UserID,
		AccountID:   txn.AccountID,
		ToAccountID: stringPtrToText(txn.ToAccountID),
		Type:        string(txn.Type),
		Amount:      decimalToNumeric(txn.Amount),
		Currency:    txn.Currency,
		Date:        timeToPgDate(txn.Date),
		Description: txn.Description,
		Category:    txn.Category,
		Cleared:     txn.Cleared,
		UpdatedAt:   timeToPgTimestamptz(txn.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a single transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Tx, userID, id string) error {
	n, err := queriesFor(tx).DeleteTransaction(ctx, generated.DeleteTransactionParams{ID: id, UserID: userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// DeleteByRuleFrom removes the rule's transactions dated on or after from.
func (r *TransactionRepository) DeleteByRuleFrom(ctx context.Context, tx usecase.Tx, ruleID string, from time.Time) ([]*domain.Transaction, error) {
	rows, err := queriesFor(tx).DeleteTransactionsByRuleFrom(ctx, generated.DeleteTransactionsByRuleFromParams{
		RecurringRuleID: pgtype.Text{String: ruleID, Valid: true},
		Date:            timeToPgDate(from),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// SetRecurringRule links a transaction to the rule it originated.
func (r *TransactionRepository) SetRecurringRule(ctx context.Context, tx usecase.Tx, id, ruleID string) error {
	n, err := queriesFor(tx).SetTransactionRecurringRule(ctx, generated.SetTransactionRecurringRuleParams{
		ID:              id,
		RecurringRuleID: pgtype.Text{String: ruleID, Valid: true},
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByAccountUpTo returns the account's history through upTo.
func (r *TransactionRepository) ListByAccountUpTo(ctx context.Context, accountID string, upTo time.Time) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccountUpTo(ctx, generated.ListTransactionsByAccountUpToParams{
		AccountID: accountID,
		Date:      timeToPgDate(upTo),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// List returns a page of the user's transactions.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var accountID *string
	if filter.AccountID != "" {
		accountID = &filter.AccountID
	}

	rows, err := r.queries.ListTransactions(ctx, generated.ListTransactionsParams{
		UserID:    filter.UserID,
		AccountID: stringPtrToText(accountID),
		FromDate:  timePtrToPgDate(filter.From),
		ToDate:    timePtrToPgDate(filter.To),
		RowLimit:  int32(filter.Limit),
		RowOffset: int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

func rowsToTransactions(rows []generated.Transaction) []*domain.Transaction {
	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}
	return txns
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:              row.ID,
		UserID:          row.UserID,
		AccountID:       row.AccountID,
		ToAccountID:     textToStringPtr(row.ToAccountID),
		Type:            domain.TransactionType(row.Type),
		Amount:          numericToDecimal(row.Amount),
		Currency:        row.Currency,
		Date:            pgDateToTime(row.Date),
		Description:     row.Description,
		Category:        row.Category,
		Cleared:         row.Cleared,
		RecurringRuleID: textToStringPtr(row.RecurringRuleID),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
