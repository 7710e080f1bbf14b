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

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account. An owner with no users row yields
// domain.ErrUserNotFound.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		UserID:         account.UserID,
		Name:           account.Name,
		Kind:           string(account.Kind),
		Currency:       account.Currency,
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		Apr:            decimalPtrToNumeric(account.APR),
		CreditLimit:    decimalPtrToNumeric(account.CreditLimit),
		Archived:       account.Archived,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if isForeignKeyViolation(err, "accounts_user_fk") {
		return domain.ErrUserNotFound
	}

	return err
}

// GetByID retrieves an account owned by userID.
func (r *AccountRepository) GetByID(ctx context.Context, userID, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{ID: id, UserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate retrieves multiple accounts by IDs with FOR UPDATE locks.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Tx, userID string, ids []string) ([]*domain.Account, error) {
	rows, err := queriesFor(tx).GetAccountsByIDsForUpdate(ctx, generated.GetAccountsByIDsForUpdateParams{
		UserID: userID,
		Ids:    ids,
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// Update persists the mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	n, err := r.queries.UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:             account.ID,
		UserID:         account.UserID,
		Name:           account.Name,
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		Apr:            decimalPtrToNumeric(account.APR),
		CreditLimit:    decimalPtrToNumeric(account.CreditLimit),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetArchived toggles the archived flag.
func (r *AccountRepository) SetArchived(ctx context.Context, userID, id string, archived bool, updatedAt time.Time) error {
	n, err := r.queries.SetAccountArchived(ctx, generated.SetAccountArchivedParams{
		ID:        id,
		UserID:    userID,
		Archived:  archived,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, userID string, includeArchived bool, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		UserID:          userID,
		IncludeArchived: includeArchived,
		RowLimit:        int32(limit),
		RowOffset:       int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// ListActive pages through non-archived accounts across all users.
func (r *AccountRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListActiveAccounts(ctx, generated.ListActiveAccountsParams{
		RowLimit:  int32(limit),
		RowOffset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		Kind:           domain.AccountKind(row.Kind),
		Currency:       row.Currency,
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		APR:            numericToDecimalPtr(row.Apr),
		CreditLimit:    numericToDecimalPtr(row.CreditLimit),
		Archived:       row.Archived,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
