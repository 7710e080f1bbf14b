package usecase

import (
	"context"
	"time"

	"github.com/iho/gobudget/internal/domain"
)

// AccountRepository defines data access for accounts. Reads are scoped by
// user; an account owned by someone else is reported as not found.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, userID, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Tx, userID string, ids []string) ([]*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	SetArchived(ctx context.Context, userID, id string, archived bool, updatedAt time.Time) error
	List(ctx context.Context, userID string, includeArchived bool, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	CreateBatch(ctx context.Context, tx Tx, txns []*domain.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, userID, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Tx, txn *domain.Transaction) error
	Delete(ctx context.Context, tx Tx, userID, id string) error
	// DeleteByRuleFrom removes every transaction of ruleID dated on or after
	// from and returns the removed rows.
	DeleteByRuleFrom(ctx context.Context, tx Tx, ruleID string, from time.Time) ([]*domain.Transaction, error)
	SetRecurringRule(ctx context.Context, tx Tx, id, ruleID string) error
	// ListByAccountUpTo returns transactions touching accountID as source or
	// destination dated on or before upTo, ordered by date.
	ListByAccountUpTo(ctx context.Context, accountID string, upTo time.Time) ([]*domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

// RecurringRuleRepository defines data access for recurring rules.
type RecurringRuleRepository interface {
	Create(ctx context.Context, tx Tx, rule *domain.RecurringRule) error
	GetByID(ctx context.Context, userID, id string) (*domain.RecurringRule, error)
	Deactivate(ctx context.Context, tx Tx, id string, updatedAt time.Time) error
	List(ctx context.Context, userID string, activeOnly bool, limit, offset int) ([]*domain.RecurringRule, error)
}

// DailyBalanceRepository defines data access for the daily balance cache.
type DailyBalanceRepository interface {
	Get(ctx context.Context, accountID string, date time.Time) (*domain.DailyBalance, error)
	ListRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.DailyBalance, error)
	UpsertBatch(ctx context.Context, tx Tx, rows []domain.DailyBalance) error
	// LatestDate returns the newest cached date; ok is false when nothing is cached.
	LatestDate(ctx context.Context, accountID string) (latest time.Time, ok bool, err error)
	DeleteFrom(ctx context.Context, accountID string, from time.Time) error
	DeleteByAccount(ctx context.Context, accountID string) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
