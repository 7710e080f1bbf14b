package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// IsValid reports whether t is a known type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// ParseTransactionType accepts types case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
	return t, nil
}

// Transaction is a dated money movement on one account, or between two
// accounts for transfers. A transfer is a single row touching both ledgers.
type Transaction struct {
	ID              string
	UserID          string
	AccountID       string
	ToAccountID     *string
	Type            TransactionType
	Amount          decimal.Decimal
	Currency        string
	Date            time.Time
	Description     string
	Category        string
	Cleared         bool
	RecurringRuleID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the type/destination invariant and the amount.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, t.Type)
	}

	if t.Date.IsZero() {
		return ErrMissingDate
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	switch t.Type {
	case TransactionTypeTransfer:
		if t.ToAccountID == nil || *t.ToAccountID == "" {
			return ErrMissingDestination
		}
		if *t.ToAccountID == t.AccountID {
			return ErrSameAccount
		}
	default:
		if t.ToAccountID != nil {
			return ErrUnexpectedDestination
		}
	}

	return nil
}

// IsTransfer reports whether t moves money between two accounts.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeTransfer
}

// AccountIDs returns every account the transaction touches.
func (t *Transaction) AccountIDs() []string {
	if t.ToAccountID != nil && *t.ToAccountID != "" {
		return []string{t.AccountID, *t.ToAccountID}
	}
	return []string{t.AccountID}
}

// Clone returns a deep copy.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.ToAccountID != nil {
		to := *t.ToAccountID
		c.ToAccountID = &to
	}
	if t.RecurringRuleID != nil {
		rule := *t.RecurringRuleID
		c.RecurringRuleID = &rule
	}
	return &c
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	UserID    string
	AccountID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
