package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes accounts holding money from accounts owing it.
type AccountKind string

const (
	AccountKindAsset AccountKind = "ASSET"
	AccountKindDebt  AccountKind = "DEBT"
)

// IsValid reports whether k is a known kind.
func (k AccountKind) IsValid() bool {
	return k == AccountKindAsset || k == AccountKindDebt
}

// ParseAccountKind accepts kinds case-insensitively.
func ParseAccountKind(s string) (AccountKind, error) {
	k := AccountKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountKind, s)
	}
	return k, nil
}

// Account represents a user's financial account.
type Account struct {
	ID             string
	UserID         string
	Name           string
	Kind           AccountKind
	Currency       string
	OpeningBalance decimal.Decimal
	APR            *decimal.Decimal
	CreditLimit    *decimal.Decimal
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks account fields.
func (a *Account) Validate() error {
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountKind, a.Kind)
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return err
	}
	if a.APR != nil {
		if err := ValidateRate(*a.APR); err != nil {
			return err
		}
	}
	if a.CreditLimit != nil && a.CreditLimit.IsNegative() {
		return fmt.Errorf("%w: credit limit cannot be negative", ErrInvalidAmount)
	}
	return nil
}

// Effect returns the signed change txn makes to this account's balance.
// Transactions that do not touch the account have no effect.
func (a *Account) Effect(txn *Transaction) decimal.Decimal {
	switch txn.Type {
	case TransactionTypeIncome:
		if txn.AccountID == a.ID {
			return txn.Amount
		}
	case TransactionTypeExpense:
		if txn.AccountID == a.ID {
			if a.Kind == AccountKindDebt {
				// spending on a debt account raises what is owed
				return txn.Amount
			}
			return txn.Amount.Neg()
		}
	case TransactionTypeTransfer:
		switch {
		case txn.AccountID == a.ID:
			return txn.Amount.Neg()
		case txn.ToAccountID != nil && *txn.ToAccountID == a.ID:
			return txn.Amount
		}
	}
	return decimal.Zero
}

// Touches reports whether txn affects this account as source or destination.
func (a *Account) Touches(txn *Transaction) bool {
	if txn.AccountID == a.ID {
		return true
	}
	return txn.ToAccountID != nil && *txn.ToAccountID == a.ID
}
