package domain

import "errors"

var (
	// Not found errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrRuleNotFound         = errors.New("recurring rule not found")
	ErrDailyBalanceNotFound = errors.New("daily balance not cached")

	// Account errors
	ErrInvalidAccountKind = errors.New("account kind must be ASSET or DEBT")
	ErrAccountArchived    = errors.New("account is archived")

	// Transaction errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("transaction type must be INCOME, EXPENSE or TRANSFER")
	ErrMissingDestination     = errors.New("transfer requires a destination account")
	ErrUnexpectedDestination  = errors.New("only transfers may have a destination account")
	ErrSameAccount            = errors.New("cannot transfer to same account")
	ErrCurrencyMismatch       = errors.New("cannot transfer between different currencies")
	ErrMissingDate            = errors.New("transaction date is required")
	ErrInvalidDeleteMode      = errors.New("delete mode must be this or future")

	// Recurrence errors
	ErrInvalidInterval = errors.New("recurrence interval must be positive")
	ErrInvalidEndDate  = errors.New("recurrence end date is before start date")

	// Range errors
	ErrInvalidDateRange = errors.New("range end is before range start")
	ErrRangeTooLarge    = errors.New("date range too large")
)

var notFoundErrors = []error{
	ErrAccountNotFound,
	ErrTransactionNotFound,
	ErrRuleNotFound,
	ErrDailyBalanceNotFound,
	ErrUserNotFound,
}

var validationErrors = []error{
	ErrInvalidAccountKind,
	ErrAccountArchived,
	ErrInvalidAmount,
	ErrInvalidTransactionType,
	ErrMissingDestination,
	ErrUnexpectedDestination,
	ErrSameAccount,
	ErrCurrencyMismatch,
	ErrMissingDate,
	ErrInvalidDeleteMode,
	ErrInvalidInterval,
	ErrInvalidEndDate,
	ErrInvalidDateRange,
	ErrRangeTooLarge,
	ErrInvalidAccountName,
	ErrInvalidCurrency,
	ErrAmountTooLarge,
	ErrAmountTooSmall,
	ErrInvalidRate,
	ErrInvalidIDFormat,
	ErrTextTooLong,
	ErrInvalidEmail,
	ErrPasswordTooWeak,
}

// IsNotFound reports whether err means the resource is absent or not owned
// by the caller.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation reports whether err was raised by input validation before
// any mutation took place.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
