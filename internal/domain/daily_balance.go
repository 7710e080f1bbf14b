package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyBalance is a cached end-of-day balance for one account. It can always
// be rebuilt from the opening balance and transaction history.
type DailyBalance struct {
	AccountID  string
	Date       time.Time
	Balance    decimal.Decimal
	ComputedAt time.Time
}
