package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultMaxRangeDays bounds materialization, series and reconciliation
	// requests (five years).
	DefaultMaxRangeDays = 366 * 5

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// maxAccountsPerUser caps listings that must see every account, such as
	// net worth.
	maxAccountsPerUser = 1000
)
