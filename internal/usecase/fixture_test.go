package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/recurrence"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

const testUser = "user-1"

// ledgerFixture wires the use cases over in-memory repositories.
type ledgerFixture struct {
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	rules    *mocks.MockRecurringRuleRepository
	dailies  *mocks.MockDailyBalanceRepository
	txMgr    *mocks.MockTxManager
	retrier  *mocks.MockRetrier
	idGen    *mocks.MockIDGenerator
	cache    *mocks.MockBalanceCache
	balances *usecase.BalanceUseCase
	ledger   *usecase.LedgerUseCase
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	f := &ledgerFixture{
		accounts: mocks.NewMockAccountRepository(),
		txns:     mocks.NewMockTransactionRepository(),
		rules:    mocks.NewMockRecurringRuleRepository(),
		dailies:  mocks.NewMockDailyBalanceRepository(),
		txMgr:    mocks.NewMockTxManager(),
		retrier:  mocks.NewMockRetrier(),
		idGen:    mocks.NewMockIDGenerator(),
		cache:    mocks.NewMockBalanceCache(),
	}

	f.accounts.Seed(
		account("acc-1", "Checking", domain.AccountKindAsset, "USD", 1000),
		account("acc-2", "Savings", domain.AccountKindAsset, "USD", 0),
		account("acc-card", "Card", domain.AccountKindDebt, "USD", 0),
		account("acc-eur", "Euro", domain.AccountKindAsset, "EUR", 0),
	)

	archived := account("acc-old", "Old", domain.AccountKindAsset, "USD", 0)
	archived.Archived = true
	f.accounts.Seed(archived)

	f.balances = usecase.NewBalanceUseCase(f.txMgr, f.accounts, f.txns, f.dailies, 0, zerolog.Nop(), nil)
	f.ledger = f.newLedger(f.cache)

	return f
}

// newLedger builds a ledger use case writing through the given cache.
func (f *ledgerFixture) newLedger(cache usecase.BalanceCache) *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(
		f.txMgr,
		f.accounts,
		f.txns,
		f.rules,
		cache,
		recurrence.NewExpander(6),
		f.idGen,
		f.retrier,
		zerolog.Nop(),
		nil,
	)
}

func account(id, name string, kind domain.AccountKind, currency string, opening int64) *domain.Account {
	return &domain.Account{
		ID:             id,
		UserID:         testUser,
		Name:           name,
		Kind:           kind,
		Currency:       currency,
		OpeningBalance: decimal.NewFromInt(opening),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return calendar.Date(year, month, d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}
