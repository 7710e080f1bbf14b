package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobudget/internal/balance"
	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/recurrence"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/gomocks"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

var errBoom = errors.New("boom")

func incomeInput(date time.Time, amount string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		UserID:      testUser,
		AccountID:   "acc-1",
		Type:        "INCOME",
		Amount:      dec(amount),
		Date:        date,
		Description: "Salary",
		Category:    "work",
	}
}

func TestLedgerUseCase_CreateTransaction(t *testing.T) {
	date := day(2024, time.January, 15)

	tests := []struct {
		name       string
		modify     func(*usecase.CreateTransactionInput)
		setupMocks func(*ledgerFixture)
		wantErr    error
	}{
		{
			name: "income on checking",
		},
		{
			name: "transfer between same-currency accounts",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Type = "transfer"
				in.ToAccountID = strPtr("acc-2")
			},
		},
		{
			name: "unknown account",
			modify: func(in *usecase.CreateTransactionInput) {
				in.AccountID = "missing"
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "account owned by someone else",
			modify: func(in *usecase.CreateTransactionInput) {
				in.UserID = "user-2"
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "archived account",
			modify: func(in *usecase.CreateTransactionInput) {
				in.AccountID = "acc-old"
			},
			wantErr: domain.ErrAccountArchived,
		},
		{
			name: "transfer across currencies",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Type = "TRANSFER"
				in.ToAccountID = strPtr("acc-eur")
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "transfer without destination",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Type = "TRANSFER"
			},
			wantErr: domain.ErrMissingDestination,
		},
		{
			name: "transfer to itself",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Type = "TRANSFER"
				in.ToAccountID = strPtr("acc-1")
			},
			wantErr: domain.ErrSameAccount,
		},
		{
			name: "zero amount",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Amount = dec("0")
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown type",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Type = "REFUND"
			},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name: "missing date",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Date = time.Time{}
			},
			wantErr: domain.ErrMissingDate,
		},
		{
			name: "negative interval",
			modify: func(in *usecase.CreateTransactionInput) {
				in.Recurrence = &usecase.RecurrenceInput{Frequency: "monthly", Interval: -1}
			},
			wantErr: domain.ErrInvalidInterval,
		},
		{
			name: "end date before start",
			modify: func(in *usecase.CreateTransactionInput) {
				end := day(2024, time.January, 1)
				in.Recurrence = &usecase.RecurrenceInput{Frequency: "monthly", Interval: 1, EndDate: &end}
			},
			wantErr: domain.ErrInvalidEndDate,
		},
		{
			name: "begin fails",
			setupMocks: func(f *ledgerFixture) {
				f.txMgr.BeginFunc = func(ctx context.Context) (usecase.Tx, error) {
					return nil, errBoom
				}
			},
			wantErr: errBoom,
		},
		{
			name: "insert fails",
			setupMocks: func(f *ledgerFixture) {
				f.txns.CreateFunc = func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
					return errBoom
				}
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			input := incomeInput(date.Add(15*time.Hour), "500")
			if tt.modify != nil {
				tt.modify(&input)
			}

			result, err := f.ledger.CreateTransaction(context.Background(), input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				assert.Empty(t, f.cache.Recomputes)
				assert.Equal(t, 0, f.txMgr.Commits())
				return
			}

			require.NoError(t, err)
			txn := result.Transaction
			assert.NotEmpty(t, txn.ID)
			assert.Equal(t, "USD", txn.Currency)
			assert.Equal(t, date, txn.Date)
			assert.Nil(t, txn.RecurringRuleID)
			assert.Nil(t, result.Rule)
			assert.Empty(t, result.Instances)
			assert.Equal(t, 1, f.txMgr.Commits())
			assert.Equal(t, 1, f.retrier.Calls)

			stored, err := f.txns.GetByID(context.Background(), testUser, txn.ID)
			require.NoError(t, err)
			assert.True(t, stored.Amount.Equal(dec("500")))
		})
	}
}

func TestLedgerUseCase_CreateTransaction_Recurring(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	input := incomeInput(day(2024, time.January, 15), "2000")
	input.Cleared = true
	input.Recurrence = &usecase.RecurrenceInput{Frequency: "monthly", Interval: 1}

	result, err := f.ledger.CreateTransaction(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, result.Rule)

	rule := result.Rule
	origin := result.Transaction

	assert.Equal(t, origin.ID, rule.OriginTransactionID)
	assert.Equal(t, domain.FrequencyMonthly, rule.Frequency)
	assert.Equal(t, 1, rule.Interval)
	assert.True(t, rule.Active)
	require.NotNil(t, origin.RecurringRuleID)
	assert.Equal(t, rule.ID, *origin.RecurringRuleID)

	// six month horizon, cutoff exclusive
	wantDates := []time.Time{
		day(2024, time.February, 15),
		day(2024, time.March, 15),
		day(2024, time.April, 15),
		day(2024, time.May, 15),
		day(2024, time.June, 15),
	}
	require.Len(t, result.Instances, len(wantDates))
	for i, inst := range result.Instances {
		assert.Equal(t, wantDates[i], inst.Date)
		assert.False(t, inst.Cleared)
		assert.Equal(t, "Salary", inst.Description)
		require.NotNil(t, inst.RecurringRuleID)
		assert.Equal(t, rule.ID, *inst.RecurringRuleID)
	}

	stored := f.txns.All()
	require.Len(t, stored, 6)
	for _, txn := range stored {
		require.NotNil(t, txn.RecurringRuleID)
		assert.Equal(t, rule.ID, *txn.RecurringRuleID)
	}

	state, err := f.ledger.TransactionState(ctx, testUser, origin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OriginOf(rule.ID), state)

	state, err = f.ledger.TransactionState(ctx, testUser, result.Instances[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstanceOf(rule.ID), state)

	got, err := f.ledger.GetRecurringRule(ctx, testUser, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, got.ID)

	assert.Equal(t, 1, f.txMgr.Commits())
	assert.Equal(t, []mocks.RecomputeCall{{AccountID: "acc-1", From: day(2024, time.January, 15)}}, f.cache.Recomputes)
}

func TestLedgerUseCase_CreateTransaction_DegradedRecurrence(t *testing.T) {
	f := newLedgerFixture(t)

	input := incomeInput(day(2024, time.January, 31), "10")
	input.Recurrence = &usecase.RecurrenceInput{Frequency: "fortnightly", Interval: 0}

	result, err := f.ledger.CreateTransaction(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.FrequencyMonthly, result.Rule.Frequency)
	assert.Equal(t, 1, result.Rule.Interval)
	require.NotEmpty(t, result.Instances)
	assert.Equal(t, day(2024, time.February, 29), result.Instances[0].Date)
	assert.Equal(t, day(2024, time.March, 31), result.Instances[1].Date)
}

func TestLedgerUseCase_CreateTransaction_RecurringIsAtomic(t *testing.T) {
	f := newLedgerFixture(t)

	var tx *mocks.MockTx
	f.txMgr.BeginFunc = func(ctx context.Context) (usecase.Tx, error) {
		tx = &mocks.MockTx{}
		return tx, nil
	}
	f.txns.CreateBatchFunc = func(ctx context.Context, _ usecase.Tx, txns []*domain.Transaction) error {
		return errBoom
	}

	input := incomeInput(day(2024, time.January, 15), "100")
	input.Recurrence = &usecase.RecurrenceInput{Frequency: "weekly", Interval: 1}

	result, err := f.ledger.CreateTransaction(context.Background(), input)
	require.ErrorIs(t, err, errBoom)
	assert.Nil(t, result)

	require.NotNil(t, tx)
	assert.False(t, tx.Committed)
	assert.True(t, tx.RolledBack)
	assert.Empty(t, f.cache.Recomputes)
}

func TestLedgerUseCase_CreateTransaction_EndDateTruncates(t *testing.T) {
	f := newLedgerFixture(t)

	end := day(2024, time.January, 29)
	input := incomeInput(day(2024, time.January, 1), "5")
	input.Recurrence = &usecase.RecurrenceInput{Frequency: "weekly", Interval: 1, EndDate: &end}

	result, err := f.ledger.CreateTransaction(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Instances, 4)
	assert.Equal(t, end, result.Instances[3].Date)
}

func TestLedgerUseCase_TransferRecomputesBothAccounts(t *testing.T) {
	f := newLedgerFixture(t)

	input := usecase.CreateTransactionInput{
		UserID:      testUser,
		AccountID:   "acc-1",
		ToAccountID: strPtr("acc-card"),
		Type:        "TRANSFER",
		Amount:      dec("250"),
		Date:        day(2024, time.March, 3),
	}

	_, err := f.ledger.CreateTransaction(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []mocks.RecomputeCall{
		{AccountID: "acc-1", From: day(2024, time.March, 3)},
		{AccountID: "acc-card", From: day(2024, time.March, 3)},
	}, f.cache.Recomputes)
}

func TestLedgerUseCase_UpdateTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.ledger.CreateTransaction(ctx, incomeInput(day(2024, time.February, 20), "100"))
	require.NoError(t, err)
	original := created.Transaction
	f.cache.Recomputes = nil

	updated, err := f.ledger.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
		UserID:      testUser,
		ID:          original.ID,
		AccountID:   "acc-2",
		Type:        "EXPENSE",
		Amount:      dec("40"),
		Date:        day(2024, time.January, 10),
		Description: "  groceries ",
		Cleared:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "acc-2", updated.AccountID)
	assert.Equal(t, "groceries", updated.Description)
	assert.Equal(t, domain.TransactionTypeExpense, updated.Type)

	// both the old and new account move, from the earlier of the two dates
	assert.Equal(t, []mocks.RecomputeCall{
		{AccountID: "acc-1", From: day(2024, time.January, 10)},
		{AccountID: "acc-2", From: day(2024, time.January, 10)},
	}, f.cache.Recomputes)
}

func TestLedgerUseCase_UpdateTransaction_KeepsRuleLink(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	input := incomeInput(day(2024, time.January, 15), "100")
	input.Recurrence = &usecase.RecurrenceInput{Frequency: "monthly", Interval: 1}
	created, err := f.ledger.CreateTransaction(ctx, input)
	require.NoError(t, err)

	inst := created.Instances[1]
	updated, err := f.ledger.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
		UserID:    testUser,
		ID:        inst.ID,
		AccountID: "acc-1",
		Type:      "INCOME",
		Amount:    dec("120"),
		Date:      inst.Date,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.RecurringRuleID)
	assert.Equal(t, created.Rule.ID, *updated.RecurringRuleID)

	rule, err := f.rules.GetByID(ctx, testUser, created.Rule.ID)
	require.NoError(t, err)
	assert.True(t, rule.Template.Amount.Equal(dec("100")))
}

func TestLedgerUseCase_UpdateTransaction_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   func(id string) usecase.UpdateTransactionInput
		wantErr error
	}{
		{
			name: "unknown transaction",
			input: func(string) usecase.UpdateTransactionInput {
				return usecase.UpdateTransactionInput{UserID: testUser, ID: "missing", AccountID: "acc-1", Type: "INCOME", Amount: dec("1"), Date: day(2024, time.January, 1)}
			},
			wantErr: domain.ErrTransactionNotFound,
		},
		{
			name: "move to archived account",
			input: func(id string) usecase.UpdateTransactionInput {
				return usecase.UpdateTransactionInput{UserID: testUser, ID: id, AccountID: "acc-old", Type: "INCOME", Amount: dec("1"), Date: day(2024, time.January, 1)}
			},
			wantErr: domain.ErrAccountArchived,
		},
		{
			name: "invalid amount",
			input: func(id string) usecase.UpdateTransactionInput {
				return usecase.UpdateTransactionInput{UserID: testUser, ID: id, AccountID: "acc-1", Type: "INCOME", Amount: dec("-3"), Date: day(2024, time.January, 1)}
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			ctx := context.Background()

			created, err := f.ledger.CreateTransaction(ctx, incomeInput(day(2024, time.January, 1), "10"))
			require.NoError(t, err)
			f.cache.Recomputes = nil

			_, err = f.ledger.UpdateTransaction(ctx, tt.input(created.Transaction.ID))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.cache.Recomputes)
		})
	}
}

// seedSeries creates a monthly rule from Jan 15 with instances Feb..Jun.
func seedSeries(t *testing.T, f *ledgerFixture) *usecase.CreateTransactionResult {
	t.Helper()

	input := incomeInput(day(2024, time.January, 15), "2000")
	input.Recurrence = &usecase.RecurrenceInput{Frequency: "monthly", Interval: 1}

	result, err := f.ledger.CreateTransaction(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Instances, 5)

	f.cache.Recomputes = nil
	return result
}

func dates(txns []*domain.Transaction) []time.Time {
	out := make([]time.Time, 0, len(txns))
	for _, txn := range txns {
		out = append(out, txn.Date)
	}
	return out
}

func TestLedgerUseCase_DeleteTransaction_This(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	series := seedSeries(t, f)

	march := series.Instances[1]
	result, err := f.ledger.DeleteTransaction(ctx, testUser, march.ID, domain.DeleteModeThis)
	require.NoError(t, err)

	assert.Equal(t, domain.DeleteModeThis, result.Mode)
	assert.Equal(t, int64(1), result.Deleted)
	assert.False(t, result.RuleDeactivated)

	remaining := f.txns.All()
	assert.Len(t, remaining, 5)
	assert.NotContains(t, dates(remaining), day(2024, time.March, 15))

	rule, err := f.rules.GetByID(ctx, testUser, series.Rule.ID)
	require.NoError(t, err)
	assert.True(t, rule.Active)

	assert.Equal(t, []mocks.RecomputeCall{{AccountID: "acc-1", From: day(2024, time.March, 15)}}, f.cache.Recomputes)
}

func TestLedgerUseCase_DeleteTransaction_Future(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	series := seedSeries(t, f)

	march := series.Instances[1]
	result, err := f.ledger.DeleteTransaction(ctx, testUser, march.ID, domain.DeleteModeFuture)
	require.NoError(t, err)

	assert.Equal(t, domain.DeleteModeFuture, result.Mode)
	assert.Equal(t, int64(4), result.Deleted)
	assert.True(t, result.RuleDeactivated)

	assert.Equal(t, []time.Time{
		day(2024, time.January, 15),
		day(2024, time.February, 15),
	}, dates(f.txns.All()))

	rule, err := f.rules.GetByID(ctx, testUser, series.Rule.ID)
	require.NoError(t, err)
	assert.False(t, rule.Active)

	active, err := f.ledger.ListRecurringRules(ctx, testUser, true, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.Equal(t, []mocks.RecomputeCall{{AccountID: "acc-1", From: day(2024, time.March, 15)}}, f.cache.Recomputes)
}

func TestLedgerUseCase_DeleteTransaction_FutureFromOrigin(t *testing.T) {
	f := newLedgerFixture(t)
	series := seedSeries(t, f)

	result, err := f.ledger.DeleteTransaction(context.Background(), testUser, series.Transaction.ID, domain.DeleteModeFuture)
	require.NoError(t, err)

	assert.Equal(t, int64(6), result.Deleted)
	assert.Empty(t, f.txns.All())
}

func TestLedgerUseCase_DeleteTransaction_FutureRecomputesMovedInstances(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	series := seedSeries(t, f)

	april := series.Instances[2]
	_, err := f.ledger.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
		UserID:    testUser,
		ID:        april.ID,
		AccountID: "acc-2",
		Type:      "INCOME",
		Amount:    dec("2000"),
		Date:      april.Date,
	})
	require.NoError(t, err)
	f.cache.Recomputes = nil

	_, err = f.ledger.DeleteTransaction(ctx, testUser, series.Instances[1].ID, domain.DeleteModeFuture)
	require.NoError(t, err)

	assert.Equal(t, []mocks.RecomputeCall{
		{AccountID: "acc-1", From: day(2024, time.March, 15)},
		{AccountID: "acc-2", From: day(2024, time.March, 15)},
	}, f.cache.Recomputes)
}

func TestLedgerUseCase_DeleteTransaction_Fallbacks(t *testing.T) {
	tests := []struct {
		name        string
		seed        *domain.Transaction
		mode        domain.DeleteMode
		wantMode    domain.DeleteMode
		wantDeleted int64
	}{
		{
			name: "future on standalone deletes one",
			seed: &domain.Transaction{
				ID: "txn-1", UserID: testUser, AccountID: "acc-1", Type: domain.TransactionTypeIncome,
				Amount: dec("10"), Currency: "USD", Date: day(2024, time.May, 1),
			},
			mode:        domain.DeleteModeFuture,
			wantMode:    domain.DeleteModeThis,
			wantDeleted: 1,
		},
		{
			name: "future with missing rule deletes one",
			seed: &domain.Transaction{
				ID: "txn-1", UserID: testUser, AccountID: "acc-1", Type: domain.TransactionTypeIncome,
				Amount: dec("10"), Currency: "USD", Date: day(2024, time.May, 1), RecurringRuleID: strPtr("gone"),
			},
			mode:        domain.DeleteModeFuture,
			wantMode:    domain.DeleteModeThis,
			wantDeleted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			f.txns.Seed(tt.seed)

			result, err := f.ledger.DeleteTransaction(context.Background(), testUser, tt.seed.ID, tt.mode)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMode, result.Mode)
			assert.Equal(t, tt.wantDeleted, result.Deleted)
			assert.False(t, result.RuleDeactivated)
			assert.Empty(t, f.txns.All())
		})
	}
}

func TestLedgerUseCase_DeleteTransaction_Errors(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.ledger.DeleteTransaction(ctx, testUser, "missing", domain.DeleteModeThis)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = f.ledger.DeleteTransaction(ctx, testUser, "missing", domain.DeleteMode("all"))
	assert.ErrorIs(t, err, domain.ErrInvalidDeleteMode)

	assert.Empty(t, f.cache.Recomputes)
}

func TestLedgerUseCase_TransactionState_Standalone(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created, err := f.ledger.CreateTransaction(ctx, incomeInput(day(2024, time.January, 1), "10"))
	require.NoError(t, err)

	state, err := f.ledger.TransactionState(ctx, testUser, created.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Standalone(), state)
	assert.False(t, state.IsRecurring())
}

func TestLedgerUseCase_ListTransactions(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	seedSeries(t, f)

	from := day(2024, time.March, 1)
	to := day(2024, time.April, 30)

	txns, err := f.ledger.ListTransactions(ctx, usecase.ListTransactionsInput{
		UserID:    testUser,
		AccountID: "acc-1",
		From:      &from,
		To:        &to,
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2024, time.March, 15), day(2024, time.April, 15)}, dates(txns))

	_, err = f.ledger.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: testUser, From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	others, err := f.ledger.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: "user-2"})
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestLedgerUseCase_CacheStaysConsistentWithHistory(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	ledger := f.newLedger(f.balances)

	start := day(2024, time.January, 1)
	end := day(2024, time.January, 31)

	n, err := f.balances.Materialize(ctx, testUser, "acc-1", start, end)
	require.NoError(t, err)
	require.Equal(t, 31, n)

	_, err = ledger.CreateTransaction(ctx, incomeInput(day(2024, time.January, 5), "500"))
	require.NoError(t, err)

	rent, err := ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
		UserID:    testUser,
		AccountID: "acc-1",
		Type:      "EXPENSE",
		Amount:    dec("200"),
		Date:      day(2024, time.January, 20),
	})
	require.NoError(t, err)

	_, err = ledger.CreateTransaction(ctx, usecase.CreateTransactionInput{
		UserID:      testUser,
		AccountID:   "acc-1",
		ToAccountID: strPtr("acc-2"),
		Type:        "TRANSFER",
		Amount:      dec("50"),
		Date:        day(2024, time.January, 25),
	})
	require.NoError(t, err)

	assertCacheMatchesHistory := func() {
		t.Helper()
		acc, err := f.accounts.GetByID(ctx, testUser, "acc-1")
		require.NoError(t, err)
		history := f.txns.All()

		calendar.EachDay(start, end, func(d time.Time) bool {
			res, err := f.balances.GetBalance(ctx, testUser, "acc-1", d)
			require.NoError(t, err)
			assert.True(t, res.Cached, "day %s not cached", calendar.Format(d))
			want := balance.At(acc, history, d)
			assert.True(t, want.Equal(res.Balance), "day %s: cached %s, computed %s", calendar.Format(d), res.Balance, want)
			return true
		})
	}

	assertCacheMatchesHistory()

	got, err := f.balances.GetBalance(ctx, testUser, "acc-1", day(2024, time.January, 31))
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("1250")))

	_, err = ledger.DeleteTransaction(ctx, testUser, rent.Transaction.ID, domain.DeleteModeThis)
	require.NoError(t, err)

	assertCacheMatchesHistory()
	assert.Equal(t, 31, f.dailies.Count("acc-1"))
	assert.Equal(t, 0, f.dailies.Count("acc-2"))
}

func TestLedgerUseCase_CreateTransaction_GoesThroughRetrier(t *testing.T) {
	tests := []struct {
		name      string
		retry     func(ctx context.Context, operation func() error) error
		wantErr   error
		wantTxns  int
		wantCalls int
	}{
		{
			name:      "operation retried once after a transient failure",
			wantTxns:  1,
			wantCalls: 2,
			retry: func(ctx context.Context, operation func() error) error {
				if err := operation(); err == nil {
					return errors.New("first attempt should fail")
				}
				return operation()
			},
		},
		{
			name:    "retrier gives up",
			wantErr: errBoom,
			retry: func(ctx context.Context, operation func() error) error {
				return errBoom
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			ctrl := gomock.NewController(t)
			retrier := gomocks.NewMockRetrier(ctrl)
			retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(tt.retry)

			calls := 0
			f.txns.CreateFunc = func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
				calls++
				if calls == 1 {
					return errBoom
				}
				f.txns.Seed(txn)
				return nil
			}

			ledger := usecase.NewLedgerUseCase(
				f.txMgr, f.accounts, f.txns, f.rules, f.cache,
				recurrence.NewExpander(6), f.idGen, retrier, zerolog.Nop(), nil,
			)

			_, err := ledger.CreateTransaction(context.Background(), incomeInput(day(2024, time.January, 15), "10"))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.cache.Recomputes)
			} else {
				require.NoError(t, err)
				assert.Len(t, f.cache.Recomputes, 1)
			}

			assert.Len(t, f.txns.All(), tt.wantTxns)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}
