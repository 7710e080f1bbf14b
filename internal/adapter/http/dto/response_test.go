package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now().UTC()
	limit := decimal.NewFromInt(5000)
	account := &domain.Account{
		ID:             "acc-1",
		Name:           "Card",
		Kind:           domain.AccountKindDebt,
		Currency:       "USD",
		OpeningBalance: decimal.NewFromInt(200),
		CreditLimit:    &limit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	got := AccountFromDomain(account)

	assert.Equal(t, "acc-1", got.ID)
	assert.Equal(t, "DEBT", got.Kind)
	assert.Nil(t, got.APR)
	require.NotNil(t, got.CreditLimit)
	assert.True(t, got.CreditLimit.Equal(limit))
	assert.Equal(t, now, got.CreatedAt)
}

func TestTransactionFromDomain_JSON(t *testing.T) {
	ruleID := "rule-1"
	txn := &domain.Transaction{
		ID:              "txn-1",
		AccountID:       "acc-1",
		Type:            domain.TransactionTypeExpense,
		Amount:          decimal.RequireFromString("12.50"),
		Currency:        "USD",
		Date:            time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		RecurringRuleID: &ruleID,
	}

	out, err := json.Marshal(TransactionFromDomain(txn))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "2024-05-01", got["date"])
	assert.Equal(t, "12.5", got["amount"])
	assert.Equal(t, "rule-1", got["recurring_rule_id"])
	assert.NotContains(t, got, "to_account_id")
}

func TestCreateTransactionFromResult(t *testing.T) {
	origin := &domain.Transaction{ID: "txn-1", Date: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)}

	t.Run("standalone", func(t *testing.T) {
		got := CreateTransactionFromResult(&usecase.CreateTransactionResult{Transaction: origin})
		assert.Equal(t, "txn-1", got.Transaction.ID)
		assert.Nil(t, got.Rule)
		assert.Nil(t, got.Instances)
	})

	t.Run("recurring", func(t *testing.T) {
		end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
		rule := &domain.RecurringRule{
			ID:                  "rule-1",
			OriginTransactionID: "txn-1",
			Frequency:           domain.FrequencyMonthly,
			Interval:            1,
			StartDate:           origin.Date,
			EndDate:             &end,
			Active:              true,
		}
		instances := []*domain.Transaction{
			{ID: "txn-2", Date: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
			{ID: "txn-3", Date: end},
		}

		got := CreateTransactionFromResult(&usecase.CreateTransactionResult{Transaction: origin, Rule: rule, Instances: instances})

		require.NotNil(t, got.Rule)
		assert.Equal(t, "monthly", got.Rule.Frequency)
		require.NotNil(t, got.Rule.EndDate)
		assert.Equal(t, end, got.Rule.EndDate.Time)
		require.Len(t, got.Instances, 2)
		assert.Equal(t, "txn-3", got.Instances[1].ID)
	})
}

func TestReconciliationFromResult(t *testing.T) {
	result := &usecase.ReconciliationResult{
		AccountID:  "acc-1",
		Start:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		CachedDays: 31,
		Discrepancies: []usecase.Discrepancy{
			{Date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), Cached: decimal.NewFromInt(1), Computed: decimal.NewFromInt(2)},
		},
	}

	got := ReconciliationFromResult(result)

	assert.False(t, got.Reconciled)
	require.Len(t, got.Discrepancies, 1)
	assert.True(t, got.Discrepancies[0].Computed.Equal(decimal.NewFromInt(2)))
}

func TestNetWorthFromResult(t *testing.T) {
	date := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	result := &usecase.NetWorthResult{
		Date:   date,
		Totals: map[string]decimal.Decimal{"USD": decimal.NewFromInt(800)},
		Accounts: []*usecase.BalanceResult{
			{AccountID: "acc-1", Currency: "USD", Date: date, Balance: decimal.NewFromInt(1200)},
			{AccountID: "acc-card", Currency: "USD", Date: date, Balance: decimal.NewFromInt(400)},
		},
	}

	got := NetWorthFromResult(result)

	assert.Equal(t, date, got.Date.Time)
	assert.True(t, got.Totals["USD"].Equal(decimal.NewFromInt(800)))
	require.Len(t, got.Accounts, 2)
	assert.Equal(t, "acc-card", got.Accounts[1].AccountID)
}
