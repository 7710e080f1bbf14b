// Package balance derives account balances from an opening balance and a
// dated transaction history. Everything here is a pure function; caching
// lives in the use case layer.
package balance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
)

// Effect returns the signed change txn makes to account.
func Effect(account *domain.Account, txn *domain.Transaction) decimal.Decimal {
	return account.Effect(txn)
}

// At returns the balance of account at the end of date: the opening
// balance plus the effect of every transaction dated on or before date.
func At(account *domain.Account, txns []*domain.Transaction, date time.Time) decimal.Decimal {
	date = calendar.Normalize(date)
	total := account.OpeningBalance

	for _, txn := range txns {
		if calendar.Normalize(txn.Date).After(date) {
			continue
		}
		total = total.Add(account.Effect(txn))
	}

	return total
}

// Series returns one balance per day in [start, end]. It walks the
// history once, so it agrees with At for every day of the range.
func Series(account *domain.Account, txns []*domain.Transaction, start, end time.Time) []domain.DailyBalance {
	start = calendar.Normalize(start)
	end = calendar.Normalize(end)
	if end.Before(start) {
		return nil
	}

	sorted := sortedByDate(txns)

	running := account.OpeningBalance
	i := 0
	for ; i < len(sorted) && calendar.Before(sorted[i].Date, start); i++ {
		running = running.Add(account.Effect(sorted[i]))
	}

	out := make([]domain.DailyBalance, 0, calendar.DaysBetween(start, end)+1)
	calendar.EachDay(start, end, func(day time.Time) bool {
		for ; i < len(sorted) && !calendar.Normalize(sorted[i].Date).After(day); i++ {
			running = running.Add(account.Effect(sorted[i]))
		}
		out = append(out, domain.DailyBalance{
			AccountID: account.ID,
			Date:      day,
			Balance:   running,
		})
		return true
	})

	return out
}

// NetWorth sums asset balances and subtracts debt balances. Archived
// accounts and accounts without a balance are skipped.
func NetWorth(accounts []*domain.Account, balances map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		if acc.Archived {
			continue
		}
		b, ok := balances[acc.ID]
		if !ok {
			continue
		}
		if acc.Kind == domain.AccountKindDebt {
			total = total.Sub(b)
		} else {
			total = total.Add(b)
		}
	}
	return total
}

func sortedByDate(txns []*domain.Transaction) []*domain.Transaction {
	sorted := make([]*domain.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return calendar.Before(sorted[i].Date, sorted[j].Date)
	})
	return sorted
}
