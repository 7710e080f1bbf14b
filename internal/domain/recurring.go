package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence cadence of a rule.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	// FrequencyCustom steps by Interval days.
	FrequencyCustom Frequency = "custom"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// NormalizeFrequency maps unknown or empty input to monthly. Recurrence is
// best-effort, so bad input degrades instead of failing the write.
func NormalizeFrequency(s string) Frequency {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return FrequencyMonthly
	}
	return f
}

// NormalizeInterval maps non-positive intervals to 1.
func NormalizeInterval(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// RuleTemplate holds the fields stamped onto every generated transaction.
type RuleTemplate struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Description string
	Category    string
}

// RecurringRule describes how a transaction repeats.
type RecurringRule struct {
	ID                  string
	UserID              string
	AccountID           string
	ToAccountID         *string
	OriginTransactionID string
	Template            RuleTemplate
	Frequency           Frequency
	Interval            int
	StartDate           time.Time
	EndDate             *time.Time
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks interval and end date.
func (r *RecurringRule) Validate() error {
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ErrInvalidEndDate
	}
	return nil
}

// NewRuleFromTransaction builds a rule whose template and start date come
// from the origin transaction.
func NewRuleFromTransaction(id string, origin *Transaction, freq Frequency, interval int, endDate *time.Time, now time.Time) *RecurringRule {
	rule := &RecurringRule{
		ID:                  id,
		UserID:              origin.UserID,
		AccountID:           origin.AccountID,
		OriginTransactionID: origin.ID,
		Template: RuleTemplate{
			Type:        origin.Type,
			Amount:      origin.Amount,
			Currency:    origin.Currency,
			Description: origin.Description,
			Category:    origin.Category,
		},
		Frequency: freq,
		Interval:  interval,
		StartDate: origin.Date,
		EndDate:   endDate,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if origin.ToAccountID != nil {
		to := *origin.ToAccountID
		rule.ToAccountID = &to
	}
	return rule
}
