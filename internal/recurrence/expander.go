// Package recurrence expands recurring rules into concrete future
// transactions. Expansion is pure: it performs no I/O.
package recurrence

import (
	"time"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/domain"
)

const (
	// DefaultHorizonMonths bounds how far ahead instances are generated.
	DefaultHorizonMonths = 12

	// MaxInstances caps a single expansion (daily rules over long horizons).
	MaxInstances = 10000
)

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Expander turns a rule and its origin transaction into future instances.
type Expander struct {
	horizonMonths int
}

// NewExpander creates an Expander. Non-positive horizons use the default.
func NewExpander(horizonMonths int) *Expander {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	return &Expander{horizonMonths: horizonMonths}
}

// HorizonMonths returns the configured horizon.
func (e *Expander) HorizonMonths() int {
	return e.horizonMonths
}

// Step returns the k-th occurrence date of a rule starting at start. Every
// occurrence is computed from start, so month-end clamping never drifts:
// a monthly rule from Jan 31 yields Feb 28, then Mar 31.
func Step(start time.Time, freq domain.Frequency, interval, k int) time.Time {
	interval = domain.NormalizeInterval(interval)

	switch domain.NormalizeFrequency(string(freq)) {
	case domain.FrequencyDaily, domain.FrequencyCustom:
		return calendar.AddInterval(start, calendar.Day, k*interval)
	case domain.FrequencyWeekly:
		return calendar.AddInterval(start, calendar.Week, k*interval)
	case domain.FrequencyBiweekly:
		return calendar.AddInterval(start, calendar.Week, 2*k*interval)
	default:
		return calendar.AddInterval(start, calendar.Month, k*interval)
	}
}

// Cutoff returns the first date no instance may reach.
func (e *Expander) Cutoff(start time.Time) time.Time {
	return calendar.AddInterval(start, calendar.Month, e.horizonMonths)
}

// Dates returns occurrence dates strictly after the rule's start date,
// before the horizon cutoff and not after the rule's end date.
func (e *Expander) Dates(rule *domain.RecurringRule) []time.Time {
	start := calendar.Normalize(rule.StartDate)
	cutoff := e.Cutoff(start)

	var endDate time.Time
	if rule.EndDate != nil {
		endDate = calendar.Normalize(*rule.EndDate)
	}

	var dates []time.Time
	for k := 1; len(dates) < MaxInstances; k++ {
		d := Step(start, rule.Frequency, rule.Interval, k)
		if !d.Before(cutoff) {
			break
		}
		if rule.EndDate != nil && d.After(endDate) {
			break
		}
		if !d.After(start) {
			continue
		}
		dates = append(dates, d)
	}

	return dates
}

// Expand builds the future instances for rule from base. The base
// transaction itself is never re-emitted. Each instance copies base's
// template fields, gets a fresh ID and is tagged with rule.ID; creation
// timestamps are left for the persistence layer.
func (e *Expander) Expand(base *domain.Transaction, rule *domain.RecurringRule, idGen IDGenerator) []*domain.Transaction {
	dates := e.Dates(rule)
	if len(dates) == 0 {
		return nil
	}

	instances := make([]*domain.Transaction, 0, len(dates))
	for _, d := range dates {
		inst := base.Clone()
		inst.ID = idGen.Generate()
		inst.Date = d
		inst.Cleared = false
		inst.CreatedAt = time.Time{}
		inst.UpdatedAt = time.Time{}

		ruleID := rule.ID
		inst.RecurringRuleID = &ruleID

		instances = append(instances, inst)
	}

	return instances
}
