package domain

// RecurrenceStateKind tags a transaction's relation to a recurring rule.
type RecurrenceStateKind string

const (
	StateStandalone RecurrenceStateKind = "standalone"
	StateOrigin     RecurrenceStateKind = "origin"
	StateInstance   RecurrenceStateKind = "instance"
)

// RecurrenceState is Standalone, OriginOf(rule) or InstanceOf(rule).
type RecurrenceState struct {
	Kind   RecurrenceStateKind
	RuleID string
}

// Standalone returns the state of a transaction without a rule.
func Standalone() RecurrenceState {
	return RecurrenceState{Kind: StateStandalone}
}

// OriginOf returns the state of the transaction a rule was created from.
func OriginOf(ruleID string) RecurrenceState {
	return RecurrenceState{Kind: StateOrigin, RuleID: ruleID}
}

// InstanceOf returns the state of a generated transaction.
func InstanceOf(ruleID string) RecurrenceState {
	return RecurrenceState{Kind: StateInstance, RuleID: ruleID}
}

// IsRecurring reports whether the transaction belongs to a rule.
func (s RecurrenceState) IsRecurring() bool {
	return s.Kind != StateStandalone
}

// StateOf derives the recurrence state of txn. rule may be nil when the
// transaction has no link or the rule is gone.
func StateOf(txn *Transaction, rule *RecurringRule) RecurrenceState {
	if txn.RecurringRuleID == nil || *txn.RecurringRuleID == "" {
		return Standalone()
	}

	ruleID := *txn.RecurringRuleID
	if rule != nil && rule.ID == ruleID && rule.OriginTransactionID == txn.ID {
		return OriginOf(ruleID)
	}

	return InstanceOf(ruleID)
}

// DeleteMode selects how much of a recurring series a delete removes.
type DeleteMode string

const (
	DeleteModeThis   DeleteMode = "this"
	DeleteModeFuture DeleteMode = "future"
)

// ParseDeleteMode defaults an empty mode to this.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(s) {
	case "", DeleteModeThis:
		return DeleteModeThis, nil
	case DeleteModeFuture:
		return DeleteModeFuture, nil
	default:
		return "", ErrInvalidDeleteMode
	}
}
