package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Balance lookup sources.
const (
	SourceCache    = "cache"
	SourceComputed = "computed"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated *prometheus.CounterVec
	TransactionsUpdated prometheus.Counter
	TransactionsDeleted *prometheus.CounterVec
	TransactionErrors   *prometheus.CounterVec

	// Recurrence metrics
	RecurringRulesCreated       prometheus.Counter
	RecurringInstancesGenerated prometheus.Counter
	RecurringRulesDeactivated   prometheus.Counter

	// Balance metrics
	BalanceLookups           *prometheus.CounterVec
	BalanceRecomputeDuration prometheus.Histogram
	BalanceRecomputeErrors   prometheus.Counter
	BalanceRowsMaterialized  prometheus.Counter
	BalanceDiscrepancies     prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg instead of the global
// registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		TransactionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_transactions_created_total",
				Help: "Total number of transactions created by type",
			},
			[]string{"type"},
		),
		TransactionsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_transactions_updated_total",
			Help: "Total number of transactions updated",
		}),
		TransactionsDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_transactions_deleted_total",
				Help: "Total number of transactions deleted by delete mode",
			},
			[]string{"mode"},
		),
		TransactionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_transaction_errors_total",
				Help: "Total number of rejected or failed transaction writes",
			},
			[]string{"operation"},
		),

		// Recurrence metrics
		RecurringRulesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_recurring_rules_created_total",
			Help: "Total number of recurring rules created",
		}),
		RecurringInstancesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_recurring_instances_generated_total",
			Help: "Total number of transactions generated from recurring rules",
		}),
		RecurringRulesDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_recurring_rules_deactivated_total",
			Help: "Total number of recurring rules deactivated",
		}),

		// Balance metrics
		BalanceLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_balance_lookups_total",
				Help: "Balance lookups by source (cache or computed)",
			},
			[]string{"source"},
		),
		BalanceRecomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobudget_balance_recompute_duration_seconds",
			Help:    "Duration of daily balance recomputation",
			Buckets: prometheus.DefBuckets,
		}),
		BalanceRecomputeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_balance_recompute_errors_total",
			Help: "Total number of failed daily balance recomputations",
		}),
		BalanceRowsMaterialized: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_balance_rows_materialized_total",
			Help: "Total number of daily balance rows written",
		}),
		BalanceDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_balance_discrepancies_total",
			Help: "Cached daily balances found to disagree with history",
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
	}
}
