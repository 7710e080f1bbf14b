package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	Currency       string           `json:"currency"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	APR            *decimal.Decimal `json:"apr,omitempty"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	Archived       bool             `json:"archived"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Kind:           string(a.Kind),
		Currency:       a.Currency,
		OpeningBalance: a.OpeningBalance,
		APR:            a.APR,
		CreditLimit:    a.CreditLimit,
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts. Count is the
// number of accounts on this page.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Count    int                `json:"count"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	ToAccountID     *string         `json:"to_account_id,omitempty"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Date            Date            `json:"date"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Cleared         bool            `json:"cleared"`
	RecurringRuleID *string         `json:"recurring_rule_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		ToAccountID:     t.ToAccountID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		Currency:        t.Currency,
		Date:            NewDate(t.Date),
		Description:     t.Description,
		Category:        t.Category,
		Cleared:         t.Cleared,
		RecurringRuleID: t.RecurringRuleID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents a page of transactions. Count is
// the number of transactions on this page.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Count        int                    `json:"count"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// RecurringRuleResponse represents a recurring rule in API responses.
type RecurringRuleResponse struct {
	ID                  string          `json:"id"`
	AccountID           string          `json:"account_id"`
	ToAccountID         *string         `json:"to_account_id,omitempty"`
	OriginTransactionID string          `json:"origin_transaction_id"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	Frequency           string          `json:"frequency"`
	Interval            int             `json:"interval"`
	StartDate           Date            `json:"start_date"`
	EndDate             *Date           `json:"end_date,omitempty"`
	Active              bool            `json:"active"`
}

// RecurringRuleFromDomain converts domain rule to response.
func RecurringRuleFromDomain(r *domain.RecurringRule) *RecurringRuleResponse {
	resp := &RecurringRuleResponse{
		ID:                  r.ID,
		AccountID:           r.AccountID,
		ToAccountID:         r.ToAccountID,
		OriginTransactionID: r.OriginTransactionID,
		Type:                string(r.Template.Type),
		Amount:              r.Template.Amount,
		Currency:            r.Template.Currency,
		Description:         r.Template.Description,
		Category:            r.Template.Category,
		Frequency:           string(r.Frequency),
		Interval:            r.Interval,
		StartDate:           NewDate(r.StartDate),
		Active:              r.Active,
	}
	if r.EndDate != nil {
		end := NewDate(*r.EndDate)
		resp.EndDate = &end
	}
	return resp
}

// RecurringRulesFromDomain converts domain rules to responses.
func RecurringRulesFromDomain(rules []*domain.RecurringRule) []*RecurringRuleResponse {
	result := make([]*RecurringRuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RecurringRuleFromDomain(r)
	}
	return result
}

// CreateTransactionResponse reports the stored transaction and, for
// recurring writes, the rule and generated instances.
type CreateTransactionResponse struct {
	Transaction *TransactionResponse   `json:"transaction"`
	Rule        *RecurringRuleResponse `json:"recurring_rule,omitempty"`
	Instances   []*TransactionResponse `json:"instances,omitempty"`
}

// CreateTransactionFromResult converts a create result to response.
func CreateTransactionFromResult(r *usecase.CreateTransactionResult) *CreateTransactionResponse {
	resp := &CreateTransactionResponse{Transaction: TransactionFromDomain(r.Transaction)}
	if r.Rule != nil {
		resp.Rule = RecurringRuleFromDomain(r.Rule)
		resp.Instances = TransactionsFromDomain(r.Instances)
	}
	return resp
}

// RecurrenceStateResponse describes a transaction's relation to its rule.
type RecurrenceStateResponse struct {
	State  string `json:"state"`
	RuleID string `json:"rule_id,omitempty"`
}

// DeleteTransactionResponse reports what a delete removed.
type DeleteTransactionResponse struct {
	Mode            string `json:"mode"`
	Deleted         int64  `json:"deleted"`
	RuleDeactivated bool   `json:"rule_deactivated"`
}

// BalanceResponse is an account balance at the end of a day.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Currency  string          `json:"currency"`
	Date      Date            `json:"date"`
	Balance   decimal.Decimal `json:"balance"`
	Cached    bool            `json:"cached"`
}

// BalanceFromResult converts a balance result to response.
func BalanceFromResult(r *usecase.BalanceResult) *BalanceResponse {
	return &BalanceResponse{
		AccountID: r.AccountID,
		Currency:  r.Currency,
		Date:      NewDate(r.Date),
		Balance:   r.Balance,
		Cached:    r.Cached,
	}
}

// DailyBalanceResponse is one point of a balance series.
type DailyBalanceResponse struct {
	Date    Date            `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSeriesResponse is a day-by-day balance series.
type BalanceSeriesResponse struct {
	AccountID string                  `json:"account_id"`
	Balances  []*DailyBalanceResponse `json:"balances"`
}

// BalanceSeriesFromDomain converts a series to response.
func BalanceSeriesFromDomain(accountID string, series []domain.DailyBalance) *BalanceSeriesResponse {
	balances := make([]*DailyBalanceResponse, len(series))
	for i, b := range series {
		balances[i] = &DailyBalanceResponse{Date: NewDate(b.Date), Balance: b.Balance}
	}
	return &BalanceSeriesResponse{AccountID: accountID, Balances: balances}
}

// MaterializeResponse reports how many days were written to the cache.
type MaterializeResponse struct {
	AccountID string `json:"account_id"`
	Days      int    `json:"days"`
}

// NetWorthResponse totals balances per currency.
type NetWorthResponse struct {
	Date     Date                       `json:"date"`
	Totals   map[string]decimal.Decimal `json:"totals"`
	Accounts []*BalanceResponse         `json:"accounts"`
}

// NetWorthFromResult converts a net worth result to response.
func NetWorthFromResult(r *usecase.NetWorthResult) *NetWorthResponse {
	accounts := make([]*BalanceResponse, len(r.Accounts))
	for i, a := range r.Accounts {
		accounts[i] = BalanceFromResult(a)
	}
	return &NetWorthResponse{Date: NewDate(r.Date), Totals: r.Totals, Accounts: accounts}
}

// DiscrepancyResponse is a cached day that disagrees with history.
type DiscrepancyResponse struct {
	Date     Date            `json:"date"`
	Cached   decimal.Decimal `json:"cached"`
	Computed decimal.Decimal `json:"computed"`
}

// ReconciliationResponse reports a cache check for one account.
type ReconciliationResponse struct {
	AccountID     string                 `json:"account_id"`
	Start         Date                   `json:"start"`
	End           Date                   `json:"end"`
	CachedDays    int                    `json:"cached_days"`
	MissingDays   int                    `json:"missing_days"`
	Reconciled    bool                   `json:"reconciled"`
	Repaired      bool                   `json:"repaired"`
	Discrepancies []*DiscrepancyResponse `json:"discrepancies"`
	CheckedAt     time.Time              `json:"checked_at"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	discrepancies := make([]*DiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = &DiscrepancyResponse{Date: NewDate(d.Date), Cached: d.Cached, Computed: d.Computed}
	}
	return &ReconciliationResponse{
		AccountID:     r.AccountID,
		Start:         NewDate(r.Start),
		End:           NewDate(r.End),
		CachedDays:    r.CachedDays,
		MissingDays:   r.MissingDays,
		Reconciled:    r.IsReconciled(),
		Repaired:      r.Repaired,
		Discrepancies: discrepancies,
		CheckedAt:     r.CheckedAt,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// LoginResponse carries an access token.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
