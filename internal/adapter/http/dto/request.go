package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/calendar"
	"github.com/iho/gobudget/internal/usecase"
)

// Date is a civil date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date.
func NewDate(t time.Time) Date {
	return Date{Time: calendar.Normalize(t)}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + calendar.Format(d.Time) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a YYYY-MM-DD string")
	}
	t, err := calendar.Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func datePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	Currency       string           `json:"currency"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	APR            *decimal.Decimal `json:"apr,omitempty"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(userID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		UserID:         userID,
		Name:           r.Name,
		Kind:           r.Kind,
		Currency:       r.Currency,
		OpeningBalance: r.OpeningBalance,
		APR:            r.APR,
		CreditLimit:    r.CreditLimit,
	}
}

// UpdateAccountRequest carries the account fields to change. Omitted fields
// keep their value.
type UpdateAccountRequest struct {
	Name           *string          `json:"name,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	APR            *decimal.Decimal `json:"apr,omitempty"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(userID, id string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		UserID:         userID,
		ID:             id,
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
		APR:            r.APR,
		CreditLimit:    r.CreditLimit,
	}
}

// RecurrenceRequest marks a new transaction as recurring.
type RecurrenceRequest struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval"`
	EndDate   *Date  `json:"end_date,omitempty"`
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	AccountID   string             `json:"account_id"`
	ToAccountID *string            `json:"to_account_id,omitempty"`
	Type        string             `json:"type"`
	Amount      decimal.Decimal    `json:"amount"`
	Date        Date               `json:"date"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Cleared     bool               `json:"cleared"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(userID string) usecase.CreateTransactionInput {
	input := usecase.CreateTransactionInput{
		UserID:      userID,
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID,
		Type:        r.Type,
		Amount:      r.Amount,
		Date:        r.Date.Time,
		Description: r.Description,
		Category:    r.Category,
		Cleared:     r.Cleared,
	}
	if r.Recurrence != nil {
		input.Recurrence = &usecase.RecurrenceInput{
			Frequency: r.Recurrence.Frequency,
			Interval:  r.Recurrence.Interval,
			EndDate:   datePtr(r.Recurrence.EndDate),
		}
	}
	return input
}

// UpdateTransactionRequest replaces a transaction's fields.
type UpdateTransactionRequest struct {
	AccountID   string          `json:"account_id"`
	ToAccountID *string         `json:"to_account_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Cleared     bool            `json:"cleared"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(userID, id string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		UserID:      userID,
		ID:          id,
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID,
		Type:        r.Type,
		Amount:      r.Amount,
		Date:        r.Date.Time,
		Description: r.Description,
		Category:    r.Category,
		Cleared:     r.Cleared,
	}
}

// DateRangeRequest is an inclusive range of days.
type DateRangeRequest struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// ReconcileRequest asks for a cache check over a range.
type ReconcileRequest struct {
	Start  Date `json:"start"`
	End    Date `json:"end"`
	Repair bool `json:"repair"`
}

// RegisterRequest represents a sign-up request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{Email: r.Email, Name: r.Name, Password: r.Password}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.LoginInput {
	return usecase.LoginInput{Email: r.Email, Password: r.Password}
}
