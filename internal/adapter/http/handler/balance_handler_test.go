package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

type balanceServiceStub struct {
	getFn         func(ctx context.Context, userID, accountID string, date time.Time) (*usecase.BalanceResult, error)
	seriesFn      func(ctx context.Context, userID, accountID string, start, end time.Time) ([]domain.DailyBalance, error)
	materializeFn func(ctx context.Context, userID, accountID string, start, end time.Time) (int, error)
	netWorthFn    func(ctx context.Context, userID string, date time.Time) (*usecase.NetWorthResult, error)
}

func (s *balanceServiceStub) GetBalance(ctx context.Context, userID, accountID string, date time.Time) (*usecase.BalanceResult, error) {
	return s.getFn(ctx, userID, accountID, date)
}

func (s *balanceServiceStub) GetBalanceSeries(ctx context.Context, userID, accountID string, start, end time.Time) ([]domain.DailyBalance, error) {
	return s.seriesFn(ctx, userID, accountID, start, end)
}

func (s *balanceServiceStub) Materialize(ctx context.Context, userID, accountID string, start, end time.Time) (int, error) {
	return s.materializeFn(ctx, userID, accountID, start, end)
}

func (s *balanceServiceStub) NetWorth(ctx context.Context, userID string, date time.Time) (*usecase.NetWorthResult, error) {
	return s.netWorthFn(ctx, userID, date)
}

type reconciliationServiceStub struct {
	accountFn func(ctx context.Context, input usecase.ReconcileInput) (*usecase.ReconciliationResult, error)
	allFn     func(ctx context.Context, userID string, start, end time.Time, repair bool) ([]*usecase.ReconciliationResult, error)
}

func (s *reconciliationServiceStub) ReconcileAccount(ctx context.Context, input usecase.ReconcileInput) (*usecase.ReconciliationResult, error) {
	return s.accountFn(ctx, input)
}

func (s *reconciliationServiceStub) ReconcileAllAccounts(ctx context.Context, userID string, start, end time.Time, repair bool) ([]*usecase.ReconciliationResult, error) {
	return s.allFn(ctx, userID, start, end, repair)
}

func newTestBalanceHandler(b *balanceServiceStub, r *reconciliationServiceStub, now time.Time) *BalanceHandler {
	h := NewBalanceHandler(b, r)
	h.now = func() time.Time { return now }
	return h
}

func TestBalanceHandler_Balance(t *testing.T) {
	now := time.Date(2024, time.June, 15, 22, 45, 0, 0, time.UTC)
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		wantDate   time.Time
		wantStatus int
	}{
		{name: "defaults to today", wantDate: today, wantStatus: http.StatusOK},
		{name: "explicit date", query: "?date=2023-12-31", wantDate: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), wantStatus: http.StatusOK},
		{name: "bad date", query: "?date=2023-12-32", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDate time.Time
			h := newTestBalanceHandler(&balanceServiceStub{
				getFn: func(ctx context.Context, userID, accountID string, date time.Time) (*usecase.BalanceResult, error) {
					gotDate = date
					return &usecase.BalanceResult{AccountID: accountID, Currency: "USD", Date: date, Balance: decimal.NewFromInt(750), Cached: true}, nil
				},
			}, nil, now)

			req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balance"+tt.query, nil)
			req = withUser(setChiURLParam(req, "id", "acc-1"), "user-1")
			rec := httptest.NewRecorder()

			h.Balance(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantDate, gotDate)

			var resp dto.BalanceResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.Balance.Equal(decimal.NewFromInt(750)))
			assert.Equal(t, "acc-1", resp.AccountID)
		})
	}
}

func TestBalanceHandler_Series(t *testing.T) {
	h := newTestBalanceHandler(&balanceServiceStub{
		seriesFn: func(ctx context.Context, userID, accountID string, start, end time.Time) ([]domain.DailyBalance, error) {
			return []domain.DailyBalance{
				{AccountID: accountID, Date: start, Balance: decimal.NewFromInt(10)},
				{AccountID: accountID, Date: end, Balance: decimal.NewFromInt(20)},
			}, nil
		},
	}, nil, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balances?start=2024-01-01&end=2024-01-02", nil)
	req = withUser(setChiURLParam(req, "id", "acc-1"), "user-1")
	rec := httptest.NewRecorder()

	h.Series(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.BalanceSeriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Balances, 2)
	assert.Equal(t, "2024-01-02", resp.Balances[1].Date.Format("2006-01-02"))
}

func TestBalanceHandler_Series_RequiresRange(t *testing.T) {
	h := newTestBalanceHandler(&balanceServiceStub{}, nil, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balances?start=2024-01-01", nil)
	req = withUser(setChiURLParam(req, "id", "acc-1"), "user-1")
	rec := httptest.NewRecorder()

	h.Series(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceHandler_Series_RangeTooLarge(t *testing.T) {
	h := newTestBalanceHandler(&balanceServiceStub{
		seriesFn: func(ctx context.Context, userID, accountID string, start, end time.Time) ([]domain.DailyBalance, error) {
			return nil, domain.ErrRangeTooLarge
		},
	}, nil, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balances?start=2000-01-01&end=2024-01-01", nil)
	req = withUser(setChiURLParam(req, "id", "acc-1"), "user-1")
	rec := httptest.NewRecorder()

	h.Series(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceHandler_Materialize(t *testing.T) {
	h := newTestBalanceHandler(&balanceServiceStub{
		materializeFn: func(ctx context.Context, userID, accountID string, start, end time.Time) (int, error) {
			assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
			return 31, nil
		},
	}, nil, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/balances/materialize", bytes.NewBufferString(`{"start":"2024-01-01","end":"2024-01-31"}`))
	req = withUser(setChiURLParam(req, "id", "acc-1"), "user-1")
	rec := httptest.NewRecorder()

	h.Materialize(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account_id":"acc-1","days":31}`, rec.Body.String())
}

func TestBalanceHandler_NetWorth(t *testing.T) {
	date := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	h := newTestBalanceHandler(&balanceServiceStub{
		netWorthFn: func(ctx context.Context, userID string, d time.Time) (*usecase.NetWorthResult, error) {
			return &usecase.NetWorthResult{
				Date:   d,
				Totals: map[string]decimal.Decimal{"USD": decimal.NewFromInt(800), "EUR": decimal.NewFromInt(-50)},
			}, nil
		},
	}, nil, date)

	req := withUser(httptest.NewRequest(http.MethodGet, "/net-worth", nil), "user-1")
	rec := httptest.NewRecorder()

	h.NetWorth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.NetWorthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, date, resp.Date.Time)
	assert.True(t, resp.Totals["EUR"].Equal(decimal.NewFromInt(-50)))
}

func TestBalanceHandler_ReconcileAccount(t *testing.T) {
	var captured usecase.ReconcileInput
	h := newTestBalanceHandler(nil, &reconciliationServiceStub{
		accountFn: func(ctx context.Context, input usecase.ReconcileInput) (*usecase.ReconciliationResult, error) {
			captured = input
			return &usecase.ReconciliationResult{AccountID: input.AccountID, Start: input.Start, End: input.End, CachedDays: 31, Repaired: input.Repair}, nil
		},
	}, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/reconcile", bytes.NewBufferString(`{"start":"2024-01-01","end":"2024-01-31","repair":true}`))
	req = withUser(setChiURLParam(req, "id", "acc-1"), "user-1")
	rec := httptest.NewRecorder()

	h.ReconcileAccount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acc-1", captured.AccountID)
	assert.True(t, captured.Repair)

	var resp dto.ReconciliationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Reconciled)
	assert.True(t, resp.Repaired)
}

func TestBalanceHandler_ReconcileAll_Error(t *testing.T) {
	h := newTestBalanceHandler(nil, &reconciliationServiceStub{
		allFn: func(ctx context.Context, userID string, start, end time.Time, repair bool) ([]*usecase.ReconciliationResult, error) {
			return nil, errors.New("db down")
		},
	}, time.Now())

	req := withUser(httptest.NewRequest(http.MethodPost, "/reconcile", bytes.NewBufferString(`{"start":"2024-01-01","end":"2024-01-31"}`)), "user-1")
	rec := httptest.NewRecorder()

	h.ReconcileAll(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
