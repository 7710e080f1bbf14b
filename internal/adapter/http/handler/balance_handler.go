package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, userID, accountID string, date time.Time) (*usecase.BalanceResult, error)
	GetBalanceSeries(ctx context.Context, userID, accountID string, start, end time.Time) ([]domain.DailyBalance, error)
	Materialize(ctx context.Context, userID, accountID string, start, end time.Time) (int, error)
	NetWorth(ctx context.Context, userID string, date time.Time) (*usecase.NetWorthResult, error)
}

// ReconciliationService defines the behavior needed to check the balance
// cache.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, input usecase.ReconcileInput) (*usecase.ReconciliationResult, error)
	ReconcileAllAccounts(ctx context.Context, userID string, start, end time.Time, repair bool) ([]*usecase.ReconciliationResult, error)
}

// BalanceHandler serves balances, balance series, net worth and cache
// reconciliation.
type BalanceHandler struct {
	balanceUC   BalanceService
	reconcileUC ReconciliationService
	now         func() time.Time
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, reconcileUC ReconciliationService) *BalanceHandler {
	return &BalanceHandler{
		balanceUC:   balanceUC,
		reconcileUC: reconcileUC,
		now:         time.Now,
	}
}

// Balance returns an account balance at the end of ?date (default today).
func (h *BalanceHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := parseDateQueryDefault(r, "date", h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	result, err := h.balanceUC.GetBalance(r.Context(), user.ID, chi.URLParam(r, "id"), date)
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromResult(result))
}

// Series returns one balance per day in [start, end].
func (h *BalanceHandler) Series(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	start, end, ok := requireRange(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	series, err := h.balanceUC.GetBalanceSeries(r.Context(), user.ID, accountID, start, end)
	if err != nil {
		writeDomainError(w, r, "failed to get balance series", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSeriesFromDomain(accountID, series))
}

// Materialize writes the daily balance cache for a range.
func (h *BalanceHandler) Materialize(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.DateRangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	accountID := chi.URLParam(r, "id")
	days, err := h.balanceUC.Materialize(r.Context(), user.ID, accountID, req.Start.Time, req.End.Time)
	if err != nil {
		writeDomainError(w, r, "failed to materialize balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MaterializeResponse{AccountID: accountID, Days: days})
}

// NetWorth totals the caller's active accounts per currency at ?date.
func (h *BalanceHandler) NetWorth(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := parseDateQueryDefault(r, "date", h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	result, err := h.balanceUC.NetWorth(r.Context(), user.ID, date)
	if err != nil {
		writeDomainError(w, r, "failed to compute net worth", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NetWorthFromResult(result))
}

// ReconcileAccount compares an account's cached balances with history.
func (h *BalanceHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.reconcileUC.ReconcileAccount(r.Context(), usecase.ReconcileInput{
		UserID:    user.ID,
		AccountID: chi.URLParam(r, "id"),
		Start:     req.Start.Time,
		End:       req.End.Time,
		Repair:    req.Repair,
	})
	if err != nil {
		writeDomainError(w, r, "failed to reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// ReconcileAll checks every active account of the caller.
func (h *BalanceHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := h.reconcileUC.ReconcileAllAccounts(r.Context(), user.ID, req.Start.Time, req.End.Time, req.Repair)
	if err != nil {
		writeDomainError(w, r, "failed to reconcile accounts", err)
		return
	}

	resp := make([]*dto.ReconciliationResponse, len(results))
	for i, res := range results {
		resp[i] = dto.ReconciliationFromResult(res)
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": resp})
}

func requireRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := parseDateQuery(r, "start")
	if err != nil || start == nil {
		writeError(w, http.StatusBadRequest, "invalid start date", "start must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDateQuery(r, "end")
	if err != nil || end == nil {
		writeError(w, http.StatusBadRequest, "invalid end date", "end must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return *start, *end, true
}
