package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/recurrence"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_APIRequiresUser(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a user, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Main","kind":"ASSET","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	req.Header.Set(apimiddleware.UserIDHeader, "user-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if store.lastKey != "user-1:key-123" {
		t.Fatalf("expected user scoped key, got %q", store.lastKey)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/me",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"PATCH /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/balance",
		"GET /api/v1/accounts/{id}/balances",
		"POST /api/v1/accounts/{id}/balances/materialize",
		"POST /api/v1/transactions/",
		"DELETE /api/v1/transactions/{id}",
		"GET /api/v1/transactions/{id}/recurrence",
		"GET /api/v1/recurring-rules",
		"GET /api/v1/net-worth",
		"POST /api/v1/reconcile",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

// TestNewRouter_RecurringBudgetFlow drives the API end to end over the
// in-memory repositories.
func TestNewRouter_RecurringBudgetFlow(t *testing.T) {
	router := NewRouter(newRouterConfig())

	do := func(method, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		req.Header.Set(apimiddleware.UserIDHeader, "user-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/v1/accounts/", `{"name":"Checking","kind":"ASSET","currency":"USD","opening_balance":"1000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))

	rec = do(http.MethodPost, "/api/v1/transactions/", `{
		"account_id": "`+account.ID+`",
		"type": "EXPENSE",
		"amount": "100",
		"date": "2024-01-31",
		"recurrence": {"frequency": "monthly", "interval": 1, "end_date": "2024-04-30"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CreateTransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Rule)
	require.Len(t, created.Instances, 3)
	assert.Equal(t, "2024-02-29", created.Instances[0].Date.Format("2006-01-02"))

	rec = do(http.MethodGet, "/api/v1/accounts/"+account.ID+"/balance?date=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var balance dto.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(700)), balance.Balance.String())

	rec = do(http.MethodDelete, "/api/v1/transactions/"+created.Instances[1].ID+"?mode=future", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var deleted dto.DeleteTransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, int64(2), deleted.Deleted)
	assert.True(t, deleted.RuleDeactivated)

	rec = do(http.MethodGet, "/api/v1/net-worth?date=2024-12-31", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var worth dto.NetWorthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &worth))
	assert.True(t, worth.Totals["USD"].Equal(decimal.NewFromInt(800)), worth.Totals["USD"].String())
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	accounts := mocks.NewMockAccountRepository()
	txns := mocks.NewMockTransactionRepository()
	rules := mocks.NewMockRecurringRuleRepository()
	dailies := mocks.NewMockDailyBalanceRepository()
	txMgr := mocks.NewMockTxManager()
	idGen := mocks.NewMockIDGenerator()
	logger := zerolog.Nop()

	balanceUC := usecase.NewBalanceUseCase(txMgr, accounts, txns, dailies, 0, logger, nil)
	ledgerUC := usecase.NewLedgerUseCase(txMgr, accounts, txns, rules, balanceUC, recurrence.NewExpander(12), idGen, mocks.NewMockRetrier(), logger, nil)
	accountUC := usecase.NewAccountUseCase(accounts, balanceUC, idGen, logger, nil)
	reconcileUC := usecase.NewReconciliationUseCase(accounts, txns, dailies, balanceUC, nil)
	userUC := usecase.NewUserUseCase(mocks.NewMockUserRepository(), &mocks.MockTokenIssuer{}, idGen, nil)

	cfg := RouterConfig{
		HealthHandler:      handler.NewHealthHandler(),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC, reconcileUC),
		AuthHandler:        handler.NewAuthHandler(userUC),
		Logger:             logger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubIdempotencyStore struct {
	checkCalled bool
	lastKey     string
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	s.lastKey = key
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
