package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
)

func captureUser(got **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := domain.UserFromContext(r.Context())
		*got = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator_HeaderMode(t *testing.T) {
	a := NewAuthenticator(nil)

	var user *domain.User
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(UserIDHeader, " user-1 ")
	rr := httptest.NewRecorder()
	a.Wrap(captureUser(&user)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)

	rr = httptest.NewRecorder()
	a.Wrap(captureUser(&user)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthenticator_TokenMode(t *testing.T) {
	svc := auth.NewJWTManager("secret", time.Hour)
	token, err := svc.Generate(&domain.User{ID: "user-7", Email: "u7@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantUser: "user-7"},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	a := NewAuthenticator(svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user *domain.User
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			// the header fallback is ignored once tokens are required
			req.Header.Set(UserIDHeader, "spoofed")
			rr := httptest.NewRecorder()

			a.Wrap(captureUser(&user)).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantUser != "" {
				require.NotNil(t, user)
				assert.Equal(t, tt.wantUser, user.ID)
				assert.Equal(t, "u7@example.com", user.Email)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}
