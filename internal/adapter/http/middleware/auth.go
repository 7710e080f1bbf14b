package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
)

// UserIDHeader names the caller when token authentication is disabled.
const UserIDHeader = "X-User-ID"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// Authenticator resolves the calling user and stores it in the request
// context. With a verifier it requires a bearer token; without one it
// trusts the X-User-ID header, which is only suitable behind a gateway or
// in local development.
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator creates an Authenticator. A nil verifier disables token
// checks.
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Wrap rejects requests without a resolvable user.
func (a *Authenticator) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, status, msg := a.resolve(r)
		if user == nil {
			writeJSONError(w, status, msg)
			return
		}

		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", user.ID)
		})

		ctx := domain.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolve(r *http.Request) (*domain.User, int, string) {
	if a.verifier == nil {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			return nil, http.StatusUnauthorized, "missing " + UserIDHeader + " header"
		}
		return &domain.User{ID: userID}, 0, ""
	}

	// Extract token from Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "missing authorization header"
	}

	// Parse Bearer token
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "invalid authorization header format"
	}

	claims, err := a.verifier.Verify(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, "invalid or expired token"
	}

	return &domain.User{ID: claims.UserID, Email: claims.Email}, 0, ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + jsonEscape(msg) + `"}`))
}

func jsonEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
