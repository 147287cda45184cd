// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/secureqr/secureqr/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier verifies a bearer token and returns the subject user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, verifies it, and
// stores the subject user ID in the request context. A missing, malformed,
// or unverifiable token is rejected with a single generic 401 response; the
// caller never learns which check failed.
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := service.ExtractBearer(r.Header.Get("Authorization"))
			if token == "" {
				http.Error(w, "valid bearer token required", http.StatusUnauthorized)
				return
			}
			userID, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, "valid bearer token required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves identity when a valid bearer token is present but
// lets the request through anonymously otherwise. Scan endpoints use it so
// unauthenticated scans still work while authenticated ones get history.
func OptionalAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := service.ExtractBearer(r.Header.Get("Authorization")); token != "" {
				if userID, err := tokens.Verify(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userKey, userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
