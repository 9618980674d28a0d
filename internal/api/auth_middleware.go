package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/resenas-io/resenas/internal/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionAuthMiddleware validates the bearer session token and attaches the
// authenticated session to the request context. Requests with a missing,
// malformed, expired or unsigned token are rejected before any handler runs.
func (api *Api) SessionAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "Authorization header format must be Bearer {token}", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]
		claims, err := api.Deps.Tokens.Validate(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		session := &auth.Session{
			Email:    claims.Subject,
			Name:     claims.Name,
			RawToken: tokenString,
		}
		if claims.IssuedAt != nil {
			session.IssuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the authenticated session attached by
// SessionAuthMiddleware, or nil outside the protected route group.
func SessionFromContext(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return s
}

// unixOrZero keeps zero times from turning into a nonsense epoch offset.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
