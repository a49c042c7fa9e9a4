// Package api implements the Promptdeck REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starford/promptdeck/internal/auth"
)

type contextKey string

// usernameKey carries the authenticated username through the request context.
const usernameKey = contextKey("username")

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// AuthMiddleware returns middleware that validates a Bearer access token.
// If enabled is false, all requests pass through (disabled mode).
func AuthMiddleware(enabled bool, mgr *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			claims, err := mgr.Validate(strings.TrimPrefix(header, "Bearer "), auth.TokenTypeAccess)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
