// Package api implements the Ansuz REST API using chi.
package api

import (
	"net/http"

	"github.com/starford/ansuz/internal/session"
)

// RequireAdmin returns middleware that gates admin routes on the session
// flag. If enabled is false all requests pass through (disabled mode, for
// local single-user use). A missing flag answers 401 so API clients can
// redirect to their login entry point.
func RequireAdmin(enabled bool, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			if !sessions.IsAdmin(r) {
				writeJSON(w, http.StatusUnauthorized, errorBody("admin session required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
