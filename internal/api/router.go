package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/session"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether the admin session flag is enforced on
// mutating admin routes; book generation stays public because it belongs to
// the list view, not the admin dashboard.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *catalog.Service, sessions *session.Manager, authEnabled bool, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, sessions)
	admin := RequireAdmin(authEnabled, sessions)

	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave)

	// Public catalog reads and AI features.
	r.Get("/books", h.ListBooks)
	r.Get("/books/{id}", h.GetBook)
	r.Post("/books/generate", h.GenerateBook)
	r.Post("/books/{id}/summary", h.Summarize)
	r.Post("/books/{id}/similar", h.SimilarBooks)

	// Admin mutations.
	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/books", h.CreateBook)
		r.Put("/books/{id}", h.UpdateBook)
		r.Delete("/books/{id}", h.DeleteBook)
	})

	// Session flag.
	r.Get("/session", h.SessionStatus)
	r.Post("/session", h.Login)
	r.Delete("/session", h.Logout)

	// SSE endpoint.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
