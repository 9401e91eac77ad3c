package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/librarian"
	"github.com/starford/ansuz/internal/session"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc      *catalog.Service
	sessions *session.Manager
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// ListBooks handles GET /books. The q and category parameters apply the pure
// search/category filter; omitting both returns the full snapshot.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	listing, err := h.svc.ListBooks(r.Context(), q, category)
	if err != nil {
		slog.Error("list books failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to fetch books"))
		return
	}
	writeJSON(w, http.StatusOK, BookListResponse{
		Books:      listing.Books,
		Total:      listing.Total,
		Categories: listing.Categories,
	})
}

// GetBook handles GET /books/{id}. A missing record is an explicit 404 with
// its own body, never conflated with a store failure.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	book, err := h.svc.GetBook(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
		} else {
			slog.Error("get book failed", slog.String("id", bookID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to fetch book"))
		}
		return
	}
	w.Header().Set("ETag", `"`+checksum.Record(*book)+`"`)
	writeJSON(w, http.StatusOK, book)
}

// CreateBook handles POST /books.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req BookDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	book, err := h.svc.CreateBook(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody("all book fields are required"))
		} else {
			slog.Error("create book failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to add book"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// GenerateBook handles POST /books/generate. On success exactly one new
// record exists; on any failure the store is unchanged and the client gets a
// retryable message.
func (h *Handler) GenerateBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req GenerateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	book, err := h.svc.GenerateBook(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case strings.TrimSpace(req.Prompt) == "":
			writeJSON(w, http.StatusBadRequest, errorBody("please enter a prompt"))
		case errors.Is(err, librarian.ErrUnavailable), errors.Is(err, apperr.ErrInvalid):
			slog.Error("generate book failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("failed to generate book, please try a different prompt"))
		default:
			slog.Error("generate book failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("an unexpected error occurred"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// UpdateBook handles PUT /books/{id} with optional optimistic concurrency.
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	bookID := chi.URLParam(r, "id")

	var req BookDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	book, err := h.svc.UpdateBook(r.Context(), bookID, req, ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("book was modified concurrently"))
		case errors.Is(err, apperr.ErrInvalid):
			writeJSON(w, http.StatusBadRequest, errorBody("all book fields are required"))
		default:
			slog.Error("update book failed", slog.String("id", bookID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to update book"))
		}
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// DeleteBook handles DELETE /books/{id}. Deleting an absent id is a no-op,
// so the response is 204 either way.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if err := h.svc.DeleteBook(r.Context(), bookID); err != nil {
		slog.Error("delete book failed", slog.String("id", bookID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to delete book"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summarize handles POST /books/{id}/summary. Gateway failures were absorbed
// into fallback text at the librarian boundary, so once the book exists the
// response is always 200 with renderable text.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	summary, err := h.svc.Summarize(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
		} else {
			slog.Error("summarize failed", slog.String("id", bookID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to fetch book"))
		}
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary})
}

// SimilarBooks handles POST /books/{id}/similar. Same settling rule as
// Summarize: the result replaces any earlier one wholesale.
func (h *Handler) SimilarBooks(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	books, err := h.svc.SimilarBooks(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("book not found"))
		} else {
			slog.Error("similar books failed", slog.String("id", bookID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to fetch book"))
		}
		return
	}
	writeJSON(w, http.StatusOK, SimilarResponse{Books: books})
}

// SessionStatus handles GET /session.
func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{Admin: h.sessions.IsAdmin(r)})
}

// Login handles POST /session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.sessions.SignIn(r, req.Password)
	if err != nil {
		slog.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid password"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logout handles DELETE /session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r); err != nil {
		slog.Error("logout failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
