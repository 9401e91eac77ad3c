package api

import "github.com/starford/ansuz/internal/models"

// BookDraftRequest is the request body for creating or updating a book.
// Every text field is required; tags may be empty.
type BookDraftRequest = models.BookDraft

// GenerateBookRequest is the request body for AI book generation.
type GenerateBookRequest struct {
	Prompt string `json:"prompt"`
}

// LoginRequest is the request body for acquiring the admin session flag.
type LoginRequest struct {
	Password string `json:"password"`
}

// BookListResponse wraps a filtered catalog listing. Total counts the full
// snapshot, not the filtered subset, and Categories is the option set derived
// from the full snapshot prefixed with "All".
type BookListResponse struct {
	Books      []models.Book `json:"books"`
	Total      int           `json:"total"`
	Categories []string      `json:"categories"`
}

// SummaryResponse wraps a generated book summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// SimilarResponse wraps similar-book suggestions as "Title | Author" lines.
type SimilarResponse struct {
	Books []string `json:"books"`
}

// SessionResponse reports whether the current session carries the admin flag.
type SessionResponse struct {
	Admin bool `json:"admin"`
}
