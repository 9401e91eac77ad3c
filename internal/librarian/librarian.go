// Package librarian is the client boundary to the generative-AI service that
// backs summaries, similar-book suggestions, and whole-book generation.
//
// The boundary absorbs failures wherever a fallback value is meaningful:
// Summarize and Similar always settle to renderable text, so callers never
// need an error path for them. Compose has nothing sensible to return on
// failure and reports the error instead.
package librarian

import (
	"context"

	"github.com/starford/ansuz/internal/models"
)

// Fallback values returned when the generative service fails.
const (
	SummaryFallback = "Could not generate summary at this time."
	SimilarFallback = "Could not find similar books at this time."
)

// Gateway is the narrow contract the catalog depends on.
type Gateway interface {
	// Summarize returns a short free-text summary for the book.
	Summarize(ctx context.Context, title, author string) string
	// Similar returns "Title | Author" entries for comparable books.
	Similar(ctx context.Context, title, author string) []string
	// Compose generates a complete, validated book record from a free-text
	// prompt. The returned record carries a fresh id and a derived cover.
	Compose(ctx context.Context, prompt string) (*models.Book, error)
}

// Disabled is the gateway used when no API key is configured. Browsing and
// admin keep working; the AI features degrade to their fallbacks.
type Disabled struct{}

func (Disabled) Summarize(context.Context, string, string) string {
	return SummaryFallback
}

func (Disabled) Similar(context.Context, string, string) []string {
	return []string{SimilarFallback}
}

func (Disabled) Compose(context.Context, string) (*models.Book, error) {
	return nil, ErrUnavailable
}
