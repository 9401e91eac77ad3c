package librarian

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
)

// ErrUnavailable reports that the generative service could not produce a
// usable result. Callers surface it as a retryable condition.
var ErrUnavailable = errors.New("librarian: generation unavailable")

var isbnRe = regexp.MustCompile(`^\d{13}$`)

// parseSimilar splits the model's newline-delimited "Title | Author" output,
// trimming entries and dropping blank lines. Entry format is not enforced
// beyond that: the lines are display text, not structured data.
func parseSimilar(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// generatedBook is the JSON payload the model returns for whole-book
// generation, matching the response schema sent with the request.
type generatedBook struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	PublishedDate string   `json:"publishedDate"`
	Tags          []string `json:"tags"`
}

// Validate rejects records the model returned malformed. A record that fails
// here is never persisted in any partial form.
func (g generatedBook) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Title, validation.Required),
		validation.Field(&g.Author, validation.Required),
		validation.Field(&g.ISBN, validation.Required, validation.Match(isbnRe)),
		validation.Field(&g.Description, validation.Required),
		validation.Field(&g.Category, validation.Required),
		validation.Field(&g.PublishedDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&g.Tags, validation.Required),
	)
}

// decodeGeneratedBook parses and validates the model's JSON output.
func decodeGeneratedBook(raw string) (*generatedBook, error) {
	var g generatedBook
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("librarian: decode generated book: %w: %w", apperr.ErrInvalid, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("librarian: generated book failed validation: %w: %w", apperr.ErrInvalid, err)
	}
	return &g, nil
}
