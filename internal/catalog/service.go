// Package catalog coordinates the book store and the librarian gateway and
// carries the catalog's operation semantics.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/covers"
	"github.com/starford/ansuz/internal/id"
	"github.com/starford/ansuz/internal/librarian"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/store"
)

// ChangeFunc is notified after a successful mutation. kind is one of
// "created", "updated", "deleted".
type ChangeFunc func(kind string, book models.Book)

// Service coordinates store and gateway operations.
type Service struct {
	store  store.Store
	ai     librarian.Gateway
	notify ChangeFunc
}

// NewService creates a catalog service. notify may be nil.
func NewService(s store.Store, ai librarian.Gateway, notify ChangeFunc) *Service {
	return &Service{store: s, ai: ai, notify: notify}
}

// Listing is the result of a catalog list operation: the filtered records
// plus the category option set derived from the full snapshot.
type Listing struct {
	Books      []models.Book
	Total      int
	Categories []string
}

// ListBooks fetches the snapshot and applies the search/category filter.
// The category options always reflect the full snapshot, not the filtered
// subset, so narrowing a search never shrinks the selector.
func (s *Service) ListBooks(ctx context.Context, search, category string) (*Listing, error) {
	snapshot, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return &Listing{
		Books:      Filter(snapshot, search, category),
		Total:      len(snapshot),
		Categories: Categories(snapshot),
	}, nil
}

// GetBook returns the record with the given id, or apperr.ErrNotFound.
func (s *Service) GetBook(ctx context.Context, bookID string) (*models.Book, error) {
	return s.store.Get(ctx, bookID)
}

// validateDraft enforces the form contract: every text field is required.
func validateDraft(d models.BookDraft) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Author, validation.Required),
		validation.Field(&d.ISBN, validation.Required),
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Category, validation.Required),
		validation.Field(&d.PublishedDate, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	return nil
}

// CreateBook assigns a fresh id, derives the cover from the title, stores the
// record, and returns it.
func (s *Service) CreateBook(ctx context.Context, draft models.BookDraft) (*models.Book, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	book := models.Book{
		ID:            id.MustNew(id.BookPrefix),
		Title:         draft.Title,
		Author:        draft.Author,
		ISBN:          draft.ISBN,
		Description:   draft.Description,
		Category:      draft.Category,
		PublishedDate: draft.PublishedDate,
		CoverImageURL: covers.PlaceholderURL(draft.Title),
		Tags:          tags,
	}
	if err := s.store.Insert(ctx, book); err != nil {
		return nil, fmt.Errorf("catalog: create: %w", err)
	}
	s.changed("created", book)
	return &book, nil
}

// GenerateBook asks the librarian to compose a record from a free-text prompt
// and persists the result as-is. Blank prompts are rejected before the
// gateway is called. On any failure the store is left unchanged.
func (s *Service) GenerateBook(ctx context.Context, prompt string) (*models.Book, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is empty", apperr.ErrInvalid)
	}
	book, err := s.ai.Compose(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, *book); err != nil {
		return nil, fmt.Errorf("catalog: store generated book: %w", err)
	}
	s.changed("created", *book)
	return book, nil
}

// UpdateBook replaces the record's user-editable fields in full. The id and
// the derived cover survive every edit. ifMatch, when non-empty, must equal
// the stored record's checksum or the update fails with apperr.ErrConflict.
func (s *Service) UpdateBook(ctx context.Context, bookID string, draft models.BookDraft, ifMatch string) (*models.Book, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	existing, err := s.store.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Record(*existing) {
		return nil, apperr.ErrConflict
	}
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	updated := models.Book{
		ID:            existing.ID,
		Title:         draft.Title,
		Author:        draft.Author,
		ISBN:          draft.ISBN,
		Description:   draft.Description,
		Category:      draft.Category,
		PublishedDate: draft.PublishedDate,
		CoverImageURL: existing.CoverImageURL,
		Tags:          tags,
	}
	stored, err := s.store.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("catalog: update: %w", err)
	}
	s.changed("updated", *stored)
	return stored, nil
}

// DeleteBook removes the record. Deleting an absent id is a no-op.
func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	book, err := s.store.Get(ctx, bookID)
	if errors.Is(err, apperr.ErrNotFound) {
		// Already gone; nothing to delete and nothing to announce.
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog: delete lookup: %w", err)
	}
	if err := s.store.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("catalog: delete: %w", err)
	}
	s.changed("deleted", *book)
	return nil
}

// Summarize generates a summary for the book. The record must exist before
// any gateway call is made; the gateway itself never fails, it falls back.
func (s *Service) Summarize(ctx context.Context, bookID string) (string, error) {
	book, err := s.store.Get(ctx, bookID)
	if err != nil {
		return "", err
	}
	return s.ai.Summarize(ctx, book.Title, book.Author), nil
}

// SimilarBooks suggests comparable books as "Title | Author" display lines.
// Each call returns a complete, fresh result: a failure on a later call
// yields the fallback list, never a merge with earlier output.
func (s *Service) SimilarBooks(ctx context.Context, bookID string) ([]string, error) {
	book, err := s.store.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return s.ai.Similar(ctx, book.Title, book.Author), nil
}

func (s *Service) changed(kind string, book models.Book) {
	if s.notify != nil {
		s.notify(kind, book)
	}
}
