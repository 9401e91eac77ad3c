// Package testutil provides shared test helpers for setting up stores and AI stubs.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/store"
)

// TestSQLite creates a temporary SQLite store that is automatically cleaned up.
func TestSQLite(t *testing.T) *store.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := store.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// Fixture returns a book record with every field populated, overridable per test.
func Fixture(id string) models.Book {
	return models.Book{
		ID:            id,
		Title:         "The Left Hand of Darkness",
		Author:        "Ursula K. Le Guin",
		ISBN:          "9780441478125",
		Description:   "An envoy on a glacial planet navigates politics and trust.",
		Category:      "Science Fiction",
		PublishedDate: "1969-03-01",
		CoverImageURL: "https://picsum.photos/seed/left-hand/400/600",
		Tags:          []string{"first-contact", "classics"},
	}
}

// StubGateway is a scripted AI gateway for tests.
type StubGateway struct {
	Summary     string
	SimilarList []string
	Book        *models.Book
	ComposeErr  error

	SummarizeCalls int
	ComposeCalls   int
}

func (s *StubGateway) Summarize(context.Context, string, string) string {
	s.SummarizeCalls++
	return s.Summary
}

func (s *StubGateway) Similar(context.Context, string, string) []string {
	return s.SimilarList
}

func (s *StubGateway) Compose(context.Context, string) (*models.Book, error) {
	s.ComposeCalls++
	if s.ComposeErr != nil {
		return nil, s.ComposeErr
	}
	b := s.Book.Clone()
	return &b, nil
}
