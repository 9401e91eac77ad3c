package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/covers"
	"github.com/starford/ansuz/internal/models"
)

// seedFile is the on-disk shape of the demo catalog.
type seedFile struct {
	Books []seedBook `yaml:"books"`
}

type seedBook struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author"`
	ISBN          string   `yaml:"isbn"`
	Description   string   `yaml:"description"`
	Category      string   `yaml:"category"`
	PublishedDate string   `yaml:"published_date"`
	CoverImageURL string   `yaml:"cover_image_url"`
	Tags          []string `yaml:"tags"`
}

// LoadSeed reads the YAML seed catalog. Entries without an explicit id get a
// deterministic one derived from the title, so re-reading the same file maps
// onto the same records instead of duplicating them. Covers are derived from
// the title unless the file overrides them.
func LoadSeed(path string) ([]models.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read seed %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("store: parse seed %s: %w", path, err)
	}

	out := make([]models.Book, 0, len(f.Books))
	for _, sb := range f.Books {
		b := models.Book{
			ID:            sb.ID,
			Title:         sb.Title,
			Author:        sb.Author,
			ISBN:          sb.ISBN,
			Description:   sb.Description,
			Category:      sb.Category,
			PublishedDate: sb.PublishedDate,
			CoverImageURL: sb.CoverImageURL,
			Tags:          sb.Tags,
		}
		if b.ID == "" {
			b.ID = "seed-" + slugify(b.Title)
		}
		if b.CoverImageURL == "" {
			b.CoverImageURL = covers.PlaceholderURL(b.Title)
		}
		if b.Tags == nil {
			b.Tags = []string{}
		}
		out = append(out, b)
	}
	return out, nil
}

// SyncSeed upserts every seed record by id. Records created by users (their
// ids carry the "book-" prefix from the id package, not a seed id) are never
// touched, and seed entries removed from the file are left in place: the
// seed only ever adds or refreshes.
func SyncSeed(ctx context.Context, s Store, books []models.Book, logger *slog.Logger) error {
	for _, b := range books {
		if err := s.Insert(ctx, b); err != nil {
			logger.Warn("seed: upsert failed",
				slog.String("id", b.ID),
				slog.String("error", err.Error()))
			continue
		}
		logger.Debug("seed: upserted", slog.String("id", b.ID), slog.String("title", b.Title))
	}
	return nil
}

// slugify collapses a title into a lowercase id fragment.
func slugify(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_':
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "untitled"
	}
	return string(out)
}
