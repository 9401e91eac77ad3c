// Package models defines the domain types for Ansuz.
package models

import "strings"

// Book is the sole catalog entity. The JSON field names are the wire
// contract shared with every client (camelCase, matching the public API).
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	PublishedDate string   `json:"publishedDate"`
	CoverImageURL string   `json:"coverImageUrl"`
	Tags          []string `json:"tags"`
}

// BookDraft carries the user-supplied fields of a new or edited book.
// ID and CoverImageURL are assigned by the catalog, never by the caller.
type BookDraft struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	PublishedDate string   `json:"publishedDate"`
	Tags          []string `json:"tags"`
}

// Clone returns a deep copy of the book so that callers holding a snapshot
// cannot mutate the stored record through the shared tags slice.
func (b Book) Clone() Book {
	out := b
	if b.Tags != nil {
		out.Tags = make([]string, len(b.Tags))
		copy(out.Tags, b.Tags)
	}
	return out
}

// SplitTags converts the comma-delimited form used at string boundaries
// (forms, MCP tool arguments) into the ordered tag sequence: split on commas,
// trim each entry, drop empties. Ordering and duplicates are preserved.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinTags is the inverse boundary conversion. JoinTags then SplitTags is
// the identity for tags without embedded commas.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
