package catalog

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// AllCategories is the sentinel category selection that matches every record.
const AllCategories = "All"

// Filter returns the subset of books whose title or author contains search
// (case-insensitive) and whose category matches the selection. It is a pure
// function of its inputs: search == "" and category == AllCategories are both
// identities, and the snapshot is never mutated.
func Filter(books []models.Book, search, category string) []models.Book {
	needle := strings.ToLower(search)
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		matchesSearch := strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle)
		matchesCategory := category == AllCategories || category == "" || b.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, b)
		}
	}
	return out
}

// Categories derives the category option set from a snapshot: the distinct
// category values in snapshot order, prefixed with the AllCategories sentinel.
func Categories(books []models.Book) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	return out
}
