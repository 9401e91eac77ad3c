// Package store defines the catalog persistence abstraction.
//
// Every operation is a logically atomic single-record mutation; there are no
// multi-record transactions. Callers receive snapshot copies, never references
// into the store's own state.
package store

import (
	"context"

	"github.com/starford/ansuz/internal/models"
)

// Store is the interface for catalog record operations.
//
// Get returns apperr.ErrNotFound when no record has the given id; that is a
// normal outcome, distinct from a transport failure. Delete of an absent id
// is a no-op, not an error.
type Store interface {
	// List returns a snapshot copy of all records in stable insertion order.
	List(ctx context.Context) ([]models.Book, error)
	// Get returns a copy of the record with the given id.
	Get(ctx context.Context, id string) (*models.Book, error)
	// Insert stores a fully formed record as-is. The caller owns id and
	// cover assignment.
	Insert(ctx context.Context, book models.Book) error
	// Update replaces the record matching book.ID in full and returns the
	// stored result. Fails with apperr.ErrNotFound when no such id exists.
	Update(ctx context.Context, book models.Book) (*models.Book, error)
	// Delete removes the record if present.
	Delete(ctx context.Context, id string) error
	// Close releases any underlying resources.
	Close() error
}
