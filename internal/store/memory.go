package store

import (
	"context"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// Memory implements Store with process-lifetime in-memory state. It is the
// canonical mock backend: contents reset on restart, ids are never reused
// because they are assigned by the caller from fresh randomness.
type Memory struct {
	mu    sync.RWMutex
	books map[string]models.Book
	order []string // insertion order, so List stays stable between calls
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{books: make(map[string]models.Book)}
}

// List returns a deep-copied snapshot in insertion order.
func (m *Memory) List(_ context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Book, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.books[id].Clone())
	}
	return out, nil
}

// Get returns a copy of the record or apperr.ErrNotFound.
func (m *Memory) Get(_ context.Context, id string) (*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	c := b.Clone()
	return &c, nil
}

// Insert stores the record as-is. Inserting an id that already exists
// replaces the record in place without disturbing its list position, which
// is what seed re-sync relies on.
func (m *Memory) Insert(_ context.Context, book models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[book.ID]; !ok {
		m.order = append(m.order, book.ID)
	}
	m.books[book.ID] = book.Clone()
	return nil
}

// Update replaces the record matching book.ID in full.
func (m *Memory) Update(_ context.Context, book models.Book) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[book.ID]; !ok {
		return nil, apperr.ErrNotFound
	}
	m.books[book.ID] = book.Clone()
	stored := m.books[book.ID].Clone()
	return &stored, nil
}

// Delete removes the record if present; absent ids are a no-op.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return nil
	}
	delete(m.books, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }
