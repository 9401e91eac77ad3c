package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS books (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL DEFAULT '',
	author         TEXT NOT NULL DEFAULT '',
	isbn           TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	published_date TEXT NOT NULL DEFAULT '',
	cover_url      TEXT NOT NULL DEFAULT '',
	tags           TEXT NOT NULL DEFAULT '[]'
);
`

// SQLite implements Store on a local SQLite database. It is the drop-in
// substitute for Memory when the catalog should survive restarts; unlike the
// mock it can fail on the read path and callers surface that as a transport
// error, not as "not found".
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// List returns all records ordered by insertion sequence.
func (s *SQLite) List(ctx context.Context) ([]models.Book, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, title, author, isbn, description, category, published_date, cover_url, tags
		FROM books
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if out == nil {
		out = []models.Book{}
	}
	return out, rows.Err()
}

// Get returns the record with the given id or apperr.ErrNotFound.
func (s *SQLite) Get(ctx context.Context, id string) (*models.Book, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, title, author, isbn, description, category, published_date, cover_url, tags
		FROM books
		WHERE id = ?
	`, id)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Insert stores the record as-is. Re-inserting an existing id replaces the
// record while keeping its insertion sequence (seed re-sync relies on this).
func (s *SQLite) Insert(ctx context.Context, book models.Book) error {
	tagsJSON, _ := json.Marshal(book.Tags)
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO books (id, title, author, isbn, description, category, published_date, cover_url, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title          = excluded.title,
			author         = excluded.author,
			isbn           = excluded.isbn,
			description    = excluded.description,
			category       = excluded.category,
			published_date = excluded.published_date,
			cover_url      = excluded.cover_url,
			tags           = excluded.tags
	`, book.ID, book.Title, book.Author, book.ISBN, book.Description,
		book.Category, book.PublishedDate, book.CoverImageURL, string(tagsJSON))
	if err != nil {
		return fmt.Errorf("store: insert %s: %w", book.ID, err)
	}
	return nil
}

// Update replaces the record matching book.ID in full.
func (s *SQLite) Update(ctx context.Context, book models.Book) (*models.Book, error) {
	tagsJSON, _ := json.Marshal(book.Tags)
	res, err := s.conn.ExecContext(ctx, `
		UPDATE books SET
			title          = ?,
			author         = ?,
			isbn           = ?,
			description    = ?,
			category       = ?,
			published_date = ?,
			cover_url      = ?,
			tags           = ?
		WHERE id = ?
	`, book.Title, book.Author, book.ISBN, book.Description, book.Category,
		book.PublishedDate, book.CoverImageURL, string(tagsJSON), book.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update %s: %w", book.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: update %s: %w", book.ID, err)
	}
	if n == 0 {
		return nil, apperr.ErrNotFound
	}
	return s.Get(ctx, book.ID)
}

// Delete removes the record if present; absent ids are a no-op.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (models.Book, error) {
	var b models.Book
	var tagsJSON string
	err := s.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description,
		&b.Category, &b.PublishedDate, &b.CoverImageURL, &tagsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("store: scan: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &b.Tags); err != nil {
		b.Tags = []string{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b, nil
}
