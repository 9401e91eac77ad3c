package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-store-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteInsertGet(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	want := book("book-1", "One")
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Get(ctx, "book-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("Get = %+v, want %+v", *got, want)
	}
}

func TestSQLiteGetNotFound(t *testing.T) {
	s := testSQLite(t)
	_, err := s.Get(context.Background(), "book-missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteListKeepsInsertionOrder(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	for _, id := range []string{"book-z", "book-a", "book-m"} {
		if err := s.Insert(ctx, book(id, id)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	books, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, want := range []string{"book-z", "book-a", "book-m"} {
		if books[i].ID != want {
			t.Errorf("books[%d].ID = %s, want %s", i, books[i].ID, want)
		}
	}
}

func TestSQLiteInsertUpserts(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	s.Insert(ctx, book("book-1", "One"))
	s.Insert(ctx, book("book-2", "Two"))
	if err := s.Insert(ctx, book("book-1", "One Revised")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	books, _ := s.List(ctx)
	if len(books) != 2 {
		t.Fatalf("len = %d, want 2", len(books))
	}
	if books[0].ID != "book-1" || books[0].Title != "One Revised" {
		t.Errorf("books[0] = %s %q, want book-1 revised in original position", books[0].ID, books[0].Title)
	}
}

func TestSQLiteUpdate(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()
	s.Insert(ctx, book("book-1", "One"))

	b := book("book-1", "One Edited")
	b.Tags = []string{"edited"}
	got, err := s.Update(ctx, b)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "One Edited" || got.Tags[0] != "edited" {
		t.Errorf("Update returned %+v", got)
	}

	_, err = s.Update(ctx, book("book-missing", "X"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("update missing err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()
	s.Insert(ctx, book("book-1", "One"))

	if err := s.Delete(ctx, "book-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "book-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("after delete err = %v, want ErrNotFound", err)
	}
	// Absent id is a no-op.
	if err := s.Delete(ctx, "book-1"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSQLiteEmptyTags(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	b := book("book-1", "One")
	b.Tags = []string{}
	s.Insert(ctx, b)

	got, err := s.Get(ctx, "book-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", got.Tags)
	}
}
