package id

import (
	"strings"
	"testing"
)

func TestNewCarriesPrefix(t *testing.T) {
	got, err := New(BookPrefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.HasPrefix(got, "book-") {
		t.Errorf("id = %q, want book- prefix", got)
	}
}

func TestMustNewIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := MustNew(BookPrefix)
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
