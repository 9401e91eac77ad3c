package store

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchSeed_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seedPath, []byte(seedYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncs atomic.Int64
	go WatchSeed(ctx, m, seedPath, discardLogger(), func() {
		syncs.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	revised := seedYAML + `  - title: Annihilation
    author: Jeff VanderMeer
    isbn: "9780374104092"
    description: An expedition enters Area X.
    category: Science Fiction
    published_date: "2014-02-04"
`
	if err := os.WriteFile(seedPath, []byte(revised), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		books, _ := m.List(context.Background())
		return len(books) == 3
	}, "seed change not applied by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		return syncs.Load() >= 1
	}, "sync callback not invoked")
}

func TestWatchSeed_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seedPath, []byte(seedYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncs atomic.Int64
	go WatchSeed(ctx, m, seedPath, discardLogger(), func() {
		syncs.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("books: []"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	if n := syncs.Load(); n != 0 {
		t.Errorf("sibling file triggered %d syncs", n)
	}
}
