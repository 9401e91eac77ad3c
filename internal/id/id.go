// Package id generates opaque unique identifiers for catalog records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BookPrefix is the prefix for book record IDs.
const BookPrefix = "book"

// New creates a prefixed unique ID using NanoID (21 URL-safe characters),
// e.g. "book-V1StGXR8_Z5jdHi6B-myT". Returns an error only when the system
// cannot provide secure randomness.
func New(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("id: generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustNew is like New but panics on failure. IDs are assigned on user-driven
// create paths where an entropy failure should crash loudly.
func MustNew(prefix string) string {
	nid, err := New(prefix)
	if err != nil {
		panic(err)
	}
	return nid
}
