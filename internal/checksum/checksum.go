// Package checksum computes record checksums used as ETags for optimistic
// concurrency on catalog updates.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/starford/ansuz/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Record returns the checksum of a book's canonical JSON encoding. Equal
// records always produce the same checksum, so a stale If-Match reliably
// detects a concurrent edit.
func Record(b models.Book) string {
	data, _ := json.Marshal(b)
	return Sum(data)
}
