// Package covers derives placeholder cover image URLs for catalog records.
package covers

import (
	"fmt"
	"net/url"
)

const (
	width  = 400
	height = 600
)

// PlaceholderURL returns a deterministic placeholder cover for a title.
// The image service seeds its output from the path, so the same title always
// yields the same cover. The URL is derived once at creation time and then
// travels with the record unchanged.
func PlaceholderURL(title string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", url.PathEscape(title), width, height)
}
