// Package cleaner normalizes scraped page text into plain language before it
// is handed to the extraction prompt.
package cleaner

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	urlRegex     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	symbolRegex  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Clean strips HTML tags and URLs, replaces everything that is not a letter,
// digit or space, and collapses runs of whitespace into single spaces.
// Deterministic and stateless.
func Clean(text string) string {
	text = htmlTagRegex.ReplaceAllString(text, "")
	text = urlRegex.ReplaceAllString(text, "")
	text = symbolRegex.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
