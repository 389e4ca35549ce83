// Package slug provides URL-friendly slug generation from post titles.
package slug

import (
	"strings"
	"unicode"
)

// Make converts a title into a lowercase hyphen-separated slug.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
