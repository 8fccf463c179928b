// Package slug derives url-safe identifiers from display names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxLen = 100

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	validShape = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make lower-cases s, strips diacritics and collapses every run of
// characters outside [a-z0-9] into a single hyphen. The result never starts
// or ends with a hyphen and may be empty.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := nonAlnum.ReplaceAllString(b.String(), "-")
	out = strings.Trim(out, "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return len(s) <= maxLen && validShape.MatchString(s)
}

// WithSuffix returns base-n, used when base is already taken.
func WithSuffix(base string, n int) string {
	suffix := "-" + strconv.Itoa(n)
	if len(base)+len(suffix) > maxLen {
		base = strings.TrimRight(base[:maxLen-len(suffix)], "-")
	}
	return base + suffix
}
