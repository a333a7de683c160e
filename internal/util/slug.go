package util

import (
	"regexp"
	"strings"
)

const slugMaxLength = 50

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL-safe identifier from a human-readable name:
// lower-case, drop everything but letters, digits, hyphens and spaces,
// collapse whitespace runs into single hyphens, collapse repeated hyphens,
// and truncate to 50 characters. Deterministic and pure.
func GenerateSlug(name string) string {
	s := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		}
	}

	s = strings.TrimSpace(b.String())
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > slugMaxLength {
		s = strings.Trim(s[:slugMaxLength], "-")
	}
	return s
}
