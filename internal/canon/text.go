package canon

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxPathLength is the display-path segment limit.
const MaxPathLength = 15

// Title converts s to Dutch title case, capitalizing each hyphen-separated
// part ("noord-brabant" → "Noord-Brabant", "ijsselstein" → "IJsselstein").
func Title(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Casers carry state and must not be shared across goroutines.
	return cases.Title(language.Dutch).String(s)
}

// Slug lowercases s, turns whitespace runs into hyphens and drops every
// character outside [a-z0-9-].
func Slug(s string) string {
	var sb strings.Builder
	for i, field := range strings.Fields(strings.ToLower(s)) {
		if i > 0 {
			sb.WriteByte('-')
		}
		for _, r := range field {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// PathSlug is Slug cut to the display-path limit without a dangling hyphen.
func PathSlug(s string) string {
	slug := Slug(s)
	if utf8.RuneCountInString(slug) > MaxPathLength {
		slug = slug[:MaxPathLength]
	}
	return strings.TrimRight(slug, "-")
}
