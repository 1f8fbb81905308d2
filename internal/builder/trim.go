package builder

import (
	"strings"
	"unicode/utf8"
)

// TrimToLength shortens text to at most limit runes on word boundaries. Words are
// appended while the result still fits; a first word longer than limit is hard-cut.
func TrimToLength(text string, limit int) string {
	s := strings.TrimSpace(text)
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	var out string
	for _, w := range strings.Fields(s) {
		if out == "" {
			if utf8.RuneCountInString(w) > limit {
				return cutRunes(w, limit)
			}
			out = w
			continue
		}
		next := out + " " + w
		if utf8.RuneCountInString(next) > limit {
			break
		}
		out = next
	}
	return out
}

func cutRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
