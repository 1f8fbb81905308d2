// Package similarity provides the text comparison primitives used to keep ad
// copy free of duplicates: normalization, token-set Jaccard similarity, edit
// distance and the combined near-duplicate predicate.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Thresholds configures IsNearDuplicate. A pair is a near-duplicate when its
// Jaccard similarity is at least Jaccard or its length-normalized edit distance
// is at most Levenshtein.
type Thresholds struct {
	Jaccard     float64
	Levenshtein float64
}

var (
	// HeadlineThresholds is the default pair used for headlines.
	HeadlineThresholds = Thresholds{Jaccard: 0.7, Levenshtein: 0.3}
	// DescriptionThresholds is stricter on token overlap since sentence-level
	// sameness reads as repetition sooner.
	DescriptionThresholds = Thresholds{Jaccard: 0.6, Levenshtein: 0.3}
)

// Pair identifies two near-duplicate entries by index.
type Pair struct {
	Index1 int    `json:"index1" yaml:"index1"`
	Index2 int    `json:"index2" yaml:"index2"`
	Text1  string `json:"text1" yaml:"text1"`
	Text2  string `json:"text2" yaml:"text2"`
}

// Normalize lowercases text, strips everything that is not a letter, digit,
// underscore or whitespace, and collapses runs of whitespace to one space.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Jaccard returns |A∩B| / |A∪B| over the whitespace tokens of the normalized
// inputs. Two empty inputs are identical (1.0); exactly one empty input shares
// nothing (0.0).
func Jaccard(a, b string) float64 {
	ta := tokenSet(Normalize(a))
	tb := tokenSet(Normalize(b))
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// IsNearDuplicate reports whether a and b are the same text for ad purposes:
// equal after normalization, or similar enough by token overlap or by edit
// distance relative to the longer normalized string.
func IsNearDuplicate(a, b string, th Thresholds) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return false
	}
	if Jaccard(na, nb) >= th.Jaccard {
		return true
	}
	maxLen := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	return float64(Levenshtein(na, nb))/float64(maxLen) <= th.Levenshtein
}

// IsTooSimilar reports whether candidate is a near-duplicate of any existing entry.
func IsTooSimilar(candidate string, existing []string, th Thresholds) bool {
	for _, e := range existing {
		if IsNearDuplicate(candidate, e, th) {
			return true
		}
	}
	return false
}

// FindNearDuplicates returns every near-duplicate pair (i < j) in items.
func FindNearDuplicates(items []string, th Thresholds) []Pair {
	var pairs []Pair
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if IsNearDuplicate(items[i], items[j], th) {
				pairs = append(pairs, Pair{Index1: i, Index2: j, Text1: items[i], Text2: items[j]})
			}
		}
	}
	return pairs
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
