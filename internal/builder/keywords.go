package builder

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/internal/canon"
)

// MaxKeywordSlots bounds the headline slots reserved for exact keyword phrases.
const MaxKeywordSlots = 6

// IntentTokens mark a keyword phrase as carrying purchase intent.
var IntentTokens = []string{"offerte", "prijs", "kosten", "ervaring", "recensies", "reviews", "goedkope"}

// Priority ranks eligible keyword phrases; lower sorts first.
type Priority int

const (
	PriorityRegionIntent Priority = 1
	PriorityRegion       Priority = 2
	PriorityRegionIn     Priority = 3
	PriorityBranchOnly   Priority = 4
)

// KeywordPhrase is a cleaned keyword eligible for verbatim headline coverage.
type KeywordPhrase struct {
	Text     string   `json:"text" yaml:"text"`
	Priority Priority `json:"priority" yaml:"priority"`
	// Index is the position in the supplied keyword list.
	Index int `json:"index" yaml:"index"`
}

// CleanKeyword strips match-type wrapping ([exact], "phrase", +broad) and
// collapses whitespace. Case is preserved.
func CleanKeyword(k string) string {
	k = strings.NewReplacer("[", "", "]", "", `"`, "", "+", "").Replace(k)
	return strings.Join(strings.Fields(k), " ")
}

// EligiblePhrases selects keywords that contain the canonical branch term and
// fit in maxLen runes, dedups them case-insensitively, and orders them by
// priority, then length, then input order.
func EligiblePhrases(keywords []string, branch canon.Branch, region canon.Region, maxLen int) []KeywordPhrase {
	seen := make(map[string]bool)
	var out []KeywordPhrase
	for i, raw := range keywords {
		text := strings.ToLower(CleanKeyword(raw))
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		if utf8.RuneCountInString(text) > maxLen || branch.Term == "" || !strings.Contains(text, branch.Term) {
			continue
		}
		out = append(out, KeywordPhrase{Text: text, Priority: phrasePriority(text, region), Index: i})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		la, lb := utf8.RuneCountInString(a.Text), utf8.RuneCountInString(b.Text)
		if la != lb {
			return la < lb
		}
		return a.Index < b.Index
	})
	return out
}

func phrasePriority(text string, region canon.Region) Priority {
	if region.Empty() || !region.MentionedIn(text) {
		return PriorityBranchOnly
	}
	for _, tok := range IntentTokens {
		if strings.Contains(text, tok) {
			return PriorityRegionIntent
		}
	}
	if strings.Contains(text, " in ") {
		return PriorityRegionIn
	}
	return PriorityRegion
}

// KeywordCoverage estimates the percentage of keywords whose significant words
// (longer than two runes) all appear somewhere in texts. An empty keyword list
// is fully covered.
func KeywordCoverage(keywords []string, texts []string) float64 {
	if len(keywords) == 0 {
		return 100
	}
	joined := strings.ToLower(strings.Join(texts, "\n"))
	covered := 0
	for _, k := range keywords {
		var words []string
		for _, w := range strings.Fields(strings.ToLower(CleanKeyword(k))) {
			if utf8.RuneCountInString(w) > 2 {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(joined, w) {
				all = false
				break
			}
		}
		if all {
			covered++
		}
	}
	return float64(covered) * 100 / float64(len(keywords))
}
