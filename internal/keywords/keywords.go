// Package keywords derives the search keyword set, negative keywords and ad
// group layout for a service in a region.
package keywords

import (
	"strings"

	"github.com/fulmenhq/rsaforge/internal/canon"
)

// MatchType is the keyword match type understood by the ads platform.
type MatchType string

const (
	Exact  MatchType = "EXACT"
	Phrase MatchType = "PHRASE"
	Broad  MatchType = "BROAD"
)

// MinKeywords is the volume the generated set is padded to.
const MinKeywords = 10

// Keyword is a keyword in platform notation: [exact], "phrase" or broad.
type Keyword struct {
	Text      string    `json:"text" yaml:"text" toml:"text"`
	MatchType MatchType `json:"matchType" yaml:"matchType" toml:"matchType"`
}

// Intents are the purchase-intent suffixes added as phrase keywords.
var Intents = []string{"offerte", "prijs", "kosten", "goedkope", "ervaring", "recensies"}

var globalNegatives = []string{
	"gratis", "vacature", "baan", "werk", "job", "diy", "zelf doen", "tutorial",
	"cursus", "opleiding", "school", "student", "stagiaire", "internship",
	"parttime", "fulltime", "salaris", "loon", "vergoeding",
}

var branchNegatives = map[string][]string{
	"schilder":    {"verf", "kwast", "roller", "verfsoort"},
	"timmerman":   {"hout", "zaag", "gereedschap", "materiaal"},
	"elektricien": {"kabel", "draad", "schakelaar", "lamp"},
	"loodgieter":  {"buis", "kraan", "leiding", "fitting"},
}

type set struct {
	seen map[string]bool
	out  []Keyword
}

func (s *set) add(text string, mt MatchType) {
	if strings.TrimSpace(text) == "" {
		return
	}
	key := string(mt) + ":" + strings.ToLower(text)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.out = append(s.out, Keyword{Text: text, MatchType: mt})
}

func exact(s string) string  { return "[" + s + "]" }
func phrase(s string) string { return `"` + s + `"` }

// join glues words with single spaces, skipping empty ones.
func join(words ...string) string {
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

// Generate builds the keyword set for a branch and region, deduplicated by
// match type and case-insensitive text. Without a region only the branch-level
// forms are produced. The set is padded to MinKeywords where possible.
func Generate(branch canon.Branch, region canon.Region) []Keyword {
	b := branch.Term
	if b == "" {
		return nil
	}
	r := strings.ToLower(region.Display)
	s := &set{seen: make(map[string]bool)}

	if r != "" {
		s.add(exact(join(b, r)), Exact)
		s.add(exact(join(b, "in", r)), Exact)
		s.add(phrase(join(b, r)), Phrase)
		s.add(phrase(join(b, "in", r)), Phrase)
		s.add(join(b, r), Broad)
	}
	s.add(phrase(b), Phrase)
	s.add(b, Broad)

	for _, intent := range Intents {
		if intent == "goedkope" {
			s.add(phrase(join(intent, b, r)), Phrase)
			continue
		}
		s.add(phrase(join(b, r, intent)), Phrase)
	}

	padding := []Keyword{
		{phrase(join(b, "offerte")), Phrase},
		{phrase(join(b, "prijs")), Phrase},
		{phrase(join(b, "kosten")), Phrase},
		{exact(b), Exact},
		{join(b, "offerte"), Broad},
		{join(b, "prijs"), Broad},
		{join(b, "kosten"), Broad},
	}
	for _, k := range padding {
		if len(s.out) >= MinKeywords {
			break
		}
		s.add(k.Text, k.MatchType)
	}
	return s.out
}

// Negatives returns the global negative keywords plus those specific to the
// branch.
func Negatives(branch canon.Branch) []string {
	out := append([]string(nil), globalNegatives...)
	return append(out, branchNegatives[branch.Term]...)
}

// Texts returns the keyword texts in platform notation, suitable as a request
// keyword list.
func Texts(kws []Keyword) []string {
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = k.Text
	}
	return out
}
