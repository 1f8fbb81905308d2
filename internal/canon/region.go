package canon

import (
	"strings"

	"github.com/fulmenhq/rsaforge/pkg/similarity"
)

var regionDisplay = map[string]string{
	"noord-holland": "Noord-Holland",
	"zuid-holland":  "Zuid-Holland",
	"noord-brabant": "Noord-Brabant",
	"gelderland":    "Gelderland",
	"utrecht":       "Utrecht",
	"friesland":     "Friesland",
	"overijssel":    "Overijssel",
	"groningen":     "Groningen",
	"drenthe":       "Drenthe",
	"flevoland":     "Flevoland",
	"limburg":       "Limburg",
	"zeeland":       "Zeeland",
}

// First entry is always the display name; the rest are shorter forms tried when
// the literal branch+region pair does not fit a headline.
var regionVariants = map[string][]string{
	"noord-brabant": {"Noord-Brabant", "Brabant", "NB"},
	"noord-holland": {"Noord-Holland", "N-Holland", "NH"},
	"zuid-holland":  {"Zuid-Holland", "Z-Holland", "ZH"},
	"gelderland":    {"Gelderland", "GLD"},
	"utrecht":       {"Utrecht", "UTR"},
	"friesland":     {"Friesland", "FRL"},
	"overijssel":    {"Overijssel", "OV"},
	"groningen":     {"Groningen", "GR"},
	"drenthe":       {"Drenthe", "DR"},
	"flevoland":     {"Flevoland", "FL"},
	"limburg":       {"Limburg", "LB"},
	"zeeland":       {"Zeeland", "ZLD"},
}

// Region is a resolved location term. The zero Region means "no location".
type Region struct {
	Code     string
	Display  string
	Variants []string
}

// ResolveRegion maps a raw location onto its display name and variants.
func ResolveRegion(raw string) Region {
	code := normalizeTerm(raw)
	if code == "" {
		return Region{}
	}
	display, ok := regionDisplay[code]
	if !ok {
		display = Title(code)
	}
	variants := regionVariants[code]
	if len(variants) == 0 {
		variants = []string{display}
	}
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if !containsString(out, v) {
			out = append(out, v)
		}
	}
	return Region{Code: code, Display: display, Variants: out}
}

// Empty reports whether no location was supplied.
func (r Region) Empty() bool { return r.Code == "" }

// Shortened returns the variants other than the display name.
func (r Region) Shortened() []string {
	if len(r.Variants) <= 1 {
		return nil
	}
	return r.Variants[1:]
}

// MatchTerms returns the normalized variants used when checking whether a
// phrase mentions the region.
func (r Region) MatchTerms() []string {
	if r.Empty() {
		return nil
	}
	terms := []string{similarity.Normalize(r.Code)}
	for _, v := range r.Variants {
		n := similarity.Normalize(v)
		if n != "" && !containsString(terms, n) {
			terms = append(terms, n)
		}
	}
	return terms
}

// MentionedIn reports whether text mentions any region variant as whole words,
// so that "GR" matches "Loodgieter GR" but not "Gratis".
func (r Region) MentionedIn(text string) bool {
	padded := " " + similarity.Normalize(text) + " "
	for _, t := range r.MatchTerms() {
		if strings.Contains(padded, " "+t+" ") {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
