package engine

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/internal/canon"
)

type sitelinkSpec struct {
	text, desc1, desc2, path string
}

var sitelinkCatalog = []sitelinkSpec{
	{"Gratis Offerte", "Vraag nu je gratis offerte aan", "Snel reactie van lokale vakman", "/offerte"},
	{"Bekijk Portfolio", "Zie onze recente projecten", "Krijg een indruk van ons werk", "/portfolio"},
	{"Contact", "Neem direct contact op", "Bel of mail voor snelle hulp", "/contact"},
	{"Over Ons", "Meer over onze diensten", "Ervaren specialisten in uw regio", "/over-ons"},
	{"Prijzen", "Transparante prijzen en tarieven", "Geen verrassingen achteraf", "/prijzen"},
	{"Recensies", "Bekijk wat klanten zeggen", "Echte ervaringen en beoordelingen", "/recensies"},
	{"FAQ", "Veelgestelde vragen beantwoord", "Snel antwoord op uw vragen", "/faq"},
	{"Blog", "Tips en advies van experts", "Handige artikelen en inspiratie", "/blog"},
}

// DefaultCallouts are used when a request carries no USPs.
var DefaultCallouts = []string{
	"Gratis Offerte",
	"24/7 Beschikbaar",
	"Ervaren Professionals",
	"Lokale Service",
	"Snelle Reactie",
	"Beste Prijzen",
	"Vrijblijvend Advies",
	"Transparante Prijzen",
}

var snippetServices = []string{"Onderhoud", "Renovatie", "Reparatie", "Advies"}

// Paths returns the two display-path segments.
func Paths(location string) (string, string) {
	return DefaultPath1, canon.PathSlug(location)
}

// FinalURL returns the landing URL. A supplied URL wins unless it is just the
// base site; otherwise the quote page for the location is used.
func FinalURL(supplied, base, location string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	supplied = strings.TrimSpace(supplied)
	if supplied != "" && strings.TrimRight(supplied, "/") != base {
		return supplied
	}
	if slug := canon.Slug(location); slug != "" {
		return base + "/" + DefaultPath1 + "/" + slug
	}
	return base + "/" + DefaultPath1
}

// origin returns scheme://host of raw, or fallback when raw does not parse
// as an absolute URL.
func origin(raw, fallback string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(fallback, "/")
	}
	return u.Scheme + "://" + u.Host
}

// Sitelinks builds the sitelink set on the origin of finalURL.
func Sitelinks(finalURL, base string) []Sitelink {
	o := origin(finalURL, base)
	out := make([]Sitelink, 0, SitelinkMax)
	for _, s := range sitelinkCatalog {
		if len(out) >= SitelinkMax {
			break
		}
		out = append(out, Sitelink{
			Text:         trimWords(s.text, SitelinkTextMaxLen),
			Description1: trimWords(s.desc1, SitelinkDescMaxLen),
			Description2: trimWords(s.desc2, SitelinkDescMaxLen),
			URL:          o + s.path,
		})
	}
	return out
}

// Callouts keeps the supplied USPs (or the defaults) that fit the callout
// limit, at most CalloutMax of them.
func Callouts(usps []string) []string {
	src := usps
	if len(src) == 0 {
		src = DefaultCallouts
	}
	out := make([]string, 0, CalloutMax)
	for _, c := range src {
		c = strings.TrimSpace(c)
		if c == "" || utf8.RuneCountInString(c) > CalloutMaxLen {
			continue
		}
		out = append(out, c)
		if len(out) == CalloutMax {
			break
		}
	}
	return out
}

// StructuredSnippets returns the services snippet for branch.
func StructuredSnippets(branch canon.Branch) []StructuredSnippet {
	values := append([]string{branch.Title + "werk"}, snippetServices...)
	if len(values) > SnippetValueMax {
		values = values[:SnippetValueMax]
	}
	return []StructuredSnippet{{Header: StructuredHeaderName, Values: values}}
}

// trimWords cuts s to at most limit runes at the last space that keeps it
// within the limit, or hard-cuts when there is none.
func trimWords(s string, limit int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= limit {
		return string(r)
	}
	head := r[:limit+1]
	for i := len(head) - 1; i > 0; i-- {
		if head[i] == ' ' {
			return strings.TrimSpace(string(head[:i]))
		}
	}
	return string(r[:limit])
}
