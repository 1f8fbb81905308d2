package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/internal/builder"
	"github.com/fulmenhq/rsaforge/internal/canon"
	"github.com/fulmenhq/rsaforge/pkg/similarity"
)

// Theme names a description angle.
type Theme string

const (
	ThemePrice     Theme = "prijs"
	ThemeUrgency   Theme = "spoed"
	ThemeReviews   Theme = "reviews"
	ThemeSolution  Theme = "oplossing"
	ThemeEase      Theme = "gemak"
	ThemeAudience  Theme = "doelgroep"
	ThemeQuoteCall Theme = "offerte"
)

// RequiredThemes are attempted first, in order.
var RequiredThemes = []Theme{ThemePrice, ThemeUrgency, ThemeReviews, ThemeSolution}

const inRegion = "{{#if region}} in {{{region}}}{{/if}}"

var descriptionTemplates = map[Theme]builder.Pool{
	ThemePrice: builder.MustPool(
		"Duidelijke en transparante prijzen voor {{{branch}}}" + inRegion + ". Vooraf inzicht in kosten, geen verborgen toeslagen.",
	),
	ThemeUrgency: builder.MustPool(
		"Spoedklus" + inRegion + "? Snel hulp van {{{article}}}{{{branch}}}" + inRegion + ". Vaak binnen 24 uur beschikbaar, ook in het weekend.",
	),
	ThemeReviews: builder.MustPool(
		"{{{branch}}}" + inRegion + " met 9+ beoordelingen. Betrouwbare service en vakmanschap.",
	),
	ThemeEase: builder.MustPool(
		"Plan online een afspraak met {{{article}}}{{{lower}}}" + inRegion + ". Kies zelf het moment dat jou past.",
	),
	ThemeAudience: builder.MustPool(
		"{{{branch}}}" + inRegion + " voor particulieren en bedrijven. Altijd een passende oplossing.",
	),
	ThemeQuoteCall: builder.MustPool(
		"Zoek je {{{article}}}{{{lower}}}" + inRegion + "? Vraag een vrijblijvende offerte aan.",
	),
}

var (
	solutionGlass = builder.MustPool(
		"Reparatie met isolatieglas" + inRegion + ". Bespaar op energie en verhoog je wooncomfort.",
	)
	solutionPlural = builder.MustPool(
		"Van advies tot montage" + inRegion + ". {{{branch}}} regelen alles voor je, inclusief garantie.",
	)
	solutionSingular = builder.MustPool(
		"Van advies tot montage" + inRegion + ". Een {{{lower}}} regelt alles voor je, inclusief garantie.",
	)
)

// fallbackThemes fill the remaining slots when a required theme was rejected.
var fallbackThemes = []Theme{ThemeEase, ThemeAudience, ThemeQuoteCall}

// TrimDescription shortens text to limit runes, preferring a sentence boundary
// and then a word boundary, provided either lies beyond the 40th rune.
func TrimDescription(text string, limit int) string {
	s := strings.TrimSpace(text)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	slice := []rune(s)[:limit]
	str := string(slice)

	end := -1
	for _, mark := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(str, mark); i >= 0 {
			end = max(end, utf8.RuneCountInString(str[:i]))
		}
	}
	if end > 40 {
		return strings.TrimSpace(string(slice[:end+1]))
	}
	if i := strings.LastIndex(str, " "); i >= 0 {
		if pos := utf8.RuneCountInString(str[:i]); pos > 40 {
			return dropDangling(string(slice[:pos]))
		}
	}
	return dropDangling(str)
}

// danglingWords read as unfinished when a cut description ends on them.
var danglingWords = map[string]bool{
	"aan": true, "bij": true, "de": true, "den": true, "een": true, "en": true,
	"het": true, "in": true, "met": true, "naar": true, "of": true, "ook": true,
	"op": true, "te": true, "tot": true, "uit": true, "van": true, "voor": true,
}

// dropDangling strips trailing stop-words and separators from a cut text,
// always keeping the first word.
func dropDangling(s string) string {
	words := strings.Fields(s)
	for len(words) > 1 && danglingWords[strings.ToLower(strings.TrimRight(words[len(words)-1], ",;:-"))] {
		words = words[:len(words)-1]
	}
	return strings.TrimRight(strings.Join(words, " "), ",;:-")
}

type description struct {
	Text  string
	Theme Theme
}

// buildDescriptions selects exactly DescriptionCount descriptions: one per
// required theme, then fallbacks, then forced fallbacks if similarity
// rejected too many.
func buildDescriptions(branch canon.Branch, region canon.Region) []description {
	article := "een "
	if branch.Plural {
		article = ""
	}
	vars := map[string]string{
		"branch":  branch.Title,
		"lower":   branch.Term,
		"article": article,
		"region":  region.Display,
	}

	render := func(theme Theme) string {
		pool := descriptionTemplates[theme]
		if theme == ThemeSolution {
			switch {
			case canon.IsGlassBranch(branch.Term):
				pool = solutionGlass
			case branch.Plural:
				pool = solutionPlural
			default:
				pool = solutionSingular
			}
		}
		return TrimDescription(pool.Render(vars)[0], DescriptionMaxLen)
	}

	c := builder.NewCollector(DescriptionCount, DescriptionMaxLen,
		builder.WithThresholds(similarity.DescriptionThresholds),
		builder.WithFirstWordCap(0),
	)
	order := append(append([]Theme{}, RequiredThemes...), fallbackThemes...)
	for _, theme := range order {
		if c.Full() {
			break
		}
		c.TryAdd(render(theme), builder.Bucket(theme))
	}
	for _, theme := range order {
		if c.Full() {
			break
		}
		c.Force(render(theme), builder.Bucket(theme))
	}

	out := make([]description, 0, DescriptionCount)
	for _, cand := range c.Candidates() {
		out = append(out, description{Text: cand.Text, Theme: Theme(cand.Bucket)})
	}
	return out
}
