package builder

import (
	"github.com/aymerick/raymond"
)

// Pool is an ordered list of pre-parsed handlebars templates.
type Pool []*raymond.Template

// MustPool parses every source once; a malformed template is a programming
// error and panics at init.
func MustPool(sources ...string) Pool {
	p := make(Pool, len(sources))
	for i, src := range sources {
		p[i] = raymond.MustParse(src)
	}
	return p
}

// Render executes every template against vars in order.
func (p Pool) Render(vars map[string]string) []string {
	out := make([]string, 0, len(p))
	for _, tpl := range p {
		out = append(out, tpl.MustExec(vars))
	}
	return out
}

// Triple-stash keeps raymond from HTML-escaping ad text.
var (
	// anchorPool leads with the branch-region-intent combinations searchers
	// type, then varies word order.
	anchorPool = MustPool(
		"{{{branch}}} {{{region}}}",
		"{{{branch}}} {{{region}}} Offerte",
		"{{{branch}}} {{{region}}} Prijs",
		"{{{branch}}} {{{region}}} Kosten",
		"{{{branch}}} {{{region}}} Ervaring",
		"{{{branch}}} {{{region}}} {{{reviews}}}",
		"{{{region}}} {{{branch}}} Offerte",
		"{{{branch}}} Prijs In {{{region}}}",
		"{{{reviews}}} {{{branch}}} {{{region}}}",
		"Lokale {{{branch}}} {{{region}}} Nu",
		"Uw {{{region}}} {{{branch}}}",
		"Top {{{branch}}} Regio {{{region}}}",
		"Kosten {{{branch}}} {{{region}}}",
		"Ervaren {{{branch}}} In {{{region}}}",
		"Vraag {{{branch}}} {{{region}}} Aan",
		"Snel {{{article}}}{{{branch}}} In {{{region}}}",
		"{{{Article}}}{{{branch}}} In {{{region}}} Nodig?",
		"Beste {{{branch}}} Van {{{region}}}",
	)

	// literalFillerPool tops up literal anchors when the anchor pool and the
	// keyword phrases leave fewer than the minimum.
	literalFillerPool = MustPool(
		"{{{branch}}} {{{region}}} Service",
		"{{{branch}}} {{{region}}} Nu",
		"{{{branch}}} {{{region}}} Snel",
		"Lokale {{{branch}}} {{{region}}}",
		"Ervaren {{{branch}}} {{{region}}}",
		"Top {{{branch}}} Uit {{{region}}}",
		"Uw {{{branch}}} Voor {{{region}}}",
		"{{{branch}}} Regio {{{region}}} Nu",
		"Bel {{{region}}} {{{branch}}} Nu",
		"{{{branch}}} {{{region}}} Gezocht",
		"Uw {{{branch}}} {{{region}}} Nodig?",
		"{{{branch}}} Voor {{{region}}} Nodig?",
		"Erkende {{{branch}}} In {{{region}}}",
		"Betrouwbare {{{region}}} {{{branch}}}",
		"Spoed {{{region}}} {{{branch}}} Nu",
		"{{{region}}} {{{branch}}} Ervaring",
		"Uw {{{region}}} {{{branch}}} Kosten",
		"{{{branch}}} In {{{region}}} 24/7",
		"Goedkope {{{region}}} {{{branch}}}",
		"{{{region}}} {{{branch}}} Gezocht",
	)

	keywordWrapPool = MustPool(
		"{{{phrase}}}",
		"Vraag {{{phrase}}} Aan",
		"Direct {{{phrase}}}",
		"{{{phrase}}} Nodig?",
		"Uw {{{phrase}}}",
	)

	urgencyPool = MustPool(
		"Spoed {{{branch}}} {{{region}}}",
		"{{{branch}}} {{{region}}} Vandaag",
		"{{{branch}}} {{{region}}} Snel",
		"{{{branch}}} {{{region}}} 24/7",
		"{{{branch}}} {{{region}}} Nu",
		"{{{branch}}} {{{region}}} Service",
	)

	urgencyVariantPool = MustPool(
		"{{{branch}}} {{{region}}} Snel",
		"Spoed {{{branch}}} {{{region}}}",
		"{{{branch}}} {{{region}}} Nu",
	)

	aliasPool = MustPool(
		"{{{alias}}} {{{region}}}",
		"{{{branch}}} {{{region}}} {{{alias}}}",
		"{{{alias}}} in {{{region}}}",
	)

	offerPool = MustPool(
		"{{{offer}}} {{{branch}}}",
		"{{{branch}}} {{{offer}}}",
	)

	regionFillerPool = MustPool(
		"{{{branch}}} {{{region}}}",
		"Lokale {{{branch}}} {{{region}}}",
		"{{{branch}}} {{{region}}} Offerte",
		"{{{branch}}} {{{region}}} Prijs",
		"Top {{{branch}}} {{{region}}}",
		"Professionele {{{branch}}} {{{region}}}",
		"{{{branch}}} {{{region}}} Service",
		"Betrouwbare {{{branch}}} {{{region}}}",
	)

	branchFillerPool = MustPool(
		"Gratis Offerte {{{branch}}}",
		"Vraag {{{branch}}} Offerte",
		"Ervaren {{{branch}}}",
		"{{{branch}}} Met 9+ Score",
		"Professionele {{{branch}}}",
		"Betrouwbare {{{branch}}} Nodig?",
		"Direct {{{article}}}{{{branch}}} Inhuren",
		"Lokale {{{branch}}} Gezocht?",
		"Snel {{{article}}}{{{branch}}} Geregeld",
		"Contact Met {{{article}}}{{{branch}}}",
		"Uw {{{branch}}} Voor Elke Klus",
		"{{{branch}}} Vandaag Beschikbaar",
		"Bel Onze {{{branch}}}",
		"Top {{{branch}}}",
		"Jouw {{{branch}}}",
		"{{{branch}}} Gezocht?",
	)

	exhaustionPool = MustPool(
		"{{{pair}}}",
		"Ervaren {{{branch}}}",
		"Gratis Offerte {{{branch}}}",
	)
)

// DefaultUSPs are generic trust and benefit phrases that mention neither branch
// nor region.
var DefaultUSPs = []string{
	"Binnen 24u Reactie",
	"Afspraak Is Afspraak",
	"Transparante Prijzen",
	"Vrijblijvende Offerte",
	"9+ Beoordelingen",
	"Gratis Offerte",
	"Snelle Service",
	"Betrouwbare Professionals",
	"Lokale Experts",
	"Vakmanschap Gegarandeerd",
	"Gratis Advies",
	"Snelle Reactie",
	"Beste Prijzen",
}
