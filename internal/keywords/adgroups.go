package keywords

import (
	"strings"

	"github.com/fulmenhq/rsaforge/internal/canon"
)

// GroupType selects the keyword filter of an ad group.
type GroupType string

const (
	GroupLocation GroupType = "location"
	GroupIntent   GroupType = "intent"
	GroupUrgency  GroupType = "urgency"
)

// minGroupVolume is the keyword count below which a group borrows extra
// keywords from the full set.
const minGroupVolume = 8

// AdGroup is one themed ad group with the keywords assigned to it.
type AdGroup struct {
	Name        string    `json:"name" yaml:"name"`
	Type        GroupType `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	Keywords    []Keyword `json:"keywords" yaml:"keywords"`
}

// AdGroups lays out the location, intent and urgency groups and assigns each
// the matching subset of kws.
func AdGroups(branch canon.Branch, region canon.Region, kws []Keyword) []AdGroup {
	groups := []AdGroup{
		{Name: join(branch.Title, region.Display), Type: GroupLocation, Description: "Service + Location keywords"},
		{Name: join(branch.Title, "Offerte", region.Display), Type: GroupIntent, Description: "Service + Intent keywords (offerte, prijs, kosten)"},
		{Name: join("Spoed", branch.Title, region.Display), Type: GroupUrgency, Description: "Urgency-based keywords (spoed, snel, vandaag)"},
	}
	for i := range groups {
		groups[i].Keywords = Filter(kws, groups[i].Type, branch, region)
	}
	return groups
}

// Filter selects the keywords for an ad group type. Location groups drop
// urgency terms, intent groups keep price and quote terms, and urgency groups
// get dedicated spoed keywords plus everything not about quotes. Sparse
// location and intent groups are topped up from the remaining keywords.
func Filter(kws []Keyword, t GroupType, branch canon.Branch, region canon.Region) []Keyword {
	switch t {
	case GroupLocation:
		loc := pick(kws, func(s string) bool { return !containsAny(s, "spoed", "snel") })
		if len(loc) < minGroupVolume {
			loc = pick(kws, func(s string) bool { return !containsAny(s, "spoed") })
		}
		return loc
	case GroupIntent:
		isIntent := func(s string) bool { return containsAny(s, "offerte", "prijs", "kosten", "goedkope") }
		intent := pick(kws, isIntent)
		if len(intent) < minGroupVolume {
			intent = append(intent, pick(kws, func(s string) bool {
				return !isIntent(s) && !containsAny(s, "spoed", "snel")
			})...)
		}
		return intent
	case GroupUrgency:
		b, r := branch.Term, strings.ToLower(region.Display)
		out := []Keyword{
			{exact(join("spoed", b, r)), Exact},
			{phrase(join("spoed", b, r)), Phrase},
			{exact(join(b, r, "vandaag")), Exact},
			{phrase(join(b, r, "snel")), Phrase},
		}
		return append(out, pick(kws, func(s string) bool { return !containsAny(s, "offerte") })...)
	default:
		return append([]Keyword(nil), kws...)
	}
}

func pick(kws []Keyword, keep func(lower string) bool) []Keyword {
	var out []Keyword
	for _, k := range kws {
		if keep(strings.ToLower(k.Text)) {
			out = append(out, k)
		}
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
