// Package canon holds the canonical branch and region tables the ad engine
// anchors on. Singular and plural branch forms are separate canonical terms and
// are never derived from one another.
package canon

import "strings"

// MaxAliases bounds the semantic aliases handed to the allocator per branch.
const MaxAliases = 3

var branchCanonical = map[string]string{
	"dakdekker":            "dakdekker",
	"dakdekkers":           "dakdekkers",
	"elektricien":          "elektricien",
	"glaszetter":           "glaszetter",
	"glaszetters":          "glaszetters",
	"hovenier":             "hovenier",
	"hoveniers":            "hoveniers",
	"installatiebedrijf":   "installatiebedrijf",
	"installatiebedrijven": "installatiebedrijven",
	"loodgieter":           "loodgieter",
	"schilder":             "schilder",
	"schilders":            "schilders",
	"timmerman":            "timmerman",
}

var explicitPlurals = map[string]bool{
	"dakdekkers":           true,
	"glaszetters":          true,
	"schilders":            true,
	"installatiebedrijven": true,
	"hoveniers":            true,
}

// Compound or plural branch terms eat most of a 30-character headline, so the
// allocator asks for more literal anchors to keep coverage up.
var longSensitive = map[string]bool{
	"installatiebedrijven": true,
	"glaszetters":          true,
	"dakdekkers":           true,
	"schilders":            true,
}

// Aliases are diversity filler only and never stand in for the branch term.
var branchAliases = map[string][]string{
	"dakdekker":            {"dakreparatie", "dakinspectie", "dak specialist", "dakwerker", "dakonderhoud"},
	"dakdekkers":           {"dakdekkersbedrijf", "dakreparatie", "dakinspectie", "dak specialisten"},
	"elektricien":          {"elektra", "elektrabedrijf", "groepenkast", "stroomstoring", "laadpaal installateur", "woning elektra"},
	"glaszetter":           {"glasservice", "ruitherstel", "isolatieglas", "ruitschade service"},
	"glaszetters":          {"glaszetter", "glasservice", "isolatieglas specialist", "ruitschade service"},
	"hovenier":             {"tuinman", "tuinaanleg", "tuinonderhoud", "bestrating", "groenvoorziening"},
	"hoveniers":            {"hovenier", "tuinman", "tuinaanleg", "tuinonderhoud", "groenvoorziening"},
	"installatiebedrijf":   {"installateur", "cv installateur", "warmtepomp installateur", "klimaatinstallateur", "service monteur"},
	"installatiebedrijven": {"installateur", "installatiebedrijf", "cv installateur", "warmtepomp installateur", "klimaatinstallateur", "loodgieter en installateur"},
	"loodgieter":           {"sanitair specialist", "cv monteur", "riolering service", "lekdetectie", "waterleiding"},
	"schilder":             {"schildersbedrijf", "binnenschilder", "buitenschilder", "verfspuiter", "houtrot herstel"},
	"schilders":            {"schilder", "schildersbedrijf", "binnenschilder", "buitenschilder"},
	"timmerman":            {"timmerbedrijf", "interieurbouwer", "kozijnen specialist", "renovatie timmerwerk", "maatwerk hout"},
}

// Branch is a resolved service term.
type Branch struct {
	// Term is the canonical lowercase form used for literal matching.
	Term string
	// Title is Term in Dutch title case, as it appears in headlines.
	Title         string
	Plural        bool
	LongSensitive bool
	Aliases       []string
}

// ResolveBranch maps a raw service term onto its canonical form. Unknown
// branches pass through lowercased and whitespace-collapsed.
func ResolveBranch(raw string) Branch {
	b := normalizeTerm(raw)
	if c, ok := branchCanonical[b]; ok {
		b = c
	}
	return Branch{
		Term:          b,
		Title:         Title(b),
		Plural:        IsPlural(b),
		LongSensitive: longSensitive[b],
		Aliases:       Aliases(b),
	}
}

// IsPlural classifies a branch term as plural using the explicit list first and
// a suffix heuristic second: "-en", or "-s" but not "-us".
func IsPlural(branch string) bool {
	b := normalizeTerm(branch)
	if explicitPlurals[b] {
		return true
	}
	return strings.HasSuffix(b, "en") || (strings.HasSuffix(b, "s") && !strings.HasSuffix(b, "us"))
}

// Aliases returns at most MaxAliases semantic aliases for a branch.
func Aliases(branch string) []string {
	all := branchAliases[normalizeTerm(branch)]
	if len(all) > MaxAliases {
		all = all[:MaxAliases]
	}
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// IsGlassBranch reports whether the branch works with glass or windows, which
// selects a dedicated process description.
func IsGlassBranch(branch string) bool {
	b := normalizeTerm(branch)
	return strings.Contains(b, "glas") || strings.Contains(b, "ruit")
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
