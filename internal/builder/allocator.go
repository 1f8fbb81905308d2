package builder

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/internal/canon"
	"github.com/fulmenhq/rsaforge/pkg/logger"
)

const (
	// HeadlineCount is the exact number of headlines a bundle carries.
	HeadlineCount = 15
	// HeadlineMaxLen is the per-headline character budget.
	HeadlineMaxLen = 30

	maxUSP         = 3
	maxUrgency     = 3
	maxAlias       = 2
	aliasMinRegion = 10
	aliasMinCover  = 95.0
	aliasMinFilled = 12

	// bareLongPairLen is the length above which the plain branch+region pair
	// is tried only after its extended forms.
	bareLongPairLen = 20
)

// Input is everything the allocator needs to know about one request.
type Input struct {
	Branch   canon.Branch
	Region   canon.Region
	Keywords []string
	USPs     []string
	Offer    string
	// Variant rotates the USP and branch filler pools so successive attempts
	// explore different wording. Variant 0 is the canonical ordering.
	Variant int
}

// Stats summarizes how the allocator filled the slots.
type Stats struct {
	MinAnchors      int            `json:"minAnchors" yaml:"minAnchors"`
	LiteralAnchors  int            `json:"literalAnchors" yaml:"literalAnchors"`
	RegionMentions  int            `json:"regionMentions" yaml:"regionMentions"`
	KeywordTargets  int            `json:"keywordTargets" yaml:"keywordTargets"`
	KeywordsCovered int            `json:"keywordsCovered" yaml:"keywordsCovered"`
	// KeywordsMissing lists targeted phrases absent verbatim from the headlines.
	KeywordsMissing []string       `json:"keywordsMissing,omitempty" yaml:"keywordsMissing,omitempty"`
	Coverage        float64        `json:"coverage" yaml:"coverage"`
	AliasesAllowed  bool           `json:"aliasesAllowed" yaml:"aliasesAllowed"`
	Buckets         map[Bucket]int `json:"buckets" yaml:"buckets"`
}

// Result is the allocator output.
type Result struct {
	Headlines  []string
	Candidates []Candidate
	// Relaxed lists headlines accepted without the similarity and first-word
	// rules: forced keyword phrases and the exhaustion fallback.
	Relaxed []string
	Stats   Stats
}

type allocation struct {
	in      Input
	c       *Collector
	vars    map[string]string
	pair    string
	fits    bool
	minA    int
	uspPool []string
	targets []string
}

// Allocate fills exactly HeadlineCount headlines in bucket order: keyword
// phrases that carry the region, literal anchors, the remaining keyword
// phrases, pure USPs, urgency variants, gated aliases, then the filler cascade
// and, if pools run dry, the relaxed exhaustion fallback.
//
// Variant 0 places every region-bearing keyword phrase verbatim even when that
// means relaxing the similarity rules for it; other variants never relax them.
func Allocate(in Input) Result {
	a := newAllocation(in)
	a.regionalKeywords()
	a.anchors()
	a.keywords()
	a.backfillAnchors()
	a.usps()
	a.urgency()
	allowed := a.aliases()
	a.fillers()
	a.exhaust()

	st := a.stats()
	st.KeywordTargets = len(a.targets)
	for _, p := range a.targets {
		if a.covered(p) {
			st.KeywordsCovered++
		} else {
			st.KeywordsMissing = append(st.KeywordsMissing, p)
		}
	}
	st.AliasesAllowed = allowed
	return Result{
		Headlines:  a.c.Items(),
		Candidates: a.c.Candidates(),
		Relaxed:    a.c.Relaxed(),
		Stats:      st,
	}
}

func newAllocation(in Input) *allocation {
	a := &allocation{
		in: in,
		c:  NewCollector(HeadlineCount, HeadlineMaxLen),
	}
	article, articleCap := "Een ", "Een "
	if in.Branch.Plural {
		article, articleCap = "", ""
	}
	reviews := "Reviews"
	for _, k := range in.Keywords {
		if strings.Contains(strings.ToLower(k), "recensies") {
			reviews = "Recensies"
			break
		}
	}
	a.vars = map[string]string{
		"branch":  in.Branch.Title,
		"region":  in.Region.Display,
		"reviews": reviews,
		"article": strings.ToLower(article),
		"Article": articleCap,
		"offer":   strings.TrimSpace(in.Offer),
	}
	if !in.Region.Empty() {
		a.pair = in.Branch.Title + " " + in.Region.Display
		a.fits = utf8.RuneCountInString(a.pair) <= HeadlineMaxLen
		a.vars["pair"] = a.pair
	} else {
		a.vars["pair"] = in.Branch.Title
	}
	switch {
	case in.Region.Empty():
		a.minA = 0
	case !a.fits:
		a.minA = 4
	case in.Branch.LongSensitive:
		a.minA = 10
	default:
		a.minA = 8
	}
	a.uspPool = append(append([]string{}, in.USPs...), rotate(DefaultUSPs, in.Variant)...)
	eligible := EligiblePhrases(in.Keywords, in.Branch, in.Region, HeadlineMaxLen)
	for _, p := range eligible[:min(len(eligible), MaxKeywordSlots, a.c.Remaining())] {
		a.targets = append(a.targets, p.Text)
	}
	return a
}

func (a *allocation) with(kv ...string) map[string]string {
	m := make(map[string]string, len(a.vars)+len(kv)/2)
	for k, v := range a.vars {
		m[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// literalCount counts headlines naming both the region and the branch term.
func (a *allocation) literalCount() int {
	if a.in.Region.Empty() {
		return 0
	}
	n := 0
	for _, h := range a.c.Items() {
		if a.in.Region.MentionedIn(h) && strings.Contains(strings.ToLower(h), a.in.Branch.Term) {
			n++
		}
	}
	return n
}

// covered reports whether phrase appears verbatim, ignoring case, in a headline.
func (a *allocation) covered(phrase string) bool {
	for _, h := range a.c.Items() {
		if strings.Contains(strings.ToLower(h), phrase) {
			return true
		}
	}
	return false
}

// wraps renders the headline candidates for one keyword phrase.
func (a *allocation) wraps(phrase string) []string {
	title := canon.Title(phrase)
	out := keywordWrapPool.Render(a.with("phrase", title))
	if !a.in.Region.Empty() && !a.in.Region.MentionedIn(phrase) {
		out = append(out, title+" "+a.in.Region.Display)
	}
	return out
}

func (a *allocation) regionalTargets() []string {
	var out []string
	if a.in.Region.Empty() {
		return out
	}
	for _, p := range a.targets {
		if a.in.Region.MentionedIn(p) {
			out = append(out, p)
		}
	}
	return out
}

// regionalKeywords places keyword phrases that already name the region ahead of
// the anchor pool; they double as literal anchors.
func (a *allocation) regionalKeywords() {
	regional := a.regionalTargets()
	for _, p := range regional {
		for _, text := range a.wraps(p) {
			if a.c.TryAdd(text, BucketKeyword) {
				break
			}
		}
	}
	if a.in.Variant != 0 {
		return
	}
	for _, p := range regional {
		if !a.covered(p) {
			a.c.Force(canon.Title(p), BucketKeyword)
		}
	}
}

// bareLongPair reports whether text is the plain branch+region pair and long
// enough that it would crowd out the phrases that extend it.
func (a *allocation) bareLongPair(text, region string) bool {
	return a.fits && region == a.in.Region.Display &&
		text == a.in.Branch.Title+" "+region && utf8.RuneCountInString(text) > bareLongPairLen
}

// anchors fills bucket A with literal branch+region headlines until the
// minimum is met. When the pair exceeds the headline budget the shortened
// region variants stand in.
func (a *allocation) anchors() {
	if a.in.Region.Empty() {
		return
	}
	regions := []string{a.in.Region.Display}
	if !a.fits {
		regions = a.in.Region.Shortened()
	}
	for _, r := range regions {
		for _, text := range anchorPool.Render(a.with("region", r)) {
			if a.literalCount() >= a.minA || a.c.Full() {
				return
			}
			if a.bareLongPair(text, r) {
				continue
			}
			a.c.TryAdd(text, BucketAnchor)
		}
	}
}

// keywords covers the remaining target phrases. A phrase no wrapper can place
// displaces the headlines blocking its bare form unless one of them is itself
// a keyword headline or covers another target.
func (a *allocation) keywords() {
	for _, p := range a.targets {
		if a.covered(p) {
			continue
		}
		placed := false
		for _, text := range a.wraps(p) {
			if a.c.TryAdd(text, BucketKeyword) {
				placed = true
				break
			}
		}
		if !placed {
			a.displace(canon.Title(p))
		}
	}
}

func (a *allocation) displace(text string) bool {
	if utf8.RuneCountInString(text) > HeadlineMaxLen {
		return false
	}
	if a.c.Contains(text) {
		return true
	}
	blockers := a.c.Blockers(text)
	items := a.c.Candidates()
	for _, i := range blockers {
		if items[i].Bucket == BucketKeyword || a.coversTarget(items[i].Text) {
			return false
		}
	}
	for j := len(blockers) - 1; j >= 0; j-- {
		removed := a.c.Remove(blockers[j])
		logger.Debug("headline displaced by keyword phrase",
			logger.String("removed", removed.Text),
			logger.String("phrase", text),
		)
	}
	return a.c.TryAdd(text, BucketKeyword)
}

func (a *allocation) coversTarget(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range a.targets {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// backfillAnchors tops up literal anchors with the literal filler pool, the
// anchor pool over every region variant, and finally the bare pairs.
func (a *allocation) backfillAnchors() {
	if a.in.Region.Empty() || a.literalCount() >= a.minA {
		return
	}
	regions := a.in.Region.Shortened()
	if a.fits {
		regions = append([]string{a.in.Region.Display}, regions...)
	}
	for _, r := range regions {
		vars := a.with("region", r)
		for _, text := range append(literalFillerPool.Render(vars), anchorPool.Render(vars)...) {
			if a.literalCount() >= a.minA || a.c.Full() {
				break
			}
			if a.bareLongPair(text, r) {
				continue
			}
			a.c.TryAdd(text, BucketAnchor)
		}
	}
	for _, r := range regions {
		if a.literalCount() >= a.minA || a.c.Full() {
			return
		}
		a.c.TryAdd(a.in.Branch.Title+" "+r, BucketAnchor)
	}
}

func (a *allocation) usps() {
	for _, u := range a.uspPool {
		if a.c.Count(BucketUSP) >= maxUSP || a.c.Full() {
			return
		}
		a.c.TryAddTrimmed(u, BucketUSP)
	}
}

func (a *allocation) urgency() {
	if a.in.Region.Empty() {
		return
	}
	for _, text := range urgencyPool.Render(a.vars) {
		if a.c.Count(BucketUrgency) >= maxUrgency || a.c.Full() {
			return
		}
		a.c.TryAdd(text, BucketUrgency)
	}
	for _, v := range a.in.Region.Shortened() {
		if a.c.Count(BucketUrgency) >= maxUrgency || a.c.Full() {
			return
		}
		for _, text := range urgencyVariantPool.Render(a.with("region", v)) {
			if a.c.TryAdd(text, BucketUrgency) {
				break
			}
		}
	}
}

// aliases adds semantic alias headlines only once literal coverage is secure.
func (a *allocation) aliases() bool {
	if a.in.Region.Empty() || len(a.in.Branch.Aliases) == 0 {
		return false
	}
	st := a.stats()
	if st.LiteralAnchors < a.minA || st.RegionMentions < aliasMinRegion ||
		st.Coverage < aliasMinCover || a.c.Len() < aliasMinFilled {
		return false
	}
	for _, alias := range a.in.Branch.Aliases[:min(len(a.in.Branch.Aliases), maxAlias)] {
		if a.c.Count(BucketAlias) >= maxAlias || a.c.Full() {
			break
		}
		for _, text := range aliasPool.Render(a.with("alias", canon.Title(alias))) {
			if a.c.TryAdd(text, BucketAlias) {
				break
			}
		}
	}
	return true
}

// fillers runs the cascade: region-aware, branch-only, then generic USPs. The
// generic stage is not bound by the pure-USP cap.
func (a *allocation) fillers() {
	if !a.in.Region.Empty() {
		var pool []string
		if a.vars["offer"] != "" {
			pool = append(pool, offerPool.Render(a.vars)...)
		}
		pool = append(pool, regionFillerPool.Render(a.vars)...)
		for _, text := range pool {
			if a.c.Full() {
				return
			}
			a.c.TryAdd(text, BucketRegionFiller)
		}
	} else if a.vars["offer"] != "" {
		for _, text := range offerPool.Render(a.vars) {
			a.c.TryAdd(text, BucketBranchFiller)
		}
	}
	for _, text := range rotate(branchFillerPool.Render(a.vars), a.in.Variant) {
		if a.c.Full() {
			return
		}
		a.c.TryAdd(text, BucketBranchFiller)
	}
	for _, u := range a.uspPool {
		if a.c.Full() {
			return
		}
		a.c.TryAddTrimmed(u, BucketGeneric)
	}
}

// exhaust guarantees the exact headline count by relaxing the similarity and
// first-word rules, then by numbering the pair.
func (a *allocation) exhaust() {
	if a.c.Full() {
		return
	}
	for _, text := range append(exhaustionPool.Render(a.vars), a.uspPool...) {
		if a.c.Full() {
			return
		}
		a.c.Force(text, BucketForced)
	}
	base := a.vars["pair"]
	if !a.fits {
		base = a.in.Branch.Title
	}
	for n := 1; !a.c.Full(); n++ {
		suffix := " " + strconv.Itoa(n)
		a.c.Force(cutRunes(base, HeadlineMaxLen-utf8.RuneCountInString(suffix))+suffix, BucketForced)
	}
}

func (a *allocation) stats() Stats {
	st := Stats{MinAnchors: a.minA, Buckets: make(map[Bucket]int)}
	items := a.c.Items()
	for _, cand := range a.c.Candidates() {
		st.Buckets[cand.Bucket]++
	}
	if !a.in.Region.Empty() {
		for _, h := range items {
			if !a.in.Region.MentionedIn(h) {
				continue
			}
			st.RegionMentions++
			if strings.Contains(strings.ToLower(h), a.in.Branch.Term) {
				st.LiteralAnchors++
			}
		}
	}
	st.Coverage = KeywordCoverage(a.in.Keywords, items)
	return st
}

func rotate[T any](s []T, n int) []T {
	out := make([]T, 0, len(s))
	if len(s) == 0 {
		return out
	}
	k := ((n % len(s)) + len(s)) % len(s)
	out = append(out, s[k:]...)
	return append(out, s[:k]...)
}
