// Package gate scores an asset bundle against the ad-copy quality rules and
// decides whether it may ship.
package gate

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/pkg/similarity"
)

const (
	HeadlineCount     = 15
	HeadlineMaxLen    = 30
	DescriptionCount  = 4
	DescriptionMaxLen = 90

	// PrimaryTarget is the number of headlines that should carry both service
	// and location.
	PrimaryTarget = 6
	// VariantTarget is the number of distinct keyword variants expected across
	// the headlines.
	VariantTarget = 2

	PassTotal     = 80
	PassKeywords  = 75
	PassDiversity = 75
)

var (
	uspKeywords   = []string{"binnen", "afspraak", "transparant", "vrijblijvend", "snelle", "betrouwbaar", "vakmanschap", "reactie", "advies", "beste prijzen"}
	priceKeywords = []string{"prijs", "kosten", "offerte", "gratis", "transparant"}
	ctaKeywords   = []string{"vraag", "contact", "direct", "nu", "aanvragen"}
)

// Angle classifies a description by its selling point.
type Angle string

const (
	AngleSpeed   Angle = "speed"
	AnglePrice   Angle = "price"
	AngleQuality Angle = "quality"
	AngleProcess Angle = "process"
	AngleOther   Angle = "other"
)

var angleRules = []struct {
	angle Angle
	terms []string
}{
	{AngleSpeed, []string{"spoed", "snel", "24"}},
	{AnglePrice, []string{"prijs", "kosten", "transparant"}},
	{AngleQuality, []string{"beoordeling", "review", "kwaliteit"}},
	{AngleProcess, []string{"advies", "montage", "garantie"}},
}

// DescriptionAngle returns the first angle whose terms occur in text.
func DescriptionAngle(text string) Angle {
	l := strings.ToLower(text)
	for _, r := range angleRules {
		if containsAny(l, r.terms) {
			return r.angle
		}
	}
	return AngleOther
}

// Check is one component of the diversity score.
type Check struct {
	Name     string  `json:"name" yaml:"name"`
	Score    float64 `json:"score" yaml:"score"`
	Max      float64 `json:"max" yaml:"max"`
	Count    int     `json:"count" yaml:"count"`
	Required int     `json:"required,omitempty" yaml:"required,omitempty"`
}

// QualityScore is the derived quality report for one bundle.
type QualityScore struct {
	LengthErrors         int      `json:"lengthErrors" yaml:"lengthErrors"`
	DuplicateErrors      int      `json:"duplicateErrors" yaml:"duplicateErrors"`
	NearDuplicateErrors  int      `json:"nearDuplicateErrors" yaml:"nearDuplicateErrors"`
	KeywordCoverageScore int      `json:"keywordCoverageScore" yaml:"keywordCoverageScore"`
	DiversityScore       int      `json:"diversityScore" yaml:"diversityScore"`
	TotalScore           int      `json:"totalScore" yaml:"totalScore"`
	PrimaryCount         int      `json:"primaryCount" yaml:"primaryCount"`
	KeywordVariants      int      `json:"keywordVariants" yaml:"keywordVariants"`
	Errors               []string `json:"errors" yaml:"errors"`
	Warnings             []string `json:"warnings" yaml:"warnings"`
	Checks               []Check  `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// ErrorCount is the sum of all error counters.
func (q QualityScore) ErrorCount() int {
	return q.LengthErrors + q.DuplicateErrors + q.NearDuplicateErrors
}

// Verdict returns "PASS" or "FAIL".
func (q QualityScore) Verdict() string {
	if Passes(q) {
		return "PASS"
	}
	return "FAIL"
}

// Score computes the quality report for b. service, location and keywords
// come from the request that produced it and are normalized the way Generate
// normalizes them. Score never fails.
func Score(b engine.Bundle, req engine.Request) QualityScore {
	req = req.Normalized()
	q := QualityScore{Errors: []string{}, Warnings: []string{}}

	lengthIssues := validateLengths(b)
	q.LengthErrors = len(lengthIssues)
	q.Errors = append(q.Errors, lengthIssues...)

	dupIssues := append(exactDuplicates("headlines", b.Headlines), exactDuplicates("descriptions", b.Descriptions)...)
	q.DuplicateErrors = len(dupIssues)
	q.Errors = append(q.Errors, dupIssues...)

	nearIssues := append(
		nearDuplicates("headlines", b.Headlines, similarity.HeadlineThresholds),
		nearDuplicates("descriptions", b.Descriptions, similarity.DescriptionThresholds)...,
	)
	q.NearDuplicateErrors = len(nearIssues)
	q.Errors = append(q.Errors, nearIssues...)

	q.KeywordCoverageScore, q.PrimaryCount, q.KeywordVariants = keywordCoverage(b.Headlines, req.Service, req.Location, req.KeywordList)
	q.DiversityScore, q.Checks = diversity(b.Headlines, b.Descriptions, req.Location)
	q.TotalScore = total(q)

	if strings.TrimSpace(req.Service) != "" && strings.TrimSpace(req.Location) != "" {
		if q.PrimaryCount < PrimaryTarget {
			q.Warnings = append(q.Warnings, fmt.Sprintf("Only %d/%d headlines contain service and location (target %d)", q.PrimaryCount, len(b.Headlines), PrimaryTarget))
		}
		if q.KeywordVariants < VariantTarget {
			q.Warnings = append(q.Warnings, fmt.Sprintf("Only %d keyword variants found in headlines (target %d)", q.KeywordVariants, VariantTarget))
		}
	}
	if len(b.Relaxed) > 0 {
		q.Warnings = append(q.Warnings, fmt.Sprintf("%d headlines were accepted with relaxed similarity rules: %s", len(b.Relaxed), strings.Join(b.Relaxed, " | ")))
	}
	return q
}

// Passes reports whether q clears every threshold with zero errors.
func Passes(q QualityScore) bool {
	return q.TotalScore >= PassTotal &&
		q.KeywordCoverageScore >= PassKeywords &&
		q.DiversityScore >= PassDiversity &&
		q.LengthErrors == 0 &&
		q.DuplicateErrors == 0 &&
		q.NearDuplicateErrors == 0
}

func validateLengths(b engine.Bundle) []string {
	var errs []string
	if len(b.Headlines) != HeadlineCount {
		errs = append(errs, fmt.Sprintf("Headlines count must be %d, got %d", HeadlineCount, len(b.Headlines)))
	}
	for i, h := range b.Headlines {
		if n := utf8.RuneCountInString(h); n > HeadlineMaxLen {
			errs = append(errs, fmt.Sprintf("Headline %d exceeds %d chars: %q (%d chars)", i+1, HeadlineMaxLen, h, n))
		}
	}
	if len(b.Descriptions) != DescriptionCount {
		errs = append(errs, fmt.Sprintf("Descriptions count must be %d, got %d", DescriptionCount, len(b.Descriptions)))
	}
	for i, d := range b.Descriptions {
		if n := utf8.RuneCountInString(d); n > DescriptionMaxLen {
			errs = append(errs, fmt.Sprintf("Description %d exceeds %d chars: %q (%d chars)", i+1, DescriptionMaxLen, d, n))
		}
	}
	for i, s := range b.Sitelinks {
		if n := utf8.RuneCountInString(s.Text); n > engine.SitelinkTextMaxLen {
			errs = append(errs, fmt.Sprintf("Sitelink %d text exceeds %d chars: %q (%d chars)", i+1, engine.SitelinkTextMaxLen, s.Text, n))
		}
		for _, d := range []string{s.Description1, s.Description2} {
			if n := utf8.RuneCountInString(d); n > engine.SitelinkDescMaxLen {
				errs = append(errs, fmt.Sprintf("Sitelink %d description exceeds %d chars: %q (%d chars)", i+1, engine.SitelinkDescMaxLen, d, n))
			}
		}
	}
	for i, c := range b.Callouts {
		if n := utf8.RuneCountInString(c); n > engine.CalloutMaxLen {
			errs = append(errs, fmt.Sprintf("Callout %d exceeds %d chars: %q (%d chars)", i+1, engine.CalloutMaxLen, c, n))
		}
	}
	return errs
}

// exactDuplicates pairs every later repeat with the first occurrence of its
// normalized form.
func exactDuplicates(kind string, items []string) []string {
	var errs []string
	first := make(map[string]int, len(items))
	for i, s := range items {
		n := similarity.Normalize(s)
		if j, ok := first[n]; ok {
			errs = append(errs, fmt.Sprintf("Duplicate %s at %d and %d: %q", kind, j+1, i+1, s))
			continue
		}
		first[n] = i
	}
	return errs
}

func nearDuplicates(kind string, items []string, th similarity.Thresholds) []string {
	var errs []string
	for _, p := range similarity.FindNearDuplicates(items, th) {
		errs = append(errs, fmt.Sprintf("Near-duplicate %s at %d and %d: %q ~ %q", kind, p.Index1+1, p.Index2+1, p.Text1, p.Text2))
	}
	return errs
}

// keywordCoverage returns the coverage score, the primary headline count and
// the number of distinct keyword variants found.
func keywordCoverage(headlines []string, service, location string, keywords []string) (int, int, int) {
	sl := strings.ToLower(strings.TrimSpace(service))
	ll := strings.ToLower(strings.TrimSpace(location))
	if sl == "" || ll == "" || len(headlines) == 0 {
		return 0, 0, 0
	}

	primary := 0
	found := make(map[string]struct{})
	for _, h := range headlines {
		hl := strings.ToLower(h)
		if strings.Contains(hl, sl) && strings.Contains(hl, ll) {
			primary++
		}
		for _, k := range keywords {
			n := strings.TrimSpace(strings.NewReplacer("[", "", "]", "", `"`, "").Replace(strings.ToLower(k)))
			if n != "" && strings.Contains(hl, n) {
				found[n] = struct{}{}
			}
		}
	}

	primaryScore := math.Min(100, float64(primary)/PrimaryTarget*100)
	variantScore := math.Min(100, float64(len(found))/VariantTarget*100)
	return int(math.Round(primaryScore*0.6 + variantScore*0.4)), primary, len(found)
}

func diversity(headlines, descriptions []string, location string) (int, []Check) {
	if len(headlines) == 0 || len(descriptions) == 0 {
		return 0, nil
	}

	firstWords := make(map[string]int)
	maxFirst := 0
	for _, h := range headlines {
		fields := strings.Fields(h)
		if len(fields) == 0 {
			continue
		}
		w := strings.ToLower(fields[0])
		firstWords[w]++
		maxFirst = max(maxFirst, firstWords[w])
	}
	firstScore := 20.0
	if maxFirst > 2 {
		firstScore = math.Max(0, 20-float64(maxFirst-2)*5)
	}

	ll := strings.ToLower(strings.TrimSpace(location))
	count := func(match func(string) bool) int {
		n := 0
		for _, h := range headlines {
			if match(strings.ToLower(h)) {
				n++
			}
		}
		return n
	}
	usp := count(func(h string) bool { return containsAny(h, uspKeywords) })
	price := count(func(h string) bool { return containsAny(h, priceKeywords) })
	cta := count(func(h string) bool { return containsAny(h, ctaKeywords) })
	loc := count(func(h string) bool { return ll != "" && strings.Contains(h, ll) })

	angles := make(map[Angle]struct{})
	for _, d := range descriptions {
		angles[DescriptionAngle(d)] = struct{}{}
	}

	checks := []Check{
		{Name: "First word diversity", Score: firstScore, Max: 20, Count: maxFirst},
		linear("USP headlines", usp, 3, 20),
		linear("Price/Offer headlines", price, 2, 15),
		linear("CTA headlines", cta, 2, 15),
		linear("Location headlines", loc, 2, 15),
		linear("Description angles", len(angles), 4, 15),
	}
	sum := 0.0
	for _, c := range checks {
		sum += c.Score
	}
	return int(math.Round(math.Min(100, sum))), checks
}

func linear(name string, count, required int, maxScore float64) Check {
	return Check{
		Name:     name,
		Score:    math.Min(maxScore, float64(count)/float64(required)*maxScore),
		Max:      maxScore,
		Count:    count,
		Required: required,
	}
}

func total(q QualityScore) int {
	penalty := math.Min(50, float64(q.ErrorCount()*10))
	base := 0.0
	if penalty == 0 {
		base = 20
	}
	t := base*0.2 + float64(q.KeywordCoverageScore)*0.4 + float64(q.DiversityScore)*0.4 - penalty
	return int(math.Round(math.Max(0, math.Min(100, t))))
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
