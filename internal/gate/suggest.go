package gate

// Priority ranks a suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Suggestion is one remediation hint for a failing dimension.
type Suggestion struct {
	Type     string   `json:"type" yaml:"type"`
	Action   string   `json:"action" yaml:"action"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// SuggestFixes lists remediation hints for every failing dimension of q, in
// the order length, duplicate, nearDuplicate, keywordCoverage, diversity.
func SuggestFixes(q QualityScore) []Suggestion {
	var out []Suggestion
	if q.LengthErrors > 0 {
		out = append(out, Suggestion{
			Type:     "length",
			Action:   "Trim headlines to <= 30 chars and descriptions to <= 90 chars",
			Priority: PriorityHigh,
		})
	}
	if q.DuplicateErrors > 0 {
		out = append(out, Suggestion{
			Type:     "duplicate",
			Action:   "Remove or rewrite duplicate headlines/descriptions",
			Priority: PriorityHigh,
		})
	}
	if q.NearDuplicateErrors > 0 {
		out = append(out, Suggestion{
			Type:     "nearDuplicate",
			Action:   "Increase variation in similar headlines/descriptions",
			Priority: PriorityHigh,
		})
	}
	if q.KeywordCoverageScore < PassKeywords {
		out = append(out, Suggestion{
			Type:     "keywordCoverage",
			Action:   "Add more headlines with primary keyword or service + location phrase",
			Priority: PriorityHigh,
		})
	}
	if q.DiversityScore < PassDiversity {
		out = append(out, Suggestion{
			Type:     "diversity",
			Action:   "Increase headline diversity: add more USP, price, CTA, and location headlines",
			Priority: PriorityMedium,
		})
	}
	return out
}
