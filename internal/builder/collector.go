// Package builder turns templates into a fixed number of short, mutually
// distinct text assets. A Collector owns the accepted list and enforces the
// acceptance rules; Allocate fills a headline Collector bucket by bucket.
package builder

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/fulmenhq/rsaforge/pkg/similarity"
)

// Bucket tags the allocation stage that produced a candidate.
type Bucket string

const (
	BucketAnchor       Bucket = "A"
	BucketKeyword      Bucket = "K"
	BucketUSP          Bucket = "D"
	BucketUrgency      Bucket = "B"
	BucketAlias        Bucket = "C"
	BucketRegionFiller Bucket = "F"
	BucketBranchFiller Bucket = "G"
	BucketGeneric      Bucket = "H"
	BucketForced       Bucket = "X"
)

// DefaultFirstWordCap is the number of entries allowed to share a leading word.
const DefaultFirstWordCap = 2

// Candidate is an accepted text together with the bucket that produced it.
type Candidate struct {
	Text   string `json:"text" yaml:"text"`
	Bucket Bucket `json:"bucket" yaml:"bucket"`
}

// Collector accumulates up to Capacity texts of at most MaxLen runes. TryAdd
// rejects anything too long, empty, already present after normalization, too
// similar to an accepted entry, or over the first-word cap.
type Collector struct {
	capacity     int
	maxLen       int
	thresholds   similarity.Thresholds
	firstWordCap int

	accepted   []Candidate
	texts      []string
	norms      map[string]struct{}
	firstWords map[string]int
	relaxed    []string
}

// CollectorOption customizes a Collector.
type CollectorOption func(*Collector)

// WithThresholds overrides the near-duplicate thresholds.
func WithThresholds(th similarity.Thresholds) CollectorOption {
	return func(c *Collector) { c.thresholds = th }
}

// WithFirstWordCap overrides the first-word cap; 0 disables it.
func WithFirstWordCap(n int) CollectorOption {
	return func(c *Collector) { c.firstWordCap = n }
}

// NewCollector creates an empty Collector.
func NewCollector(capacity, maxLen int, opts ...CollectorOption) *Collector {
	c := &Collector{
		capacity:     capacity,
		maxLen:       maxLen,
		thresholds:   similarity.HeadlineThresholds,
		firstWordCap: DefaultFirstWordCap,
		norms:        make(map[string]struct{}),
		firstWords:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TryAdd accepts text under the full rule set and reports whether it did.
func (c *Collector) TryAdd(text string, bucket Bucket) bool {
	if c.Full() {
		return false
	}
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if utf8.RuneCountInString(t) > c.maxLen {
		return reject(t, bucket, "too long")
	}
	norm := similarity.Normalize(t)
	if norm == "" {
		return false
	}
	if _, dup := c.norms[norm]; dup {
		return reject(t, bucket, "duplicate")
	}
	if similarity.IsTooSimilar(t, c.texts, c.thresholds) {
		return reject(t, bucket, "near duplicate")
	}
	fw := firstWord(t)
	if c.firstWordCap > 0 && c.firstWords[fw] >= c.firstWordCap {
		return reject(t, bucket, "first word cap")
	}
	c.accept(t, norm, fw, bucket)
	return true
}

// reject traces a discarded candidate and returns false.
func reject(text string, bucket Bucket, reason string) bool {
	if logger.Enabled(logger.TraceLevel) {
		logger.Trace("candidate rejected",
			logger.String("text", text),
			logger.String("bucket", string(bucket)),
			logger.String("reason", reason),
		)
	}
	return false
}

// TryAddTrimmed trims text to the collector's length on word boundaries before
// applying TryAdd.
func (c *Collector) TryAddTrimmed(text string, bucket Bucket) bool {
	return c.TryAdd(TrimToLength(text, c.maxLen), bucket)
}

// Force accepts text with relaxed rules: only emptiness, length (after
// trimming) and exact normalized duplicates are checked. Forced entries are
// recorded and reported by Relaxed.
func (c *Collector) Force(text string, bucket Bucket) bool {
	if c.Full() {
		return false
	}
	t := TrimToLength(text, c.maxLen)
	norm := similarity.Normalize(t)
	if t == "" || norm == "" {
		return false
	}
	if _, dup := c.norms[norm]; dup {
		return false
	}
	c.accept(t, norm, firstWord(t), bucket)
	c.relaxed = append(c.relaxed, t)
	return true
}

func (c *Collector) accept(text, norm, fw string, bucket Bucket) {
	c.accepted = append(c.accepted, Candidate{Text: text, Bucket: bucket})
	c.texts = append(c.texts, text)
	c.norms[norm] = struct{}{}
	c.firstWords[fw]++
}

// Remove drops the entry at index i and frees its normalized form and first
// word. It returns the removed entry.
func (c *Collector) Remove(i int) Candidate {
	cand := c.accepted[i]
	c.accepted = append(c.accepted[:i], c.accepted[i+1:]...)
	c.texts = append(c.texts[:i], c.texts[i+1:]...)
	delete(c.norms, similarity.Normalize(cand.Text))
	c.firstWords[firstWord(cand.Text)]--
	for j, r := range c.relaxed {
		if r == cand.Text {
			c.relaxed = append(c.relaxed[:j], c.relaxed[j+1:]...)
			break
		}
	}
	return cand
}

// Blockers returns the indexes of accepted entries that keep TryAdd from
// taking text: exact or near duplicates, plus the most recent entries holding
// text's first word beyond the cap.
func (c *Collector) Blockers(text string) []int {
	t := strings.TrimSpace(text)
	norm := similarity.Normalize(t)
	fw := firstWord(t)
	var out, sameWord []int
	for i, other := range c.texts {
		if similarity.Normalize(other) == norm || similarity.IsTooSimilar(t, []string{other}, c.thresholds) {
			out = append(out, i)
			continue
		}
		if firstWord(other) == fw {
			sameWord = append(sameWord, i)
		}
	}
	if extra := len(sameWord) - (c.firstWordCap - 1); c.firstWordCap > 0 && extra > 0 {
		out = append(out, sameWord[len(sameWord)-extra:]...)
	}
	sort.Ints(out)
	return out
}

// Contains reports whether text is already present after normalization.
func (c *Collector) Contains(text string) bool {
	_, ok := c.norms[similarity.Normalize(text)]
	return ok
}

// Full reports whether capacity has been reached.
func (c *Collector) Full() bool { return len(c.accepted) >= c.capacity }

// Len returns the number of accepted entries.
func (c *Collector) Len() int { return len(c.accepted) }

// Remaining returns the number of free slots.
func (c *Collector) Remaining() int { return c.capacity - len(c.accepted) }

// Count returns how many accepted entries came from bucket.
func (c *Collector) Count(bucket Bucket) int {
	n := 0
	for _, a := range c.accepted {
		if a.Bucket == bucket {
			n++
		}
	}
	return n
}

// Items returns a copy of the accepted texts in acceptance order.
func (c *Collector) Items() []string {
	out := make([]string, len(c.texts))
	copy(out, c.texts)
	return out
}

// Candidates returns a copy of the accepted entries with their buckets.
func (c *Collector) Candidates() []Candidate {
	out := make([]Candidate, len(c.accepted))
	copy(out, c.accepted)
	return out
}

// Relaxed returns the entries accepted through Force.
func (c *Collector) Relaxed() []string {
	out := make([]string, len(c.relaxed))
	copy(out, c.relaxed)
	return out
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
