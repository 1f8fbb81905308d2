package builder

import (
	"strings"
	"testing"

	"github.com/fulmenhq/rsaforge/pkg/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var similarityStrict = similarity.Thresholds{Jaccard: 0.5, Levenshtein: 0.2}

func TestTrimToLength(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "Glaszetter Friesland", 30, "Glaszetter Friesland"},
		{"trims surrounding space", "  Glaszetter  ", 30, "Glaszetter"},
		{"word boundary", "Installatiebedrijven Zuid-Holland Offerte", 30, "Installatiebedrijven"},
		{"keeps words that fit", "Vakmanschap Gegarandeerd Door Experts", 30, "Vakmanschap Gegarandeerd Door"},
		{"hard cut on long first word", "Aansprakelijkheidsverzekeringen", 10, "Aansprakel"},
		{"counts runes", "Één Twee Drie", 8, "Één Twee"},
		{"zero budget", "anything", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimToLength(tt.in, tt.max))
		})
	}
}

func TestCollector_TryAddRules(t *testing.T) {
	c := NewCollector(15, 30)

	require.True(t, c.TryAdd("Glaszetter Friesland", BucketAnchor))
	assert.False(t, c.TryAdd("glaszetter  friesland", BucketAnchor), "normalized duplicate")
	assert.False(t, c.TryAdd("Glaszetter Friesland Nu", BucketAnchor), "near duplicate by edit distance")
	assert.False(t, c.TryAdd(strings.Repeat("x", 31), BucketAnchor), "over length")
	assert.False(t, c.TryAdd("   ", BucketAnchor), "empty")
	assert.False(t, c.TryAdd("?!", BucketAnchor), "empty after normalization")

	require.True(t, c.TryAdd("Glaszetter Prijs In Friesland", BucketAnchor))
	assert.False(t, c.TryAdd("Glaszetter Vandaag Beschikbaar", BucketBranchFiller), "first-word cap")

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Count(BucketAnchor))
	assert.Equal(t, 0, c.Count(BucketBranchFiller))
	assert.True(t, c.Contains("GLASZETTER FRIESLAND!"))
	assert.Empty(t, c.Relaxed())
}

func TestCollector_Capacity(t *testing.T) {
	c := NewCollector(2, 30)
	assert.True(t, c.TryAdd("Binnen 24u Reactie", BucketUSP))
	assert.True(t, c.TryAdd("Transparante Prijzen", BucketUSP))
	assert.True(t, c.Full())
	assert.Equal(t, 0, c.Remaining())
	assert.False(t, c.TryAdd("Afspraak Is Afspraak", BucketUSP))
	assert.False(t, c.Force("Afspraak Is Afspraak", BucketForced))
}

func TestCollector_TryAddTrimmed(t *testing.T) {
	c := NewCollector(15, 30)
	require.True(t, c.TryAddTrimmed("Vakmanschap Gegarandeerd Door Onze Experts", BucketUSP))
	assert.Equal(t, []string{"Vakmanschap Gegarandeerd Door"}, c.Items())
}

func TestCollector_ForceRelaxesSimilarity(t *testing.T) {
	c := NewCollector(15, 30)
	require.True(t, c.TryAdd("Glaszetter Friesland", BucketAnchor))
	require.True(t, c.TryAdd("Glaszetter Offerte", BucketAnchor))

	assert.False(t, c.Force("glaszetter friesland", BucketForced), "exact duplicates stay rejected")
	assert.True(t, c.Force("Glaszetter Friesland Nu", BucketForced), "near duplicate and first-word cap relaxed")
	assert.Equal(t, []string{"Glaszetter Friesland Nu"}, c.Relaxed())
	assert.Equal(t, 1, c.Count(BucketForced))
}

func TestCollector_Options(t *testing.T) {
	c := NewCollector(15, 90, WithFirstWordCap(0))
	assert.True(t, c.TryAdd("Van advies tot montage", BucketUSP))
	assert.True(t, c.TryAdd("Van de vloer tot het plafond in Friesland", BucketUSP))
	assert.True(t, c.TryAdd("Van maandag tot en met zaterdag geopend", BucketUSP))

	strict := NewCollector(15, 90, WithThresholds(similarityStrict))
	require.True(t, strict.TryAdd("Snelle glaszetter in Friesland", BucketUSP))
	assert.False(t, strict.TryAdd("Betrouwbare glaszetter in Friesland", BucketUSP))
}

func TestCollector_Blockers(t *testing.T) {
	c := NewCollector(15, 30)
	require.True(t, c.TryAdd("Glaszetter Friesland", BucketAnchor))
	require.True(t, c.TryAdd("Glaszetter Offerte", BucketAnchor))
	require.True(t, c.TryAdd("Binnen 24u Reactie", BucketUSP))

	assert.Equal(t, []int{0}, c.Blockers("Glaszetter Friesland Nu"), "near duplicate")
	assert.Equal(t, []int{1}, c.Blockers("Glaszetter Vandaag Beschikbaar"), "first-word cap")
	assert.Empty(t, c.Blockers("Afspraak Is Afspraak"))
	assert.Empty(t, NewCollector(15, 30).Blockers("Glaszetter Friesland"))
}

func TestCollector_Remove(t *testing.T) {
	c := NewCollector(15, 30)
	require.True(t, c.TryAdd("Glaszetter Friesland", BucketAnchor))
	require.True(t, c.TryAdd("Glaszetter Offerte", BucketAnchor))
	require.True(t, c.Force("Glaszetter Friesland Nu", BucketKeyword))

	removed := c.Remove(0)
	assert.Equal(t, Candidate{Text: "Glaszetter Friesland", Bucket: BucketAnchor}, removed)
	assert.False(t, c.Contains("Glaszetter Friesland"))
	assert.Equal(t, []string{"Glaszetter Offerte", "Glaszetter Friesland Nu"}, c.Items())

	c.Remove(1)
	assert.Empty(t, c.Relaxed())
	assert.True(t, c.TryAdd("Glaszetter Prijs In Friesland", BucketAnchor), "first-word slot freed")
	assert.Equal(t, 2, c.Len())
}
