package ascii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "single line",
			lines: []string{"Hello"},
			want:  "┌───────┐\n│ Hello │\n└───────┘\n",
		},
		{
			name:  "multiple lines",
			lines: []string{"RSA preview", "Glaszetter Friesland", "PASS"},
			want: "┌──────────────────────┐\n" +
				"│ RSA preview          │\n" +
				"│ Glaszetter Friesland │\n" +
				"│ PASS                 │\n" +
				"└──────────────────────┘\n",
		},
		{
			name:  "trailing spaces trimmed",
			lines: []string{"ab   ", "abc"},
			want:  "┌─────┐\n│ ab  │\n│ abc │\n└─────┘\n",
		},
		{
			name:  "wide runes",
			lines: []string{"日本", "abcd"},
			want:  "┌──────┐\n│ 日本 │\n│ abcd │\n└──────┘\n",
		},
		{
			name:  "empty",
			lines: nil,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Box(tt.lines))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4))
	assert.Equal(t, "é   ", PadRight("é", 4))
}

func TestRule(t *testing.T) {
	assert.Equal(t, "───", Rule(3))
	assert.Equal(t, "", Rule(0))
}

func TestTruncateForBox(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{"Glaszetter Friesland", 30, "Glaszetter Friesland"},
		{"Glaszetter Friesland", 10, "Glaszet..."},
		{"Glaszetter", 3, "Gla"},
		{"日本語", 3, "日"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateForBox(tt.value, tt.width), "%q/%d", tt.value, tt.width)
	}
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 4, StringWidth("日本"))
	assert.Equal(t, 5, StringWidth("Hello"))
	assert.Equal(t, 2, RuneWidth('日'))
}
