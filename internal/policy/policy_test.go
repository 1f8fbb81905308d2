package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() engine.Bundle {
	return engine.Bundle{
		Headlines:    []string{"Glaszetter Friesland", "Gratis Offerte Glaszetter", "Vandaag Nog Gebeld!!"},
		Descriptions: []string{"Vakkundige glaszetter in Friesland. Vraag direct een offerte aan!"},
		Callouts:     []string{"Gratis advies"},
		Sitelinks: []engine.Sitelink{
			{Text: "Contact", Description1: "Bel ons", Description2: "Snel geholpen", URL: "https://example.nl/contact"},
		},
		Path1:    "offerte",
		Path2:    "friesland",
		FinalURL: "https://example.nl",
	}
}

func writePolicy(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTranspile_Empty(t *testing.T) {
	module, err := Transpile(Document{})
	require.NoError(t, err)
	assert.Equal(t, "package rsaforge.assets\n\n", module)

	_, err = Transpile(Document{MaxExclamations: -1})
	assert.Error(t, err)
}

func TestTranspile_Rules(t *testing.T) {
	module, err := Transpile(Document{
		ForbiddenWords:  []string{" Gratis ", ""},
		RequiredPhrases: []string{"Offerte"},
		MaxExclamations: 1,
	})
	require.NoError(t, err)
	assert.Contains(t, module, `forbidden_words := ["gratis"]`)
	assert.Contains(t, module, `required_phrases := ["offerte"]`)
	assert.Contains(t, module, "  n > 1\n")
}

func TestLoadFile_YAML(t *testing.T) {
	path := writePolicy(t, "brand.yaml", `
forbidden_words: [gratis, goedkoopst]
required_phrases: [offerte, spoed]
max_exclamations: 1
`)
	e, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, e.Source())

	got, err := e.Evaluate(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"callout 1 contains forbidden word: gratis",
		"headline 2 contains forbidden word: gratis",
		"headline 3 has 2 exclamation marks (max 1)",
		"no headline contains required phrase: spoed",
	}, got)
}

func TestLoadFile_Compliant(t *testing.T) {
	path := writePolicy(t, "brand.yml", "forbidden_words: [goedkoopst]\nrequired_phrases: [glaszetter]\n")
	e, err := LoadFile(context.Background(), path)
	require.NoError(t, err)

	got, err := e.Evaluate(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFile_Rego(t *testing.T) {
	path := writePolicy(t, "brand.rego", `package rsaforge.assets

deny contains msg if {
	input.path1 == "offerte"
	msg := "path1 must not be offerte"
}
`)
	e, err := LoadFile(context.Background(), path)
	require.NoError(t, err)

	got, err := e.Evaluate(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Equal(t, []string{"path1 must not be offerte"}, got)

	b := testBundle()
	b.Path1 = "prijs"
	got, err = e.Evaluate(context.Background(), b)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFile_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadFile(ctx, writePolicy(t, "brand.json", "{}"))
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = LoadFile(ctx, writePolicy(t, "broken.rego", "package rsaforge.assets\n\ndeny contains msg if {"))
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = LoadFile(ctx, writePolicy(t, "broken.yaml", "forbidden_words: {a: b}"))
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = LoadFile(ctx, filepath.Join(t.TempDir(), "missing.rego"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEvaluate_NonSetDeny(t *testing.T) {
	e, err := Compile(context.Background(), "scalar.rego", "package rsaforge.assets\n\ndeny := \"nope\"\n")
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), testBundle())
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestInput(t *testing.T) {
	in := Input(testBundle())
	texts, ok := in["texts"].([]interface{})
	require.True(t, ok)
	// 3 headlines, 1 description, 1 callout, 3 sitelink lines
	assert.Len(t, texts, 8)
	first := texts[0].(map[string]interface{})
	assert.Equal(t, "headline", first["kind"])
	assert.Equal(t, float64(1), first["index"])

	empty := Input(engine.Bundle{})
	assert.Equal(t, []interface{}{}, empty["headlines"])
	assert.Nil(t, empty["texts"])
}
