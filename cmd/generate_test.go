package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/pkg/exitcode"
	"github.com/fulmenhq/rsaforge/pkg/safeio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_Text(t *testing.T) {
	out, err := execRoot(t, []string{"preview", "glaszetter", "friesland", "glaszetter Friesland", "glaszetter offerte"})
	require.NoError(t, err)
	assert.Contains(t, out, "Service: glaszetter")
	assert.Contains(t, out, "Keywords: glaszetter Friesland, glaszetter offerte")
	assert.Contains(t, out, "HEADLINES (15)")
	assert.Contains(t, out, "Total Score: 84/100 ✅")
	assert.Contains(t, out, "Status: ✅ PASSED")
	assert.NotContains(t, out, "Iterations:")
}

func TestPreview_FailingGateStillSucceeds(t *testing.T) {
	out, err := execRoot(t, []string{"preview", "dakdekker", "utrecht"})
	require.NoError(t, err)
	assert.Contains(t, out, "Keywords: None")
	assert.Contains(t, out, "Status: ❌ FAILED")
}

func TestPreview_JSON(t *testing.T) {
	out, err := execRoot(t, []string{"preview", "glaszetter", "friesland", "--format", "json", "--business-name", "Glas Noord"})
	require.NoError(t, err)

	var doc struct {
		Bundle engine.Bundle `json:"bundle"`
		Passed bool          `json:"passed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Glas Noord", doc.Bundle.BusinessName)
	assert.Len(t, doc.Bundle.Headlines, 15)
	assert.Equal(t, "https://growsocialmedia.nl/offerte/friesland", doc.Bundle.FinalURL)
}

func TestPreview_Errors(t *testing.T) {
	_, err := execRoot(t, []string{"preview", "glaszetter"})
	assert.Error(t, err)

	_, err = execRoot(t, []string{"preview", " ", "friesland"})
	require.ErrorIs(t, err, engine.ErrMissingService)
	assert.Equal(t, exitcode.GeneralError, exitCodeFor(err))

	_, err = execRoot(t, []string{"preview", "glaszetter", "friesland", "--format", "pdf"})
	assert.Error(t, err)
}

func TestGenerate_File(t *testing.T) {
	out, err := execRoot(t, []string{"generate", "testdata/batch/01-glaszetter.yaml", "--format", "json"})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "testdata/batch/01-glaszetter.yaml", doc["source"])
	assert.Equal(t, true, doc["passed"])
	assert.Equal(t, float64(1), doc["iterations"])
}

func TestGenerate_FailOnGate(t *testing.T) {
	out, err := execRoot(t, []string{"generate", "testdata/batch/02-dakdekker.json", "--max-iterations", "2", "--fail-on-gate"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errGateFailed))
	assert.Equal(t, exitcode.GateFailed, exitCodeFor(err))
	assert.Contains(t, out, "Iterations: 2")
	assert.Contains(t, out, "Status: ❌ FAILED")
	assert.Contains(t, out, "Final URL: https://example.nl/dakdekker")

	_, err = execRoot(t, []string{"generate", "testdata/batch/02-dakdekker.json", "--max-iterations", "1"})
	assert.NoError(t, err)
}

func TestGenerate_AutoKeywords(t *testing.T) {
	out, err := execRoot(t, []string{"generate", "testdata/batch/02-dakdekker.json", "--auto-keywords", "--max-iterations", "1", "--format", "yaml"})
	require.NoError(t, err)
	assert.Contains(t, out, "keywordList:")
	assert.Contains(t, out, "[dakdekker utrecht]")
}

func TestGenerate_Batch(t *testing.T) {
	out, err := execRoot(t, []string{"generate", "--batch", "testdata/batch/*.{yaml,json}", "--format", "json", "--workers", "2", "--max-iterations", "1"})
	require.NoError(t, err)

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "testdata/batch/01-glaszetter.yaml", docs[0]["source"])
	assert.Equal(t, true, docs[0]["passed"])
	assert.Equal(t, "testdata/batch/02-dakdekker.json", docs[1]["source"])
	assert.Equal(t, false, docs[1]["passed"])
}

func TestGenerate_BatchRecursiveMarkdown(t *testing.T) {
	out, err := execRoot(t, []string{"generate", "--batch", "testdata/**/*-glaszetter.yaml", "--format", "markdown"})
	require.NoError(t, err)
	assert.Contains(t, out, "# RSA assets: testdata/batch/01-glaszetter.yaml")
	assert.Equal(t, 1, strings.Count(out, "## Quality gate:"))
}

func TestGenerate_BatchErrors(t *testing.T) {
	_, err := execRoot(t, []string{"generate", "--batch", "testdata/nothing/*.yaml"})
	require.ErrorIs(t, err, errUsage)
	assert.Equal(t, exitcode.ValidationError, exitCodeFor(err))

	// one invalid request fails the whole batch
	_, err = execRoot(t, []string{"generate", "--batch", "testdata/*.json"})
	require.Error(t, err)
	assert.Equal(t, exitcode.ValidationError, exitCodeFor(err))
}

func TestGenerateOne_StaysInsideBatchBase(t *testing.T) {
	a := &app{}
	_, err := a.generateOne(context.Background(), "testdata/duplicates.yaml", generateJob{baseDir: "testdata/batch"})
	require.ErrorIs(t, err, safeio.ErrOutsideBase)
	assert.Equal(t, exitcode.FileSystemError, exitCodeFor(err))

	_, err = a.generateOne(context.Background(), "testdata/batch/../duplicates.yaml", generateJob{baseDir: "testdata/batch"})
	require.ErrorIs(t, err, safeio.ErrOutsideBase)
}

func TestGenerate_Usage(t *testing.T) {
	_, err := execRoot(t, []string{"generate"})
	assert.ErrorIs(t, err, errUsage)

	_, err = execRoot(t, []string{"generate", "testdata/batch/01-glaszetter.yaml", "--batch", "testdata/batch/*.yaml"})
	assert.ErrorIs(t, err, errUsage)

	_, err = execRoot(t, []string{"generate", "testdata/batch/01-glaszetter.yaml", "--max-iterations", "21"})
	require.Error(t, err)
	assert.Equal(t, exitcode.ValidationError, exitCodeFor(err))
}

func TestGenerate_InvalidRequest(t *testing.T) {
	_, err := execRoot(t, []string{"generate", "testdata/invalid.json"})
	require.Error(t, err)
	assert.Equal(t, exitcode.ValidationError, exitCodeFor(err))
	assert.Contains(t, err.Error(), "tone")

	_, err = execRoot(t, []string{"generate", "testdata/missing.yaml"})
	require.Error(t, err)
	assert.Equal(t, exitcode.FileSystemError, exitCodeFor(err))
}

func TestGenerate_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	out, err := execRoot(t, []string{"generate", "testdata/batch/01-glaszetter.yaml", "--format", "markdown", "--output", path})
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Quality gate: PASS")
}

func TestGenerate_FormatFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "rsaforge.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  format: xml\ngeneration:\n  business_name: Config BV\n"), 0o600))

	out, err := execRoot(t, []string{"--config", cfg, "generate", "testdata/batch/01-glaszetter.yaml"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `verdict="PASS"`)

	// an explicit flag wins over config
	out, err = execRoot(t, []string{"--config", cfg, "generate", "testdata/batch/01-glaszetter.yaml", "-f", "json"})
	require.NoError(t, err)
	assert.Contains(t, out, `"businessName": "Config BV"`)
}

func TestGenerate_PolicyFailsPassingRequest(t *testing.T) {
	dir := t.TempDir()
	pol := filepath.Join(dir, "brand.yaml")
	require.NoError(t, os.WriteFile(pol, []byte("required_phrases: [zonnepanelen]\n"), 0o600))

	out, err := execRoot(t, []string{"generate", "testdata/batch/01-glaszetter.yaml", "--policy", pol, "--format", "json", "--fail-on-gate"})
	require.ErrorIs(t, err, errGateFailed)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, false, doc["passed"])
	assert.Equal(t, []interface{}{"no headline contains required phrase: zonnepanelen"}, doc["policyViolations"])
	assert.Equal(t, float64(84), doc["score"].(map[string]interface{})["totalScore"])
}

func TestGenerate_PolicyFromConfig(t *testing.T) {
	dir := t.TempDir()
	pol := filepath.Join(dir, "brand.yaml")
	require.NoError(t, os.WriteFile(pol, []byte("forbidden_words: [glaszetter]\n"), 0o600))
	cfg := filepath.Join(dir, "rsaforge.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("policy:\n  file: "+pol+"\n"), 0o600))

	out, err := execRoot(t, []string{"--config", cfg, "generate", "testdata/batch/01-glaszetter.yaml"})
	require.NoError(t, err)
	assert.Contains(t, out, "POLICY VIOLATIONS\n")
	assert.Contains(t, out, "contains forbidden word: glaszetter")
	assert.Contains(t, out, "Status: ❌ FAILED")
}

func TestGenerate_BatchIgnoreFiles(t *testing.T) {
	dir := t.TempDir()
	req := []byte("service: glaszetter\nlocation: friesland\nkeywordList: [glaszetter Friesland]\n")
	for _, name := range []string{"a.yaml", "b.yaml", "archive/c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, req, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("archive/\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".rsaforgeignore"), []byte("b.yaml\n"), 0o600))
	t.Chdir(dir)

	out, err := execRoot(t, []string{"generate", "--batch", "**/*.yaml", "--format", "json", "--max-iterations", "1"})
	require.NoError(t, err)
	var one map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &one))
	assert.Equal(t, "a.yaml", one["source"])

	out, err = execRoot(t, []string{"generate", "--batch", "**/*.yaml", "--format", "json", "--max-iterations", "1", "--no-ignore"})
	require.NoError(t, err)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all, 3)
	assert.Equal(t, "a.yaml", all[0]["source"])
	assert.Equal(t, filepath.Join("archive", "c.yaml"), all[1]["source"])

	_, err = execRoot(t, []string{"generate", "--batch", "b.yaml"})
	assert.ErrorIs(t, err, errUsage)
}
