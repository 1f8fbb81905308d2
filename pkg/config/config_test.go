package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fulmenhq/rsaforge/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every search path at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("RSAFORGE_HOME", filepath.Join(dir, ".rsaforge"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "GrowSocial", cfg.Generation.BusinessName)
	assert.Equal(t, "https://growsocialmedia.nl", cfg.Generation.BaseURL)
	assert.Equal(t, 5, cfg.Gate.MaxIterations)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 10*time.Second, cfg.Campaign.ProbeTimeout)
	assert.True(t, cfg.Batch.RespectIgnore)
	assert.Empty(t, cfg.Policy.File)
}

func TestLoadConfig_FileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "rsaforge.yaml", `
generation:
  business_name: Acme
gate:
  max_iterations: 3
campaign:
  probe_timeout: 2s
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Generation.BusinessName)
	assert.Equal(t, "direct", cfg.Generation.Tone)
	assert.Equal(t, 3, cfg.Gate.MaxIterations)
	assert.Equal(t, 2*time.Second, cfg.Campaign.ProbeTimeout)
	assert.Equal(t, time.Second, cfg.Campaign.RetryBaseDelay)
}

func TestLoadConfig_HomeConfigDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".rsaforge/config/rsaforge.yaml", "output:\n  format: json\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "rsaforge.yaml", "gate:\n  max_iterations: 3\n")
	t.Setenv("RSAFORGE_GATE_MAX_ITERATIONS", "7")
	t.Setenv("RSAFORGE_BATCH_WORKERS", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Gate.MaxIterations)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoadConfigFile_TOML(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "custom.toml", `
[campaign]
retry_attempts = 5
retry_base_delay = "250ms"
`)

	cfg, err := LoadConfigFile(p)
	require.NoError(t, err)
	assert.Equal(t, retry.Policy{Attempts: 5, BaseDelay: 250 * time.Millisecond}, cfg.Campaign.RetryPolicy())
}

func TestLoadConfigFile_PolicyAndIgnore(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "rsaforge.yaml", "batch:\n  respect_ignore: false\npolicy:\n  file: brand.yaml\n")

	cfg, err := LoadConfigFile(p)
	require.NoError(t, err)
	assert.False(t, cfg.Batch.RespectIgnore)
	assert.Equal(t, "brand.yaml", cfg.Policy.File)

	t.Setenv("RSAFORGE_POLICY_FILE", "env.rego")
	cfg, err = LoadConfigFile(p)
	require.NoError(t, err)
	assert.Equal(t, "env.rego", cfg.Policy.File)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	dir := isolate(t)
	_, err := LoadConfigFile(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{"unknown section", "server:\n  port: 80\n", "root"},
		{"iterations out of range", "gate:\n  max_iterations: 50\n", "gate.max_iterations"},
		{"bad format", "output:\n  format: pdf\n", "output.format"},
		{"bad duration", "campaign:\n  probe_timeout: soon\n", "campaign.probe_timeout"},
		{"policy not a map", "policy: brand.yaml\n", "policy"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, filepath.Join("invalid", string(rune('a'+i))+".yaml"), tt.content)
			_, err := LoadConfigFile(p)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(map[string]interface{}{}))
	assert.NoError(t, ValidateConfig(map[string]interface{}{
		"generation": map[string]interface{}{"tone": "friendly", "base_url": "https://example.nl"},
		"batch":      map[string]interface{}{"workers": 2},
	}))
	assert.ErrorIs(t, ValidateConfig(map[string]interface{}{
		"generation": map[string]interface{}{"tone": "shouty"},
	}), ErrInvalidConfig)
}

func TestBatchLimit(t *testing.T) {
	assert.Equal(t, runtime.GOMAXPROCS(0), BatchConfig{}.Limit())
	assert.Equal(t, runtime.GOMAXPROCS(0), BatchConfig{Workers: -2}.Limit())
	assert.Equal(t, 3, BatchConfig{Workers: 3}.Limit())
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv("RSAFORGE_HOME", "/opt/rsaforge")
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/rsaforge", "config"), dir)
}
