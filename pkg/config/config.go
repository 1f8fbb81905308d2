package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fulmenhq/rsaforge/pkg/retry"
	"github.com/spf13/viper"
)

// Config holds all configuration for rsaforge
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Gate       GateConfig       `mapstructure:"gate"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Output     OutputConfig     `mapstructure:"output"`
	Campaign   CampaignConfig   `mapstructure:"campaign"`
	Policy     PolicyConfig     `mapstructure:"policy"`
}

// GenerationConfig holds the request defaults applied when a request leaves
// a field blank.
type GenerationConfig struct {
	BusinessName string `mapstructure:"business_name"`
	BaseURL      string `mapstructure:"base_url"`
	Tone         string `mapstructure:"tone"`
}

// GateConfig holds quality gate settings
type GateConfig struct {
	MaxIterations int `mapstructure:"max_iterations"`
}

// BatchConfig holds batch generation settings
type BatchConfig struct {
	Workers int `mapstructure:"workers"` // 0 = GOMAXPROCS
	// RespectIgnore drops batch matches excluded by .gitignore or
	// .rsaforgeignore.
	RespectIgnore bool `mapstructure:"respect_ignore"`
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// CampaignConfig holds URL probe and campaign build settings
type CampaignConfig struct {
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
}

// PolicyConfig names the brand policy applied to generated and scored
// bundles. An empty File disables policy checks.
type PolicyConfig struct {
	File string `mapstructure:"file"`
}

// ErrInvalidConfig is returned when a config file violates the config schema.
var ErrInvalidConfig = errors.New("invalid configuration")

var defaultConfig = Config{
	Generation: GenerationConfig{
		BusinessName: "GrowSocial",
		BaseURL:      "https://growsocialmedia.nl",
		Tone:         "direct",
	},
	Gate:   GateConfig{MaxIterations: 5},
	Batch:  BatchConfig{Workers: 0, RespectIgnore: true},
	Output: OutputConfig{Format: "text"},
	Campaign: CampaignConfig{
		ProbeTimeout:   10 * time.Second,
		RetryAttempts:  3,
		RetryBaseDelay: time.Second,
	},
}

// Default returns the built-in configuration.
func Default() *Config {
	c := defaultConfig
	return &c
}

// LoadConfig loads configuration from defaults, the first rsaforge config
// file found in ".", $HOME or the rsaforge config dir, and RSAFORGE_*
// environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. An empty path
// falls back to the search paths, where a missing file is not an error.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rsaforge")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if configDir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(configDir)
		}
	}

	v.SetEnvPrefix("RSAFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		if err := validateFile(used); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generation.business_name", defaultConfig.Generation.BusinessName)
	v.SetDefault("generation.base_url", defaultConfig.Generation.BaseURL)
	v.SetDefault("generation.tone", defaultConfig.Generation.Tone)
	v.SetDefault("gate.max_iterations", defaultConfig.Gate.MaxIterations)
	v.SetDefault("batch.workers", defaultConfig.Batch.Workers)
	v.SetDefault("batch.respect_ignore", defaultConfig.Batch.RespectIgnore)
	v.SetDefault("output.format", defaultConfig.Output.Format)
	v.SetDefault("campaign.probe_timeout", defaultConfig.Campaign.ProbeTimeout)
	v.SetDefault("campaign.retry_attempts", defaultConfig.Campaign.RetryAttempts)
	v.SetDefault("campaign.retry_base_delay", defaultConfig.Campaign.RetryBaseDelay)
	v.SetDefault("policy.file", defaultConfig.Policy.File)
}

// Limit resolves the batch worker limit; zero or less means GOMAXPROCS.
func (b BatchConfig) Limit() int {
	if b.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return b.Workers
}

// RetryPolicy returns the backoff policy for probes and campaign builds.
func (c CampaignConfig) RetryPolicy() retry.Policy {
	return retry.Policy{Attempts: c.RetryAttempts, BaseDelay: c.RetryBaseDelay}
}

// GetHome returns the rsaforge home directory
func GetHome() (string, error) {
	if home := os.Getenv("RSAFORGE_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rsaforge"), nil
}

// GetConfigDir returns the config directory. It is not created.
func GetConfigDir() (string, error) {
	homeDir, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "config"), nil
}
