package config

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/assets"
	"github.com/fulmenhq/rsaforge/internal/schema"
	"github.com/spf13/viper"
)

// ValidateConfig validates a decoded config document against the embedded
// config schema.
func ValidateConfig(doc map[string]interface{}) error {
	res, err := schema.Validate(doc, assets.ConfigSchema)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !res.Valid {
		lines := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			lines[i] = e.String()
		}
		return fmt.Errorf("%w:\n%s", ErrInvalidConfig, strings.Join(lines, "\n"))
	}
	return nil
}

// validateFile checks only what the file sets. Defaults carry durations
// that the schema describes as strings.
func validateFile(path string) error {
	fv := viper.New()
	fv.SetConfigFile(path)
	if err := fv.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := ValidateConfig(fv.AllSettings()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
