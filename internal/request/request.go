// Package request loads generation requests and asset bundles from JSON, YAML
// or TOML documents, validating them against the embedded schemas first.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/assets"
	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/schema"
	"github.com/fulmenhq/rsaforge/pkg/safeio"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .json, .yaml, .yml and .toml.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrMissingLocation is returned when a request omits the location key.
	ErrMissingLocation = errors.New("location is required")
)

// ValidationError lists the schema violations of a document.
type ValidationError struct {
	Source     string
	Violations []schema.ValidationError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: invalid document: %s", e.Source, strings.Join(parts, "; "))
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and decodes a request document.
func LoadFile(path string) (engine.Request, error) {
	data, format, err := read("", path)
	if err != nil {
		return engine.Request{}, err
	}
	return Decode(data, format, path)
}

// LoadFileIn is LoadFile for a path that must stay inside baseDir.
func LoadFileIn(baseDir, path string) (engine.Request, error) {
	data, format, err := read(baseDir, path)
	if err != nil {
		return engine.Request{}, err
	}
	return Decode(data, format, path)
}

// Decode validates data against the request schema and decodes it. source
// names the document in errors.
func Decode(data []byte, format Format, source string) (engine.Request, error) {
	var req engine.Request
	doc, err := parse(data, format, source)
	if err != nil {
		return req, err
	}
	if _, ok := doc["location"]; !ok {
		return req, fmt.Errorf("%s: %w", source, ErrMissingLocation)
	}
	if err := check(doc, source, assets.RequestSchema); err != nil {
		return req, err
	}
	if err := unmarshal(data, format, &req); err != nil {
		return req, fmt.Errorf("%s: decode request: %w", source, err)
	}
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("%s: %w", source, err)
	}
	return req, nil
}

// LoadBundleFile reads and decodes an asset bundle document.
func LoadBundleFile(path string) (engine.Bundle, error) {
	data, format, err := read("", path)
	if err != nil {
		return engine.Bundle{}, err
	}
	return DecodeBundle(data, format, path)
}

// DecodeBundle validates data against the bundle schema and decodes it.
func DecodeBundle(data []byte, format Format, source string) (engine.Bundle, error) {
	var b engine.Bundle
	doc, err := parse(data, format, source)
	if err != nil {
		return b, err
	}
	if err := check(doc, source, assets.BundleSchema); err != nil {
		return b, err
	}
	if err := unmarshal(data, format, &b); err != nil {
		return b, fmt.Errorf("%s: decode bundle: %w", source, err)
	}
	return b, nil
}

// read loads path, confined to baseDir when one is given.
func read(baseDir, path string) ([]byte, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	var data []byte
	if baseDir != "" {
		data, err = safeio.ReadFileContained(baseDir, path)
	} else {
		data, err = safeio.ReadUserFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, format, nil
}

func parse(data []byte, format Format, source string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, fmt.Errorf("%s: parse %s: %w", source, format, err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}

func check(doc map[string]interface{}, source, schemaName string) error {
	res, err := schema.Validate(doc, schemaName)
	if err != nil {
		return err
	}
	if !res.Valid {
		return &ValidationError{Source: source, Violations: res.Errors}
	}
	return nil
}

func unmarshal(data []byte, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		return dec.Decode(v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
