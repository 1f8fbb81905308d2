// Package policy evaluates brand policies against asset bundles with embedded
// OPA. Policies are either Rego modules in package rsaforge.assets defining a
// deny set, or a small YAML document transpiled to such a module.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/pkg/safeio"
	"github.com/open-policy-agent/opa/v1/rego"
	"gopkg.in/yaml.v3"
)

// Query is the rule every policy module must populate.
const Query = "data.rsaforge.assets.deny"

// ErrInvalidPolicy is wrapped by load and compile failures.
var ErrInvalidPolicy = errors.New("invalid policy")

// Document is the YAML policy form.
type Document struct {
	// ForbiddenWords may not appear in any text, case-insensitive.
	ForbiddenWords []string `yaml:"forbidden_words"`
	// RequiredPhrases must each appear in at least one headline.
	RequiredPhrases []string `yaml:"required_phrases"`
	// MaxExclamations caps the "!" count per text. Zero disables the rule.
	MaxExclamations int `yaml:"max_exclamations"`
}

// Engine is a compiled policy, safe for concurrent use.
type Engine struct {
	source string
	query  rego.PreparedEvalQuery
}

// Source names the file the policy was loaded from.
func (e *Engine) Source() string { return e.source }

// LoadFile reads a .rego module or a .yaml/.yml policy document and compiles
// it.
func LoadFile(ctx context.Context, path string) (*Engine, error) {
	data, err := safeio.ReadUserFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}

	var module string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rego":
		module = string(data)
	case ".yaml", ".yml":
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPolicy, path, err)
		}
		module, err = Transpile(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPolicy, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s: want .rego, .yaml or .yml", ErrInvalidPolicy, path)
	}
	return Compile(ctx, path, module)
}

// Compile prepares a Rego module for evaluation. name labels the module in
// compiler errors.
func Compile(ctx context.Context, name, module string) (*Engine, error) {
	q, err := rego.New(
		rego.Query(Query),
		rego.Module(filepath.Base(name), module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPolicy, name, err)
	}
	return &Engine{source: name, query: q}, nil
}

// Evaluate returns the sorted deny messages the policy produces for b. An
// empty result means the bundle complies.
func (e *Engine) Evaluate(ctx context.Context, b engine.Bundle) ([]string, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(Input(b)))
	if err != nil {
		return nil, fmt.Errorf("evaluate policy %s: %w", e.source, err)
	}

	var out []string
	for _, r := range rs {
		for _, expr := range r.Expressions {
			items, ok := expr.Value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s: deny must be a set of strings", ErrInvalidPolicy, e.source)
			}
			for _, it := range items {
				out = append(out, fmt.Sprint(it))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

type text struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Input builds the policy input document for a bundle. texts flattens every
// customer-visible string with its kind and 1-based position.
func Input(b engine.Bundle) map[string]interface{} {
	var texts []text
	add := func(kind string, items []string) {
		for i, s := range items {
			texts = append(texts, text{Kind: kind, Index: i + 1, Text: s})
		}
	}
	add("headline", b.Headlines)
	add("description", b.Descriptions)
	add("callout", b.Callouts)
	for i, sl := range b.Sitelinks {
		for _, s := range []string{sl.Text, sl.Description1, sl.Description2} {
			texts = append(texts, text{Kind: "sitelink", Index: i + 1, Text: s})
		}
	}

	// Round-trip through JSON so OPA sees plain maps and slices.
	raw, _ := json.Marshal(map[string]interface{}{
		"headlines":    orEmpty(b.Headlines),
		"descriptions": orEmpty(b.Descriptions),
		"path1":        b.Path1,
		"path2":        b.Path2,
		"finalUrl":     b.FinalURL,
		"texts":        texts,
	})
	var doc map[string]interface{}
	_ = json.Unmarshal(raw, &doc)
	return doc
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
