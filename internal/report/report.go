// Package report renders generation results and campaign plans as text,
// markdown, JSON, YAML or XML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/gate"
	"github.com/fulmenhq/rsaforge/internal/iterate"
	"gopkg.in/yaml.v3"
)

// Format selects a renderer. *Format implements pflag.Value.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXML      Format = "xml"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML, FormatXML}

// ErrUnknownFormat is returned by ParseFormat for names outside Formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a name (case-insensitive, "md" and "yml" accepted) to a
// Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, formatNames())
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func (f *Format) String() string { return string(*f) }

func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f *Format) Type() string { return "format" }

// Report is one scored bundle ready for rendering.
type Report struct {
	Source     string            `json:"source,omitempty" yaml:"source,omitempty"`
	Request    engine.Request    `json:"request" yaml:"request"`
	Bundle     engine.Bundle     `json:"bundle" yaml:"bundle"`
	Score      gate.QualityScore `json:"score" yaml:"score"`
	Passed     bool              `json:"passed" yaml:"passed"`
	Fixes      []gate.Suggestion `json:"fixes,omitempty" yaml:"fixes,omitempty"`
	Iterations int               `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	Trace      []iterate.Attempt `json:"trace,omitempty" yaml:"trace,omitempty"`
	// Policy lists brand policy violations. Any violation fails the report.
	Policy []string `json:"policyViolations,omitempty" yaml:"policyViolations,omitempty"`
}

// New scores nothing itself: it packages an already scored bundle.
func New(req engine.Request, b engine.Bundle, q gate.QualityScore) Report {
	return Report{
		Request: req,
		Bundle:  b,
		Score:   q,
		Passed:  gate.Passes(q),
		Fixes:   gate.SuggestFixes(q),
	}
}

// FromResult packages the outcome of an iterated generation.
func FromResult(res iterate.Result) Report {
	r := New(res.Request, res.Bundle, res.Score)
	r.Passed = res.Passed
	r.Iterations = res.Iterations
	r.Trace = res.Trace
	return r
}

// ApplyPolicy records policy violations on r.
func (r *Report) ApplyPolicy(violations []string) {
	r.Policy = violations
	if len(violations) > 0 {
		r.Passed = false
	}
}

// Render writes reports in format f. JSON and YAML emit a single object for
// one report and a list otherwise.
func Render(w io.Writer, f Format, reports ...Report) error {
	switch f {
	case FormatText, "":
		var sb strings.Builder
		for i, r := range reports {
			if i > 0 {
				sb.WriteString("\n")
			}
			writeText(&sb, r)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	case FormatMarkdown:
		return renderMarkdown(w, reports)
	case FormatJSON:
		return encodeJSON(w, single(reports))
	case FormatYAML:
		return encodeYAML(w, single(reports))
	case FormatXML:
		return renderXML(w, reports)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

func single(reports []Report) interface{} {
	if len(reports) == 1 {
		return reports[0]
	}
	return reports
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
