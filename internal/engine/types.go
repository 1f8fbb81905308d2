// Package engine generates a complete responsive search ad asset bundle for
// one (service, location) request.
package engine

import (
	"errors"
	"strings"
)

const (
	// DefaultBusinessName is used when a request names no business.
	DefaultBusinessName = "GrowSocial"
	// DefaultBaseURL is the landing site used when no final URL is supplied.
	DefaultBaseURL = "https://growsocialmedia.nl"

	DescriptionCount  = 4
	DescriptionMaxLen = 90

	SitelinkMax          = 8
	SitelinkTextMaxLen   = 25
	SitelinkDescMaxLen   = 35
	CalloutMax           = 10
	CalloutMaxLen        = 25
	SnippetValueMax      = 5
	DefaultPath1         = "offerte"
	StructuredHeaderName = "Diensten"
)

// ErrMissingService is returned when a request has a blank service.
var ErrMissingService = errors.New("service is required")

// Tone is the requested copy register.
type Tone string

const (
	ToneDirect       Tone = "direct"
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
)

// Tones lists the accepted tone values.
var Tones = []Tone{ToneDirect, ToneFriendly, ToneProfessional}

// ParseTone maps s onto a Tone, falling back to ToneDirect for blank or
// unknown values.
func ParseTone(s string) Tone {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tones {
		if t == known {
			return t
		}
	}
	return ToneDirect
}

// Request is one generation request. Location is required as a key but may
// be empty, in which case region-specific copy is skipped.
type Request struct {
	BusinessName string   `json:"businessName,omitempty" yaml:"businessName,omitempty" toml:"businessName,omitempty"`
	Service      string   `json:"service" yaml:"service" toml:"service"`
	Location     string   `json:"location" yaml:"location" toml:"location"`
	KeywordList  []string `json:"keywordList,omitempty" yaml:"keywordList,omitempty" toml:"keywordList,omitempty"`
	USPList      []string `json:"uspList,omitempty" yaml:"uspList,omitempty" toml:"uspList,omitempty"`
	Offer        string   `json:"offer,omitempty" yaml:"offer,omitempty" toml:"offer,omitempty"`
	FinalURL     string   `json:"finalUrl,omitempty" yaml:"finalUrl,omitempty" toml:"finalUrl,omitempty"`
	Tone         Tone     `json:"tone,omitempty" yaml:"tone,omitempty" toml:"tone,omitempty"`
}

// Validate reports ErrMissingService for a blank service.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Service) == "" {
		return ErrMissingService
	}
	return nil
}

// Normalized returns a copy with whitespace collapsed, blank list entries
// dropped and defaults applied.
func (r Request) Normalized() Request {
	out := Request{
		BusinessName: collapse(r.BusinessName),
		Service:      collapse(r.Service),
		Location:     collapse(r.Location),
		KeywordList:  compact(r.KeywordList),
		USPList:      compact(r.USPList),
		Offer:        collapse(r.Offer),
		FinalURL:     strings.TrimSpace(r.FinalURL),
		Tone:         ParseTone(string(r.Tone)),
	}
	if out.BusinessName == "" {
		out.BusinessName = DefaultBusinessName
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if c := collapse(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Sitelink is one sitelink extension.
type Sitelink struct {
	Text         string `json:"text" yaml:"text" toml:"text"`
	Description1 string `json:"description1" yaml:"description1" toml:"description1"`
	Description2 string `json:"description2" yaml:"description2" toml:"description2"`
	URL          string `json:"url" yaml:"url" toml:"url"`
}

// StructuredSnippet is one structured snippet extension.
type StructuredSnippet struct {
	Header string   `json:"header" yaml:"header" toml:"header"`
	Values []string `json:"values" yaml:"values" toml:"values"`
}

// Bundle is the generated asset set. It is not modified after Generate returns.
type Bundle struct {
	BusinessName       string              `json:"businessName,omitempty" yaml:"businessName,omitempty" toml:"businessName,omitempty"`
	Headlines          []string            `json:"headlines" yaml:"headlines" toml:"headlines"`
	Descriptions       []string            `json:"descriptions" yaml:"descriptions" toml:"descriptions"`
	Path1              string              `json:"path1" yaml:"path1" toml:"path1"`
	Path2              string              `json:"path2" yaml:"path2" toml:"path2"`
	FinalURL           string              `json:"finalUrl" yaml:"finalUrl" toml:"finalUrl"`
	Sitelinks          []Sitelink          `json:"sitelinks" yaml:"sitelinks" toml:"sitelinks"`
	Callouts           []string            `json:"callouts" yaml:"callouts" toml:"callouts"`
	StructuredSnippets []StructuredSnippet `json:"structuredSnippets" yaml:"structuredSnippets" toml:"structuredSnippets"`
	// Relaxed lists headlines accepted without the similarity and first-word
	// rules.
	Relaxed []string `json:"relaxed,omitempty" yaml:"relaxed,omitempty" toml:"relaxed,omitempty"`
}

// Options tune a single Generate call.
type Options struct {
	// Variant rotates the headline USP and filler pools. 0 is canonical.
	Variant int
	// BaseURL replaces DefaultBaseURL as the landing site.
	BaseURL string
}
