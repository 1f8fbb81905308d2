package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/rsaforge/internal/assets"
)

var (
	reportTemplate = mustTemplate("report/markdown.hbs")
	planTemplate   = mustTemplate("report/plan.hbs")
)

func mustTemplate(name string) *raymond.Template {
	src, ok := assets.GetTemplate(name)
	if !ok {
		panic("report: missing embedded template " + name)
	}
	return raymond.MustParse(string(src))
}

type line struct {
	Number int    `handlebars:"number"`
	Text   string `handlebars:"text"`
	Length int    `handlebars:"length"`
}

func numberedLines(items []string) []line {
	out := make([]line, len(items))
	for i, s := range items {
		out[i] = line{Number: i + 1, Text: s, Length: utf8.RuneCountInString(s)}
	}
	return out
}

func markdownContext(r Report) map[string]interface{} {
	b, q := r.Bundle, r.Score
	title := "RSA assets"
	if r.Source != "" {
		title += ": " + r.Source
	}

	sitelinks := make([]map[string]string, len(b.Sitelinks))
	for i, sl := range b.Sitelinks {
		sitelinks[i] = map[string]string{
			"text": sl.Text, "description1": sl.Description1, "description2": sl.Description2, "url": sl.URL,
		}
	}
	snippets := make([]map[string]string, len(b.StructuredSnippets))
	for i, ss := range b.StructuredSnippets {
		snippets[i] = map[string]string{"header": ss.Header, "values": strings.Join(ss.Values, ", ")}
	}
	fixes := make([]map[string]string, len(r.Fixes))
	for i, f := range r.Fixes {
		fixes[i] = map[string]string{"priority": string(f.Priority), "action": f.Action}
	}

	displayPath := strings.Trim(strings.Join([]string{b.Path1, b.Path2}, "/"), "/")
	return map[string]interface{}{
		"title":        title,
		"service":      r.Request.Service,
		"location":     r.Request.Location,
		"headlines":    numberedLines(b.Headlines),
		"descriptions": numberedLines(b.Descriptions),
		"displayPath":  "/" + displayPath,
		"finalUrl":     b.FinalURL,
		"sitelinks":    sitelinks,
		"callouts":     b.Callouts,
		"snippets":     snippets,
		"verdict":      verdict(r.Passed),
		"iterations":   r.Iterations,
		"errors":       q.Errors,
		"warnings":     q.Warnings,
		"fixes":        fixes,
		"policy":       r.Policy,
		"score": map[string]int{
			"total":               q.TotalScore,
			"keywordCoverage":     q.KeywordCoverageScore,
			"diversity":           q.DiversityScore,
			"lengthErrors":        q.LengthErrors,
			"duplicateErrors":     q.DuplicateErrors,
			"nearDuplicateErrors": q.NearDuplicateErrors,
			"primaryCount":        q.PrimaryCount,
			"keywordVariants":     q.KeywordVariants,
		},
	}
}

func verdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func renderMarkdown(w io.Writer, reports []Report) error {
	var sb strings.Builder
	for i, r := range reports {
		out, err := reportTemplate.Exec(markdownContext(r))
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(out)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
