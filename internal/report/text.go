package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/rsaforge/internal/gate"
	"github.com/fulmenhq/rsaforge/pkg/ascii"
)

const ruleWidth = 50

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(ascii.Rule(ruleWidth) + "\n")
}

func writeText(sb *strings.Builder, r Report) {
	header := []string{"RSA Asset Preview"}
	if r.Source != "" {
		header = append(header, "Source: "+r.Source)
	}
	kw := "None"
	if len(r.Request.KeywordList) > 0 {
		kw = strings.Join(r.Request.KeywordList, ", ")
	}
	header = append(header,
		"Service: "+r.Request.Service,
		"Location: "+r.Request.Location,
		"Keywords: "+ascii.TruncateForBox(kw, 72),
	)
	sb.WriteString(ascii.Box(header))
	sb.WriteString("\n")

	b := r.Bundle
	section(sb, fmt.Sprintf("HEADLINES (%d)", len(b.Headlines)))
	for i, h := range b.Headlines {
		fmt.Fprintf(sb, "%2d. [%2d] %s\n", i+1, utf8.RuneCountInString(h), h)
	}
	sb.WriteString("\n")

	section(sb, fmt.Sprintf("DESCRIPTIONS (%d)", len(b.Descriptions)))
	for i, d := range b.Descriptions {
		fmt.Fprintf(sb, "%2d. [%2d] %s\n", i+1, utf8.RuneCountInString(d), d)
	}
	sb.WriteString("\n")

	if b.Path1 != "" || b.Path2 != "" || b.FinalURL != "" {
		section(sb, "DISPLAY URL PATHS")
		fmt.Fprintf(sb, "Path1: %s\n", orEmpty(b.Path1))
		fmt.Fprintf(sb, "Path2: %s\n", orEmpty(b.Path2))
		fmt.Fprintf(sb, "Final URL: %s\n\n", orEmpty(b.FinalURL))
	}

	if len(b.Sitelinks) > 0 {
		section(sb, "SITELINKS")
		for i, sl := range b.Sitelinks {
			fmt.Fprintf(sb, "%2d. %s\n    %s\n    %s\n    %s\n", i+1, sl.Text, sl.Description1, sl.Description2, sl.URL)
		}
		sb.WriteString("\n")
	}

	if len(b.Callouts) > 0 {
		section(sb, "CALLOUTS")
		for i, c := range b.Callouts {
			fmt.Fprintf(sb, "%2d. %s\n", i+1, c)
		}
		sb.WriteString("\n")
	}

	if len(b.StructuredSnippets) > 0 {
		section(sb, "STRUCTURED SNIPPETS")
		for i, ss := range b.StructuredSnippets {
			fmt.Fprintf(sb, "%2d. %s:\n", i+1, ss.Header)
			for _, v := range ss.Values {
				fmt.Fprintf(sb, "    - %s\n", v)
			}
		}
		sb.WriteString("\n")
	}

	writeScore(sb, r)
}

func writeScore(sb *strings.Builder, r Report) {
	q := r.Score
	section(sb, "QUALITY SCORE")
	fmt.Fprintf(sb, "Total Score: %d/100 %s\n", q.TotalScore, mark(q.TotalScore >= gate.PassTotal))
	fmt.Fprintf(sb, "Keyword Coverage: %d/100 %s\n", q.KeywordCoverageScore, mark(q.KeywordCoverageScore >= gate.PassKeywords))
	fmt.Fprintf(sb, "Diversity Score: %d/100 %s\n", q.DiversityScore, mark(q.DiversityScore >= gate.PassDiversity))
	fmt.Fprintf(sb, "Length Errors: %d %s\n", q.LengthErrors, mark(q.LengthErrors == 0))
	fmt.Fprintf(sb, "Duplicate Errors: %d %s\n", q.DuplicateErrors, mark(q.DuplicateErrors == 0))
	fmt.Fprintf(sb, "Near-Duplicate Errors: %d %s\n", q.NearDuplicateErrors, mark(q.NearDuplicateErrors == 0))
	if r.Iterations > 0 {
		fmt.Fprintf(sb, "Iterations: %d\n", r.Iterations)
	}
	sb.WriteString("\n")

	numbered(sb, "ERRORS", q.Errors)
	numbered(sb, "WARNINGS", q.Warnings)
	if len(r.Fixes) > 0 {
		fixes := make([]string, len(r.Fixes))
		for i, f := range r.Fixes {
			fixes[i] = fmt.Sprintf("[%s] %s", f.Priority, f.Action)
		}
		numbered(sb, "SUGGESTED FIXES", fixes)
	}
	numbered(sb, "POLICY VIOLATIONS", r.Policy)

	status := "✅ PASSED"
	if !r.Passed {
		status = "❌ FAILED"
	}
	fmt.Fprintf(sb, "Status: %s\n", status)
}

func numbered(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	section(sb, title)
	for i, it := range items {
		fmt.Fprintf(sb, "%2d. %s\n", i+1, it)
	}
	sb.WriteString("\n")
}

func orEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}
