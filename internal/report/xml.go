package report

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/beevik/etree"
)

func newDocument(rootTag string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc, doc.CreateElement(rootTag)
}

func writeDocument(w io.Writer, doc *etree.Document) error {
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func textList(parent *etree.Element, listTag, itemTag string, items []string, withLength bool) {
	if len(items) == 0 {
		return
	}
	list := parent.CreateElement(listTag)
	for _, it := range items {
		el := list.CreateElement(itemTag)
		if withLength {
			el.CreateAttr("length", strconv.Itoa(utf8.RuneCountInString(it)))
		}
		el.SetText(it)
	}
}

func renderXML(w io.Writer, reports []Report) error {
	doc, root := newDocument("reports")
	for _, r := range reports {
		appendReport(root, r)
	}
	return writeDocument(w, doc)
}

func appendReport(root *etree.Element, r Report) {
	el := root.CreateElement("report")
	if r.Source != "" {
		el.CreateAttr("source", r.Source)
	}
	el.CreateAttr("service", r.Request.Service)
	el.CreateAttr("location", r.Request.Location)
	el.CreateAttr("verdict", verdict(r.Passed))
	if r.Iterations > 0 {
		el.CreateAttr("iterations", strconv.Itoa(r.Iterations))
	}

	b := r.Bundle
	textList(el, "headlines", "headline", b.Headlines, true)
	textList(el, "descriptions", "description", b.Descriptions, true)

	paths := el.CreateElement("paths")
	paths.CreateAttr("path1", b.Path1)
	paths.CreateAttr("path2", b.Path2)
	paths.CreateAttr("finalUrl", b.FinalURL)

	if len(b.Sitelinks) > 0 {
		list := el.CreateElement("sitelinks")
		for _, sl := range b.Sitelinks {
			s := list.CreateElement("sitelink")
			s.CreateAttr("text", sl.Text)
			s.CreateAttr("url", sl.URL)
			s.CreateElement("description").SetText(sl.Description1)
			s.CreateElement("description").SetText(sl.Description2)
		}
	}
	textList(el, "callouts", "callout", b.Callouts, false)
	if len(b.StructuredSnippets) > 0 {
		list := el.CreateElement("structuredSnippets")
		for _, ss := range b.StructuredSnippets {
			s := list.CreateElement("snippet")
			s.CreateAttr("header", ss.Header)
			for _, v := range ss.Values {
				s.CreateElement("value").SetText(v)
			}
		}
	}

	q := r.Score
	score := el.CreateElement("score")
	for _, a := range []struct {
		name  string
		value int
	}{
		{"total", q.TotalScore},
		{"keywordCoverage", q.KeywordCoverageScore},
		{"diversity", q.DiversityScore},
		{"lengthErrors", q.LengthErrors},
		{"duplicateErrors", q.DuplicateErrors},
		{"nearDuplicateErrors", q.NearDuplicateErrors},
		{"primaryCount", q.PrimaryCount},
		{"keywordVariants", q.KeywordVariants},
	} {
		score.CreateAttr(a.name, strconv.Itoa(a.value))
	}
	for _, c := range q.Checks {
		ce := score.CreateElement("check")
		ce.CreateAttr("name", c.Name)
		ce.CreateAttr("score", strconv.FormatFloat(c.Score, 'f', -1, 64))
		ce.CreateAttr("max", strconv.FormatFloat(c.Max, 'f', -1, 64))
		ce.CreateAttr("count", strconv.Itoa(c.Count))
	}
	for _, e := range q.Errors {
		score.CreateElement("error").SetText(e)
	}
	for _, wn := range q.Warnings {
		score.CreateElement("warning").SetText(wn)
	}

	if len(r.Fixes) > 0 {
		list := el.CreateElement("fixes")
		for _, f := range r.Fixes {
			fe := list.CreateElement("fix")
			fe.CreateAttr("type", f.Type)
			fe.CreateAttr("priority", string(f.Priority))
			fe.SetText(f.Action)
		}
	}
	textList(el, "policyViolations", "violation", r.Policy, false)
}
