package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/campaign"
	"github.com/fulmenhq/rsaforge/pkg/ascii"
)

// PlanReport is a campaign plan with the receipt of building it, if any.
type PlanReport struct {
	Plan    campaign.Plan     `json:"plan" yaml:"plan"`
	Receipt *campaign.Receipt `json:"receipt,omitempty" yaml:"receipt,omitempty"`
}

// RenderPlan writes a campaign plan in format f.
func RenderPlan(w io.Writer, f Format, pr PlanReport) error {
	switch f {
	case FormatText, "":
		_, err := io.WriteString(w, planText(pr))
		return err
	case FormatMarkdown:
		out, err := planTemplate.Exec(planContext(pr))
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatJSON:
		return encodeJSON(w, pr)
	case FormatYAML:
		return encodeYAML(w, pr)
	case FormatXML:
		return planXML(w, pr)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

func urlState(verified bool) string {
	if verified {
		return "verified"
	}
	return "not probed"
}

func planText(pr PlanReport) string {
	p := pr.Plan
	var sb strings.Builder
	sb.WriteString(ascii.Box([]string{
		"Campaign Plan",
		"Name: " + p.Name,
		"Final URL: " + p.FinalURL + " (" + urlState(p.URLVerified) + ")",
	}))
	sb.WriteString("\n")

	for _, g := range p.AdGroups {
		section(&sb, fmt.Sprintf("AD GROUP: %s (%s, %d keywords)", g.Name, g.Type, len(g.Keywords)))
		for _, k := range g.Keywords {
			fmt.Fprintf(&sb, "  %s %s\n", ascii.PadRight(string(k.MatchType), 6), k.Text)
		}
		sb.WriteString("\n")
	}

	section(&sb, fmt.Sprintf("NEGATIVE KEYWORDS (%d)", len(p.Negatives)))
	sb.WriteString(strings.Join(p.Negatives, ", ") + "\n")

	if rec := pr.Receipt; rec != nil {
		sb.WriteString("\n")
		title := "RECEIPT"
		if rec.DryRun {
			title += " (dry run)"
		}
		section(&sb, title)
		fmt.Fprintf(&sb, "Campaign: %s\n", rec.Campaign)
		for _, g := range rec.AdGroups {
			fmt.Fprintf(&sb, "Ad group: %s\n", g)
		}
		fmt.Fprintf(&sb, "Ads: %d  Keywords: %d  Negatives: %d  Assets: %d\n", rec.Ads, rec.Keywords, rec.Negatives, rec.Assets)
	}
	return sb.String()
}

func planContext(pr PlanReport) map[string]interface{} {
	p := pr.Plan
	groups := make([]map[string]interface{}, len(p.AdGroups))
	for i, g := range p.AdGroups {
		kws := make([]map[string]string, len(g.Keywords))
		for j, k := range g.Keywords {
			kws[j] = map[string]string{"text": k.Text, "matchType": string(k.MatchType)}
		}
		groups[i] = map[string]interface{}{
			"name": g.Name, "type": string(g.Type), "description": g.Description, "keywords": kws,
		}
	}
	ctx := map[string]interface{}{
		"name":        p.Name,
		"finalUrl":    p.FinalURL,
		"urlVerified": p.URLVerified,
		"adGroups":    groups,
		"negatives":   p.Negatives,
	}
	if rec := pr.Receipt; rec != nil {
		ctx["receipt"] = map[string]interface{}{
			"campaign":     rec.Campaign,
			"adGroupCount": len(rec.AdGroups),
			"ads":          rec.Ads,
			"keywords":     rec.Keywords,
			"negatives":    rec.Negatives,
			"assets":       rec.Assets,
			"dryRun":       rec.DryRun,
		}
	}
	return ctx
}

func planXML(w io.Writer, pr PlanReport) error {
	p := pr.Plan
	doc, root := newDocument("plan")
	root.CreateAttr("name", p.Name)
	root.CreateAttr("finalUrl", p.FinalURL)
	root.CreateAttr("urlVerified", strconv.FormatBool(p.URLVerified))

	groups := root.CreateElement("adGroups")
	for _, g := range p.AdGroups {
		ge := groups.CreateElement("adGroup")
		ge.CreateAttr("name", g.Name)
		ge.CreateAttr("type", string(g.Type))
		for _, k := range g.Keywords {
			ke := ge.CreateElement("keyword")
			ke.CreateAttr("matchType", string(k.MatchType))
			ke.SetText(k.Text)
		}
	}
	textList(root, "negativeKeywords", "keyword", p.Negatives, false)

	if rec := pr.Receipt; rec != nil {
		re := root.CreateElement("receipt")
		re.CreateAttr("campaign", rec.Campaign)
		re.CreateAttr("dryRun", strconv.FormatBool(rec.DryRun))
		re.CreateAttr("ads", strconv.Itoa(rec.Ads))
		re.CreateAttr("keywords", strconv.Itoa(rec.Keywords))
		re.CreateAttr("negatives", strconv.Itoa(rec.Negatives))
		re.CreateAttr("assets", strconv.Itoa(rec.Assets))
		for _, g := range rec.AdGroups {
			re.CreateElement("adGroup").SetText(g)
		}
	}
	return writeDocument(w, doc)
}
