/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/canon"
	"github.com/fulmenhq/rsaforge/internal/keywords"
	"github.com/fulmenhq/rsaforge/internal/report"
	"github.com/fulmenhq/rsaforge/pkg/ascii"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// keywordSet is the output of the keywords command.
type keywordSet struct {
	Service   string             `json:"service" yaml:"service"`
	Location  string             `json:"location" yaml:"location"`
	Keywords  []keywords.Keyword `json:"keywords" yaml:"keywords"`
	Negatives []string           `json:"negativeKeywords" yaml:"negativeKeywords"`
	AdGroups  []keywords.AdGroup `json:"adGroups" yaml:"adGroups"`
}

func newKeywordsCmd(a *app) *cobra.Command {
	format := report.FormatText
	cmd := &cobra.Command{
		Use:   "keywords <service> [location]",
		Short: "Show the keyword set, negatives and ad groups",
		Long: `Print the exact, phrase and broad keywords generated for a service and
location, the negative keyword list and the location, intent and urgency ad
groups built from them.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.resolveFormat(cmd, format)
			if err != nil {
				return err
			}
			location := ""
			if len(args) == 2 {
				location = args[1]
			}
			set, err := buildKeywordSet(args[0], location)
			if err != nil {
				return err
			}
			return emit(cmd, "", func(w io.Writer) error { return renderKeywordSet(w, f, set) })
		},
	}
	cmd.Flags().VarP(&format, "format", "f", "Output format (text|json|yaml)")
	return cmd
}

func buildKeywordSet(service, location string) (keywordSet, error) {
	branch := canon.ResolveBranch(service)
	if branch.Term == "" {
		return keywordSet{}, fmt.Errorf("%w: service is required", errUsage)
	}
	region := canon.ResolveRegion(location)
	kws := keywords.Generate(branch, region)
	return keywordSet{
		Service:   branch.Term,
		Location:  region.Display,
		Keywords:  kws,
		Negatives: keywords.Negatives(branch),
		AdGroups:  keywords.AdGroups(branch, region, kws),
	}, nil
}

func renderKeywordSet(w io.Writer, f report.Format, set keywordSet) error {
	switch f {
	case report.FormatText:
		var sb strings.Builder
		fmt.Fprintf(&sb, "KEYWORDS (%d)\n%s\n", len(set.Keywords), ascii.Rule(50))
		for _, k := range set.Keywords {
			fmt.Fprintf(&sb, "  %s %s\n", ascii.PadRight(string(k.MatchType), 6), k.Text)
		}
		fmt.Fprintf(&sb, "\nNEGATIVE KEYWORDS (%d)\n%s\n%s\n", len(set.Negatives), ascii.Rule(50), strings.Join(set.Negatives, ", "))
		for _, g := range set.AdGroups {
			fmt.Fprintf(&sb, "\nAD GROUP: %s (%s, %d keywords)\n", g.Name, g.Type, len(g.Keywords))
		}
		_, err := io.WriteString(w, sb.String())
		return err
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	case report.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w %q for keywords", report.ErrUnknownFormat, f)
	}
}
