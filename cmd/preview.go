/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/gate"
	"github.com/fulmenhq/rsaforge/internal/report"
	"github.com/spf13/cobra"
)

type previewOptions struct {
	format       report.Format
	businessName string
	finalURL     string
	offer        string
	tone         string
	usps         []string
}

func newPreviewCmd(a *app) *cobra.Command {
	opts := previewOptions{format: report.FormatText}
	cmd := &cobra.Command{
		Use:   "preview <service> <location> [keyword...]",
		Short: "Generate and score one asset set",
		Long: `Generate a single asset set for a service and location and print it together
with its quality report. The gate verdict is reported but does not change the
exit status; only generation failures do.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreview(cmd, opts, args)
		},
	}

	cmd.Flags().VarP(&opts.format, "format", "f", "Output format (text|markdown|json|yaml|xml)")
	cmd.Flags().StringVar(&opts.businessName, "business-name", "", "Business name (default from config)")
	cmd.Flags().StringVar(&opts.finalURL, "final-url", "", "Landing page URL")
	cmd.Flags().StringVar(&opts.offer, "offer", "", "Current offer")
	cmd.Flags().StringVar(&opts.tone, "tone", "", "Copy tone (direct|friendly|professional)")
	cmd.Flags().StringSliceVar(&opts.usps, "usp", nil, "Unique selling point (repeatable)")
	return cmd
}

func (a *app) runPreview(cmd *cobra.Command, opts previewOptions, args []string) error {
	format, err := a.resolveFormat(cmd, opts.format)
	if err != nil {
		return err
	}

	req := a.applyDefaults(engine.Request{
		BusinessName: opts.businessName,
		Service:      args[0],
		Location:     args[1],
		KeywordList:  args[2:],
		USPList:      opts.usps,
		Offer:        opts.offer,
		FinalURL:     opts.finalURL,
		Tone:         engine.Tone(opts.tone),
	})

	bundle, err := engine.GenerateWithOptions(req, engine.Options{BaseURL: a.cfg.Generation.BaseURL})
	if err != nil {
		return fmt.Errorf("generate preview: %w", err)
	}
	r := report.New(req, bundle, gate.Score(bundle, req))
	return emit(cmd, "", func(w io.Writer) error {
		return report.Render(w, format, r)
	})
}
