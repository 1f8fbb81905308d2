/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/fulmenhq/rsaforge/internal/campaign"
	"github.com/fulmenhq/rsaforge/internal/iterate"
	"github.com/fulmenhq/rsaforge/internal/report"
	"github.com/fulmenhq/rsaforge/internal/request"
	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/spf13/cobra"
)

type planOptions struct {
	format        report.Format
	maxIterations int
	probe         bool
	dryRun        bool
}

func newPlanCmd(a *app) *cobra.Command {
	opts := planOptions{format: report.FormatText}
	cmd := &cobra.Command{
		Use:   "plan <request-file>",
		Short: "Build a campaign plan around generated assets",
		Long: `Generate assets for a request through the quality gate and lay out the campaign
around them: keyword set, negative keywords and ad groups.

--probe checks that the final URL answers before the plan is accepted; an
unreachable URL is rejected, never replaced. --dry-run walks the plan through
the campaign builder and prints the receipt without contacting an ads platform.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd, opts, args[0])
		},
	}

	cmd.Flags().VarP(&opts.format, "format", "f", "Output format (text|markdown|json|yaml|xml)")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", iterate.DefaultMaxIterations, "Attempt budget (1-20)")
	cmd.Flags().BoolVar(&opts.probe, "probe", false, "Probe the final URL with HEAD/GET before planning")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run the dry-run campaign builder and include its receipt")
	return cmd
}

func (a *app) runPlan(cmd *cobra.Command, opts planOptions, path string) error {
	format, err := a.resolveFormat(cmd, opts.format)
	if err != nil {
		return err
	}

	req, err := request.LoadFile(path)
	if err != nil {
		return err
	}
	req = a.applyDefaults(req)

	ctx := cmd.Context()
	res, err := iterate.GenerateWithGate(ctx, req, iterate.Options{
		MaxIterations: a.resolveIterations(cmd, opts.maxIterations),
		BaseURL:       a.cfg.Generation.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !res.Passed {
		logger.Warn("planning with assets that failed the quality gate",
			logger.String("request", path),
			logger.Int("total", res.Score.TotalScore),
			logger.Int("iterations", res.Iterations),
		)
	}

	plan := campaign.NewPlan(res.Request, res.Bundle)
	policy := a.cfg.Campaign.RetryPolicy()

	if opts.probe {
		prober := campaign.NewURLProber(campaign.NewHTTPClient(a.cfg.Campaign.ProbeTimeout))
		if err := campaign.ProbeWithRetry(ctx, prober, plan.FinalURL, policy); err != nil {
			return fmt.Errorf("final URL rejected: %w", err)
		}
		plan.URLVerified = true
		logger.Info("final URL verified", logger.String("url", plan.FinalURL))
	}

	pr := report.PlanReport{Plan: plan}
	if opts.dryRun {
		builder := campaign.RetryingBuilder{Inner: campaign.DryRunBuilder{}, Policy: policy}
		rec, err := builder.Build(ctx, plan)
		if err != nil {
			return err
		}
		pr.Receipt = &rec
	}

	return emit(cmd, "", func(w io.Writer) error {
		return report.RenderPlan(w, format, pr)
	})
}
