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
	"github.com/fulmenhq/rsaforge/internal/request"
	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/spf13/cobra"
)

type scoreOptions struct {
	format     report.Format
	service    string
	location   string
	keywords   []string
	failOnGate bool
	policy     string
}

func newScoreCmd(a *app) *cobra.Command {
	opts := scoreOptions{format: report.FormatText}
	cmd := &cobra.Command{
		Use:   "score <bundle-file>",
		Short: "Score an existing asset bundle against the quality gate",
		Long: `Score a bundle document (JSON, YAML or TOML with headlines and descriptions)
for the given service and location and print the quality report. With
--policy the bundle is also checked against a brand policy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScore(cmd, opts, args[0])
		},
	}

	cmd.Flags().VarP(&opts.format, "format", "f", "Output format (text|markdown|json|yaml|xml)")
	cmd.Flags().StringVar(&opts.service, "service", "", "Service the bundle advertises")
	cmd.Flags().StringVar(&opts.location, "location", "", "Location the bundle targets")
	cmd.Flags().StringSliceVarP(&opts.keywords, "keyword", "k", nil, "Target keyword (repeatable)")
	cmd.Flags().BoolVar(&opts.failOnGate, "fail-on-gate", false, "Exit non-zero when the bundle fails the quality gate")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Brand policy file (.rego, .yaml)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func (a *app) runScore(cmd *cobra.Command, opts scoreOptions, path string) error {
	format, err := a.resolveFormat(cmd, opts.format)
	if err != nil {
		return err
	}

	bundle, err := request.LoadBundleFile(path)
	if err != nil {
		return err
	}
	req := engine.Request{Service: opts.service, Location: opts.location, KeywordList: opts.keywords}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	pol, err := a.loadPolicy(cmd.Context(), cmd, opts.policy)
	if err != nil {
		return err
	}

	q := gate.Score(bundle, req)
	r := report.New(req, bundle, q)
	r.Source = path
	if err := checkPolicy(cmd.Context(), pol, &r); err != nil {
		return err
	}
	logger.Debug("bundle scored", logger.String("path", path), logger.Int("total", q.TotalScore), logger.Bool("passed", r.Passed))

	if err := emit(cmd, "", func(w io.Writer) error {
		return report.Render(w, format, r)
	}); err != nil {
		return err
	}
	if opts.failOnGate && !r.Passed {
		return fmt.Errorf("%w: %s scored %d", errGateFailed, path, q.TotalScore)
	}
	return nil
}
