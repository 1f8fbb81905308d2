/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fulmenhq/rsaforge/internal/policy"
	"github.com/fulmenhq/rsaforge/internal/report"
	"github.com/fulmenhq/rsaforge/pkg/config"
	"github.com/fulmenhq/rsaforge/pkg/ignore"
	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/fulmenhq/rsaforge/pkg/safeio"
	"github.com/spf13/cobra"
)

// resolveFormat prefers an explicit --format over output.format from config.
func (a *app) resolveFormat(cmd *cobra.Command, f report.Format) (report.Format, error) {
	if cmd.Flags().Changed("format") {
		return f, nil
	}
	return report.ParseFormat(a.cfg.Output.Format)
}

// resolveIterations prefers an explicit --max-iterations over gate.max_iterations.
func (a *app) resolveIterations(cmd *cobra.Command, n int) int {
	if cmd.Flags().Changed("max-iterations") {
		return n
	}
	return a.cfg.Gate.MaxIterations
}

// loadPolicy compiles the brand policy named by --policy or policy.file.
// It returns nil when neither is set.
func (a *app) loadPolicy(ctx context.Context, cmd *cobra.Command, path string) (*policy.Engine, error) {
	if !cmd.Flags().Changed("policy") {
		path = a.cfg.Policy.File
	}
	if path == "" {
		return nil, nil
	}
	e, err := policy.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("brand policy loaded", logger.String("path", path))
	return e, nil
}

// checkPolicy evaluates e against r's bundle and records the violations.
func checkPolicy(ctx context.Context, e *policy.Engine, r *report.Report) error {
	if e == nil {
		return nil
	}
	violations, err := e.Evaluate(ctx, r.Bundle)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		logger.Warn("brand policy violated",
			logger.String("policy", e.Source()),
			logger.String("source", r.Source),
			logger.Int("violations", len(violations)),
		)
	}
	r.ApplyPolicy(violations)
	return nil
}

// ignoreMatcher builds the batch ignore matcher rooted at the working
// directory, or returns nil when batch.respect_ignore is off.
func (a *app) ignoreMatcher() (*ignore.Matcher, error) {
	if !a.cfg.Batch.RespectIgnore {
		return nil, nil
	}
	var extra []string
	if home, err := config.GetHome(); err == nil {
		extra = append(extra, filepath.Join(home, ignore.FileName))
	}
	return ignore.NewMatcher(".", extra...)
}

// emit renders into memory first, then writes the result to path, or to
// stdout when path is empty.
func emit(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if path == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	clean, err := safeio.CleanUserPath(path)
	if err != nil {
		return fmt.Errorf("output %s: %w", path, err)
	}
	if err := safeio.WriteFilePreservePerms(clean, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", clean, err)
	}
	logger.Info("report written", logger.String("path", clean), logger.Int("bytes", buf.Len()))
	return nil
}
