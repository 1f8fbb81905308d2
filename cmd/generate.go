/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/rsaforge/internal/canon"
	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/iterate"
	"github.com/fulmenhq/rsaforge/internal/keywords"
	"github.com/fulmenhq/rsaforge/internal/policy"
	"github.com/fulmenhq/rsaforge/internal/report"
	"github.com/fulmenhq/rsaforge/internal/request"
	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type generateOptions struct {
	format        report.Format
	batch         string
	output        string
	maxIterations int
	workers       int
	autoKeywords  bool
	failOnGate    bool
	policy        string
	noIgnore      bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := generateOptions{format: report.FormatText}
	cmd := &cobra.Command{
		Use:   "generate [request-file]",
		Short: "Generate assets through the quality gate",
		Long: `Generate assets from a request document (JSON, YAML or TOML), regenerating
with a new variant until the quality gate passes or the attempt budget runs out.

With --batch, every request matching the glob is generated concurrently and
rendered into one combined report. Matches excluded by .gitignore or
.rsaforgeignore are skipped unless --no-ignore is set.

With --policy (or policy.file in config), every generated bundle is also
checked against a brand policy; a violation fails the request.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts, args)
		},
	}

	cmd.Flags().VarP(&opts.format, "format", "f", "Output format (text|markdown|json|yaml|xml)")
	cmd.Flags().StringVar(&opts.batch, "batch", "", "Glob of request files (supports **)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", iterate.DefaultMaxIterations, "Attempt budget (1-20)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent batch workers (default from config)")
	cmd.Flags().BoolVar(&opts.autoKeywords, "auto-keywords", false, "Use the generated keyword set when a request has no keywords")
	cmd.Flags().BoolVar(&opts.failOnGate, "fail-on-gate", false, "Exit non-zero when any request fails the quality gate")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Brand policy file (.rego, .yaml)")
	cmd.Flags().BoolVar(&opts.noIgnore, "no-ignore", false, "Do not skip batch matches excluded by ignore files")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts generateOptions, args []string) error {
	switch {
	case opts.batch != "" && len(args) > 0:
		return fmt.Errorf("%w: pass a request file or --batch, not both", errUsage)
	case opts.batch == "" && len(args) == 0:
		return fmt.Errorf("%w: a request file or --batch is required", errUsage)
	}

	format, err := a.resolveFormat(cmd, opts.format)
	if err != nil {
		return err
	}
	iterOpts := iterate.Options{
		MaxIterations: a.resolveIterations(cmd, opts.maxIterations),
		BaseURL:       a.cfg.Generation.BaseURL,
	}
	pol, err := a.loadPolicy(cmd.Context(), cmd, opts.policy)
	if err != nil {
		return err
	}
	job := generateJob{opts: iterOpts, autoKeywords: opts.autoKeywords, policy: pol}

	var reports []report.Report
	if opts.batch != "" {
		workers := a.cfg.Batch.Limit()
		if opts.workers > 0 {
			workers = opts.workers
		}
		reports, err = a.generateBatch(cmd.Context(), opts.batch, workers, !opts.noIgnore, job)
	} else {
		var r report.Report
		r, err = a.generateOne(cmd.Context(), args[0], job)
		reports = []report.Report{r}
	}
	if err != nil {
		return err
	}

	if err := emit(cmd, opts.output, func(w io.Writer) error {
		return report.Render(w, format, reports...)
	}); err != nil {
		return err
	}

	if opts.failOnGate {
		failed := 0
		for _, r := range reports {
			if !r.Passed {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%w: %d of %d requests", errGateFailed, failed, len(reports))
		}
	}
	return nil
}

// generateJob is the per-request work shared by every file of a run.
type generateJob struct {
	opts         iterate.Options
	autoKeywords bool
	policy       *policy.Engine
	// baseDir confines request reads; batch runs set it to the glob base.
	baseDir string
}

func (a *app) generateOne(ctx context.Context, path string, job generateJob) (report.Report, error) {
	var (
		req engine.Request
		err error
	)
	if job.baseDir != "" {
		req, err = request.LoadFileIn(job.baseDir, path)
	} else {
		req, err = request.LoadFile(path)
	}
	if err != nil {
		return report.Report{}, err
	}
	req = a.applyDefaults(req)
	if job.autoKeywords {
		req = withGeneratedKeywords(req)
	}

	res, err := iterate.GenerateWithGate(ctx, req, job.opts)
	if err != nil {
		return report.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	r := report.FromResult(res)
	r.Source = path
	if err := checkPolicy(ctx, job.policy, &r); err != nil {
		return report.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// withGeneratedKeywords fills an empty keyword list from the keyword set
// generated for the request's service and location.
func withGeneratedKeywords(req engine.Request) engine.Request {
	if len(req.KeywordList) > 0 {
		return req
	}
	kws := keywords.Generate(canon.ResolveBranch(req.Service), canon.ResolveRegion(req.Location))
	req.KeywordList = keywords.Texts(kws)
	logger.Debug("using generated keywords", logger.String("service", req.Service), logger.Int("count", len(kws)))
	return req
}

// batchFiles expands pattern into a sorted file list, minus ignored files.
func (a *app) batchFiles(pattern string, respectIgnore bool) ([]string, error) {
	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: batch glob %q: %w", errUsage, pattern, err)
	}
	if respectIgnore && len(files) > 0 {
		m, err := a.ignoreMatcher()
		if err != nil {
			return nil, err
		}
		if m != nil {
			var skipped int
			files, skipped = m.Filter(files)
			if skipped > 0 {
				logger.Info("skipped ignored batch files", logger.Int("skipped", skipped))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: batch glob %q matched no files", errUsage, pattern)
	}
	sort.Strings(files)
	return files, nil
}

type indexedReport struct {
	index  int
	report report.Report
}

func (a *app) generateBatch(ctx context.Context, pattern string, workers int, respectIgnore bool, job generateJob) ([]report.Report, error) {
	files, err := a.batchFiles(pattern, respectIgnore)
	if err != nil {
		return nil, err
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	job.baseDir = filepath.FromSlash(base)
	logger.Info("batch generation started",
		logger.Int("requests", len(files)),
		logger.Int("workers", workers),
		logger.String("base", job.baseDir),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu      sync.Mutex
		results = make([]indexedReport, 0, len(files))
	)
	for i, file := range files {
		g.Go(func() error {
			r, err := a.generateOne(gctx, file, job)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, indexedReport{index: i, report: r})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %q: %w", pattern, err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	reports := make([]report.Report, len(results))
	passed := 0
	for i, ir := range results {
		reports[i] = ir.report
		if ir.report.Passed {
			passed++
		}
	}
	logger.Info("batch generation finished", logger.Int("requests", len(reports)), logger.Int("passed", passed))
	return reports, nil
}
