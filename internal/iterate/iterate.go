// Package iterate regenerates a bundle until it passes the quality gate or the
// attempt budget runs out.
package iterate

import (
	"context"
	"errors"
	"fmt"

	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/gate"
	"github.com/fulmenhq/rsaforge/pkg/logger"
)

const (
	DefaultMaxIterations = 5
	MinIterations        = 1
	MaxIterations        = 20
)

// ErrInvalidIterations is returned for an attempt budget outside 1..20.
var ErrInvalidIterations = errors.New("max iterations must be between 1 and 20")

// State is a step of the generate-score loop.
type State string

const (
	StateGenerating State = "GENERATING"
	StateScoring    State = "SCORING"
	StatePassed     State = "PASSED"
	StateRetry      State = "RETRY"
	StateExhausted  State = "EXHAUSTED"
)

// Options configures GenerateWithGate.
type Options struct {
	// MaxIterations defaults to DefaultMaxIterations when zero.
	MaxIterations int
	// BaseURL is forwarded to the engine.
	BaseURL string
}

// Attempt records one generate-and-score round.
type Attempt struct {
	Iteration int               `json:"iteration" yaml:"iteration"`
	Variant   int               `json:"variant" yaml:"variant"`
	State     State             `json:"state" yaml:"state"`
	Score     gate.QualityScore `json:"score" yaml:"score"`
	Fixes     []gate.Suggestion `json:"fixes,omitempty" yaml:"fixes,omitempty"`
}

// Result is the outcome of GenerateWithGate. Bundle and Score belong to the
// passing attempt, or to the last attempt when none passed.
type Result struct {
	Request    engine.Request    `json:"request" yaml:"request"`
	Bundle     engine.Bundle     `json:"bundle" yaml:"bundle"`
	Score      gate.QualityScore `json:"score" yaml:"score"`
	Iterations int               `json:"iterations" yaml:"iterations"`
	Passed     bool              `json:"passed" yaml:"passed"`
	Trace      []Attempt         `json:"trace" yaml:"trace"`
}

// GenerateWithGate generates and scores bundles until one passes. Attempt n
// uses engine variant n-1. Exhausting the budget is not an error; generation
// errors and context cancellation between attempts are.
func GenerateWithGate(ctx context.Context, req engine.Request, opts Options) (Result, error) {
	limit := opts.MaxIterations
	if limit == 0 {
		limit = DefaultMaxIterations
	}
	if limit < MinIterations || limit > MaxIterations {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidIterations, limit)
	}

	res := Result{Request: req}
	for i := 1; i <= limit; i++ {
		if i > 1 {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("iteration %d: %w", i, err)
			}
		}

		logger.Debug("generating bundle", logger.String("state", string(StateGenerating)), logger.Int("iteration", i))
		bundle, err := engine.GenerateWithOptions(req, engine.Options{Variant: i - 1, BaseURL: opts.BaseURL})
		if err != nil {
			return res, fmt.Errorf("generate bundle: %w", err)
		}

		logger.Debug("scoring bundle", logger.String("state", string(StateScoring)), logger.Int("iteration", i))
		score := gate.Score(bundle, req)
		res.Bundle = bundle
		res.Score = score
		res.Iterations = i

		attempt := Attempt{Iteration: i, Variant: i - 1, Score: score}
		if gate.Passes(score) {
			attempt.State = StatePassed
			res.Passed = true
			res.Trace = append(res.Trace, attempt)
			logger.Info("quality gate passed",
				logger.String("service", req.Service),
				logger.String("location", req.Location),
				logger.Int("iteration", i),
				logger.Int("total", score.TotalScore),
			)
			return res, nil
		}

		attempt.Fixes = gate.SuggestFixes(score)
		attempt.State = StateRetry
		if i == limit {
			attempt.State = StateExhausted
		}
		res.Trace = append(res.Trace, attempt)
		logger.Warn("quality gate failed",
			logger.String("service", req.Service),
			logger.String("location", req.Location),
			logger.Int("iteration", i),
			logger.Int("total", score.TotalScore),
			logger.Int("keyword_coverage", score.KeywordCoverageScore),
			logger.Int("diversity", score.DiversityScore),
			logger.Int("errors", score.ErrorCount()),
			logger.String("next", string(attempt.State)),
		)
	}
	return res, nil
}
