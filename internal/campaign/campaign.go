// Package campaign turns a generated bundle into a campaign plan and hands it
// to an ads platform through the Builder interface.
package campaign

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/canon"
	"github.com/fulmenhq/rsaforge/internal/engine"
	"github.com/fulmenhq/rsaforge/internal/keywords"
	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/fulmenhq/rsaforge/pkg/retry"
)

// Plan is everything a Builder needs to create one campaign.
type Plan struct {
	Name        string             `json:"name" yaml:"name"`
	Bundle      engine.Bundle      `json:"bundle" yaml:"bundle"`
	FinalURL    string             `json:"finalUrl" yaml:"finalUrl"`
	URLVerified bool               `json:"urlVerified" yaml:"urlVerified"`
	Keywords    []keywords.Keyword `json:"keywords" yaml:"keywords"`
	Negatives   []string           `json:"negativeKeywords" yaml:"negativeKeywords"`
	AdGroups    []keywords.AdGroup `json:"adGroups" yaml:"adGroups"`
}

// Receipt lists what a Builder created.
type Receipt struct {
	Campaign  string   `json:"campaign" yaml:"campaign"`
	AdGroups  []string `json:"adGroups" yaml:"adGroups"`
	Ads       int      `json:"ads" yaml:"ads"`
	Keywords  int      `json:"keywords" yaml:"keywords"`
	Negatives int      `json:"negativeKeywords" yaml:"negativeKeywords"`
	Assets    int      `json:"assets" yaml:"assets"`
	DryRun    bool     `json:"dryRun" yaml:"dryRun"`
}

// Builder creates a campaign from a plan on an ads platform.
type Builder interface {
	Build(ctx context.Context, plan Plan) (Receipt, error)
}

// NewPlan assembles the plan for req around an already generated bundle.
func NewPlan(req engine.Request, bundle engine.Bundle) Plan {
	req = req.Normalized()
	branch := canon.ResolveBranch(req.Service)
	region := canon.ResolveRegion(req.Location)
	kws := keywords.Generate(branch, region)

	name := strings.Join(strings.Fields(bundle.BusinessName+" "+branch.Title+" "+region.Display), " ")
	return Plan{
		Name:      name,
		Bundle:    bundle,
		FinalURL:  bundle.FinalURL,
		Keywords:  kws,
		Negatives: keywords.Negatives(branch),
		AdGroups:  keywords.AdGroups(branch, region, kws),
	}
}

// DryRunBuilder logs the writes a real builder would make and returns a
// receipt with placeholder resource names.
type DryRunBuilder struct{}

func (DryRunBuilder) Build(ctx context.Context, plan Plan) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	slug := canon.Slug(plan.Name)
	rec := Receipt{Campaign: "campaigns/" + slug, DryRun: true, Negatives: len(plan.Negatives)}
	logger.Info("would create campaign", logger.String("name", plan.Name), logger.String("final_url", plan.FinalURL))

	for _, g := range plan.AdGroups {
		name := fmt.Sprintf("%s/adGroups/%s", rec.Campaign, canon.Slug(g.Name))
		logger.Info("would create ad group",
			logger.String("name", g.Name),
			logger.String("type", string(g.Type)),
			logger.Int("keywords", len(g.Keywords)),
		)
		rec.AdGroups = append(rec.AdGroups, name)
		rec.Keywords += len(g.Keywords)
		rec.Ads++
	}

	b := plan.Bundle
	rec.Assets = len(b.Sitelinks) + len(b.Callouts) + len(b.StructuredSnippets)
	logger.Info("would add negative keywords and assets",
		logger.Int("negatives", rec.Negatives),
		logger.Int("sitelinks", len(b.Sitelinks)),
		logger.Int("callouts", len(b.Callouts)),
		logger.Int("snippets", len(b.StructuredSnippets)),
	)
	return rec, nil
}

// RetryingBuilder retries a failing Builder with exponential backoff.
type RetryingBuilder struct {
	Inner  Builder
	Policy retry.Policy
}

func (r RetryingBuilder) Build(ctx context.Context, plan Plan) (Receipt, error) {
	rec, err := retry.Do(ctx, r.Policy, func(ctx context.Context, attempt int) (Receipt, error) {
		rec, err := r.Inner.Build(ctx, plan)
		if err != nil {
			logger.Warn("campaign build failed",
				logger.String("campaign", plan.Name),
				logger.Int("attempt", attempt),
				logger.Int("attempts", r.Policy.Attempts),
				logger.Err(err),
			)
		}
		return rec, err
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("build campaign %q: %w", plan.Name, err)
	}
	return rec, nil
}
