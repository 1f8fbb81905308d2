package engine

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/rsaforge/internal/builder"
	"github.com/fulmenhq/rsaforge/internal/canon"
	"github.com/fulmenhq/rsaforge/pkg/logger"
)

// Generate builds the canonical (variant 0) bundle for req.
func Generate(req Request) (Bundle, error) {
	return GenerateWithOptions(req, Options{})
}

// GenerateWithOptions builds a bundle for req. It fails only when the service
// is blank; the result is deterministic for a given request and options.
func GenerateWithOptions(req Request, opts Options) (Bundle, error) {
	if err := req.Validate(); err != nil {
		return Bundle{}, err
	}
	req = req.Normalized()
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	branch := canon.ResolveBranch(req.Service)
	region := canon.ResolveRegion(req.Location)

	alloc := builder.Allocate(builder.Input{
		Branch:   branch,
		Region:   region,
		Keywords: req.KeywordList,
		USPs:     req.USPList,
		Offer:    req.Offer,
		Variant:  opts.Variant,
	})
	logger.Debug("headlines allocated",
		logger.String("service", branch.Term),
		logger.String("region", region.Display),
		logger.Int("variant", opts.Variant),
		logger.Int("literal_anchors", alloc.Stats.LiteralAnchors),
		logger.Int("min_anchors", alloc.Stats.MinAnchors),
		logger.Int("keyword_targets", alloc.Stats.KeywordTargets),
		logger.Int("keywords_covered", alloc.Stats.KeywordsCovered),
		logger.Float("coverage", alloc.Stats.Coverage),
		logger.String("buckets", bucketSummary(alloc.Stats.Buckets)),
	)
	if len(alloc.Relaxed) > 0 {
		logger.Warn("accepted headlines outside the similarity rules",
			logger.String("service", branch.Term),
			logger.String("region", region.Display),
			logger.Strings("relaxed", alloc.Relaxed),
		)
	}

	descs := buildDescriptions(branch, region)
	descriptions := make([]string, len(descs))
	themes := make([]string, len(descs))
	for i, d := range descs {
		descriptions[i] = d.Text
		themes[i] = string(d.Theme)
	}
	logger.Debug("descriptions selected", logger.Strings("themes", themes))

	finalURL := FinalURL(req.FinalURL, base, req.Location)
	path1, path2 := Paths(req.Location)

	return Bundle{
		BusinessName:       req.BusinessName,
		Headlines:          alloc.Headlines,
		Descriptions:       descriptions,
		Path1:              path1,
		Path2:              path2,
		FinalURL:           finalURL,
		Sitelinks:          Sitelinks(finalURL, base),
		Callouts:           Callouts(req.USPList),
		StructuredSnippets: StructuredSnippets(branch),
		Relaxed:            alloc.Relaxed,
	}, nil
}

func bucketSummary(counts map[builder.Bucket]int) string {
	order := []builder.Bucket{
		builder.BucketAnchor, builder.BucketKeyword, builder.BucketUSP, builder.BucketUrgency,
		builder.BucketAlias, builder.BucketRegionFiller, builder.BucketBranchFiller,
		builder.BucketGeneric, builder.BucketForced,
	}
	parts := make([]string, 0, len(order))
	for _, b := range order {
		if n := counts[b]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", b, n))
		}
	}
	return strings.Join(parts, " ")
}
