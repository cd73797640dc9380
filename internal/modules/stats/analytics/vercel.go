package analytics

import (
	"context"
)

// Vercel Analytics has no read API. These figures are presentation constants, not measurements.
var vercelEngagement = Engagement{
	AvgTimeOnSite:     "3m 45s",
	AvgSessionSeconds: 225,
	BounceRate:        32,
	ReturningVisitors: 48,
	NewVisitors:       52,
}

// VercelProvider overlays a weekday-weighted series and fixed engagement on the internal counts.
type VercelProvider struct {
	src  Source
	opts Options
}

func NewVercelProvider(src Source, opts Options) *VercelProvider {
	return &VercelProvider{src: src, opts: opts.withDefaults()}
}

func (p *VercelProvider) Name() ProviderName { return ProviderVercel }

func (p *VercelProvider) Fetch(ctx context.Context, rng Range) (*Response, error) {
	now := p.opts.Now()
	resp, err := aggregate(ctx, p.src, now, rng)
	if err != nil {
		return nil, err
	}
	resp.Provider = string(ProviderVercel)

	series := NewSyntheticSeries(p.opts.seedFor(now, rng), now)
	resp.ViewsByDay = series.Weekly(resp.TotalViews, rng.Days)
	resp.LikesByDay = series.Weekly(resp.TotalLikes, rng.Days)
	resp.CommentsByDay = series.Weekly(resp.TotalComments, rng.Days)

	resp.Engagement = vercelEngagement
	resp.Engagement.EngagementRate = percent1(resp.TotalLikes+resp.TotalComments, resp.TotalViews)
	resp.EstimatedFields = append(resp.EstimatedFields,
		"engagement.avgTimeOnSite", "engagement.bounceRate", "engagement.returningVisitors", "engagement.newVisitors")
	return resp, nil
}
