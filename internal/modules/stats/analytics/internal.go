package analytics

import (
	"context"
	"fmt"
	"time"
)

const (
	topPostsLimit      = 10
	topCategoriesLimit = 5
	topTagsLimit       = 10
	recentWindow       = 24 * time.Hour
)

// Options tune the database-backed providers.
type Options struct {
	Now func() time.Time
	// Seed fixes the synthetic series. Zero derives one from the calendar day and range.
	Seed uint64
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) seedFor(now time.Time, rng Range) uint64 {
	if o.Seed != 0 {
		return o.Seed ^ uint64(rng.Days)
	}
	y, m, d := now.Date()
	return uint64(y*10000+int(m)*100+d)<<16 | uint64(rng.Days)
}

// InternalProvider derives analytics from the blog's own tables.
type InternalProvider struct {
	src  Source
	opts Options
}

func NewInternalProvider(src Source, opts Options) *InternalProvider {
	return &InternalProvider{src: src, opts: opts.withDefaults()}
}

func (p *InternalProvider) Name() ProviderName { return ProviderInternal }

func (p *InternalProvider) Fetch(ctx context.Context, rng Range) (*Response, error) {
	now := p.opts.Now()
	resp, err := aggregate(ctx, p.src, now, rng)
	if err != nil {
		return nil, err
	}
	resp.Provider = string(ProviderInternal)

	series := NewSyntheticSeries(p.opts.seedFor(now, rng), now)
	resp.ViewsByDay = series.Uniform(resp.TotalViews, rng.Days)
	resp.LikesByDay = series.Uniform(resp.TotalLikes, rng.Days)
	resp.CommentsByDay = series.Uniform(resp.TotalComments, rng.Days)

	resp.Engagement = Engagement{
		AvgTimeOnSite:  formatDuration(0),
		EngagementRate: percent1(resp.TotalLikes+resp.TotalComments, resp.TotalViews),
	}
	return resp, nil
}

// aggregate collects the counted part of a response: totals, recent activity and top lists.
func aggregate(ctx context.Context, src Source, now time.Time, rng Range) (*Response, error) {
	counts, err := src.Counts(ctx, now.Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	topPosts, err := src.TopPosts(ctx, topPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("top posts: %w", err)
	}
	topCategories, err := src.TopCategories(ctx, topCategoriesLimit)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	topTags, err := src.TopTags(ctx, topTagsLimit)
	if err != nil {
		return nil, fmt.Errorf("top tags: %w", err)
	}

	return &Response{
		Range:          rng.Key,
		Days:           rng.Days,
		GeneratedAt:    now,
		TotalPosts:     counts.TotalPosts,
		PublishedPosts: counts.PublishedPosts,
		DraftPosts:     counts.DraftPosts,
		FeaturedPosts:  counts.FeaturedPosts,
		TotalViews:     estimateViews(counts.TotalComments, counts.TotalLikes),
		TotalLikes:     counts.TotalLikes,
		TotalComments:  counts.TotalComments,
		TotalUsers:     counts.TotalUsers,
		RecentPosts:    counts.RecentPosts,
		// There is no pageview table; recent comments stand in for recent views.
		RecentViews:    counts.RecentComments,
		RecentLikes:    counts.RecentLikes,
		RecentComments: counts.RecentComments,
		TopPosts:       topPosts,
		TopCategories:  topCategories,
		TopTags:        topTags,
		Series:         SeriesSynthetic,
		EstimatedFields: []string{
			"totalViews", "recentViews", "viewsByDay", "likesByDay", "commentsByDay",
			"topPosts.viewCount", "topCategories.totalViews", "topTags.totalViews",
		},
	}, nil
}

// estimateViews is the view proxy used wherever no pageview counter exists.
func estimateViews(comments, likes int64) int64 {
	return comments + likes*2
}
