package analytics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/penline/blog/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

// GA4 has no likes or comments; they are estimated from eventCount.
const (
	gaLikeShare    = 0.10
	gaCommentShare = 0.05
	gaTopLimit     = 10
)

// ReportRunner executes one GA4 Data API report.
type ReportRunner interface {
	RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error)
}

// RunnerFactory builds a ReportRunner for a credential set.
type RunnerFactory func(creds *Credentials) (ReportRunner, error)

type dataAPIRunner struct{ svc *analyticsdata.Service }

func (r *dataAPIRunner) RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return r.svc.Properties.RunReport(property, req).Context(ctx).Do()
}

// NewDataAPIRunner talks to the real GA4 Data API with a service-account token source.
func NewDataAPIRunner(creds *Credentials) (ReportRunner, error) {
	jwtCfg, err := google.JWTConfigFromJSON(creds.JSON, analyticsdata.AnalyticsReadonlyScope)
	if err != nil {
		return nil, invalidCredentials(CodeGeneric, "Service-account JSON was rejected.", err)
	}
	// The token source outlives any single request.
	ctx := context.Background()
	svc, err := analyticsdata.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create analytics data client: %w", err)
	}
	return &dataAPIRunner{svc: svc}, nil
}

// PostCounter supplies the post totals GA4 cannot know about.
type PostCounter interface {
	Counts(ctx context.Context, since time.Time) (Counts, error)
}

// GoogleProvider reads GA4 through the Data API.
type GoogleProvider struct {
	lookup    config.LookupEnv
	newRunner RunnerFactory
	posts     PostCounter
	now       func() time.Time
	logger    *zap.Logger

	mu        sync.Mutex
	runner    ReportRunner
	runnerKey string
}

func NewGoogleProvider(lookup config.LookupEnv, newRunner RunnerFactory, posts PostCounter, now func() time.Time, logger *zap.Logger) *GoogleProvider {
	if lookup == nil {
		lookup = config.OSLookupEnv
	}
	if newRunner == nil {
		newRunner = NewDataAPIRunner
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleProvider{lookup: lookup, newRunner: newRunner, posts: posts, now: now, logger: logger}
}

func (p *GoogleProvider) Name() ProviderName { return ProviderGoogle }

// Configured reports whether every GA4 variable is present.
func (p *GoogleProvider) Configured() (bool, []string) {
	_, missing := config.LoadGA4Env(p.lookup)
	return len(missing) == 0, missing
}

// runnerFor returns a cached runner, rebuilding it when the credentials change.
func (p *GoogleProvider) runnerFor(creds *Credentials) (ReportRunner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := creds.fingerprint()
	if p.runner != nil && p.runnerKey == key {
		return p.runner, nil
	}
	runner, err := p.newRunner(creds)
	if err != nil {
		return nil, err
	}
	p.runner, p.runnerKey = runner, key
	return runner, nil
}

func (p *GoogleProvider) Fetch(ctx context.Context, rng Range) (*Response, error) {
	env, missing := config.LoadGA4Env(p.lookup)
	if len(missing) > 0 {
		return nil, notConfigured(missing)
	}
	creds, err := buildCredentials(env)
	if err != nil {
		return nil, err
	}
	runner, err := p.runnerFor(creds)
	if err != nil {
		return nil, classifyAPIError(err, creds)
	}

	dates := []*analyticsdata.DateRange{{StartDate: rng.GAStartDate(), EndDate: "today"}}

	// A single cheap query surfaces auth and property problems before the batch.
	if _, err := runner.RunReport(ctx, creds.PropertyID, &analyticsdata.RunReportRequest{
		DateRanges: dates,
		Metrics:    metrics("activeUsers"),
	}); err != nil {
		return nil, classifyAPIError(err, creds)
	}

	requests := [...]*analyticsdata.RunReportRequest{
		{
			DateRanges: dates,
			Dimensions: dimensions("date"),
			Metrics:    metrics("activeUsers", "screenPageViews", "sessions", "bounceRate", "averageSessionDuration", "eventCount"),
			OrderBys:   []*analyticsdata.OrderBy{{Dimension: &analyticsdata.DimensionOrderBy{DimensionName: "date"}}},
		},
		{
			DateRanges: dates,
			Metrics:    metrics("totalUsers", "newUsers", "activeUsers"),
		},
		{
			DateRanges: dates,
			Dimensions: dimensions("pagePath", "pageTitle"),
			Metrics:    metrics("screenPageViews"),
			OrderBys:   []*analyticsdata.OrderBy{{Desc: true, Metric: &analyticsdata.MetricOrderBy{MetricName: "screenPageViews"}}},
			Limit:      gaTopLimit,
		},
		{
			DateRanges: dates,
			Dimensions: dimensions("deviceCategory"),
			Metrics:    metrics("screenPageViews"),
		},
		{
			DateRanges: dates,
			Dimensions: dimensions("country"),
			Metrics:    metrics("screenPageViews"),
			OrderBys:   []*analyticsdata.OrderBy{{Desc: true, Metric: &analyticsdata.MetricOrderBy{MetricName: "screenPageViews"}}},
			Limit:      gaTopLimit,
		},
	}
	var reports [len(requests)]*analyticsdata.RunReportResponse

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		g.Go(func() error {
			resp, err := runner.RunReport(gctx, creds.PropertyID, req)
			if err != nil {
				return err
			}
			reports[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, classifyAPIError(err, creds)
	}

	var counts Counts
	if p.posts != nil {
		if counts, err = p.posts.Counts(ctx, p.now().Add(-24*time.Hour)); err != nil {
			return nil, fmt.Errorf("count posts: %w", err)
		}
	}

	resp := reshapeGA(reports[0], reports[1], reports[2], reports[3], reports[4], rng, p.now())
	resp.GAData.PropertyID = creds.PropertyID
	resp.TotalPosts = counts.TotalPosts
	resp.PublishedPosts = counts.PublishedPosts
	resp.DraftPosts = counts.DraftPosts
	resp.FeaturedPosts = counts.FeaturedPosts
	resp.RecentPosts = counts.RecentPosts

	p.logger.Debug("ga4 report fetched",
		zap.String("property", creds.PropertyID),
		zap.String("range", rng.Key),
		zap.Int64("page_views", resp.TotalViews),
	)
	return resp, nil
}

// reshapeGA maps the five GA4 reports onto the unified response.
func reshapeGA(series, totals, pages, devices, countries *analyticsdata.RunReportResponse, rng Range, now time.Time) *Response {
	ga := &GAData{}
	views := map[string]int64{}
	likes := map[string]int64{}
	comments := map[string]int64{}

	var bounceSum, durationSum float64
	var activeSum, measured int64
	for _, row := range rows(series) {
		day, err := time.Parse("20060102", dimensionValue(row, 0))
		if err != nil {
			continue
		}
		measured++
		key := day.Format(dateLayout)
		pageViews := metricInt(row, 1)
		events := metricInt(row, 5)

		views[key] += pageViews
		likes[key] += share(events, gaLikeShare)
		comments[key] += share(events, gaCommentShare)

		activeSum += metricInt(row, 0)
		ga.PageViews += pageViews
		ga.Sessions += metricInt(row, 2)
		bounceSum += metricFloat(row, 3)
		durationSum += metricFloat(row, 4)
		ga.EventCount += events
	}
	if measured > 0 {
		n := float64(measured)
		ga.BounceRate = round1(bounceSum / n * 100)
		ga.AvgSessionDuration = round1(durationSum / n)
	}

	ga.ActiveUsers = activeSum
	if totalRows := rows(totals); len(totalRows) > 0 {
		ga.TotalUsers = metricInt(totalRows[0], 0)
		ga.NewUsers = metricInt(totalRows[0], 1)
		if active := metricInt(totalRows[0], 2); active > 0 {
			ga.ActiveUsers = active
		}
	}

	ga.TopPages = make([]PageViews, 0, len(rows(pages)))
	topPosts := make([]TopPost, 0, len(rows(pages)))
	for _, row := range rows(pages) {
		page := PageViews{Path: dimensionValue(row, 0), Title: dimensionValue(row, 1), Views: metricInt(row, 0)}
		ga.TopPages = append(ga.TopPages, page)
		topPosts = append(topPosts, TopPost{ID: page.Path, Title: page.Title, Slug: page.Path, Status: "published", ViewCount: page.Views})
	}

	var deviceTotal int64
	for _, row := range rows(devices) {
		deviceTotal += metricInt(row, 0)
	}
	ga.DeviceBreakdown = make([]DeviceShare, 0, len(rows(devices)))
	for _, row := range rows(devices) {
		v := metricInt(row, 0)
		ga.DeviceBreakdown = append(ga.DeviceBreakdown, DeviceShare{Device: dimensionValue(row, 0), Views: v, Percentage: percentOf(v, deviceTotal)})
	}

	var countryTotal int64
	for _, row := range rows(countries) {
		countryTotal += metricInt(row, 0)
	}
	ga.TopLocations = make([]LocationShare, 0, len(rows(countries)))
	for _, row := range rows(countries) {
		v := metricInt(row, 0)
		ga.TopLocations = append(ga.TopLocations, LocationShare{Country: dimensionValue(row, 0), Views: v, Percentage: percentOf(v, countryTotal)})
	}

	resp := &Response{
		Provider:      string(ProviderGoogle),
		Range:         rng.Key,
		Days:          rng.Days,
		GeneratedAt:   now,
		TotalViews:    ga.PageViews,
		TotalLikes:    share(ga.EventCount, gaLikeShare),
		TotalComments: share(ga.EventCount, gaCommentShare),
		TotalUsers:    ga.TotalUsers,
		TopPosts:      topPosts,
		ViewsByDay:    fillSeries(views, now, rng.Days),
		LikesByDay:    fillSeries(likes, now, rng.Days),
		CommentsByDay: fillSeries(comments, now, rng.Days),
		Series:        SeriesMeasured,
		EstimatedFields: []string{
			"totalLikes", "totalComments", "likesByDay", "commentsByDay", "recentLikes", "recentComments",
		},
		GAData: ga,
	}
	if n := len(resp.ViewsByDay); n > 0 {
		resp.RecentViews = resp.ViewsByDay[n-1].Value
		resp.RecentLikes = resp.LikesByDay[n-1].Value
		resp.RecentComments = resp.CommentsByDay[n-1].Value
	}

	resp.Engagement = Engagement{
		AvgTimeOnSite:     formatDuration(ga.AvgSessionDuration),
		AvgSessionSeconds: ga.AvgSessionDuration,
		BounceRate:        ga.BounceRate,
		EngagementRate:    percent1(resp.TotalLikes+resp.TotalComments, resp.TotalViews),
	}
	if ga.TotalUsers > 0 {
		resp.Engagement.NewVisitors = float64(percentOf(ga.NewUsers, ga.TotalUsers))
		resp.Engagement.ReturningVisitors = 100 - resp.Engagement.NewVisitors
	}
	return resp
}

func metrics(names ...string) []*analyticsdata.Metric {
	out := make([]*analyticsdata.Metric, 0, len(names))
	for _, n := range names {
		out = append(out, &analyticsdata.Metric{Name: n})
	}
	return out
}

func dimensions(names ...string) []*analyticsdata.Dimension {
	out := make([]*analyticsdata.Dimension, 0, len(names))
	for _, n := range names {
		out = append(out, &analyticsdata.Dimension{Name: n})
	}
	return out
}

func rows(resp *analyticsdata.RunReportResponse) []*analyticsdata.Row {
	if resp == nil {
		return nil
	}
	return resp.Rows
}

func dimensionValue(row *analyticsdata.Row, i int) string {
	if row == nil || i >= len(row.DimensionValues) || row.DimensionValues[i] == nil {
		return ""
	}
	return row.DimensionValues[i].Value
}

// metricInt parses GA4's string metric values; unparsable values count as 0.
func metricInt(row *analyticsdata.Row, i int) int64 {
	raw := metricRaw(row, i)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return 0
}

func metricFloat(row *analyticsdata.Row, i int) float64 {
	f, err := strconv.ParseFloat(metricRaw(row, i), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func metricRaw(row *analyticsdata.Row, i int) string {
	if row == nil || i >= len(row.MetricValues) || row.MetricValues[i] == nil {
		return "0"
	}
	return row.MetricValues[i].Value
}

func share(n int64, fraction float64) int64 {
	return int64(math.Round(float64(n) * fraction))
}
