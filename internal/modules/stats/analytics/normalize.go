package analytics

import (
	"fmt"
	"math"
	"time"
)

// Normalize fills every defaultable field so the JSON never carries null arrays,
// and forces each daily series to exactly rng.Days points ending at now.
func Normalize(resp *Response, provider ProviderName, rng Range, now time.Time) *Response {
	if resp == nil {
		resp = &Response{}
	}
	if resp.Provider == "" {
		resp.Provider = string(provider)
	}
	resp.Range = rng.Key
	resp.Days = rng.Days
	if resp.GeneratedAt.IsZero() {
		resp.GeneratedAt = now
	}

	if resp.TopPosts == nil {
		resp.TopPosts = []TopPost{}
	}
	if resp.TopCategories == nil {
		resp.TopCategories = []TopGroup{}
	}
	if resp.TopTags == nil {
		resp.TopTags = []TopGroup{}
	}
	resp.ViewsByDay = alignSeries(resp.ViewsByDay, resp.GeneratedAt, rng.Days)
	resp.LikesByDay = alignSeries(resp.LikesByDay, resp.GeneratedAt, rng.Days)
	resp.CommentsByDay = alignSeries(resp.CommentsByDay, resp.GeneratedAt, rng.Days)

	if resp.Engagement.AvgTimeOnSite == "" {
		resp.Engagement.AvgTimeOnSite = formatDuration(resp.Engagement.AvgSessionSeconds)
	}
	if resp.Series == "" {
		resp.Series = SeriesSynthetic
	}
	if resp.EstimatedFields == nil {
		resp.EstimatedFields = []string{}
	}

	if ga := resp.GAData; ga != nil {
		if ga.DeviceBreakdown == nil {
			ga.DeviceBreakdown = []DeviceShare{}
		}
		if ga.TopLocations == nil {
			ga.TopLocations = []LocationShare{}
		}
		if ga.TopPages == nil {
			ga.TopPages = []PageViews{}
		}
	}
	return resp
}

// alignSeries keeps points already on the calendar and zero-fills the rest.
func alignSeries(points []DayPoint, end time.Time, days int) []DayPoint {
	if len(points) == days && (days == 0 || points[days-1].Date == end.Format(dateLayout)) {
		return points
	}
	values := make(map[string]int64, len(points))
	for _, p := range points {
		values[p.Date] += p.Value
	}
	return fillSeries(values, end, days)
}

// formatDuration renders seconds as "Xm Ys".
func formatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds))
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// percentOf is round(part/total*100), or 0 when total is 0.
func percentOf(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// percent1 is a percentage rounded to one decimal.
func percent1(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
