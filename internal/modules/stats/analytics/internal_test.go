package analytics

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/penline/blog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedOptions() Options {
	return Options{Now: func() time.Time { return testNow }, Seed: 99}
}

func TestInternalRecentActivityWindow(t *testing.T) {
	f := newFixture(t)
	post := f.post(models.PostPublished, nil)
	f.comments(post, 10, 3*time.Hour)
	f.likes(post, 5, 20*time.Hour)
	f.comments(post, 7, 5*24*time.Hour)
	f.likes(post, 9, 48*time.Hour)

	resp, err := NewInternalProvider(NewStore(f.db), fixedOptions()).Fetch(context.Background(), Range7d)
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.RecentViews)
	assert.Equal(t, int64(5), resp.RecentLikes)
	assert.Equal(t, int64(10), resp.RecentComments)
	assert.Equal(t, int64(17), resp.TotalComments)
	assert.Equal(t, int64(14), resp.TotalLikes)
}

func TestInternalTotalViewsIsEstimate(t *testing.T) {
	f := newFixture(t)
	a := f.post(models.PostPublished, nil)
	b := f.post(models.PostDraft, nil)
	f.comments(a, 4, time.Hour)
	f.likes(a, 3, time.Hour)
	f.likes(b, 2, 40*24*time.Hour)

	resp, err := NewInternalProvider(NewStore(f.db), fixedOptions()).Fetch(context.Background(), Range30d)
	require.NoError(t, err)
	assert.Equal(t, resp.TotalComments+resp.TotalLikes*2, resp.TotalViews)
	assert.Equal(t, int64(14), resp.TotalViews)
	assert.Equal(t, SeriesSynthetic, resp.Series)
	assert.Contains(t, resp.EstimatedFields, "totalViews")
	assert.Equal(t, string(ProviderInternal), resp.Provider)
}

func TestInternalSeriesLengthPerRange(t *testing.T) {
	f := newFixture(t)
	post := f.post(models.PostPublished, nil)
	f.comments(post, 3, time.Hour)

	p := NewInternalProvider(NewStore(f.db), fixedOptions())
	for _, rng := range Ranges {
		resp, err := p.Fetch(context.Background(), rng)
		require.NoError(t, err)
		assert.Len(t, resp.ViewsByDay, rng.Days, rng.Key)
		assert.Len(t, resp.LikesByDay, rng.Days, rng.Key)
		assert.Len(t, resp.CommentsByDay, rng.Days, rng.Key)
		assert.Equal(t, "2026-10-18", resp.ViewsByDay[rng.Days-1].Date)
	}
}

func TestInternalTopCategoriesCappedAndSorted(t *testing.T) {
	f := newFixture(t)
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		cat := f.category(name)
		post := f.post(models.PostPublished, cat)
		f.likes(post, (i*3)%7, time.Hour)
	}

	resp, err := NewInternalProvider(NewStore(f.db), fixedOptions()).Fetch(context.Background(), Range7d)
	require.NoError(t, err)
	require.LessOrEqual(t, len(resp.TopCategories), 5)
	assert.True(t, sort.SliceIsSorted(resp.TopCategories, func(i, j int) bool {
		return resp.TopCategories[i].TotalViews > resp.TopCategories[j].TotalViews
	}))
}

func TestInternalIsDeterministicForSeed(t *testing.T) {
	f := newFixture(t)
	post := f.post(models.PostPublished, nil)
	f.comments(post, 12, time.Hour)

	p := NewInternalProvider(NewStore(f.db), fixedOptions())
	a, err := p.Fetch(context.Background(), Range30d)
	require.NoError(t, err)
	b, err := p.Fetch(context.Background(), Range30d)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVercelOverlaysEngagement(t *testing.T) {
	f := newFixture(t)
	post := f.post(models.PostPublished, nil)
	f.comments(post, 6, time.Hour)
	f.likes(post, 2, time.Hour)

	resp, err := NewVercelProvider(NewStore(f.db), fixedOptions()).Fetch(context.Background(), Range7d)
	require.NoError(t, err)
	assert.Equal(t, string(ProviderVercel), resp.Provider)
	assert.Equal(t, "3m 45s", resp.Engagement.AvgTimeOnSite)
	assert.Equal(t, 32.0, resp.Engagement.BounceRate)
	assert.Equal(t, 48.0, resp.Engagement.ReturningVisitors)
	assert.Equal(t, 52.0, resp.Engagement.NewVisitors)
	assert.Equal(t, int64(10), resp.TotalViews)
	assert.Len(t, resp.ViewsByDay, 7)
	assert.Contains(t, resp.EstimatedFields, "engagement.bounceRate")
}
