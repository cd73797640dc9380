package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/penline/blog/internal/models"
	pkgredis "github.com/penline/blog/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns a fixed response or error and counts calls.
type stubProvider struct {
	name  ProviderName
	resp  *Response
	err   error
	calls int
}

func (s *stubProvider) Name() ProviderName { return s.name }

func (s *stubProvider) Fetch(_ context.Context, rng Range) (*Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.resp
	out.Range = rng.Key
	return &out, nil
}

func newCache(t *testing.T) (*pkgredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return pkgredis.Wrap(rdb), mr
}

func nowFn() time.Time { return testNow }

func TestServiceVercelFailureFallsBackToInternal(t *testing.T) {
	f := newFixture(t)
	post := f.post(models.PostPublished, nil)
	f.comments(post, 4, time.Hour)
	f.likes(post, 2, time.Hour)

	store := NewStore(f.db)
	internal := NewInternalProvider(store, fixedOptions())
	broken := &stubProvider{name: ProviderVercel, err: errors.New("vercel overlay exploded")}
	svc := NewService(ServiceConfig{Internal: internal, Vercel: broken, Now: nowFn})

	for _, rng := range Ranges {
		fell, err := svc.Get(context.Background(), ProviderVercel, rng, false)
		require.NoError(t, err)
		require.NotNil(t, fell.Fallback)
		assert.Equal(t, ProviderVercel, fell.Fallback.From)
		assert.Contains(t, fell.Fallback.String(), "vercel overlay exploded")

		direct, err := svc.Get(context.Background(), ProviderInternal, rng, false)
		require.NoError(t, err)
		assert.Nil(t, direct.Fallback)
		assert.Equal(t, direct.Response, fell.Response, rng.Key)
	}
}

func TestServiceVercelSuccessHasNoFallback(t *testing.T) {
	f := newFixture(t)
	store := NewStore(f.db)
	svc := NewService(ServiceConfig{
		Internal: NewInternalProvider(store, fixedOptions()),
		Vercel:   NewVercelProvider(store, fixedOptions()),
		Now:      nowFn,
	})
	out, err := svc.Get(context.Background(), ProviderVercel, Range90d, false)
	require.NoError(t, err)
	assert.Nil(t, out.Fallback)
	assert.Equal(t, string(ProviderVercel), out.Response.Provider)
	assert.Len(t, out.Response.ViewsByDay, 90)
	assert.NotNil(t, out.Response.TopPosts)
	assert.NotNil(t, out.Response.TopTags)
}

func TestServiceGoogleErrorIsSurfaced(t *testing.T) {
	internal := &stubProvider{name: ProviderInternal, resp: &Response{}}
	google := &stubProvider{name: ProviderGoogle, err: notConfigured([]string{"GA4_TYPE"})}
	svc := NewService(ServiceConfig{Internal: internal, Google: google, Now: nowFn})

	_, err := svc.Get(context.Background(), ProviderGoogle, Range7d, false)
	perr := requireProviderError(t, err)
	assert.Equal(t, KindNotConfigured, perr.Kind)
	assert.Zero(t, internal.calls)
}

func TestServiceUnwiredGoogleIsNotConfigured(t *testing.T) {
	svc := NewService(ServiceConfig{Internal: &stubProvider{name: ProviderInternal, resp: &Response{}}})
	_, err := svc.Get(context.Background(), ProviderGoogle, Range7d, false)
	perr := requireProviderError(t, err)
	assert.Equal(t, KindNotConfigured, perr.Kind)
}

func TestServiceNormalizesSparseResponses(t *testing.T) {
	internal := &stubProvider{name: ProviderInternal, resp: &Response{
		ViewsByDay: []DayPoint{{Date: "2026-10-18", Value: 5}, {Date: "2001-01-01", Value: 9}},
	}}
	svc := NewService(ServiceConfig{Internal: internal, Now: nowFn})

	out, err := svc.Get(context.Background(), ProviderInternal, Range30d, false)
	require.NoError(t, err)
	resp := out.Response
	assert.Equal(t, "internal", resp.Provider)
	assert.Equal(t, 30, resp.Days)
	assert.Len(t, resp.ViewsByDay, 30)
	assert.Equal(t, int64(5), resp.ViewsByDay[29].Value)
	assert.Len(t, resp.LikesByDay, 30)
	assert.NotNil(t, resp.TopPosts)
	assert.NotNil(t, resp.TopCategories)
	assert.NotNil(t, resp.EstimatedFields)
	assert.Equal(t, "0m 0s", resp.Engagement.AvgTimeOnSite)
	assert.Equal(t, SeriesSynthetic, resp.Series)
	assert.Equal(t, testNow, resp.GeneratedAt)
}

func TestServiceCachesResponses(t *testing.T) {
	cache, mr := newCache(t)
	internal := &stubProvider{name: ProviderInternal, resp: &Response{TotalPosts: 3}}
	svc := NewService(ServiceConfig{Internal: internal, Cache: cache, CacheTTL: time.Minute, Now: nowFn})
	ctx := context.Background()

	first, err := svc.Get(ctx, ProviderInternal, Range7d, false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, mr.Exists("blog:analytics:internal:7d"))

	second, err := svc.Get(ctx, ProviderInternal, Range7d, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int64(3), second.Response.TotalPosts)
	assert.Equal(t, 1, internal.calls)

	_, err = svc.Get(ctx, ProviderInternal, Range7d, true)
	require.NoError(t, err)
	assert.Equal(t, 2, internal.calls)

	mr.FastForward(2 * time.Minute)
	third, err := svc.Get(ctx, ProviderInternal, Range7d, false)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 3, internal.calls)
}

func TestServiceDoesNotCacheFallbacks(t *testing.T) {
	cache, mr := newCache(t)
	internal := &stubProvider{name: ProviderInternal, resp: &Response{}}
	vercel := &stubProvider{name: ProviderVercel, err: errors.New("down")}
	svc := NewService(ServiceConfig{Internal: internal, Vercel: vercel, Cache: cache, CacheTTL: time.Minute, Now: nowFn})

	_, err := svc.Get(context.Background(), ProviderVercel, Range7d, false)
	require.NoError(t, err)
	assert.False(t, mr.Exists("blog:analytics:vercel:7d"))
}

func TestServiceDropsCorruptCacheEntries(t *testing.T) {
	cache, mr := newCache(t)
	require.NoError(t, mr.Set("blog:analytics:internal:7d", "{not json"))
	internal := &stubProvider{name: ProviderInternal, resp: &Response{}}
	svc := NewService(ServiceConfig{Internal: internal, Cache: cache, CacheTTL: time.Minute, Now: nowFn})

	out, err := svc.Get(context.Background(), ProviderInternal, Range7d, false)
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 1, internal.calls)
}

func TestServiceWarm(t *testing.T) {
	cache, mr := newCache(t)
	internal := &stubProvider{name: ProviderInternal, resp: &Response{}}
	svc := NewService(ServiceConfig{Internal: internal, Cache: cache, CacheTTL: time.Minute, Now: nowFn})

	require.NoError(t, svc.Warm(context.Background(), ProviderInternal, Range7d, Range30d))
	assert.True(t, mr.Exists("blog:analytics:internal:7d"))
	assert.True(t, mr.Exists("blog:analytics:internal:30d"))

	noCache := NewService(ServiceConfig{Internal: internal})
	require.NoError(t, noCache.Warm(context.Background(), ProviderInternal, Range7d))
	assert.Equal(t, 2, internal.calls)
}

func TestServiceProviders(t *testing.T) {
	google := NewGoogleProvider(func(string) (string, bool) { return "", false }, nil, nil, nowFn, nil)
	svc := NewService(ServiceConfig{
		Internal:        &stubProvider{name: ProviderInternal, resp: &Response{}},
		Vercel:          &stubProvider{name: ProviderVercel, resp: &Response{}},
		Google:          google,
		DefaultProvider: ProviderVercel,
	})

	list := svc.Providers()
	require.Len(t, list, 3)
	assert.Equal(t, ProviderInternal, list[0].Name)
	assert.True(t, list[0].Available)
	assert.True(t, list[1].Default)
	assert.Equal(t, ProviderGoogle, list[2].Name)
	assert.False(t, list[2].Available)
	assert.Len(t, list[2].MissingEnv, 12)
}
