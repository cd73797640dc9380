package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := Connect("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Del(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIncrWindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		n, err := c.IncrWindow(ctx, "hits", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.True(t, mr.TTL("hits") > 0)

	mr.FastForward(2 * time.Minute)
	n, err := c.IncrWindow(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect("::not a url")
	assert.Error(t, err)
}
