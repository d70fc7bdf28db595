package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) (*miniredis.Miniredis, *TTLCache) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, NewTTLCache(client, time.Minute)
}

func TestTTLCacheRoundTrip(t *testing.T) {
	_, c := testCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "reports:tb:1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "reports:tb:1", []byte(`[{"name":"Total"}]`)))

	payload, ok, err := c.Get(ctx, "reports:tb:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`[{"name":"Total"}]`), payload)
}

func TestTTLCacheExpires(t *testing.T) {
	srv, c := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "reports:bs:1", []byte(`[]`)))
	srv.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "reports:bs:1")
	require.NoError(t, err)
	require.False(t, ok)
}
