package querycache

import (
	redisrepo "clinic-portal-service/internal/app/services/shared/redis"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	Value string `json:"value"`
}

func setupCache(t *testing.T) (*miniredis.Miniredis, *queryCache, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	now := time.Date(2025, time.January, 13, 9, 0, 0, 0, time.UTC)
	c := NewQueryCache(redisrepo.NewRedisRepository(client), zap.NewNop(), true).(*queryCache)
	c.now = func() time.Time { return now }
	return mr, c, &now
}

func TestQueryCacheFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh Entry Skips Fetcher", func(t *testing.T) {
		_, c, _ := setupCache(t)
		var calls int
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return payload{Value: "v1"}, nil
		}

		var first, second payload
		require.NoError(t, c.Fetch(ctx, "k", PresetDetail, fetch, &first))
		require.NoError(t, c.Fetch(ctx, "k", PresetDetail, fetch, &second))

		assert.Equal(t, "v1", first.Value)
		assert.Equal(t, "v1", second.Value)
		assert.Equal(t, 1, calls)
	})

	t.Run("Stale Entry Is Refetched", func(t *testing.T) {
		_, c, now := setupCache(t)
		var calls int
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return payload{Value: "v" + string(rune('0'+calls))}, nil
		}

		var got payload
		require.NoError(t, c.Fetch(ctx, "k", PresetList, fetch, &got))
		*now = now.Add(31 * time.Second)
		require.NoError(t, c.Fetch(ctx, "k", PresetList, fetch, &got))

		assert.Equal(t, 2, calls)
		assert.Equal(t, "v2", got.Value)
	})

	t.Run("Serves Stale When Fetch Fails", func(t *testing.T) {
		_, c, now := setupCache(t)
		var got payload
		require.NoError(t, c.Fetch(ctx, "k", PresetCalendar, func(ctx context.Context) (interface{}, error) {
			return payload{Value: "old"}, nil
		}, &got))

		*now = now.Add(2 * time.Minute)
		got = payload{}
		err := c.Fetch(ctx, "k", PresetCalendar, func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("supabase down")
		}, &got)

		require.NoError(t, err)
		assert.Equal(t, "old", got.Value)
	})

	t.Run("Fetch Error Without Entry Propagates", func(t *testing.T) {
		_, c, _ := setupCache(t)
		boom := errors.New("supabase down")
		err := c.Fetch(ctx, "missing", PresetCalendar, func(ctx context.Context) (interface{}, error) {
			return nil, boom
		}, &payload{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Entry TTL Is Cache Time", func(t *testing.T) {
		mr, c, _ := setupCache(t)
		require.NoError(t, c.Fetch(ctx, "k", PresetStatic, func(ctx context.Context) (interface{}, error) {
			return payload{Value: "x"}, nil
		}, nil))
		assert.Equal(t, 24*time.Hour, mr.TTL("k"))
	})

	t.Run("Concurrent Misses Share One Fetch", func(t *testing.T) {
		_, c, _ := setupCache(t)
		var calls int32
		release := make(chan struct{})
		fetch := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return payload{Value: "shared"}, nil
		}

		var wg sync.WaitGroup
		results := make([]payload, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, c.Fetch(ctx, "k", PresetDetail, fetch, &results[i]))
			}(i)
		}
		require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for _, r := range results {
			assert.Equal(t, "shared", r.Value)
		}
	})

	t.Run("Disabled Cache Always Fetches", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()
		c := NewQueryCache(redisrepo.NewRedisRepository(client), zap.NewNop(), false)

		var calls int
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return payload{Value: "x"}, nil
		}
		var got payload
		require.NoError(t, c.Fetch(ctx, "k", PresetDetail, fetch, &got))
		require.NoError(t, c.Fetch(ctx, "k", PresetDetail, fetch, &got))
		assert.Equal(t, 2, calls)
		assert.False(t, mr.Exists("k"))
	})
}

func TestQueryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, c, _ := setupCache(t)
	for _, k := range []string{"calendar:c1:a", "calendar:c1:b", "calendar:c2:a"} {
		require.NoError(t, c.Fetch(ctx, k, PresetCalendar, func(ctx context.Context) (interface{}, error) {
			return payload{Value: k}, nil
		}, nil))
	}

	require.NoError(t, c.InvalidatePrefix(ctx, "calendar:c1:"))
	assert.False(t, mr.Exists("calendar:c1:a"))
	assert.False(t, mr.Exists("calendar:c1:b"))
	assert.True(t, mr.Exists("calendar:c2:a"))

	require.NoError(t, c.Invalidate(ctx, "calendar:c2:a"))
	assert.False(t, mr.Exists("calendar:c2:a"))
	assert.NoError(t, c.Invalidate(ctx))
}
