package redis

import (
	"clinic-portal-service/internal/pkg/constvars"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*miniredis.Miniredis, *redisRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, &redisRepository{client: client}
}

func TestRedisRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Set Stores JSON And Get Returns It", func(t *testing.T) {
		_, repo := setupRepo(t)
		require.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

		got, err := repo.Get(ctx, "k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, got)
	})

	t.Run("Get Missing Key Is Empty Without Error", func(t *testing.T) {
		_, repo := setupRepo(t)
		got, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("IncrementWithTTL Keeps First TTL", func(t *testing.T) {
		mr, repo := setupRepo(t)

		n, err := repo.IncrementWithTTL(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		mr.FastForward(30 * time.Second)
		n, err = repo.IncrementWithTTL(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 30*time.Second, mr.TTL("counter"))
	})

	t.Run("TrySetNX Only Once", func(t *testing.T) {
		_, repo := setupRepo(t)
		ok, err := repo.TrySetNX(ctx, "lock", "a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.TrySetNX(ctx, "lock", "b", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ScanKeys And Delete", func(t *testing.T) {
		mr, repo := setupRepo(t)
		for _, k := range []string{"calendar:c1:a", "calendar:c1:b", "calendar:c2:a", "other"} {
			require.NoError(t, mr.Set(k, "1"))
		}

		keys, err := repo.ScanKeys(ctx, "calendar:c1:*")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"calendar:c1:a", "calendar:c1:b"}, keys)

		require.NoError(t, repo.Delete(ctx, keys...))
		assert.False(t, mr.Exists("calendar:c1:a"))
		assert.True(t, mr.Exists("calendar:c2:a"))
	})

	t.Run("Expire Refreshes TTL", func(t *testing.T) {
		mr, repo := setupRepo(t)
		require.NoError(t, repo.Set(ctx, "k", 1, time.Second))

		ok, err := repo.Expire(ctx, "k", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, time.Hour, mr.TTL("k"))
	})
	t.Run("CompareAndDelete Checks Value", func(t *testing.T) {
		mr, repo := setupRepo(t)
		_, err := repo.TrySetNX(ctx, "lock", "owner-a", time.Minute)
		require.NoError(t, err)

		n, err := repo.CompareAndDelete(ctx, "lock", "owner-b")
		require.NoError(t, err)
		assert.Equal(t, constvars.RedisCompareMismatch, n)
		assert.True(t, mr.Exists("lock"))

		n, err = repo.CompareAndDelete(ctx, "lock", "owner-a")
		require.NoError(t, err)
		assert.Equal(t, constvars.RedisCompareMatched, n)
		assert.False(t, mr.Exists("lock"))

		n, err = repo.CompareAndDelete(ctx, "lock", "owner-a")
		require.NoError(t, err)
		assert.Equal(t, constvars.RedisCompareMissing, n)
	})

	t.Run("CompareAndExpire Checks Value", func(t *testing.T) {
		mr, repo := setupRepo(t)
		_, err := repo.TrySetNX(ctx, "lock", "owner-a", 10*time.Second)
		require.NoError(t, err)

		n, err := repo.CompareAndExpire(ctx, "lock", "owner-b", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, constvars.RedisCompareMismatch, n)
		assert.Equal(t, 10*time.Second, mr.TTL("lock"))

		n, err = repo.CompareAndExpire(ctx, "lock", "owner-a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, constvars.RedisCompareMatched, n)
		assert.Equal(t, time.Minute, mr.TTL("lock"))
	})
}
