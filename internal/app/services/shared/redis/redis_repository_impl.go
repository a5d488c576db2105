package redis

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var (
	compareAndDeleteScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then return 0 end
if v ~= ARGV[1] then return -1 end
redis.call("DEL", KEYS[1])
return 1
`)
	compareAndExpireScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then return 0 end
if v ~= ARGV[1] then return -1 end
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 1
`)
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.client.Del(ctx, keys...).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}

func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

// Get returns an empty string without error when the key does not exist.
func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return data, exceptions.ErrRedisGetNoData(err, key)
	}

	return data, nil
}

func (r *redisRepository) Increment(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}
	return n, nil
}

// IncrementWithTTL increments key and sets its TTL only when the key was just created.
func (r *redisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, exceptions.ErrRedisIncrement(err)
		}
	}
	return int(n), nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return acquired, nil
}

func (r *redisRepository) Expire(ctx context.Context, key string, exp time.Duration) (bool, error) {
	ok, err := r.client.Expire(ctx, key, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return ok, nil
}

// ScanKeys walks the keyspace with SCAN and returns every key matching pattern.
func (r *redisRepository) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, exceptions.ErrRedisScanKeys(err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

func (r *redisRepository) CompareAndDelete(ctx context.Context, key string, value interface{}) (int64, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return 0, exceptions.ErrCannotMarshalJSON(err)
	}

	n, err := compareAndDeleteScript.Run(ctx, r.client, []string{key}, string(jsonValue)).Int64()
	if err != nil {
		return 0, exceptions.ErrRedisDelete(err)
	}
	return n, nil
}

func (r *redisRepository) CompareAndExpire(ctx context.Context, key string, value interface{}, exp time.Duration) (int64, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return 0, exceptions.ErrCannotMarshalJSON(err)
	}

	n, err := compareAndExpireScript.Run(ctx, r.client, []string{key}, string(jsonValue), exp.Milliseconds()).Int64()
	if err != nil {
		return 0, exceptions.ErrRedisSet(err)
	}
	return n, nil
}
