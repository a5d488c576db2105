package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Ping(ctx context.Context) error
	Delete(ctx context.Context, keys ...string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Increment(ctx context.Context, key string) (int64, error)
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	Expire(ctx context.Context, key string, exp time.Duration) (bool, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	// CompareAndDelete and CompareAndExpire act only while key still stores value.
	// They return constvars.RedisCompareMatched, RedisCompareMissing or RedisCompareMismatch.
	CompareAndDelete(ctx context.Context, key string, value interface{}) (int64, error)
	CompareAndExpire(ctx context.Context, key string, value interface{}, exp time.Duration) (int64, error)
}
