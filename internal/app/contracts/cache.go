package contracts

import (
	"context"
	"time"
)

// CachePreset tells how long a cached value is served as fresh and how long it is kept at all.
type CachePreset struct {
	Name      string
	StaleTime time.Duration
	CacheTime time.Duration
}

type QueryCache interface {
	// Fetch decodes the cached value for key into dst, calling fn when the entry is missing or stale.
	Fetch(ctx context.Context, key string, preset CachePreset, fn func(ctx context.Context) (interface{}, error), dst interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}
