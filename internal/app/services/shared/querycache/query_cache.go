package querycache

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

type queryCache struct {
	redisRepo contracts.RedisRepository
	log       *zap.Logger
	enabled   bool
	group     singleflight.Group
	now       func() time.Time
}

func NewQueryCache(redisRepo contracts.RedisRepository, log *zap.Logger, enabled bool) contracts.QueryCache {
	return &queryCache{
		redisRepo: redisRepo,
		log:       log,
		enabled:   enabled,
		now:       time.Now,
	}
}

func (c *queryCache) Fetch(ctx context.Context, key string, preset contracts.CachePreset, fn func(ctx context.Context) (interface{}, error), dst interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if !c.enabled {
		data, err := loadJSON(ctx, fn)
		if err != nil {
			return err
		}
		return decode(data, dst)
	}

	cached, found := c.read(ctx, requestID, key)
	if found && c.now().Sub(cached.FetchedAt) < preset.StaleTime {
		c.log.Debug("queryCache.Fetch hit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCacheKey, key),
		)
		return decode(cached.Data, dst)
	}

	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		data, err := loadJSON(ctx, fn)
		if err != nil {
			return nil, err
		}
		fresh := entry{FetchedAt: c.now(), Data: data}
		if err := c.redisRepo.Set(ctx, key, fresh, preset.CacheTime); err != nil {
			c.log.Warn("queryCache.Fetch could not store entry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCacheKey, key),
				zap.Error(err),
			)
		}
		return data, nil
	})
	if err != nil {
		if found {
			c.log.Warn("queryCache.Fetch serving stale entry after fetch failure",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCacheKey, key),
				zap.Time("fetched_at", cached.FetchedAt),
				zap.Error(err),
			)
			return decode(cached.Data, dst)
		}
		return err
	}

	c.log.Debug("queryCache.Fetch loaded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCacheKey, key),
		zap.Bool("shared", shared),
	)
	return decode(result.(json.RawMessage), dst)
}

func (c *queryCache) read(ctx context.Context, requestID, key string) (entry, bool) {
	raw, err := c.redisRepo.Get(ctx, key)
	if err != nil {
		c.log.Warn("queryCache.Fetch could not read entry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		return entry{}, false
	}
	if raw == "" {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil || len(e.Data) == 0 {
		return entry{}, false
	}
	return e, true
}

func (c *queryCache) Invalidate(ctx context.Context, keys ...string) error {
	return c.redisRepo.Delete(ctx, keys...)
}

func (c *queryCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	keys, err := c.redisRepo.ScanKeys(ctx, prefix+"*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	c.log.Info("queryCache.InvalidatePrefix removing entries",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCacheKey, prefix),
		zap.Int("count", len(keys)),
	)
	return c.redisRepo.Delete(ctx, keys...)
}

func loadJSON(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (json.RawMessage, error) {
	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return data, nil
}

func decode(data []byte, dst interface{}) error {
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}
