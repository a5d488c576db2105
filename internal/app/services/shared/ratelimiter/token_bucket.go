package ratelimiter

import (
	"clinic-portal-service/internal/app/services/shared/metrics"
	"context"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket admits outgoing calls at a steady rate with bursts up to the bucket size.
type TokenBucket struct {
	limiter *rate.Limiter
	metrics *metrics.RequestQueueMetrics
}

// NewTokenBucket builds a bucket refilled at perSecond tokens per second. perSecond <= 0 disables limiting.
func NewTokenBucket(perSecond float64, burst int, m *metrics.RequestQueueMetrics) *TokenBucket {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{limiter: rate.NewLimiter(limit, burst), metrics: m}
}

// Wait blocks until a token is available or ctx is done.
func (b *TokenBucket) Wait(ctx context.Context) error {
	start := time.Now()
	err := b.limiter.Wait(ctx)
	b.metrics.ObserveLimiterWait(time.Since(start).Seconds())
	return err
}

// Allow takes a token if one is available right now.
func (b *TokenBucket) Allow() bool {
	return b.limiter.Allow()
}

// Tokens reports the tokens currently available.
func (b *TokenBucket) Tokens() float64 {
	return b.limiter.Tokens()
}
