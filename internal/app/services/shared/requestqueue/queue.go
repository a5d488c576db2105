package requestqueue

import (
	"clinic-portal-service/internal/app/services/shared/metrics"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"container/heap"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	MaxConcurrency int
	MaxRetries     int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
	// Retryable overrides IsRetryable when set.
	Retryable func(error) bool
}

// Queue runs submitted calls with bounded concurrency, highest priority first, and retries
// transient failures with exponential backoff.
type Queue struct {
	log     *zap.Logger
	cfg     Config
	metrics *metrics.RequestQueueMetrics

	mu      sync.Mutex
	pending pending
	running int
	seq     uint64
	closed  bool
	wg      sync.WaitGroup

	randMu sync.Mutex
	rand   *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(log *zap.Logger, cfg Config, m *metrics.RequestQueueMetrics) *Queue {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = cfg.BaseBackoff
	}
	if cfg.Retryable == nil {
		cfg.Retryable = IsRetryable
	}
	return &Queue{
		log:     log,
		cfg:     cfg,
		metrics: m,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepContext,
	}
}

// Do waits for a slot at the priority carried by ctx and runs fn, retrying retryable errors.
func (q *Queue) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return q.DoWithPriority(ctx, PriorityFromContext(ctx), name, fn)
}

func (q *Queue) DoWithPriority(ctx context.Context, priority Priority, name string, fn func(ctx context.Context) error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	submitted := time.Now()

	it, err := q.enqueue(priority)
	if err != nil {
		return err
	}
	q.metrics.ObserveQueued(priority.String())

	select {
	case <-it.start:
	case <-ctx.Done():
		if q.abandon(it) {
			q.metrics.ObserveDone("cancelled", time.Since(submitted).Seconds())
			return exceptions.ErrServerDeadlineExceeded(ctx.Err())
		}
		// the dispatcher handed us a slot at the same moment; give it back
		q.release()
		q.metrics.ObserveDone("cancelled", time.Since(submitted).Seconds())
		return exceptions.ErrServerDeadlineExceeded(ctx.Err())
	}

	q.metrics.IncInFlight()
	err = q.runWithRetry(ctx, requestID, name, priority, fn)
	q.metrics.DecInFlight()
	q.release()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	q.metrics.ObserveDone(outcome, time.Since(submitted).Seconds())
	return err
}

func (q *Queue) runWithRetry(ctx context.Context, requestID, name string, priority Priority, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= q.cfg.MaxRetries || !q.cfg.Retryable(err) || ctx.Err() != nil {
			return err
		}

		delay := q.backoff(attempt)
		q.log.Warn("Queue.Do retrying request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("operation", name),
			zap.String(constvars.LoggingPriorityKey, priority.String()),
			zap.Int(constvars.LoggingAttemptKey, attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		q.metrics.ObserveRetry()
		if sleepErr := q.sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
}

// backoff returns base * 2^attempt capped at MaxBackoff, with up to 50% jitter subtracted.
func (q *Queue) backoff(attempt int) time.Duration {
	d := q.cfg.BaseBackoff
	for i := 0; i < attempt && d < q.cfg.MaxBackoff; i++ {
		d *= 2
	}
	if d > q.cfg.MaxBackoff {
		d = q.cfg.MaxBackoff
	}
	q.randMu.Lock()
	jitter := time.Duration(q.rand.Int63n(int64(d)/2 + 1))
	q.randMu.Unlock()
	return d - jitter
}

func (q *Queue) enqueue(priority Priority) (*item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, exceptions.ErrRequestQueueClosed(fmt.Errorf("request queue is closed"))
	}
	q.seq++
	it := &item{priority: priority, seq: q.seq, start: make(chan struct{})}
	heap.Push(&q.pending, it)
	q.wg.Add(1)
	q.dispatchLocked()
	return it, nil
}

// abandon removes a waiting item. It returns false when the item was already started.
func (q *Queue) abandon(it *item) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if it.index < 0 {
		return false
	}
	heap.Remove(&q.pending, it.index)
	q.wg.Done()
	return true
}

func (q *Queue) release() {
	q.mu.Lock()
	q.running--
	q.dispatchLocked()
	q.mu.Unlock()
	q.wg.Done()
}

func (q *Queue) dispatchLocked() {
	for q.running < q.cfg.MaxConcurrency && q.pending.Len() > 0 {
		it := heap.Pop(&q.pending).(*item)
		q.running++
		close(it.start)
	}
}

// Len reports queued calls that have not started.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

// Close rejects new submissions and waits for queued and running calls to finish or ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.log.Info("Queue.Close drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable reports whether err is transient: network failures, 429 and 5xx upstream responses.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		switch customErr.StatusCode {
		case constvars.StatusTooManyRequests,
			constvars.StatusInternalServerError,
			constvars.StatusBadGateway,
			constvars.StatusServiceUnavailable,
			constvars.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
