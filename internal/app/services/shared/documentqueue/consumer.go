package documentqueue

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/constvars"
	"context"
	"time"

	"go.uber.org/zap"
)

// JobHandler renders one queued job.
type JobHandler func(ctx context.Context, job models.DocumentRenderJob) error

// Consumer polls the render queue. A failed job goes back to the tail of the queue until it
// has failed maxRetry times, then it is moved to the DLQ.
type Consumer struct {
	queue        *Service
	handler      JobHandler
	log          *zap.Logger
	batchSize    int
	maxRetry     int
	pollInterval time.Duration
}

func NewConsumer(queue *Service, handler JobHandler, log *zap.Logger, batchSize, maxRetry int, pollInterval time.Duration) *Consumer {
	if batchSize <= 0 {
		batchSize = 1
	}
	if maxRetry <= 0 {
		maxRetry = 1
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Consumer{
		queue:        queue,
		handler:      handler,
		log:          log,
		batchSize:    batchSize,
		maxRetry:     maxRetry,
		pollInterval: pollInterval,
	}
}

// Run polls until ctx is done.
func (c *Consumer) Run(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		if processed := c.ProcessBatch(ctx); processed == c.batchSize {
			// the queue likely has more; skip the wait
			if ctx.Err() != nil {
				return
			}
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch handles up to batchSize jobs and returns how many were taken off the queue.
func (c *Consumer) ProcessBatch(ctx context.Context) int {
	items, err := c.queue.FetchN(ctx, c.batchSize)
	if err != nil {
		c.log.Error("DocumentConsumer.ProcessBatch fetch failed", zap.Error(err))
		return 0
	}

	for _, item := range items {
		c.process(ctx, item)
	}
	return len(items)
}

func (c *Consumer) process(ctx context.Context, item QueuedItem) {
	job := item.Job
	jobCtx := context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, job.JobID)

	err := c.handler(jobCtx, job)
	if err != nil {
		job.Attempt++
		c.log.Error("DocumentConsumer.process render failed",
			zap.String(constvars.LoggingJobIDKey, job.JobID),
			zap.String(constvars.LoggingDocumentIDKey, job.DocumentID),
			zap.Int(constvars.LoggingAttemptKey, job.Attempt),
			zap.Error(err),
		)
		var requeueErr error
		if job.Attempt >= c.maxRetry {
			requeueErr = c.queue.EnqueueToDeadQueue(jobCtx, job)
		} else {
			requeueErr = c.queue.Reenqueue(jobCtx, job)
		}
		if requeueErr != nil {
			// leave the delivery unacked so the broker redelivers it
			c.log.Error("DocumentConsumer.process requeue failed",
				zap.String(constvars.LoggingJobIDKey, job.JobID),
				zap.Error(requeueErr),
			)
			return
		}
	}

	if err := c.queue.Ack(jobCtx, item.DeliveryTag); err != nil {
		c.log.Error("DocumentConsumer.process ack failed",
			zap.String(constvars.LoggingJobIDKey, job.JobID),
			zap.Uint64(constvars.LoggingDeliveryTagKey, item.DeliveryTag),
			zap.Error(err),
		)
	}
}
