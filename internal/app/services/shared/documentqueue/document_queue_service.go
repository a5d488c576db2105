package documentqueue

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	StandardQueueName   = constvars.DocumentQueueName
	DeadLetterQueueName = constvars.DocumentDeadLetterQueue
)

// amqpChannel is the part of *amqp.Channel the service uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
	Ack(tag uint64, multiple bool) error
}

// Service manages the durable render queue and its dead-letter queue.
type Service struct {
	ch       amqpChannel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewService declares durable queues, enables confirms, and sets QoS.
func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{StandardQueueName, DeadLetterQueueName} {
		_, err = ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return newService(ch, log, ch.NotifyPublish(make(chan amqp.Confirmation, 1))), nil
}

func newService(ch amqpChannel, log *zap.Logger, confirms chan amqp.Confirmation) *Service {
	return &Service{ch: ch, log: log, confirms: confirms}
}

type QueuedItem struct {
	DeliveryTag uint64
	Job         models.DocumentRenderJob
}

// PublishRenderJob publishes job to the standard queue with persistence and waits for the confirm.
func (s *Service) PublishRenderJob(ctx context.Context, job models.DocumentRenderJob) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("DocumentQueue.PublishRenderJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.JobID),
		zap.String(constvars.LoggingTemplateKey, job.Template),
	)
	return s.publishJob(ctx, StandardQueueName, job)
}

// Reenqueue puts a failed job back at the tail of the standard queue.
func (s *Service) Reenqueue(ctx context.Context, job models.DocumentRenderJob) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("DocumentQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.JobID),
		zap.Int(constvars.LoggingAttemptKey, job.Attempt),
	)
	return s.publishJob(ctx, StandardQueueName, job)
}

func (s *Service) EnqueueToDeadQueue(ctx context.Context, job models.DocumentRenderJob) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Warn("DocumentQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.JobID),
		zap.Int(constvars.LoggingAttemptKey, job.Attempt),
	)
	return s.publishJob(ctx, DeadLetterQueueName, job)
}

// FetchN retrieves up to n messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, n int) ([]QueuedItem, error) {
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(StandardQueueName, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		var job models.DocumentRenderJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			// poison message: park it in the DLQ so it is not redelivered forever
			s.log.Error("DocumentQueue.FetchN moving undecodable message to DLQ",
				zap.Uint64(constvars.LoggingDeliveryTagKey, d.DeliveryTag),
				zap.Error(err),
			)
			_ = s.ch.Ack(d.DeliveryTag, false)
			_ = s.publishRaw(ctx, DeadLetterQueueName, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Job: job})
	}

	return items, nil
}

func (s *Service) Ack(ctx context.Context, deliveryTag uint64) error {
	if err := s.ch.Ack(deliveryTag, false); err != nil {
		return err
	}
	return nil
}

func (s *Service) publishJob(ctx context.Context, queue string, job models.DocumentRenderJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := amqp.Publishing{ContentType: constvars.MIMEApplicationJSON, Body: body, DeliveryMode: amqp.Persistent}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}
	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
