package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	Logger         *zap.Logger
	// RabbitMQ is nil when asynchronous document rendering is disabled
	RabbitMQ       *amqp091.Connection
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop if set will be called during Shutdown to gracefully stop background workers
	WorkerStop     func()
	// BrowserStop releases the chrome allocator
	BrowserStop    func()
	// QueueStop drains in-flight Supabase requests
	QueueStop      func(ctx context.Context) error
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped background workers")
	}

	if b.QueueStop != nil {
		if err := b.QueueStop(ctx); err != nil {
			return err
		}
		log.Println("Successfully drained request queue")
	}

	if b.BrowserStop != nil {
		b.BrowserStop()
		log.Println("Successfully closing chrome")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	if b.RabbitMQ != nil {
		err = b.RabbitMQ.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	// Sync on stdout/stderr sinks returns EINVAL on some platforms
	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
