package messaging

import (
	"clinic-portal-service/internal/app/config"
	"fmt"
	"log"
	"net/url"

	"github.com/rabbitmq/amqp091-go"
)

func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	conn, err := amqp091.Dial(connectionString(driverConfig.RabbitMQ))
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ: %s", err.Error())
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn
}

func connectionString(cfg config.RabbitMQ) string {
	vhost := cfg.VHost
	if vhost == "/" {
		vhost = ""
	}
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/%s",
		url.QueryEscape(cfg.Username),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		url.PathEscape(vhost),
	)
}
