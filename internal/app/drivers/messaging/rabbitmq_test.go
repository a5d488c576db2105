package messaging

import (
	"clinic-portal-service/internal/app/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionString(t *testing.T) {
	t.Run("Default VHost", func(t *testing.T) {
		got := connectionString(config.RabbitMQ{Host: "mq", Port: "5672", Username: "guest", Password: "guest", VHost: "/"})
		assert.Equal(t, "amqp://guest:guest@mq:5672/", got)
	})

	t.Run("Escapes Credentials And VHost", func(t *testing.T) {
		got := connectionString(config.RabbitMQ{Host: "mq", Port: "5672", Username: "portal", Password: "p@ss/word", VHost: "clinic"})
		assert.Equal(t, "amqp://portal:p%40ss%2Fword@mq:5672/clinic", got)
	})
}
