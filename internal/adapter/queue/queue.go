package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// MessageQueue is the outbound event bus: order events go out through
// Publish, the notification dispatcher and websocket hub come in through
// Subscribe.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New selects the queue driver from configuration.
func New(driver, url string, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case "", "nats":
		return NewNATSQueue(url, log)
	case "rabbitmq":
		return NewRabbitMQQueue(url, log)
	default:
		return nil, fmt.Errorf("unknown queue driver: %s", driver)
	}
}
