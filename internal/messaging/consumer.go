package messaging

import (
	"context"
	"fmt"

	"table-service/internal/logger"
)

// MessageHandler processes a single message body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer handles message consumption from RabbitMQ
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

// NewConsumer creates a new message consumer
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming consumes messages from the queue until the context is
// cancelled. Messages are acked on handler success and requeued on failure.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	err := c.conn.Channel().Qos(
		c.prefetch, // prefetch count
		0,          // prefetch size
		false,      // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.conn.Channel().Consume(
		c.queueName,   // queue
		c.consumerTag, // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consumer_started",
		fmt.Sprintf("Consuming from queue %s", c.queueName), "", map[string]interface{}{
			"queue":    c.queueName,
			"prefetch": c.prefetch,
		})

	for {
		select {
		case <-ctx.Done():
			if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
				c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
			}
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			if err := handler(ctx, delivery.Body); err != nil {
				c.logger.Error("message_handling_failed", "Failed to handle message", "", err, map[string]interface{}{
					"queue": c.queueName,
				})
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}
