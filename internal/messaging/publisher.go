package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"table-service/internal/logger"
	"table-service/internal/models"
)

// Publisher handles publishing table events to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new table event publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishTableEvent publishes a table event to the fanout exchange
func (p *Publisher) PublishTableEvent(ctx context.Context, event *models.TableEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		TableEventsExchange, // exchange
		"",                  // routing key (ignored for fanout)
		false,               // mandatory
		false,               // immediate
		publishing,
	)

	if err != nil {
		p.logger.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish %s event", event.EventType),
			"", err, map[string]interface{}{
				"event_type":   string(event.EventType),
				"table_number": event.TableNumber,
			})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event_published",
		fmt.Sprintf("Published %s event for table %d", event.EventType, event.TableNumber),
		"", map[string]interface{}{
			"event_type":   string(event.EventType),
			"table_number": event.TableNumber,
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
