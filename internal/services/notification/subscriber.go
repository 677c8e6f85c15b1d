package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"table-service/internal/logger"
	"table-service/internal/messaging"
	"table-service/internal/models"
)

// Subscriber consumes table events and displays them on the staff console
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewSubscriber creates a new staff notification subscriber
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
	}
}

// Start consumes table events until the context is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Staff notification subscriber started", requestID, nil)

	return s.consumer.StartConsuming(ctx, s.handleTableEvent)
}

// handleTableEvent processes one incoming table event
func (s *Subscriber) handleTableEvent(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var event models.TableEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse table event", requestID, err, nil)
		return fmt.Errorf("failed to parse table event: %w", err)
	}

	s.displayNotification(&event)

	s.logger.Info("notification_displayed", "Table event displayed to staff", requestID, map[string]interface{}{
		"event_type":        string(event.EventType),
		"table_number":      event.TableNumber,
		"dining_session_id": event.DiningSessionID,
	})

	return nil
}

// displayNotification prints a human-readable line to the staff console
func (s *Subscriber) displayNotification(event *models.TableEvent) {
	timestamp := event.Timestamp.Format("2006-01-02 15:04:05")

	var message string
	switch event.EventType {
	case models.EventBillRequested:
		message = fmt.Sprintf("💳 [%s] Table %d has requested the bill.", timestamp, event.TableNumber)
	case models.EventServiceRequested:
		message = fmt.Sprintf("🔔 [%s] Table %d has requested service.", timestamp, event.TableNumber)
	case models.EventOrderPlaced:
		message = fmt.Sprintf("🍽️ [%s] Table %d placed an order: %s", timestamp, event.TableNumber, event.Detail)
	default:
		message = fmt.Sprintf("📋 [%s] Table %d: %s %s", timestamp, event.TableNumber, event.EventType, event.Detail)
	}

	fmt.Println(message)
}
