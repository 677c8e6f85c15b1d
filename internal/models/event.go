package models

import "time"

// TableEventType identifies the kind of table event published to staff
type TableEventType string

const (
	EventBillRequested    TableEventType = "BILL_REQUESTED"
	EventServiceRequested TableEventType = "SERVICE_REQUESTED"
	EventOrderPlaced      TableEventType = "ORDER_PLACED"
)

// TableEvent is the message published to the staff notification exchange
// whenever a table raises a request or places an order
type TableEvent struct {
	EventType       TableEventType `json:"event_type"`
	TableNumber     int            `json:"table_number"`
	DiningSessionID int            `json:"dining_session_id"`
	Detail          string         `json:"detail,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}
