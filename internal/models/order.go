package models

import (
	"time"

	"table-service/internal/money"
)

// OrderStatus represents the status of a submitted order
type OrderStatus string

const (
	StatusOrdered    OrderStatus = "ORDERED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Order represents one persisted order line tied to a dining session
type Order struct {
	ID              int         `json:"id" db:"id"`
	Status          OrderStatus `json:"status" db:"status"`
	Price           money.Money `json:"price" db:"price_cents"`
	Quantity        int         `json:"quantity" db:"quantity"`
	MenuItemID      int         `json:"menu_item_id" db:"menu_item_id"`
	DiningSessionID int         `json:"dining_session_id" db:"dining_session_id"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateOrderRequest represents the request to persist one order line.
// Status is not part of the request; the service fixes it to ORDERED.
type CreateOrderRequest struct {
	Price           money.Money `json:"price"`
	Quantity        int         `json:"quantity"`
	MenuItemID      int         `json:"menu_item_id"`
	DiningSessionID int         `json:"dining_session_id"`
}

// UpdateOrderStatusRequest represents a staff-side status transition
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// Validate validates the create order request
func (req *CreateOrderRequest) Validate() error {
	if req.Quantity < 1 {
		return ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	if req.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if req.MenuItemID < 1 {
		return ValidationError{Field: "menu_item_id", Message: "menu item reference is required"}
	}
	if req.DiningSessionID < 1 {
		return ValidationError{Field: "dining_session_id", Message: "dining session reference is required"}
	}
	return nil
}

// Validate validates the order status transition request
func (req *UpdateOrderStatusRequest) Validate() error {
	switch req.Status {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	case StatusOrdered:
		return ValidationError{Field: "status", Message: "orders cannot transition back to ORDERED"}
	default:
		return ValidationError{Field: "status", Message: "invalid order status"}
	}
}
