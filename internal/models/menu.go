package models

import (
	"time"

	"table-service/internal/money"
)

// MenuItem represents a dish or drink on the menu
type MenuItem struct {
	ID          int         `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Price       money.Money `json:"price" db:"price_cents"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Tag represents a menu item label such as "vegetarian" or "spicy"
type Tag struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateMenuItemRequest represents the request to add a menu item
type CreateMenuItemRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
	Tags        []string    `json:"tags"`
}

// UpdateMenuItemRequest represents a partial menu item update
type UpdateMenuItemRequest struct {
	Description *string      `json:"description,omitempty"`
	Price       *money.Money `json:"price,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// CreateTagRequest represents the request to create a tag
type CreateTagRequest struct {
	Name string `json:"name"`
}

// Validate validates the create menu item request
func (req *CreateMenuItemRequest) Validate() error {
	if err := validateItemName(req.Name); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	for _, tag := range req.Tags {
		if tag == "" {
			return ValidationError{Field: "tags", Message: "tag names cannot be empty"}
		}
	}
	return nil
}

// Validate validates the update menu item request
func (req *UpdateMenuItemRequest) Validate() error {
	if req.Price != nil && req.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	for _, tag := range req.Tags {
		if tag == "" {
			return ValidationError{Field: "tags", Message: "tag names cannot be empty"}
		}
	}
	return nil
}

// Validate validates the create tag request
func (req *CreateTagRequest) Validate() error {
	if req.Name == "" {
		return ValidationError{Field: "name", Message: "tag name is required"}
	}
	if len(req.Name) > 50 {
		return ValidationError{Field: "name", Message: "tag name must be less than 50 characters"}
	}
	return nil
}

func validateItemName(name string) error {
	if name == "" {
		return ValidationError{Field: "name", Message: "item name is required"}
	}
	if len(name) > 50 {
		return ValidationError{Field: "name", Message: "item name must be less than 50 characters"}
	}
	return nil
}
