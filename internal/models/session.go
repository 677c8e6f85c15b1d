package models

import (
	"fmt"
	"time"
)

// DiningSessionStatus represents the lifecycle state of a dining session
type DiningSessionStatus string

const (
	SessionOpen   DiningSessionStatus = "OPEN"
	SessionClosed DiningSessionStatus = "CLOSED"
)

// RequestStatus represents a toggleable customer request flag
type RequestStatus string

const (
	RequestInactive RequestStatus = "INACTIVE"
	RequestActive   RequestStatus = "ACTIVE"
)

// AssignmentStatus represents whether a table has been assigned to staff
type AssignmentStatus string

const (
	TableUnassigned AssignmentStatus = "UNASSIGNED"
	TableAssigned   AssignmentStatus = "ASSIGNED"
)

// DiningSession represents one table's active occupancy and its request flags
type DiningSession struct {
	ID                    int                 `json:"id" db:"id"`
	TableNumber           int                 `json:"table_number" db:"table_number"`
	DiningSessionStatus   DiningSessionStatus `json:"dining_session_status" db:"dining_session_status"`
	ServiceRequestStatus  RequestStatus       `json:"service_request_status" db:"service_request_status"`
	BillRequestStatus     RequestStatus       `json:"bill_request_status" db:"bill_request_status"`
	TableAssignmentStatus AssignmentStatus    `json:"table_assignment_status" db:"table_assignment_status"`
	Version               int                 `json:"version" db:"version"`
	CreatedAt             time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at" db:"updated_at"`
}

// CreateSessionRequest represents the request to open a new dining session
type CreateSessionRequest struct {
	TableNumber int `json:"table_number"`
}

// UpdateSessionRequest represents a partial status update against a session.
// Version must carry the client's last-seen session version; a mismatch is
// rejected as a stale write.
type UpdateSessionRequest struct {
	Version               int                  `json:"version"`
	ServiceRequestStatus  *RequestStatus       `json:"service_request_status,omitempty"`
	BillRequestStatus     *RequestStatus       `json:"bill_request_status,omitempty"`
	TableAssignmentStatus *AssignmentStatus    `json:"table_assignment_status,omitempty"`
	DiningSessionStatus   *DiningSessionStatus `json:"dining_session_status,omitempty"`
}

// Validate validates the create session request
func (req *CreateSessionRequest) Validate() error {
	return validateTableNumber(req.TableNumber)
}

// Validate validates the update session request
func (req *UpdateSessionRequest) Validate() error {
	if req.Version < 1 {
		return ValidationError{Field: "version", Message: "version is required"}
	}

	if req.ServiceRequestStatus != nil {
		if err := validateRequestStatus("service_request_status", *req.ServiceRequestStatus); err != nil {
			return err
		}
	}
	if req.BillRequestStatus != nil {
		if err := validateRequestStatus("bill_request_status", *req.BillRequestStatus); err != nil {
			return err
		}
	}
	if req.TableAssignmentStatus != nil {
		switch *req.TableAssignmentStatus {
		case TableUnassigned, TableAssigned:
		default:
			return ValidationError{Field: "table_assignment_status", Message: "invalid assignment status"}
		}
	}
	if req.DiningSessionStatus != nil {
		switch *req.DiningSessionStatus {
		case SessionOpen, SessionClosed:
		default:
			return ValidationError{Field: "dining_session_status", Message: "invalid session status"}
		}
	}

	return nil
}

func validateTableNumber(n int) error {
	if n < 1 || n > 100 {
		return ValidationError{Field: "table_number", Message: "table number must be between 1 and 100"}
	}
	return nil
}

func validateRequestStatus(field string, status RequestStatus) error {
	switch status {
	case RequestInactive, RequestActive:
		return nil
	default:
		return ValidationError{Field: field, Message: fmt.Sprintf("invalid status %q", status)}
	}
}
