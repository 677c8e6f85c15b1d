package tableside

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"table-service/internal/models"
)

var (
	// ErrNoSessionForTable is returned when the selected table number does not
	// match any known dining session. Submissions and bill requests never
	// guess a session; the caller must refresh its session list.
	ErrNoSessionForTable = errors.New("no dining session for the selected table")

	// ErrConflict is returned when a session update was rejected because the
	// local copy is stale
	ErrConflict = errors.New("dining session was modified since last read")

	// ErrEmptyCart is returned when submitting a cart with no line items
	ErrEmptyCart = errors.New("cart has no line items")
)

// Backend is the server-side collaborator the tableside core talks to.
// The HTTP implementation lives in the client subpackage.
type Backend interface {
	// CreateOrder persists one order line and returns the created order.
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)

	// UpdateSession applies a partial status update to a dining session.
	// Implementations return ErrConflict when the update carries a stale
	// version.
	UpdateSession(ctx context.Context, sessionID int, req *models.UpdateSessionRequest) (*models.DiningSession, error)
}

// LineFailure records one cart line whose order creation failed
type LineFailure struct {
	Item LineItem
	Err  error
}

// PartialSubmitError reports a submission in which some order creations
// failed. Successful lines were folded into the bill and removed from the
// cart; the failed lines stay in the cart for retry.
type PartialSubmitError struct {
	Failed []LineFailure
}

func (e *PartialSubmitError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, failure := range e.Failed {
		names = append(names, failure.Item.Name)
	}
	return fmt.Sprintf("failed to submit %d of the cart's line items: %s",
		len(e.Failed), strings.Join(names, ", "))
}
