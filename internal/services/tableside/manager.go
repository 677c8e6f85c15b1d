package tableside

import (
	"context"
	"fmt"
	"sync"

	"table-service/internal/logger"
	"table-service/internal/models"
	"table-service/internal/money"
)

// Manager owns one customer device's ordering state: the cart being built,
// the running bill, and a snapshot of the known dining sessions. All
// operations are safe for concurrent use; submissions are serialized so a
// rapid double-submit cannot fold the same batch into the bill twice.
type Manager struct {
	mu       sync.Mutex
	backend  Backend
	logger   *logger.Logger
	sessions []models.DiningSession
	cart     *Cart
	bill     Bill
}

// NewManager creates a tableside manager scoped to the given table
func NewManager(backend Backend, log *logger.Logger, tableNumber int) *Manager {
	m := &Manager{
		backend: backend,
		logger:  log,
		cart:    NewCart(tableNumber),
	}
	m.bill.reset(tableNumber)
	return m
}

// SetSessions replaces the manager's snapshot of known dining sessions.
// The surrounding loading subsystem pushes fresh lists here after reads.
func (m *Manager) SetSessions(sessions []models.DiningSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make([]models.DiningSession, len(sessions))
	copy(m.sessions, sessions)
}

// AddItem adds a menu item to the cart
func (m *Manager) AddItem(item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.AddItem(item)
}

// UpdateQuantity changes the quantity of a cart line
func (m *Manager) UpdateQuantity(index, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.UpdateQuantity(index, quantity)
}

// RemoveItem removes a cart line
func (m *Manager) RemoveItem(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.RemoveItem(index)
}

// SelectTable rescopes the cart to another table without clearing it
func (m *Manager) SelectTable(tableNumber int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart.SelectTable(tableNumber)
}

// CartItems returns the cart's line items
func (m *Manager) CartItems() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Items()
}

// CartTotal returns the cart total
func (m *Manager) CartTotal() money.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Total()
}

// BillTotal returns the running bill total
func (m *Manager) BillTotal() money.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bill.Total()
}

// BillOrders returns the orders folded into the bill since the last reset
func (m *Manager) BillOrders() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bill.Orders()
}

// Submit converts the cart's line items into persisted orders against the
// table's dining session. All creates are awaited; only confirmed orders are
// folded into the bill and removed from the cart. Lines whose create failed
// stay in the cart and are reported through a PartialSubmitError.
func (m *Manager) Submit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart.Len() == 0 {
		return ErrEmptyCart
	}

	session, err := m.findSession(m.cart.TableNumber())
	if err != nil {
		return err
	}

	items := m.cart.Items()
	requestID := logger.GenerateRequestID()

	type lineResult struct {
		order *models.Order
		err   error
	}
	results := make([]lineResult, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item LineItem) {
			defer wg.Done()
			order, err := m.backend.CreateOrder(ctx, &models.CreateOrderRequest{
				Price:           item.LineTotal,
				Quantity:        item.Quantity,
				MenuItemID:      item.MenuItemID,
				DiningSessionID: session.ID,
			})
			results[i] = lineResult{order: order, err: err}
		}(i, item)
	}
	wg.Wait()

	batchTotal := money.Zero
	var batchOrders []models.Order
	submitted := make(map[int]bool, len(items))
	var failed []LineFailure

	for i, result := range results {
		if result.err != nil {
			failed = append(failed, LineFailure{Item: items[i], Err: result.err})
			continue
		}
		submitted[i] = true
		batchTotal = batchTotal.Add(items[i].LineTotal)
		batchOrders = append(batchOrders, *result.order)
	}

	if len(batchOrders) > 0 {
		m.bill.fold(batchTotal, batchOrders)
		m.cart.removeByIndexes(submitted)
	}

	m.logger.Info("orders_submitted",
		fmt.Sprintf("Submitted %d of %d cart lines for table %d", len(batchOrders), len(items), m.cart.TableNumber()),
		requestID, map[string]interface{}{
			"table_number":      m.cart.TableNumber(),
			"dining_session_id": session.ID,
			"submitted":         len(batchOrders),
			"failed":            len(failed),
			"batch_total":       batchTotal.String(),
		})

	if len(failed) > 0 {
		return &PartialSubmitError{Failed: failed}
	}

	return nil
}

// RequestBill marks the table's session as awaiting the bill and resets the
// local bill for a fresh billing cycle. The reset happens even if the backend
// update fails: once the customer asks for the bill, the accumulated view is
// done either way, and the update error is returned for the UI to surface.
func (m *Manager) RequestBill(ctx context.Context, tableNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.findSession(tableNumber)
	if err != nil {
		return err
	}

	requestID := logger.GenerateRequestID()
	active := models.RequestActive

	updated, updateErr := m.backend.UpdateSession(ctx, session.ID, &models.UpdateSessionRequest{
		Version:           session.Version,
		BillRequestStatus: &active,
	})

	m.bill.reset(tableNumber)

	if updateErr != nil {
		m.logger.Error("bill_request_failed",
			fmt.Sprintf("Failed to flag bill request for table %d", tableNumber),
			requestID, updateErr, map[string]interface{}{
				"table_number":      tableNumber,
				"dining_session_id": session.ID,
			})
		return fmt.Errorf("failed to request bill for table %d: %w", tableNumber, updateErr)
	}

	m.replaceSession(updated)

	m.logger.Info("bill_requested",
		fmt.Sprintf("Bill requested for table %d", tableNumber),
		requestID, map[string]interface{}{
			"table_number":      tableNumber,
			"dining_session_id": session.ID,
		})

	return nil
}

// findSession resolves a table number to the single matching session. There
// is no fallback: an unknown table is an error, never a guess.
func (m *Manager) findSession(tableNumber int) (*models.DiningSession, error) {
	for i := range m.sessions {
		if m.sessions[i].TableNumber == tableNumber {
			return &m.sessions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: table %d", ErrNoSessionForTable, tableNumber)
}

// replaceSession swaps the cached copy of a session after a confirmed update
func (m *Manager) replaceSession(updated *models.DiningSession) {
	if updated == nil {
		return
	}
	for i := range m.sessions {
		if m.sessions[i].ID == updated.ID {
			m.sessions[i] = *updated
			return
		}
	}
}
