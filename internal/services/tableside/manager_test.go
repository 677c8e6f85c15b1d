package tableside

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-service/internal/logger"
	"table-service/internal/models"
	"table-service/internal/money"
)

// fakeBackend records create/update calls and fails on demand
type fakeBackend struct {
	mu             sync.Mutex
	nextOrderID    int
	createdOrders  []models.CreateOrderRequest
	failMenuItems  map[int]error
	sessionUpdates []models.UpdateSessionRequest
	updateErr      error
	updatedSession *models.DiningSession
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failMenuItems: make(map[int]error)}
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failMenuItems[req.MenuItemID]; ok {
		return nil, err
	}

	f.nextOrderID++
	f.createdOrders = append(f.createdOrders, *req)

	return &models.Order{
		ID:              f.nextOrderID,
		Status:          models.StatusOrdered,
		Price:           req.Price,
		Quantity:        req.Quantity,
		MenuItemID:      req.MenuItemID,
		DiningSessionID: req.DiningSessionID,
	}, nil
}

func (f *fakeBackend) UpdateSession(ctx context.Context, sessionID int, req *models.UpdateSessionRequest) (*models.DiningSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sessionUpdates = append(f.sessionUpdates, *req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updatedSession != nil {
		return f.updatedSession, nil
	}

	session := &models.DiningSession{
		ID:                sessionID,
		BillRequestStatus: models.RequestActive,
		Version:           req.Version + 1,
	}
	return session, nil
}

func (f *fakeBackend) orders() []models.CreateOrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]models.CreateOrderRequest, len(f.createdOrders))
	copy(orders, f.createdOrders)
	return orders
}

func newTestManager(backend Backend, tableNumber int) *Manager {
	m := NewManager(backend, logger.New("tableside-test"), tableNumber)
	m.SetSessions([]models.DiningSession{
		{ID: 11, TableNumber: 1, Version: 1, BillRequestStatus: models.RequestInactive},
		{ID: 12, TableNumber: 2, Version: 4, BillRequestStatus: models.RequestInactive},
	})
	return m
}

func TestSubmitCreatesOneOrderPerLine(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 2)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.AddItem(menuItem(2, "Fries", 450)))
	require.NoError(t, m.AddItem(menuItem(3, "Cola", 300)))
	require.NoError(t, m.UpdateQuantity(0, 2))

	require.NoError(t, m.Submit(context.Background()))

	created := backend.orders()
	require.Len(t, created, 3)
	for _, req := range created {
		// Every line submits to the same resolved session.
		assert.Equal(t, 12, req.DiningSessionID)
	}

	totals := map[int]int64{}
	for _, req := range created {
		totals[req.MenuItemID] = req.Price.Cents()
	}
	assert.Equal(t, int64(2000), totals[1])
	assert.Equal(t, int64(450), totals[2])
	assert.Equal(t, int64(300), totals[3])
}

func TestSubmitClearsCartAndFoldsBill(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	preSubmitTotal := m.CartTotal()

	require.NoError(t, m.Submit(context.Background()))

	assert.Empty(t, m.CartItems())
	assert.True(t, m.CartTotal().IsZero())
	assert.True(t, m.BillTotal().Equal(preSubmitTotal))
	require.Len(t, m.BillOrders(), 1)
	assert.Equal(t, models.StatusOrdered, m.BillOrders()[0].Status)
}

func TestSubmitAccumulatesBillAcrossBatches(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.Submit(context.Background()))

	require.NoError(t, m.AddItem(menuItem(2, "Fries", 450)))
	require.NoError(t, m.Submit(context.Background()))

	assert.True(t, m.BillTotal().Equal(money.FromCents(1450)))
	assert.Len(t, m.BillOrders(), 2)
}

func TestSubmitEmptyCart(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)

	err := m.Submit(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, backend.orders())
}

func TestSubmitUnknownTable(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)
	m.SelectTable(42)
	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))

	err := m.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNoSessionForTable)
	assert.Empty(t, backend.orders())
	// The cart is untouched; nothing was submitted.
	assert.Len(t, m.CartItems(), 1)
	assert.True(t, m.BillTotal().IsZero())
}

func TestSubmitPartialFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failMenuItems[2] = errors.New("boom")
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.AddItem(menuItem(2, "Fries", 450)))
	require.NoError(t, m.AddItem(menuItem(3, "Cola", 300)))

	err := m.Submit(context.Background())

	var partial *PartialSubmitError
	require.ErrorAs(t, err, &partial)
	require.Len(t, partial.Failed, 1)
	assert.Equal(t, "Fries", partial.Failed[0].Item.Name)

	// Only the confirmed lines were folded into the bill.
	assert.True(t, m.BillTotal().Equal(money.FromCents(1300)))
	assert.Len(t, m.BillOrders(), 2)

	// The failed line stays in the cart for retry.
	items := m.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Fries", items[0].Name)
	assert.True(t, m.CartTotal().Equal(money.FromCents(450)))
}

func TestConcurrentSubmitsFoldOnce(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)
	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Submit(context.Background())
		}(i)
	}
	wg.Wait()

	// One submit wins; the other sees an empty cart.
	var emptyCount int
	for _, err := range errs {
		if errors.Is(err, ErrEmptyCart) {
			emptyCount++
		}
	}
	assert.Equal(t, 1, emptyCount)
	assert.Len(t, backend.orders(), 1)
	assert.True(t, m.BillTotal().Equal(money.FromCents(1000)))
}

func TestRequestBillResetsAndFlagsSession(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.Submit(context.Background()))
	require.True(t, m.BillTotal().Equal(money.FromCents(1000)))

	require.NoError(t, m.RequestBill(context.Background(), 1))

	assert.True(t, m.BillTotal().IsZero())
	assert.Empty(t, m.BillOrders())

	require.Len(t, backend.sessionUpdates, 1)
	update := backend.sessionUpdates[0]
	require.NotNil(t, update.BillRequestStatus)
	assert.Equal(t, models.RequestActive, *update.BillRequestStatus)
	assert.Equal(t, 1, update.Version)
}

func TestRequestBillResetsEvenWhenUpdateFails(t *testing.T) {
	backend := newFakeBackend()
	backend.updateErr = fmt.Errorf("%w: version 1", ErrConflict)
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.Submit(context.Background()))

	err := m.RequestBill(context.Background(), 1)

	assert.ErrorIs(t, err, ErrConflict)
	// The local bill resets regardless of the backend outcome.
	assert.True(t, m.BillTotal().IsZero())
	assert.Empty(t, m.BillOrders())
}

func TestRequestBillUnknownTable(t *testing.T) {
	backend := newFakeBackend()
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.Submit(context.Background()))

	err := m.RequestBill(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNoSessionForTable)
	assert.Empty(t, backend.sessionUpdates)
	// Nothing was reset; the bill still holds the submitted batch.
	assert.True(t, m.BillTotal().Equal(money.FromCents(1000)))
}

func TestBurgerExample(t *testing.T) {
	// Cart [Burger $10 x1], submit, then request the bill.
	backend := newFakeBackend()
	m := newTestManager(backend, 1)

	require.NoError(t, m.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, m.Submit(context.Background()))

	assert.Equal(t, "10.00", m.BillTotal().String())
	assert.Empty(t, m.CartItems())

	require.NoError(t, m.RequestBill(context.Background(), 1))
	assert.Equal(t, "0.00", m.BillTotal().String())
}
