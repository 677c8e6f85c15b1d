package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-service/internal/models"
	"table-service/internal/money"
	"table-service/internal/services/tableside"
)

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 7, req.MenuItemID)
		assert.Equal(t, 2, req.Quantity)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Order{
			ID:              31,
			Status:          models.StatusOrdered,
			Price:           req.Price,
			Quantity:        req.Quantity,
			MenuItemID:      req.MenuItemID,
			DiningSessionID: req.DiningSessionID,
			CreatedAt:       time.Now().UTC(),
		})
	}))
	defer server.Close()

	c := New(server.URL)
	order, err := c.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Price:           money.FromCents(2000),
		Quantity:        2,
		MenuItemID:      7,
		DiningSessionID: 12,
	})

	require.NoError(t, err)
	assert.Equal(t, 31, order.ID)
	assert.Equal(t, models.StatusOrdered, order.Status)
	assert.True(t, order.Price.Equal(money.FromCents(2000)))
}

func TestUpdateSessionConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/dining-sessions/12", r.URL.Path)

		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "dining session was modified since last read",
		})
	}))
	defer server.Close()

	active := models.RequestActive
	c := New(server.URL)
	_, err := c.UpdateSession(context.Background(), 12, &models.UpdateSessionRequest{
		Version:           3,
		BillRequestStatus: &active,
	})

	assert.ErrorIs(t, err, tableside.ErrConflict)
}

func TestUpdateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.BillRequestStatus)

		json.NewEncoder(w).Encode(models.DiningSession{
			ID:                12,
			TableNumber:       2,
			BillRequestStatus: *req.BillRequestStatus,
			Version:           req.Version + 1,
		})
	}))
	defer server.Close()

	active := models.RequestActive
	c := New(server.URL)
	session, err := c.UpdateSession(context.Background(), 12, &models.UpdateSessionRequest{
		Version:           3,
		BillRequestStatus: &active,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RequestActive, session.BillRequestStatus)
	assert.Equal(t, 4, session.Version)
}

func TestListSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dining-sessions", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"dining_sessions": []models.DiningSession{
				{ID: 11, TableNumber: 1},
				{ID: 12, TableNumber: 2},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	sessions, err := c.ListSessions(context.Background())

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 2, sessions[1].TableNumber)
}

func TestListMenuItemsWithTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/menu-items", r.URL.Path)
		require.Equal(t, "vegan,spicy", r.URL.Query().Get("tags"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"menu_items": []models.MenuItem{
				{ID: 1, Name: "Chili Tofu", Price: money.FromCents(950), Tags: []string{"vegan", "spicy"}},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	items, err := c.ListMenuItems(context.Background(), []string{"vegan", "spicy"})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chili Tofu", items[0].Name)
}

func TestErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "order not found"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Price: money.FromCents(100), Quantity: 1, MenuItemID: 1, DiningSessionID: 1,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")
	assert.NotErrorIs(t, err, tableside.ErrConflict)
}
