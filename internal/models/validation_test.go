package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"table-service/internal/money"
)

func TestCreateSessionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateSessionRequest
		wantErr bool
	}{
		{name: "valid table", req: CreateSessionRequest{TableNumber: 7}, wantErr: false},
		{name: "zero table", req: CreateSessionRequest{TableNumber: 0}, wantErr: true},
		{name: "negative table", req: CreateSessionRequest{TableNumber: -3}, wantErr: true},
		{name: "table above range", req: CreateSessionRequest{TableNumber: 101}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateSessionRequestValidate(t *testing.T) {
	active := RequestActive
	bogus := RequestStatus("PENDING")

	tests := []struct {
		name    string
		req     UpdateSessionRequest
		wantErr bool
	}{
		{name: "bill request", req: UpdateSessionRequest{Version: 1, BillRequestStatus: &active}, wantErr: false},
		{name: "missing version", req: UpdateSessionRequest{BillRequestStatus: &active}, wantErr: true},
		{name: "unknown status", req: UpdateSessionRequest{Version: 2, ServiceRequestStatus: &bogus}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr bool
	}{
		{
			name:    "valid order",
			req:     CreateOrderRequest{Price: money.FromCents(999), Quantity: 1, MenuItemID: 3, DiningSessionID: 5},
			wantErr: false,
		},
		{
			name:    "zero quantity",
			req:     CreateOrderRequest{Price: money.FromCents(999), Quantity: 0, MenuItemID: 3, DiningSessionID: 5},
			wantErr: true,
		},
		{
			name:    "negative price",
			req:     CreateOrderRequest{Price: money.FromCents(-1), Quantity: 1, MenuItemID: 3, DiningSessionID: 5},
			wantErr: true,
		},
		{
			name:    "missing menu item",
			req:     CreateOrderRequest{Price: money.FromCents(999), Quantity: 1, DiningSessionID: 5},
			wantErr: true,
		},
		{
			name:    "missing session",
			req:     CreateOrderRequest{Price: money.FromCents(999), Quantity: 1, MenuItemID: 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateOrderStatusRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateOrderStatusRequest{Status: StatusInProgress}).Validate())
	assert.NoError(t, (&UpdateOrderStatusRequest{Status: StatusCompleted}).Validate())
	assert.Error(t, (&UpdateOrderStatusRequest{Status: StatusOrdered}).Validate())
	assert.Error(t, (&UpdateOrderStatusRequest{Status: "BURNT"}).Validate())
}

func TestCreateMenuItemRequestValidate(t *testing.T) {
	valid := CreateMenuItemRequest{Name: "Burger", Price: money.FromCents(1000), Tags: []string{"grill"}}
	assert.NoError(t, valid.Validate())

	noName := CreateMenuItemRequest{Price: money.FromCents(1000)}
	assert.Error(t, noName.Validate())

	negative := CreateMenuItemRequest{Name: "Burger", Price: money.FromCents(-100)}
	assert.Error(t, negative.Validate())

	emptyTag := CreateMenuItemRequest{Name: "Burger", Price: money.FromCents(1000), Tags: []string{""}}
	assert.Error(t, emptyTag.Validate())
}
