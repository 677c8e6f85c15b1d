package tableside

import (
	"table-service/internal/models"
	"table-service/internal/money"
)

// Bill is the client-side running total for one table's billing cycle. It
// grows with every confirmed submission and resets when the customer
// requests the bill.
type Bill struct {
	tableNumber int
	total       money.Money
	orders      []models.Order
}

// TableNumber returns the table the bill accumulates for
func (b *Bill) TableNumber() int {
	return b.tableNumber
}

// Total returns the accumulated bill total
func (b *Bill) Total() money.Money {
	return b.total
}

// Orders returns a copy of the orders folded into the bill since the last
// reset, in submission order
func (b *Bill) Orders() []models.Order {
	orders := make([]models.Order, len(b.orders))
	copy(orders, b.orders)
	return orders
}

// fold appends a confirmed submission batch to the bill
func (b *Bill) fold(batchTotal money.Money, orders []models.Order) {
	b.total = b.total.Add(batchTotal)
	b.orders = append(b.orders, orders...)
}

// reset zeroes the bill and rescopes it to the given table
func (b *Bill) reset(tableNumber int) {
	b.tableNumber = tableNumber
	b.total = money.Zero
	b.orders = nil
}
