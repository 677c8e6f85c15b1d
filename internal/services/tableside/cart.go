package tableside

import (
	"fmt"

	"table-service/internal/models"
	"table-service/internal/money"
)

// LineItem is one (menu item, quantity) pairing in the cart. Name and unit
// price are snapshots taken when the item was added; later menu price changes
// do not affect lines already in the cart.
type LineItem struct {
	MenuItemID int         `json:"menu_item_id"`
	Name       string      `json:"name"`
	UnitPrice  money.Money `json:"unit_price"`
	Quantity   int         `json:"quantity"`
	LineTotal  money.Money `json:"line_total"`
}

// Cart accumulates the order lines a customer intends to submit for one
// table. It is client-local state: nothing here touches the backend.
type Cart struct {
	tableNumber int
	items       []LineItem
	total       money.Money
}

// NewCart creates an empty cart scoped to the given table
func NewCart(tableNumber int) *Cart {
	return &Cart{tableNumber: tableNumber}
}

// AddItem appends a line for the menu item with quantity 1. Adding an item
// already in the cart is a silent no-op; quantity changes go through
// UpdateQuantity only.
func (c *Cart) AddItem(item *models.MenuItem) error {
	if item.Price.IsNegative() {
		return fmt.Errorf("menu item %q has no valid price", item.Name)
	}

	for _, existing := range c.items {
		if existing.Name == item.Name {
			return nil
		}
	}

	c.items = append(c.items, LineItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
		LineTotal:  item.Price,
	})
	c.recomputeTotal()

	return nil
}

// UpdateQuantity replaces the quantity of the line at index. The line total
// is recomputed from the unit price captured at add time.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	line := &c.items[index]
	line.Quantity = quantity
	line.LineTotal = line.UnitPrice.MulQty(quantity)
	c.recomputeTotal()

	return nil
}

// RemoveItem deletes the line at index
func (c *Cart) RemoveItem(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}

	c.items = append(c.items[:index], c.items[index+1:]...)
	c.recomputeTotal()

	return nil
}

// SelectTable rescopes the cart to another table. Line items are kept; a
// table change does not discard an in-progress cart.
func (c *Cart) SelectTable(tableNumber int) {
	c.tableNumber = tableNumber
}

// TableNumber returns the table the cart is scoped to
func (c *Cart) TableNumber() int {
	return c.tableNumber
}

// Items returns a copy of the cart's line items in insertion order
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total returns the cart total
func (c *Cart) Total() money.Money {
	return c.total
}

// Len returns the number of line items
func (c *Cart) Len() int {
	return len(c.items)
}

// removeByIndexes drops the lines at the given indexes, preserving the order
// of the remaining lines
func (c *Cart) removeByIndexes(indexes map[int]bool) {
	remaining := c.items[:0]
	for i, item := range c.items {
		if !indexes[i] {
			remaining = append(remaining, item)
		}
	}
	c.items = remaining
	c.recomputeTotal()
}

// recomputeTotal sums the line totals from scratch. Totals are never patched
// incrementally, so a removed or changed line cannot leave the total off by
// a stale delta.
func (c *Cart) recomputeTotal() {
	total := money.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal)
	}
	c.total = total
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("line item index %d out of range [0, %d)", index, len(c.items))
	}
	return nil
}
