package tableside

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-service/internal/models"
	"table-service/internal/money"
)

func menuItem(id int, name string, cents int64) *models.MenuItem {
	return &models.MenuItem{ID: id, Name: name, Price: money.FromCents(cents)}
}

func TestAddItem(t *testing.T) {
	cart := NewCart(1)

	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1000)))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, items[0].LineTotal.Equal(money.FromCents(1000)))
	assert.True(t, cart.Total().Equal(money.FromCents(1000)))
}

func TestAddItemTwiceIsNoOp(t *testing.T) {
	cart := NewCart(1)

	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, cart.UpdateQuantity(0, 3))

	// Re-adding neither duplicates the line nor resets its quantity.
	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1000)))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, cart.Total().Equal(money.FromCents(3000)))
}

func TestAddItemRejectsNegativePrice(t *testing.T) {
	cart := NewCart(1)

	err := cart.AddItem(menuItem(1, "Mystery", -100))

	assert.Error(t, err)
	assert.Equal(t, 0, cart.Len())
}

func TestUpdateQuantityUsesSnapshotPrice(t *testing.T) {
	cart := NewCart(1)
	item := menuItem(1, "Burger", 1000)
	require.NoError(t, cart.AddItem(item))

	// A later menu price change must not affect the captured unit price.
	item.Price = money.FromCents(9999)

	require.NoError(t, cart.UpdateQuantity(0, 4))

	items := cart.Items()
	assert.True(t, items[0].LineTotal.Equal(money.FromCents(4000)))
	assert.True(t, cart.Total().Equal(money.FromCents(4000)))
}

func TestUpdateQuantityRejectsBadInputs(t *testing.T) {
	cart := NewCart(1)
	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1000)))

	assert.Error(t, cart.UpdateQuantity(0, 0))
	assert.Error(t, cart.UpdateQuantity(0, -2))
	assert.Error(t, cart.UpdateQuantity(1, 2))
	assert.Error(t, cart.UpdateQuantity(-1, 2))

	// Nothing changed.
	assert.Equal(t, 1, cart.Items()[0].Quantity)
	assert.True(t, cart.Total().Equal(money.FromCents(1000)))
}

func TestRemoveItem(t *testing.T) {
	cart := NewCart(1)
	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1000)))
	require.NoError(t, cart.AddItem(menuItem(2, "Fries", 450)))
	require.NoError(t, cart.AddItem(menuItem(3, "Cola", 300)))
	require.NoError(t, cart.UpdateQuantity(1, 2)) // Fries x2

	require.NoError(t, cart.RemoveItem(1))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, "Cola", items[1].Name)
	assert.True(t, items[0].LineTotal.Equal(money.FromCents(1000)))
	assert.True(t, items[1].LineTotal.Equal(money.FromCents(300)))
	assert.True(t, cart.Total().Equal(money.FromCents(1300)))
}

func TestRemoveItemOutOfRange(t *testing.T) {
	cart := NewCart(1)
	assert.Error(t, cart.RemoveItem(0))
}

func TestSelectTableKeepsItems(t *testing.T) {
	cart := NewCart(1)
	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1000)))

	cart.SelectTable(7)

	assert.Equal(t, 7, cart.TableNumber())
	assert.Equal(t, 1, cart.Len())
	assert.True(t, cart.Total().Equal(money.FromCents(1000)))
}

func TestTotalAlwaysMatchesSumOfLines(t *testing.T) {
	cart := NewCart(1)
	require.NoError(t, cart.AddItem(menuItem(1, "Burger", 1050)))
	require.NoError(t, cart.AddItem(menuItem(2, "Fries", 425)))
	require.NoError(t, cart.AddItem(menuItem(3, "Cola", 310)))
	require.NoError(t, cart.UpdateQuantity(0, 3))
	require.NoError(t, cart.UpdateQuantity(2, 2))
	require.NoError(t, cart.RemoveItem(1))
	require.NoError(t, cart.AddItem(menuItem(4, "Pie", 575)))
	require.NoError(t, cart.UpdateQuantity(2, 1))

	expected := money.Zero
	for _, item := range cart.Items() {
		expected = expected.Add(item.LineTotal)
	}

	assert.True(t, cart.Total().Equal(expected))
}
