package database

// Dining session queries
const (
	InsertSessionSQL = `
		INSERT INTO dining_sessions (table_number)
		VALUES ($1)
		RETURNING id, dining_session_status, service_request_status, bill_request_status,
		          table_assignment_status, version, created_at, updated_at`

	GetSessionByIDSQL = `
		SELECT id, table_number, dining_session_status, service_request_status, bill_request_status,
		       table_assignment_status, version, created_at, updated_at
		FROM dining_sessions WHERE id = $1`

	ListSessionsSQL = `
		SELECT id, table_number, dining_session_status, service_request_status, bill_request_status,
		       table_assignment_status, version, created_at, updated_at
		FROM dining_sessions
		ORDER BY table_number ASC`

	// The version predicate makes stale writes fail with zero rows updated.
	UpdateSessionSQL = `
		UPDATE dining_sessions
		SET dining_session_status = $1,
		    service_request_status = $2,
		    bill_request_status = $3,
		    table_assignment_status = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $5 AND version = $6
		RETURNING id, table_number, dining_session_status, service_request_status, bill_request_status,
		          table_assignment_status, version, created_at, updated_at`

	CloseSessionSQL = `
		UPDATE dining_sessions
		SET dining_session_status = 'CLOSED', version = version + 1, updated_at = NOW()
		WHERE id = $1`
)

// Menu item and tag queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, description, price_cents)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	GetMenuItemByIDSQL = `
		SELECT id, name, description, price_cents, created_at, updated_at
		FROM menu_items WHERE id = $1`

	ListMenuItemsSQL = `
		SELECT id, name, description, price_cents, created_at, updated_at
		FROM menu_items
		ORDER BY name ASC`

	UpdateMenuItemSQL = `
		UPDATE menu_items SET description = $1, price_cents = $2, updated_at = NOW()
		WHERE id = $3`

	DeleteMenuItemSQL = `
		DELETE FROM menu_items WHERE id = $1`

	InsertTagSQL = `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at`

	ListTagsSQL = `
		SELECT id, name, created_at FROM tags ORDER BY name ASC`

	DeleteTagSQL = `
		DELETE FROM tags WHERE id = $1`

	GetTagsForMenuItemSQL = `
		SELECT t.name
		FROM tags t
		JOIN menu_item_tags mit ON mit.tag_id = t.id
		WHERE mit.menu_item_id = $1
		ORDER BY t.name ASC`

	LinkMenuItemTagSQL = `
		INSERT INTO menu_item_tags (menu_item_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	UnlinkMenuItemTagsSQL = `
		DELETE FROM menu_item_tags WHERE menu_item_id = $1`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (status, price_cents, quantity, menu_item_id, dining_session_id)
		VALUES ('ORDERED', $1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at`

	GetOrderByIDSQL = `
		SELECT id, status, price_cents, quantity, menu_item_id, dining_session_id, created_at, updated_at
		FROM orders WHERE id = $1`

	ListOrdersSQL = `
		SELECT id, status, price_cents, quantity, menu_item_id, dining_session_id, created_at, updated_at
		FROM orders
		ORDER BY created_at ASC`

	ListOrdersBySessionSQL = `
		SELECT id, status, price_cents, quantity, menu_item_id, dining_session_id, created_at, updated_at
		FROM orders
		WHERE dining_session_id = $1
		ORDER BY created_at ASC`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2`
)
