package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"table-service/internal/database"
	"table-service/internal/logger"
	"table-service/internal/messaging"
	"table-service/internal/models"
	"table-service/internal/money"
)

var (
	// ErrOrderNotFound is returned when no order matches the given ID
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnknownSession is returned when the order references a session that
	// does not exist
	ErrUnknownSession = errors.New("order references an unknown dining session")
)

// Service persists customer orders
type Service struct {
	db        *database.DB
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewService creates a new order service
func NewService(db *database.DB, publisher *messaging.Publisher, log *logger.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrder persists one order line. The status is always ORDERED at
// creation; the request cannot override it.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order := models.Order{
		Price:           req.Price,
		Quantity:        req.Quantity,
		MenuItemID:      req.MenuItemID,
		DiningSessionID: req.DiningSessionID,
	}

	err := s.db.QueryRow(ctx, database.InsertOrderSQL,
		req.Price.Cents(), req.Quantity, req.MenuItemID, req.DiningSessionID,
	).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrUnknownSession
		}
		s.logger.Error("db_insert_failed", "Failed to create order", requestID, err, map[string]interface{}{
			"dining_session_id": req.DiningSessionID,
			"menu_item_id":      req.MenuItemID,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	s.logger.Info("order_created", fmt.Sprintf("Created order %d", order.ID), requestID, map[string]interface{}{
		"order_id":          order.ID,
		"dining_session_id": order.DiningSessionID,
		"price":             order.Price.String(),
		"quantity":          order.Quantity,
	})

	s.publishOrderPlaced(ctx, &order, requestID)

	return &order, nil
}

// publishOrderPlaced notifies staff that a new order landed. Best-effort; the
// order is already persisted.
func (s *Service) publishOrderPlaced(ctx context.Context, order *models.Order, requestID string) {
	var tableNumber int
	err := s.db.QueryRow(ctx,
		"SELECT table_number FROM dining_sessions WHERE id = $1", order.DiningSessionID,
	).Scan(&tableNumber)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to resolve table number for order event", requestID, err, nil)
		return
	}

	event := &models.TableEvent{
		EventType:       models.EventOrderPlaced,
		TableNumber:     tableNumber,
		DiningSessionID: order.DiningSessionID,
		Detail:          fmt.Sprintf("order %d: %d x item %d", order.ID, order.Quantity, order.MenuItemID),
		Timestamp:       time.Now().UTC(),
	}

	if err := s.publisher.PublishTableEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", requestID, err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

// ListOrders returns orders, optionally narrowed to one dining session
func (s *Service) ListOrders(ctx context.Context, diningSessionID int, requestID string) ([]models.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if diningSessionID > 0 {
		rows, err = s.db.Query(ctx, database.ListOrdersBySessionSQL, diningSessionID)
	} else {
		rows, err = s.db.Query(ctx, database.ListOrdersSQL)
	}
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list orders", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var cents int64
		err := rows.Scan(
			&order.ID,
			&order.Status,
			&cents,
			&order.Quantity,
			&order.MenuItemID,
			&order.DiningSessionID,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		order.Price = money.FromCents(cents)
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// GetOrder returns a single order by ID
func (s *Service) GetOrder(ctx context.Context, id int, requestID string) (*models.Order, error) {
	var order models.Order
	var cents int64
	err := s.db.QueryRow(ctx, database.GetOrderByIDSQL, id).Scan(
		&order.ID,
		&order.Status,
		&cents,
		&order.Quantity,
		&order.MenuItemID,
		&order.DiningSessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("db_query_failed", "Failed to query order", requestID, err, map[string]interface{}{
			"order_id": id,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	order.Price = money.FromCents(cents)

	return &order, nil
}

// UpdateOrderStatus applies a staff-side status transition
func (s *Service) UpdateOrderStatus(ctx context.Context, id int, req *models.UpdateOrderStatusRequest, requestID string) error {
	if err := req.Validate(); err != nil {
		return err
	}

	tag, err := s.db.Pool.Exec(ctx, database.UpdateOrderStatusSQL, req.Status, id)
	if err != nil {
		s.logger.Error("db_update_failed", "Failed to update order status", requestID, err, map[string]interface{}{
			"order_id": id,
		})
		return fmt.Errorf("database error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	s.logger.Info("order_status_updated", fmt.Sprintf("Order %d moved to %s", id, req.Status), requestID, nil)
	return nil
}

// HealthCheck checks the health of dependencies
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}
