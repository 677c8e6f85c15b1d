package dining

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
)

var (
	// ErrSessionNotFound is returned when no session matches the given ID
	ErrSessionNotFound = errors.New("dining session not found")

	// ErrStaleSession is returned when an update carries an outdated version.
	// The caller holds a stale copy and must re-read before retrying.
	ErrStaleSession = errors.New("dining session was modified since last read")

	// ErrTableOccupied is returned when a table already has an open session
	ErrTableOccupied = errors.New("table already has an open dining session")
)

// Service manages dining sessions and their request flags
type Service struct {
	db        *database.DB
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewService creates a new dining session service
func NewService(db *database.DB, publisher *messaging.Publisher, log *logger.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    log,
	}
}

// CreateSession opens a new dining session for a table
func (s *Service) CreateSession(ctx context.Context, req *models.CreateSessionRequest, requestID string) (*models.DiningSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session := models.DiningSession{TableNumber: req.TableNumber}
	err := s.db.QueryRow(ctx, database.InsertSessionSQL, req.TableNumber).Scan(
		&session.ID,
		&session.DiningSessionStatus,
		&session.ServiceRequestStatus,
		&session.BillRequestStatus,
		&session.TableAssignmentStatus,
		&session.Version,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrTableOccupied
		}
		s.logger.Error("db_insert_failed", "Failed to create dining session", requestID, err, map[string]interface{}{
			"table_number": req.TableNumber,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	s.logger.Info("session_opened", fmt.Sprintf("Opened dining session for table %d", req.TableNumber), requestID, map[string]interface{}{
		"dining_session_id": session.ID,
		"table_number":      session.TableNumber,
	})

	return &session, nil
}

// SessionFilter selects a subset of dining sessions
type SessionFilter string

const (
	FilterAll              SessionFilter = ""
	FilterUnassigned       SessionFilter = "unassigned"
	FilterBillRequested    SessionFilter = "bill_requested"
	FilterServiceRequested SessionFilter = "service_requested"
)

// ListSessions returns dining sessions, optionally narrowed by a filter
func (s *Service) ListSessions(ctx context.Context, filter SessionFilter, requestID string) ([]models.DiningSession, error) {
	rows, err := s.db.Query(ctx, database.ListSessionsSQL)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list dining sessions", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var sessions []models.DiningSession
	for rows.Next() {
		var session models.DiningSession
		if err := scanSession(rows, &session); err != nil {
			s.logger.Error("db_scan_failed", "Failed to scan dining session row", requestID, err, nil)
			return nil, fmt.Errorf("database error: %w", err)
		}

		if matchesFilter(&session, filter) {
			sessions = append(sessions, session)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return sessions, nil
}

// matchesFilter applies the staff/customer view filters to a session
func matchesFilter(session *models.DiningSession, filter SessionFilter) bool {
	switch filter {
	case FilterUnassigned:
		return session.TableAssignmentStatus == models.TableUnassigned
	case FilterBillRequested:
		return session.BillRequestStatus == models.RequestActive
	case FilterServiceRequested:
		return session.ServiceRequestStatus == models.RequestActive
	default:
		return true
	}
}

// GetSession returns a single dining session by ID
func (s *Service) GetSession(ctx context.Context, id int, requestID string) (*models.DiningSession, error) {
	var session models.DiningSession
	err := scanSession(s.db.QueryRow(ctx, database.GetSessionByIDSQL, id), &session)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("db_query_failed", "Failed to query dining session", requestID, err, map[string]interface{}{
			"dining_session_id": id,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &session, nil
}

// UpdateSession applies a partial status update guarded by the client's
// last-seen version. A version mismatch fails with ErrStaleSession.
func (s *Service) UpdateSession(ctx context.Context, id int, req *models.UpdateSessionRequest, requestID string) (*models.DiningSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetSession(ctx, id, requestID)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.DiningSessionStatus != nil {
		next.DiningSessionStatus = *req.DiningSessionStatus
	}
	if req.ServiceRequestStatus != nil {
		next.ServiceRequestStatus = *req.ServiceRequestStatus
	}
	if req.BillRequestStatus != nil {
		next.BillRequestStatus = *req.BillRequestStatus
	}
	if req.TableAssignmentStatus != nil {
		next.TableAssignmentStatus = *req.TableAssignmentStatus
	}

	var updated models.DiningSession
	err = scanSession(s.db.QueryRow(ctx, database.UpdateSessionSQL,
		next.DiningSessionStatus,
		next.ServiceRequestStatus,
		next.BillRequestStatus,
		next.TableAssignmentStatus,
		id,
		req.Version,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The session exists but the version predicate filtered it out.
			return nil, ErrStaleSession
		}
		s.logger.Error("db_update_failed", "Failed to update dining session", requestID, err, map[string]interface{}{
			"dining_session_id": id,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	s.publishRequestEvents(ctx, current, &updated, requestID)

	return &updated, nil
}

// publishRequestEvents notifies staff about newly activated request flags
func (s *Service) publishRequestEvents(ctx context.Context, before, after *models.DiningSession, requestID string) {
	if before.BillRequestStatus != models.RequestActive && after.BillRequestStatus == models.RequestActive {
		s.publishEvent(ctx, models.EventBillRequested, after, requestID)
	}
	if before.ServiceRequestStatus != models.RequestActive && after.ServiceRequestStatus == models.RequestActive {
		s.publishEvent(ctx, models.EventServiceRequested, after, requestID)
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType models.TableEventType, session *models.DiningSession, requestID string) {
	event := &models.TableEvent{
		EventType:       eventType,
		TableNumber:     session.TableNumber,
		DiningSessionID: session.ID,
		Timestamp:       time.Now().UTC(),
	}

	if err := s.publisher.PublishTableEvent(ctx, event); err != nil {
		// Staff notifications are best-effort; the status update already landed.
		s.logger.Error("event_publish_failed", "Failed to publish table event", requestID, err, map[string]interface{}{
			"event_type":        string(eventType),
			"dining_session_id": session.ID,
		})
	}
}

// CloseSession marks a dining session as closed
func (s *Service) CloseSession(ctx context.Context, id int, requestID string) error {
	tag, err := s.db.Pool.Exec(ctx, database.CloseSessionSQL, id)
	if err != nil {
		s.logger.Error("db_update_failed", "Failed to close dining session", requestID, err, map[string]interface{}{
			"dining_session_id": id,
		})
		return fmt.Errorf("database error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	s.logger.Info("session_closed", fmt.Sprintf("Closed dining session %d", id), requestID, nil)
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

func scanSession(row pgx.Row, session *models.DiningSession) error {
	return row.Scan(
		&session.ID,
		&session.TableNumber,
		&session.DiningSessionStatus,
		&session.ServiceRequestStatus,
		&session.BillRequestStatus,
		&session.TableAssignmentStatus,
		&session.Version,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
}
