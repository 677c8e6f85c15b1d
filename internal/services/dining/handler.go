package dining

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"table-service/internal/httpjson"
	"table-service/internal/logger"
	"table-service/internal/models"
)

// Handler handles HTTP requests for dining sessions
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new dining session handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers the dining session routes on the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /dining-sessions", httpjson.WithLogging(h.logger, h.createSession))
	mux.HandleFunc("GET /dining-sessions", httpjson.WithLogging(h.logger, h.listSessions))
	mux.HandleFunc("GET /dining-sessions/{id}", httpjson.WithLogging(h.logger, h.getSession))
	mux.HandleFunc("PATCH /dining-sessions/{id}", httpjson.WithLogging(h.logger, h.updateSession))
	mux.HandleFunc("DELETE /dining-sessions/{id}", httpjson.WithLogging(h.logger, h.closeSession))
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	var req models.CreateSessionRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	session, err := h.service.CreateSession(ctx, &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	filter := SessionFilter(r.URL.Query().Get("filter"))
	switch filter {
	case FilterAll, FilterUnassigned, FilterBillRequested, FilterServiceRequested:
	default:
		httpjson.WriteError(w, http.StatusBadRequest, "Unknown filter", requestID)
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), filter, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, map[string]interface{}{"dining_sessions": sessions})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid session ID", requestID)
		return
	}

	session, err := h.service.GetSession(r.Context(), id, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid session ID", requestID)
		return
	}

	var req models.UpdateSessionRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	session, err := h.service.UpdateSession(ctx, id, &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid session ID", requestID)
		return
	}

	if err := h.service.CloseSession(r.Context(), id, requestID); err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, requestID string) {
	var validationErr models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		httpjson.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.Is(err, ErrSessionNotFound):
		httpjson.WriteError(w, http.StatusNotFound, err.Error(), requestID)
	case errors.Is(err, ErrStaleSession):
		httpjson.WriteError(w, http.StatusConflict, err.Error(), requestID)
	case errors.Is(err, ErrTableOccupied):
		httpjson.WriteError(w, http.StatusConflict, err.Error(), requestID)
	default:
		httpjson.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}
