package order

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

// Handler handles HTTP requests for orders
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers the order routes on the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", httpjson.WithLogging(h.logger, h.createOrder))
	mux.HandleFunc("GET /orders", httpjson.WithLogging(h.logger, h.listOrders))
	mux.HandleFunc("GET /orders/{id}", httpjson.WithLogging(h.logger, h.getOrder))
	mux.HandleFunc("PATCH /orders/{id}", httpjson.WithLogging(h.logger, h.updateOrderStatus))
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	var req models.CreateOrderRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := h.service.CreateOrder(ctx, &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	diningSessionID := 0
	if raw := r.URL.Query().Get("dining_session_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			httpjson.WriteError(w, http.StatusBadRequest, "Invalid dining_session_id", requestID)
			return
		}
		diningSessionID = id
	}

	orders, err := h.service.ListOrders(r.Context(), diningSessionID, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid order ID", requestID)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid order ID", requestID)
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.service.UpdateOrderStatus(r.Context(), id, &req, requestID); err != nil {
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
	case errors.Is(err, ErrOrderNotFound):
		httpjson.WriteError(w, http.StatusNotFound, err.Error(), requestID)
	case errors.Is(err, ErrUnknownSession):
		httpjson.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
	default:
		httpjson.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}
