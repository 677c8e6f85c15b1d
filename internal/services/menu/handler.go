package menu

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"table-service/internal/httpjson"
	"table-service/internal/logger"
	"table-service/internal/models"
)

// Handler handles HTTP requests for menu items and tags
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new menu handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers the menu routes on the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /menu-items", httpjson.WithLogging(h.logger, h.createMenuItem))
	mux.HandleFunc("GET /menu-items", httpjson.WithLogging(h.logger, h.listMenuItems))
	mux.HandleFunc("GET /menu-items/{id}", httpjson.WithLogging(h.logger, h.getMenuItem))
	mux.HandleFunc("PATCH /menu-items/{id}", httpjson.WithLogging(h.logger, h.updateMenuItem))
	mux.HandleFunc("DELETE /menu-items/{id}", httpjson.WithLogging(h.logger, h.deleteMenuItem))
	mux.HandleFunc("POST /tags", httpjson.WithLogging(h.logger, h.createTag))
	mux.HandleFunc("GET /tags", httpjson.WithLogging(h.logger, h.listTags))
	mux.HandleFunc("DELETE /tags/{id}", httpjson.WithLogging(h.logger, h.deleteTag))
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	var req models.CreateMenuItemRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := h.service.CreateMenuItem(r.Context(), &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	var selectedTags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		selectedTags = strings.Split(raw, ",")
	}

	items, err := h.service.ListMenuItems(r.Context(), selectedTags, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, map[string]interface{}{"menu_items": items})
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid menu item ID", requestID)
		return
	}

	item, err := h.service.GetMenuItem(r.Context(), id, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid menu item ID", requestID)
		return
	}

	var req models.UpdateMenuItemRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), id, &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid menu item ID", requestID)
		return
	}

	if err := h.service.DeleteMenuItem(r.Context(), id, requestID); err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createTag(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	var req models.CreateTagRequest
	if err := httpjson.DecodeBody(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	tag, err := h.service.CreateTag(r.Context(), &req, requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusCreated, tag)
}

func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	tags, err := h.service.ListTags(r.Context(), requestID)
	if err != nil {
		h.writeServiceError(w, err, requestID)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

func (h *Handler) deleteTag(w http.ResponseWriter, r *http.Request) {
	requestID := httpjson.RequestID(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "Invalid tag ID", requestID)
		return
	}

	if err := h.service.DeleteTag(r.Context(), id, requestID); err != nil {
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
	case errors.Is(err, ErrMenuItemNotFound), errors.Is(err, ErrTagNotFound):
		httpjson.WriteError(w, http.StatusNotFound, err.Error(), requestID)
	case errors.Is(err, ErrDuplicateName):
		httpjson.WriteError(w, http.StatusConflict, err.Error(), requestID)
	default:
		httpjson.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}
