package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"table-service/internal/models"
	"table-service/internal/services/tableside"
)

// Client is the HTTP implementation of the tableside Backend against the api
// service. It also exposes the read calls the loading subsystem uses to
// refresh session and menu snapshots.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the api service at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateOrder persists one order line via POST /orders
func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateSession applies a partial status update via PATCH /dining-sessions/{id}
func (c *Client) UpdateSession(ctx context.Context, sessionID int, req *models.UpdateSessionRequest) (*models.DiningSession, error) {
	var session models.DiningSession
	path := fmt.Sprintf("/dining-sessions/%d", sessionID)
	if err := c.do(ctx, http.MethodPatch, path, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions fetches all dining sessions
func (c *Client) ListSessions(ctx context.Context) ([]models.DiningSession, error) {
	var response struct {
		DiningSessions []models.DiningSession `json:"dining_sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/dining-sessions", nil, &response); err != nil {
		return nil, err
	}
	return response.DiningSessions, nil
}

// ListMenuItems fetches menu items, optionally filtered by tags
func (c *Client) ListMenuItems(ctx context.Context, selectedTags []string) ([]models.MenuItem, error) {
	path := "/menu-items"
	if len(selectedTags) > 0 {
		path += "?tags=" + strings.Join(selectedTags, ",")
	}

	var response struct {
		MenuItems []models.MenuItem `json:"menu_items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.MenuItems, nil
}

// do issues one JSON request and decodes the response into dst
func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorFromResponse maps an error envelope to a client error. Conflict
// responses become tableside.ErrConflict so the core can tell stale writes
// apart from other failures.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}

	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s", tableside.ErrConflict, message)
	}

	return fmt.Errorf("api error (%d): %s", resp.StatusCode, message)
}
