// ABOUTME: HTTP client for the remote watch-timeline pin API
// ABOUTME: Thin request/response glue; no retries, callers own the policy around failures

package timeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rebble/pinsync/internal/pin"
)

// DefaultBaseURL is the public timeline API endpoint.
const DefaultBaseURL = "https://timeline-api.rebble.io"

// tokenHeader carries the user's timeline token on every request.
const tokenHeader = "X-User-Token"

// Client errors.
var (
	// ErrPinNotFound is returned when the service reports 404 for a pin.
	ErrPinNotFound = errors.New("pin not found on timeline service")

	// ErrUnauthorized is returned when the service rejects the token.
	ErrUnauthorized = errors.New("timeline token rejected")
)

// APIError carries a non-success status from the timeline service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("timeline api returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the watch-timeline REST API. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a timeline client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "timeline"),
	}
}

// PutPin creates or replaces a pin on the user's timeline.
func (c *Client) PutPin(ctx context.Context, token string, p pin.Pin) error {
	if p.ID == "" {
		return fmt.Errorf("pin id is required")
	}
	body, err := json.Marshal(p.Fields)
	if err != nil {
		return fmt.Errorf("encoding pin: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.pinURL(p.ID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, token)

	c.logger.Debug("putting pin", "id", p.ID)
	return c.do(req)
}

// DeletePin removes a pin from the user's timeline.
func (c *Client) DeletePin(ctx context.Context, token, id string) error {
	if id == "" {
		return fmt.Errorf("pin id is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.pinURL(id), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(tokenHeader, token)

	c.logger.Debug("deleting pin", "id", id)
	return c.do(req)
}

func (c *Client) pinURL(id string) string {
	return c.baseURL + "/v1/user/pins/" + url.PathEscape(id)
}

// do executes the request and maps the response status onto the client's
// error taxonomy. Bodies of failed responses are read (truncated) for the
// error message.
func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("timeline request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrPinNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
