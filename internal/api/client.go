// Package api is the HTTP+JSON client for the dashboard backend: the
// status, refresh and camera endpoints the dashboard consumes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"printer-dashboard-go/internal/printer"
)

// Endpoint paths relative to the base URL.
const (
	PathStatus        = "/api/status"
	PathRefresh       = "/api/refresh"
	PathCameraEnable  = "/api/camera/enable"
	PathCameraRefresh = "/api/camera/refresh"
	PathCameraDebug   = "/api/camera/debug"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps response bodies; snapshots are the largest payloads.
const maxBodyBytes = 16 << 20

// ErrTransport marks failures below the application level: the request
// could not be made, the server answered with a non-2xx code, or the body
// was not JSON. Callers match it with errors.Is.
var ErrTransport = errors.New("api: transport failure")

// Client talks to one dashboard backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. timeout <= 0 uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// BaseURL returns the backend address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchStatus retrieves and validates the current status snapshot.
func (c *Client) FetchStatus(ctx context.Context) (*printer.StatusSnapshot, error) {
	body, err := c.get(ctx, PathStatus)
	if err != nil {
		return nil, err
	}

	snap, err := printer.ParseStatus(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return snap, nil
}

// RequestRefresh asks the backend to recompute and publish a new status.
func (c *Client) RequestRefresh(ctx context.Context) (printer.ActionResult, error) {
	return c.action(ctx, PathRefresh)
}

// EnableCamera asks the backend to switch the printer camera on.
func (c *Client) EnableCamera(ctx context.Context) (printer.ActionResult, error) {
	return c.action(ctx, PathCameraEnable)
}

// RefreshCamera asks the backend to capture a new snapshot.
func (c *Client) RefreshCamera(ctx context.Context) (printer.ActionResult, error) {
	return c.action(ctx, PathCameraRefresh)
}

// CameraDebug returns the backend's free-form camera diagnostics.
// The payload is only meant for logging.
func (c *Client) CameraDebug(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, PathCameraDebug)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: camera debug response is not JSON", ErrTransport)
	}
	return json.RawMessage(body), nil
}

func (c *Client) action(ctx context.Context, path string) (printer.ActionResult, error) {
	var result printer.ActionResult

	body, err := c.get(ctx, path)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("%w: decode %s response: %v", ErrTransport, path, err)
	}
	return result, nil
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s request: %v", ErrTransport, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrTransport, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrTransport, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %d - %s", ErrTransport, path, resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
