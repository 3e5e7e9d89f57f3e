package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mkuznetsov/home-sentry/internal/config"
	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
)

// Client wraps the dashboard HTTP API with convenience helpers.
type Client struct {
	// baseURL is the server API root, without trailing slash.
	baseURL string
	// httpClient performs the requests.
	httpClient *http.Client
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("server URL must be provided")

// NewClient creates a client for the dashboard API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Arm arms the panel.
func (c *Client) Arm(ctx context.Context) (*domain.Status, error) {
	return c.post(ctx, "/api/arm", nil)
}

// Disarm disarms the panel and silences the alarm.
func (c *Client) Disarm(ctx context.Context) (*domain.Status, error) {
	return c.post(ctx, "/api/disarm", nil)
}

// Trigger injects an event on the sensor, optionally forcing a state.
func (c *Client) Trigger(ctx context.Context, id int, forcedState string) (*domain.Status, error) {
	var body any
	if forcedState != "" {
		body = map[string]string{"state": forcedState}
	}

	return c.post(ctx, "/api/sensors/"+strconv.Itoa(id)+"/trigger", body)
}

// Acknowledge resets the sensor to its normal state.
func (c *Client) Acknowledge(ctx context.Context, id int) (*domain.Status, error) {
	return c.post(ctx, "/api/sensors/"+strconv.Itoa(id)+"/ack", nil)
}

// ToggleAlarm flips the alarm directly.
func (c *Client) ToggleAlarm(ctx context.Context) (*domain.Status, error) {
	return c.post(ctx, "/api/alarm/toggle", nil)
}

// ClearLogs empties the panel journal.
func (c *Client) ClearLogs(ctx context.Context) (*domain.Status, error) {
	return c.post(ctx, "/api/logs/clear", nil)
}

// SetSimulation gates the random event driver.
func (c *Client) SetSimulation(ctx context.Context, enabled bool) (*domain.Status, error) {
	return c.do(ctx, http.MethodPut, "/api/simulation", map[string]bool{"enabled": enabled})
}

// Status fetches the current panel status.
func (c *Client) Status(ctx context.Context) (*domain.Status, error) {
	return c.do(ctx, http.MethodGet, "/api/state", nil)
}

// post issues a POST command and decodes the returned status.
func (c *Client) post(ctx context.Context, path string, body any) (*domain.Status, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// do performs the request and decodes either the status payload or the
// error envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (*domain.Status, error) {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}

		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}

		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server rejected %s: %s", path, apiErr.Error)
		}

		return nil, fmt.Errorf("server rejected %s: %s", path, resp.Status)
	}

	var status domain.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	return &status, nil
}
