package alarms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/example/homeboard/internal/domain/alarm"
)

// Client talks to the alarm persistence REST API over JSON.
type Client struct {
	// baseURL is the API root, e.g. "http://homeboard-api.local/api".
	baseURL string
	// httpClient performs the actual requests.
	httpClient *http.Client

	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// errBaseURLRequired is returned when a required base URL value is missing.
var errBaseURLRequired = errors.New("base URL must be provided")

// defaultCallTimeout bounds API calls when no timeout option is provided.
const defaultCallTimeout = 5 * time.Second

// NewClient creates a persistence API client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		callTimeout: defaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// List returns all alarm definitions.
func (c *Client) List(ctx context.Context) ([]*domain.Alarm, error) {
	var result []*domain.Alarm
	if err := c.call(ctx, http.MethodGet, "/alarms", nil, &result); err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	return result, nil
}

// Create stores a new alarm and returns the stored record.
func (c *Client) Create(ctx context.Context, a *domain.Alarm) (*domain.Alarm, error) {
	var result domain.Alarm
	if err := c.call(ctx, http.MethodPost, "/alarms", a, &result); err != nil {
		return nil, fmt.Errorf("create alarm: %w", err)
	}

	return &result, nil
}

// Update replaces the alarm with the given id and returns the stored record.
func (c *Client) Update(ctx context.Context, a *domain.Alarm) (*domain.Alarm, error) {
	var result domain.Alarm
	if err := c.call(ctx, http.MethodPut, "/alarms/"+url.PathEscape(a.ID), a, &result); err != nil {
		return nil, fmt.Errorf("update alarm %s: %w", a.ID, err)
	}

	return &result, nil
}

// Delete removes the alarm with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/alarms/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete alarm %s: %w", id, err)
	}

	return nil
}

// MarkTriggered records the instant the alarm last fired.
func (c *Client) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	payload := struct {
		LastTriggered time.Time `json:"last_triggered"`
	}{LastTriggered: at}

	path := "/alarms/" + url.PathEscape(id) + "/triggered"
	if err := c.call(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("mark alarm %s triggered: %w", id, err)
	}

	return nil
}

// SetEnabled flips the alarm's enabled flag to the given value.
func (c *Client) SetEnabled(ctx context.Context, id string, enabled bool) error {
	payload := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}

	path := "/alarms/" + url.PathEscape(id) + "/enabled"
	if err := c.call(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("set alarm %s enabled=%t: %w", id, enabled, err)
	}

	return nil
}

// call performs a JSON request against the API and decodes the response
// into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	var body io.Reader

	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("unexpected status %s", response.Status)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
