// Package client is a thin HTTP client for the taskhub REST API.
// Every failure is reduced to a single *Error carrying one message string.
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
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

const unknownError = "unknown error"

// Error is returned for any failed call.
type Error struct {
	Status  int    // HTTP status, 0 when no response arrived
	Message string // what the caller should show
	Err     error  // transport error, if any
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the fixed per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the API at baseURL, e.g. http://localhost:5052.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends body as JSON and decodes a 2xx response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: err.Error(), Err: err}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &Error{Message: toMessage(0, nil, err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: toMessage(0, nil, err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: toMessage(resp.StatusCode, nil, err), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: toMessage(resp.StatusCode, data, nil)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: toMessage(0, nil, fmt.Errorf("decode response: %w", err)), Err: err}
	}
	return nil
}

// toMessage picks, in order: the body's message field, "HTTP <status>",
// the transport error text, a generic fallback.
func toMessage(status int, body []byte, err error) string {
	if len(body) > 0 {
		var eb struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			return eb.Message
		}
	}
	if status != 0 {
		return fmt.Sprintf("HTTP %d", status)
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return unknownError
}
