// Package client talks to the drawing API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"plan-sketcher/internal/drawing"
	"plan-sketcher/internal/shape"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// ErrNoDrawings is returned by Latest when nothing has been saved.
var ErrNoDrawings = errors.New("no saved drawings")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// Client is an HTTP client for /api/drawings.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the API at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Save posts a drawing and returns the stored record.
func (c *Client) Save(ctx context.Context, name string, shapes []shape.Shape) (drawing.Drawing, error) {
	body, err := json.Marshal(drawing.Input{Name: name, Shapes: shape.List(shapes)})
	if err != nil {
		return drawing.Drawing{}, fmt.Errorf("encode drawing: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/drawings", bytes.NewReader(body))
	if err != nil {
		return drawing.Drawing{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var d drawing.Drawing
	if err := c.do(req, &d); err != nil {
		return drawing.Drawing{}, err
	}
	return d, nil
}

// SaveResult is the outcome of SaveAsync.
type SaveResult struct {
	Drawing drawing.Drawing
	Err     error
}

// SaveAsync saves a snapshot of shapes in the background. The returned
// channel receives exactly one result and is then closed.
func (c *Client) SaveAsync(ctx context.Context, name string, shapes []shape.Shape) <-chan SaveResult {
	snapshot := make([]shape.Shape, len(shapes))
	copy(snapshot, shapes)

	ch := make(chan SaveResult, 1)
	go func() {
		defer close(ch)
		d, err := c.Save(ctx, name, snapshot)
		ch <- SaveResult{Drawing: d, Err: err}
	}()
	return ch
}

// List returns every saved drawing, oldest first.
func (c *Client) List(ctx context.Context) ([]drawing.Drawing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/drawings", nil)
	if err != nil {
		return nil, err
	}

	var drawings []drawing.Drawing
	if err := c.do(req, &drawings); err != nil {
		return nil, err
	}
	if drawings == nil {
		drawings = []drawing.Drawing{}
	}
	return drawings, nil
}

// Latest returns the most recently saved drawing.
func (c *Client) Latest(ctx context.Context) (drawing.Drawing, error) {
	drawings, err := c.List(ctx)
	if err != nil {
		return drawing.Drawing{}, err
	}
	if len(drawings) == 0 {
		return drawing.Drawing{}, ErrNoDrawings
	}
	return drawings[len(drawings)-1], nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
