package couchfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oliverdm/couchfetch/auth"
	"github.com/oliverdm/couchfetch/transport"
)

// Client dispatches requests against a CouchDB server through the
// configured authentication strategy. A Client is immutable after
// Build and safe for concurrent use.
type Client struct {
	baseURL  *url.URL
	strategy auth.Strategy
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Get executes a GET request against the given path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodGet, path, false, opts)
}

// GetUncached executes a GET request that bypasses intermediary caches.
func (c *Client) GetUncached(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodGet, path, true, opts)
}

// Put executes a PUT request against the given path.
func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodPut, path, false, opts)
}

// Post executes a POST request against the given path.
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodPost, path, false, opts)
}

// PostUncached executes a POST request that bypasses intermediary caches.
func (c *Client) PostUncached(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodPost, path, true, opts)
}

// Delete executes a DELETE request against the given path.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodDelete, path, false, opts)
}

// Head executes a HEAD request against the given path.
func (c *Client) Head(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	return c.execute(ctx, http.MethodHead, path, false, opts)
}

// Copy is not part of the supported verb surface. It fails immediately
// without contacting the server.
func (c *Client) Copy(ctx context.Context, sourcePath, destination string) (*transport.Response, error) {
	return nil, fmt.Errorf("copy %s to %s: %w", sourcePath, destination, ErrUnsupportedOperation)
}

func (c *Client) execute(ctx context.Context, method, path string, uncached bool, opts []RequestOption) (*transport.Response, error) {
	req, err := c.request(method, path, uncached, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "couchfetch.request")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", req.URL.String()),
	)
	defer span.End()

	resp, err := c.strategy.Execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	c.logger.Info("request executed",
		"id", uuid.NewString(),
		"method", method,
		"url", req.URL.String(),
		"status", resp.StatusCode(),
	)

	return resp, nil
}

// request builds the outgoing Request: path resolved against the base
// URL, body and content type selected per verb semantics.
func (c *Client) request(method, path string, uncached bool, opts []RequestOption) (*transport.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, err
		}
	}

	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}

	req := transport.NewRequest(method, u)

	if uncached {
		req.Header.Set("Cache-Control", "max-age=0, must-revalidate")
	}
	for name, vals := range settings.headers {
		for _, v := range vals {
			req.Header.Add(name, v)
		}
	}

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		// These verbs never carry a body.
		return req, nil
	}

	switch {
	case settings.rawBody != nil:
		req.Body = settings.rawBody
		req.ContentType = settings.contentType
		if req.ContentType == "" {
			req.ContentType = "application/json"
		}
	case settings.body != nil:
		b, err := json.Marshal(settings.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		req.Body = b
		req.ContentType = "application/json"
		if settings.contentType != "" {
			req.ContentType = settings.contentType
		}
	}

	return req, nil
}

// RequestOption is a functional option for a single request.
type RequestOption func(*requestOpts) error

type requestOpts struct {
	body        any
	rawBody     []byte
	contentType string
	headers     map[string][]string
}

// WithBody sets the JSON-encoded request body.
func WithBody(body any) RequestOption {
	return func(o *requestOpts) error {
		o.body = body
		return nil
	}
}

// WithRawBody attaches exactly the given bytes as the request body.
// No intermediate encoding step touches them.
func WithRawBody(b []byte, contentType string) RequestOption {
	return func(o *requestOpts) error {
		if b == nil {
			return errors.New("raw body must not be nil")
		}
		o.rawBody = b
		o.contentType = contentType
		return nil
	}
}

// WithBodyReader materializes the reader into the request body. A
// negative contentLength reads to EOF; otherwise at most contentLength
// bytes are consumed.
func WithBodyReader(r io.Reader, contentLength int64, contentType string) RequestOption {
	return func(o *requestOpts) error {
		b, err := transport.ReadBody(r, contentLength)
		if err != nil {
			return fmt.Errorf("materializing body: %w", err)
		}
		o.rawBody = b
		o.contentType = contentType
		return nil
	}
}

// WithContentType overrides the default "application/json" Content-Type header.
func WithContentType(contentType string) RequestOption {
	return func(o *requestOpts) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}
		o.contentType = contentType
		return nil
	}
}

// WithHeaders adds custom headers to the outgoing request.
func WithHeaders(headers map[string][]string) RequestOption {
	return func(o *requestOpts) error {
		o.headers = headers
		return nil
	}
}
