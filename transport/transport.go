package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// MaxTimeout is the hard ceiling on a single request deadline.
	// Configured deadlines above it are clamped.
	MaxTimeout = 60 * time.Second

	// DefaultTimeout applies when no deadline is configured.
	DefaultTimeout = 5 * time.Second
)

// Transport executes a single bounded HTTP request. Implementations
// must be safe for concurrent use by multiple goroutines and hold no
// per-request state.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Request describes one outgoing call. A Request is built fresh per
// call and never shared between calls.
type Request struct {
	Method      string
	URL         *url.URL
	Header      http.Header
	Body        []byte
	ContentType string
}

// NewRequest returns a Request for the given method and resolved URL
// with an empty header set and no body.
func NewRequest(method string, u *url.URL) *Request {
	return &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
	}
}

// Config holds the knobs for the default net/http-backed Transport.
type Config struct {
	// Timeout is the per-request deadline. Zero means DefaultTimeout;
	// values above MaxTimeout are clamped.
	Timeout time.Duration

	// RelaxedTLS skips server certificate validation.
	RelaxedTLS bool
}

// New returns a Transport backed by net/http. Connections are not
// reused and redirects are not followed; every call is one bounded
// round trip against the server.
func New(cfg Config) Transport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	base := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		DisableKeepAlives: true,
	}
	if cfg.RelaxedTLS {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &netTransport{
		c: &http.Client{
			Transport: base,
			Timeout:   timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type netTransport struct {
	c *http.Client
}

func (t *netTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for name, vals := range req.Header {
		for _, v := range vals {
			hr.Header.Add(name, v)
		}
	}
	if req.ContentType != "" {
		hr.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := t.c.Do(hr)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return NewResponse(req.Method, req.URL, resp.StatusCode, headerList(resp.Header), raw), nil
}

// headerList flattens an http.Header map into a pair list, preserving
// the per-name value order so first-match lookups stay meaningful.
func headerList(h http.Header) []Header {
	list := make([]Header, 0, len(h))
	for name, vals := range h {
		for _, v := range vals {
			list = append(list, Header{Name: name, Value: v})
		}
	}
	return list
}

// ReadBody materializes a request body into memory. A negative
// contentLength reads the reader to EOF; otherwise at most
// contentLength bytes are consumed.
func ReadBody(r io.Reader, contentLength int64) ([]byte, error) {
	if contentLength < 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		return b, nil
	}

	b, err := io.ReadAll(io.LimitReader(r, contentLength))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return b, nil
}
