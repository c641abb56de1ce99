package transport

import (
	"net/http"
	"net/url"
	"strconv"
)

// Header is one raw response header as received from the server.
type Header struct {
	Name  string
	Value string
}

// Response is a normalized view over one transport result. It is
// immutable apart from internal memoization of the header index and
// parsed cookies, so it must not be shared across goroutines while
// accessors are first invoked.
type Response struct {
	method     string
	requestURL *url.URL
	statusCode int
	headers    []Header
	body       []byte

	index   map[string]string
	cookies []*http.Cookie
	parsed  bool
}

// NewResponse wraps a raw transport result.
func NewResponse(method string, requestURL *url.URL, statusCode int, headers []Header, body []byte) *Response {
	return &Response{
		method:     method,
		requestURL: requestURL,
		statusCode: statusCode,
		headers:    headers,
		body:       body,
	}
}

// StatusCode returns the HTTP status code of the response.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Method returns the HTTP method of the originating request.
func (r *Response) Method() string {
	return r.method
}

// RequestURI returns the URL the originating request was sent to.
func (r *Response) RequestURI() string {
	return r.requestURL.String()
}

// Body returns the raw response body bytes.
func (r *Response) Body() []byte {
	return r.body
}

// Header returns the value of the first header with the given name,
// matched case-sensitively, or "" when absent. The header list is
// indexed on first call and cached.
func (r *Response) Header(name string) string {
	if r.index == nil {
		r.index = make(map[string]string, len(r.headers))
		for _, h := range r.headers {
			if _, ok := r.index[h.Name]; !ok {
				r.index[h.Name] = h.Value
			}
		}
	}
	return r.index[name]
}

// Cookies returns the cookies carried by the Set-Cookie header.
// A missing or malformed header yields an empty slice.
func (r *Response) Cookies() []*http.Cookie {
	if !r.parsed {
		r.cookies = ParseCookies(r.Header("Set-Cookie"))
		r.parsed = true
	}
	return r.cookies
}

// Cookie returns the first cookie with the given name, or nil.
func (r *Response) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Successful reports whether the status code is below 300.
func (r *Response) Successful() bool {
	return r.statusCode < 300
}

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// ETag returns the ETag header value.
func (r *Response) ETag() string {
	return r.Header("ETag")
}

// ContentLength returns the parsed Content-Length header, or 0 when
// the header is absent or unparsable.
func (r *Response) ContentLength() int64 {
	v := r.Header("Content-Length")
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
