package transport_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/oliverdm/couchfetch/transport"
)

func newResponse(t *testing.T, status int, headers []transport.Header, body []byte) *transport.Response {
	t.Helper()

	u, err := url.Parse("http://127.0.0.1:5984/db/doc-1")
	if err != nil {
		t.Fatalf("failed to parse URL: %v", err)
	}

	return transport.NewResponse(http.MethodGet, u, status, headers, body)
}

func TestResponse_HeaderFirstMatch(t *testing.T) {
	resp := newResponse(t, http.StatusOK, []transport.Header{
		{Name: "X-Couch-Request-ID", Value: "first"},
		{Name: "X-Couch-Request-ID", Value: "second"},
	}, nil)

	if got := resp.Header("X-Couch-Request-ID"); got != "first" {
		t.Errorf("expected first match, got %q", got)
	}

	// Lookup is case-sensitive.
	if got := resp.Header("x-couch-request-id"); got != "" {
		t.Errorf("expected no match for lowercased name, got %q", got)
	}

	if got := resp.Header("Missing"); got != "" {
		t.Errorf("expected empty value for absent header, got %q", got)
	}
}

func TestResponse_Cookies(t *testing.T) {
	resp := newResponse(t, http.StatusOK, []transport.Header{
		{Name: "Set-Cookie", Value: "AuthSession=abc123; Path=/; HttpOnly"},
	}, nil)

	c := resp.Cookie("AuthSession")
	if c == nil {
		t.Fatal("expected the AuthSession cookie")
	}
	if c.Value != "abc123" {
		t.Errorf("expected value abc123, got %q", c.Value)
	}

	if resp.Cookie("Other") != nil {
		t.Error("expected no cookie for an unknown name")
	}
}

func TestResponse_MalformedCookieDegrades(t *testing.T) {
	resp := newResponse(t, http.StatusOK, []transport.Header{
		{Name: "Set-Cookie", Value: "malformed cookie without equals"},
	}, nil)

	if got := len(resp.Cookies()); got != 0 {
		t.Errorf("expected no cookies from malformed input, got %d", got)
	}
	if resp.Cookie("AuthSession") != nil {
		t.Error("expected no cookie from malformed input")
	}
}

func TestResponse_NoSetCookieHeader(t *testing.T) {
	resp := newResponse(t, http.StatusOK, nil, nil)

	if got := len(resp.Cookies()); got != 0 {
		t.Errorf("expected no cookies, got %d", got)
	}
}

func TestResponse_Accessors(t *testing.T) {
	body := []byte(`{"ok":true}`)
	resp := newResponse(t, http.StatusCreated, []transport.Header{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "Content-Length", Value: "11"},
		{Name: "ETag", Value: `"1-abc"`},
	}, body)

	if resp.StatusCode() != http.StatusCreated {
		t.Errorf("expected status 201, got %d", resp.StatusCode())
	}
	if !resp.Successful() {
		t.Error("expected a 201 to be successful")
	}
	if got := resp.ContentType(); got != "application/json" {
		t.Errorf("expected content type application/json, got %q", got)
	}
	if got := resp.ContentLength(); got != 11 {
		t.Errorf("expected content length 11, got %d", got)
	}
	if got := resp.ETag(); got != `"1-abc"` {
		t.Errorf("expected etag %q, got %q", `"1-abc"`, got)
	}
	if got := string(resp.Body()); got != string(body) {
		t.Errorf("expected body %q, got %q", body, got)
	}
	if got := resp.RequestURI(); got != "http://127.0.0.1:5984/db/doc-1" {
		t.Errorf("unexpected request URI %q", got)
	}
	if got := resp.Method(); got != http.MethodGet {
		t.Errorf("expected method GET, got %q", got)
	}
}

func TestResponse_ContentLengthUnparsable(t *testing.T) {
	resp := newResponse(t, http.StatusOK, []transport.Header{
		{Name: "Content-Length", Value: "not-a-number"},
	}, nil)

	if got := resp.ContentLength(); got != 0 {
		t.Errorf("expected 0 for unparsable content length, got %d", got)
	}
}

func TestResponse_SuccessfulBoundary(t *testing.T) {
	if !newResponse(t, 299, nil, nil).Successful() {
		t.Error("expected 299 to be successful")
	}
	if newResponse(t, 300, nil, nil).Successful() {
		t.Error("expected 300 to not be successful")
	}
}
