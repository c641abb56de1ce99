package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/oliverdm/couchfetch/transport"
)

func TestNewBasic_Validation(t *testing.T) {
	tr := &fakeTransport{}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"missing username", "", "secret"},
		{"missing password", "admin", ""},
		{"non-ascii username", "üser", "secret"},
		{"non-ascii password", "admin", "pässword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBasic(tr, tt.username, tt.password); !errors.Is(err, ErrInvalidCredential) {
				t.Errorf("expected ErrInvalidCredential, got: %v", err)
			}
		})
	}
}

func TestBasic_SetsAuthorizationHeader(t *testing.T) {
	tr := &fakeTransport{}
	tr.handle = func(req *transport.Request) (*transport.Response, error) {
		return respond(http.StatusOK, ""), nil
	}

	b, err := NewBasic(tr, "admin", "secret")
	if err != nil {
		t.Fatalf("failed to create basic strategy: %v", err)
	}

	// base64("admin:secret")
	const want = "Basic YWRtaW46c2VjcmV0"

	for i := 0; i < 3; i++ {
		if _, err := b.Execute(context.Background(), docRequest(t)); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}

	for _, req := range tr.requests() {
		if got := req.Header.Get("Authorization"); got != want {
			t.Errorf("expected Authorization %q, got %q", want, got)
		}
	}
}

func TestNone_Passthrough(t *testing.T) {
	tr := &fakeTransport{}
	tr.handle = func(req *transport.Request) (*transport.Response, error) {
		return respond(http.StatusOK, ""), nil
	}

	n := NewNone(tr)

	resp, err := n.Execute(context.Background(), docRequest(t))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode())
	}

	req := tr.requests()[0]
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
	if got := req.Header.Get("Cookie"); got != "" {
		t.Errorf("expected no Cookie header, got %q", got)
	}
}
