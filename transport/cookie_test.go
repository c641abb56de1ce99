package transport_test

import (
	"testing"

	"github.com/oliverdm/couchfetch/transport"
)

func TestParseCookies(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue string
		wantNone  bool
	}{
		{
			name:      "plain cookie",
			input:     "AuthSession=abc123",
			wantName:  "AuthSession",
			wantValue: "abc123",
		},
		{
			name:      "cookie with attributes",
			input:     "AuthSession=abc123; Version=1; Path=/; HttpOnly; Secure",
			wantName:  "AuthSession",
			wantValue: "abc123",
		},
		{
			name:      "empty value",
			input:     "AuthSession=; Version=1; Path=/",
			wantName:  "AuthSession",
			wantValue: "",
		},
		{
			name:     "empty input",
			input:    "",
			wantNone: true,
		},
		{
			name:     "missing equals sign",
			input:    "not a cookie at all",
			wantNone: true,
		},
		{
			name:     "missing name",
			input:    "=orphanvalue; Path=/",
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transport.ParseCookies(tt.input)

			if tt.wantNone {
				if len(got) != 0 {
					t.Fatalf("expected no cookies, got %d", len(got))
				}
				return
			}

			if len(got) != 1 {
				t.Fatalf("expected 1 cookie, got %d", len(got))
			}
			if got[0].Name != tt.wantName || got[0].Value != tt.wantValue {
				t.Errorf("expected %s=%s, got %s=%s", tt.wantName, tt.wantValue, got[0].Name, got[0].Value)
			}
		})
	}
}
