package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"unicode"

	"github.com/oliverdm/couchfetch/transport"
)

// Basic sets a precomputed "Authorization: Basic ..." header on every
// request. The header value is immutable after construction, so the
// strategy is stateless per call and needs no locking.
type Basic struct {
	tr            transport.Transport
	authorization string
}

// NewBasic returns the basic-auth strategy. Username and password must
// both be non-empty and encode to ASCII; anything else fails here with
// ErrInvalidCredential rather than at call time.
func NewBasic(tr transport.Transport, username, password string) (*Basic, error) {
	if username == "" {
		return nil, fmt.Errorf("username must not be empty: %w", ErrInvalidCredential)
	}
	if password == "" {
		return nil, fmt.Errorf("password must not be empty: %w", ErrInvalidCredential)
	}
	if !isASCII(username) || !isASCII(password) {
		return nil, fmt.Errorf("username and password must be ASCII: %w", ErrInvalidCredential)
	}

	return &Basic{
		tr:            tr,
		authorization: "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password)),
	}, nil
}

func (b *Basic) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	req.Header.Set("Authorization", b.authorization)
	return b.tr.Execute(ctx, req)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
