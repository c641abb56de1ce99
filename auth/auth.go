// Package auth implements the request-execution strategies that attach
// credentials to outgoing CouchDB calls: none, basic, and cookie-based
// session authentication.
package auth

import (
	"context"
	"errors"

	"github.com/oliverdm/couchfetch/transport"
)

// ErrInvalidCredential is returned when a strategy is constructed with
// missing or unencodable credentials. Credential problems surface at
// construction, never at call time.
var ErrInvalidCredential = errors.New("invalid credential")

// Strategy executes a request on behalf of the client, attaching
// whatever credentials its mode requires first. Implementations must
// be safe for concurrent use by any number of goroutines.
type Strategy interface {
	Execute(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// None executes requests without authentication.
type None struct {
	tr transport.Transport
}

// NewNone returns the unauthenticated passthrough strategy.
func NewNone(tr transport.Transport) *None {
	return &None{tr: tr}
}

func (n *None) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	return n.tr.Execute(ctx, req)
}
