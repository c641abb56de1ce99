// Package couchfetch executes authenticated HTTP requests against a
// CouchDB server over a bounded, connectionless transport.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := couchfetch.Build(
//		couchfetch.WithURL("http://127.0.0.1:5984"),
//		couchfetch.WithSessionAuth("admin", "secret"),
//		couchfetch.WithTimeout(10),
//	)
//
// All configuration problems (bad URL, missing credentials, invalid
// auth mode) fail at Build, never at call time.
//
// # Making Requests
//
// Each verb resolves a path against the base URL, runs the request
// through the configured authentication strategy, and returns the
// wrapped response:
//
//	resp, err := c.Get(ctx, "/db/doc-id")
//	resp, err = c.Put(ctx, "/db/doc-id", couchfetch.WithBody(doc))
//
// PUT and POST bodies default to Content-Type application/json; use
// [WithRawBody] to attach pre-encoded bytes unchanged.
//
// # Session Authentication
//
// With [WithSessionAuth] the client exchanges its credentials for a
// session cookie through POST /_session and shares that cookie across
// all concurrent callers. A cold start performs exactly one session
// call no matter how many requests race; a 401 discards the cookie and
// is returned to the caller as-is, without a retry.
package couchfetch
