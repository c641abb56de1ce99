// Package transport executes single bounded HTTP calls against a
// CouchDB server and normalizes the raw results.
//
// The [Transport] interface is the seam between the authentication
// layer and the network: one call in, one [Response] out, no
// connection reuse, no redirects, no retries. [New] returns the
// default implementation backed by [net/http]; [Throttled] decorates
// any Transport with token-bucket rate limiting.
//
// A [Response] is a passive view over the raw result. Header lookup is
// case-sensitive first-match and lazily indexed; cookie parsing
// swallows malformed input rather than failing the response.
package transport
