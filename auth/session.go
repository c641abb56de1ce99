package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oliverdm/couchfetch/transport"
)

// SessionCookie is the name of the cookie CouchDB issues on a
// successful POST to the session endpoint.
const SessionCookie = "AuthSession"

const sessionPath = "/_session"

// Credential is one issued session cookie together with its computed
// expiry. A Credential is immutable; renewal publishes a new value
// rather than mutating an existing one.
type Credential struct {
	Name      string
	Value     string
	CreatedAt time.Time
	MaxAge    time.Duration
}

// Expired reports whether the credential has outlived its max age at
// the given instant. A credential with a negative MaxAge never expires
// client-side and only dies by server-side rejection.
func (c *Credential) Expired(now time.Time) bool {
	if c.MaxAge < 0 {
		return false
	}
	return !now.Before(c.CreatedAt.Add(c.MaxAge))
}

// Session authenticates by establishing a server session through
// POST /_session and reusing the issued cookie across requests.
//
// The cached cookie is shared by every goroutine using the strategy.
// Establishment runs under a single lock, so a cold herd of concurrent
// callers performs exactly one /_session call. A 401 response discards
// the cookie immediately; a fresh Set-Cookie on any response renews it,
// unconditionally overwriting the cached value.
type Session struct {
	tr      transport.Transport
	payload []byte
	timeout time.Duration
	logger  *slog.Logger

	// mu serializes all writes to current; reads go through the
	// atomic pointer so the fast path never blocks.
	mu      sync.Mutex
	current atomic.Pointer[Credential]

	now func() time.Time
}

type sessionPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// NewSession returns the session-auth strategy. A negative timeout
// keeps the cookie until the server rejects it with a 401.
func NewSession(tr transport.Transport, username, password string, timeout time.Duration, logger *slog.Logger) (*Session, error) {
	if username == "" {
		return nil, fmt.Errorf("username must not be empty: %w", ErrInvalidCredential)
	}
	if password == "" {
		return nil, fmt.Errorf("password must not be empty: %w", ErrInvalidCredential)
	}

	payload, err := json.Marshal(sessionPayload{Name: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encoding session payload: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		tr:      tr,
		payload: payload,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Current returns the cached credential as seen by this call, or nil
// when no session is active.
func (s *Session) Current() *Credential {
	return s.current.Load()
}

func (s *Session) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	cred := s.current.Load()
	if cred == nil || cred.Expired(s.now()) {
		var err error
		cred, err = s.establish(ctx, req.URL)
		if err != nil {
			return nil, err
		}
	}

	if cred != nil {
		// Only name=value goes on the wire; cookie attributes are
		// not re-serialized.
		req.Header.Set("Cookie", cred.Name+"="+cred.Value)
	}

	resp, err := s.tr.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	s.reconcile(resp)

	return resp, nil
}

// establish refreshes the cached credential under the session lock.
// Whichever caller wins the lock performs the one /_session call; the
// rest block behind it and observe its result on re-check.
func (s *Session) establish(ctx context.Context, u *url.URL) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred := s.current.Load(); cred != nil && !cred.Expired(s.now()) {
		return cred, nil
	}

	req := transport.NewRequest(http.MethodPost, sessionURL(u))
	req.Body = s.payload
	req.ContentType = "application/json"

	resp, err := s.tr.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("establishing session: %w", err)
	}

	cookie := resp.Cookie(SessionCookie)
	if cookie == nil {
		// No session granted. The caller's request proceeds without a
		// cookie rather than failing here.
		s.current.Store(nil)
		return nil, nil
	}

	cred := &Credential{
		Name:      cookie.Name,
		Value:     cookie.Value,
		CreatedAt: s.now(),
		MaxAge:    s.timeout,
	}
	s.current.Store(cred)
	s.logger.Info("session started", "cookie", cred.Name)

	return cred, nil
}

// reconcile applies the server's view of the session to the cache: a
// 401 discards the credential used for this call even if another
// caller has since installed a newer one, and any fresh session cookie
// unconditionally replaces the cached value.
func (s *Session) reconcile(resp *transport.Response) {
	if resp.StatusCode() == http.StatusUnauthorized {
		s.mu.Lock()
		s.current.Store(nil)
		s.mu.Unlock()
		s.logger.Debug("session discarded after 401")
		return
	}

	cookie := resp.Cookie(SessionCookie)
	if cookie == nil {
		return
	}

	cred := &Credential{
		Name:      cookie.Name,
		Value:     cookie.Value,
		CreatedAt: s.now(),
		MaxAge:    s.timeout,
	}
	s.mu.Lock()
	s.current.Store(cred)
	s.mu.Unlock()
	s.logger.Info("session renewed", "cookie", cred.Name)
}

func sessionURL(u *url.URL) *url.URL {
	return &url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   sessionPath,
	}
}
