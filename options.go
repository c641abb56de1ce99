package couchfetch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/oliverdm/couchfetch/auth"
	"github.com/oliverdm/couchfetch/transport"
)

const (
	// DefaultURL is the base URL used when none is configured.
	DefaultURL = "http://127.0.0.1:5984"

	// DefaultSessionTimeout is the client-side session cookie lifetime
	// in seconds. It should be slightly below the session timeout of
	// the server so the client renews before the server rejects.
	DefaultSessionTimeout = 540
)

const (
	authNone    = "none"
	authBasic   = "basic"
	authSession = "session"
)

// config is the assembled build-time configuration. It is fixed once
// Build returns; nothing in it is mutated afterwards.
type config struct {
	URL            string `json:"url" validate:"required,http_url"`
	AuthMode       string `json:"auth_mode" validate:"oneof=none basic session"`
	Username       string `json:"username" validate:"required_unless=AuthMode none"`
	Password       string `json:"password" validate:"required_unless=AuthMode none"`
	Timeout        int    `json:"timeout" validate:"gte=0"`
	SessionTimeout int64  `json:"session_timeout"`
	ThrottleRPS    int    `json:"throttle_rps" validate:"gte=0"`
	ThrottleBurst  int    `json:"throttle_burst" validate:"gte=0"`
	RelaxedTLS     bool   `json:"relaxed_tls"`

	transport transport.Transport
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*config) error

// WithURL sets the base URL for all requests.
func WithURL(rawURL string) Option {
	return func(c *config) error {
		c.URL = rawURL
		return nil
	}
}

// WithTimeout sets the per-request deadline in seconds. Values above
// the transport's 60 second ceiling are clamped to it.
func WithTimeout(seconds int) Option {
	return func(c *config) error {
		if seconds > 60 {
			seconds = 60
		}
		c.Timeout = seconds
		return nil
	}
}

// WithBasicAuth enables basic authentication.
func WithBasicAuth(username, password string) Option {
	return func(c *config) error {
		c.AuthMode = authBasic
		c.Username = username
		c.Password = password
		return nil
	}
}

// WithSessionAuth enables session authentication with the default
// session timeout of 9 minutes.
func WithSessionAuth(username, password string) Option {
	return func(c *config) error {
		c.AuthMode = authSession
		c.Username = username
		c.Password = password
		return nil
	}
}

// WithSessionTimeout sets the client-side session cookie lifetime in
// seconds. A negative value keeps the cookie until the server rejects
// it with a 401.
func WithSessionTimeout(seconds int64) Option {
	return func(c *config) error {
		c.SessionTimeout = seconds
		return nil
	}
}

// WithRelaxedTLS disables server certificate validation when set.
func WithRelaxedTLS(relaxed bool) Option {
	return func(c *config) error {
		c.RelaxedTLS = relaxed
		return nil
	}
}

// WithTransport replaces the default net/http-backed transport.
func WithTransport(tr transport.Transport) Option {
	return func(c *config) error {
		if tr == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = tr
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting of outbound calls
// with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *config) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, transport.ErrMustNotBeZero)
		}
		c.ThrottleRPS = rps
		c.ThrottleBurst = burst
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used to span each request.
// The default is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// Build assembles a [Client] from the given options. Configuration
// problems fail here, never at call time.
func Build(optFns ...Option) (*Client, error) {
	cfg := config{
		URL:            DefaultURL,
		AuthMode:       authNone,
		SessionTimeout: DefaultSessionTimeout,
	}

	for _, opt := range optFns {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	baseURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", cfg.URL, err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	tr := cfg.transport
	if tr == nil {
		tr = transport.New(transport.Config{
			Timeout:    time.Duration(cfg.Timeout) * time.Second,
			RelaxedTLS: cfg.RelaxedTLS,
		})
	}

	if cfg.ThrottleRPS > 0 {
		tr, err = transport.Throttled(cfg.ThrottleRPS, cfg.ThrottleBurst, func() *slog.Logger { return logger }, tr)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
	}

	var strategy auth.Strategy
	switch cfg.AuthMode {
	case authNone:
		strategy = auth.NewNone(tr)
	case authBasic:
		strategy, err = auth.NewBasic(tr, cfg.Username, cfg.Password)
	case authSession:
		strategy, err = auth.NewSession(tr, cfg.Username, cfg.Password,
			time.Duration(cfg.SessionTimeout)*time.Second, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("configuring %s auth: %w", cfg.AuthMode, err)
	}

	tracer := cfg.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	return &Client{
		baseURL:  baseURL,
		strategy: strategy,
		logger:   logger,
		tracer:   tracer,
	}, nil
}
