package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// throttled is a Transport decorator, using the time/rate token
// bucket limiter to restrict outbound calls.
type throttled struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    Transport
	logFn   func() *slog.Logger
}

// Throttled returns a Transport that throttles outbound requests using
// a token bucket rate limiter. logFn lazily resolves the logger at
// request time, making option ordering irrelevant. A nil-returning
// logFn skips the calls to *Limiter.Allow().
func Throttled(rps, burst int, logFn func() *slog.Logger, next Transport) (Transport, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	return &throttled{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		next:    next,
		logFn:   logFn,
	}, nil
}

func (t *throttled) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var waited time.Duration
	logger := t.logFn()
	if logger != nil && !t.limiter.Allow() {
		logger.Info("throttle tokens exhausted", "rate", t.rps, "burst", t.burst, "path", req.URL.Path)

		defer func() {
			logger.Info("throttle wait complete", "waited", waited.String(), "rate", t.rps, "burst", t.burst)
		}()
	}

	start := time.Now()

	err := t.limiter.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.Execute(ctx, req)
}
