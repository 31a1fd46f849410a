// Package ratelimit throttles the unauthenticated identity endpoints per
// client IP, the way the hosted provider answers "too many requests".
package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"bloomit/internal/ratelimit/store/bucket"
	dErrors "bloomit/pkg/domain-errors"
	"bloomit/pkg/platform/httputil"
	"bloomit/pkg/requestcontext"
)

// Store counts requests per key. Both bucket stores satisfy it.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*bucket.Result, error)
}

// Recorder counts throttled requests. Optional.
type Recorder interface {
	IncrementThrottled()
}

type Limiter struct {
	store    Store
	limit    int
	window   time.Duration
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithRecorder(r Recorder) Option {
	return func(l *Limiter) {
		l.recorder = r
	}
}

// New allows limit requests per client IP in any window.
func New(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{store: store, limit: limit, window: window, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Middleware rejects requests over the limit with 429. A failing store lets
// requests through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = "unknown"
		}

		result, err := l.store.Allow(ctx, "auth:"+ip, l.limit, l.window)
		if err != nil {
			l.logger.ErrorContext(ctx, "rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		if !result.Allowed {
			if l.recorder != nil {
				l.recorder.IncrementThrottled()
			}
			l.logger.WarnContext(ctx, "auth request throttled", "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result.RetryAfter)))
			httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests, "Too many attempts. Please try again later."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
