// Package requesttime pins a single "now" per HTTP request so audit events,
// token expiry and sign-up timestamps agree with each other.
package requesttime

import (
	"net/http"
	"time"

	"bloomit/pkg/requestcontext"
)

// Middleware stamps each request with the wall clock.
var Middleware = WithClock(time.Now)

// WithClock stamps each request with clock(), in UTC.
func WithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), clock().UTC())))
		})
	}
}
