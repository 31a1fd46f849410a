package revocation

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bloomit/pkg/platform/sentinel"
)

// Clock returns the current time; injected for tests.
type Clock func() time.Time

const revokedTokenKeyPrefix = "bloomit:trl:jti:"

// Every authenticated request performs one lookup, so its latency is tracked
// per backend.
var lookupSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "bloomit_token_revocation_lookup_seconds",
	Help:    "Latency of token revocation lookups.",
	Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
}, []string{"backend"})

func observeLookup(backend string) func() {
	timer := prometheus.NewTimer(lookupSeconds.WithLabelValues(backend))
	return func() { timer.ObserveDuration() }
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
