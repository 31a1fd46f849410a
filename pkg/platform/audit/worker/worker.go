// Package worker persists queued audit events off the request path.
package worker

import (
	"context"
	"log/slog"

	audit "bloomit/pkg/platform/audit"
)

// Stats counts what a drain did with the events it received.
type Stats struct {
	Persisted int
	Failed    int
}

// Drain appends every event from inbox to store until inbox is closed or ctx
// ends. A failed append is logged and counted, never retried.
func Drain(ctx context.Context, store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) Stats {
	var st Stats
	for {
		select {
		case <-ctx.Done():
			return st
		case event, ok := <-inbox:
			if !ok {
				return st
			}
			if err := store.Append(ctx, event); err != nil {
				st.Failed++
				logger.ErrorContext(ctx, "audit append failed", "error", err, "action", event.Action, "user_id", event.UserID.String())
				continue
			}
			st.Persisted++
		}
	}
}
