// Package navigation decides which top-level view the app shows and keeps
// the screen stacks underneath it.
package navigation

import (
	"bloomit/internal/identity/models"
	"bloomit/internal/session"
)

type Target int

const (
	TargetLoading Target = iota
	TargetError
	TargetUnauthenticated
	TargetAuthenticated
)

func (t Target) String() string {
	switch t {
	case TargetLoading:
		return "loading"
	case TargetError:
		return "error"
	case TargetUnauthenticated:
		return "unauthenticated"
	case TargetAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Root is the selected top-level view and the data it renders.
type Root struct {
	Target   Target
	Identity *models.Identity
	Err      error
}

// Select maps a Session snapshot to exactly one Root. An error wins over
// an identity.
func Select(snap session.Snapshot) Root {
	switch {
	case snap.Phase == session.PhaseInitializing:
		return Root{Target: TargetLoading}
	case snap.LastError != nil:
		return Root{Target: TargetError, Err: snap.LastError}
	case snap.Identity == nil:
		return Root{Target: TargetUnauthenticated}
	default:
		return Root{Target: TargetAuthenticated, Identity: snap.Identity}
	}
}
