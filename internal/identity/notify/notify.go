// Package notify delivers password reset codes to users out of band.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// ResetMessage is published when a user asks to reset their password.
type ResetMessage struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LogNotifier writes reset messages to the log. Codes are only included
// when includeCode is set, which cmd/server does outside production.
type LogNotifier struct {
	logger      *slog.Logger
	includeCode bool
}

func NewLogNotifier(logger *slog.Logger, includeCode bool) *LogNotifier {
	return &LogNotifier{logger: logger, includeCode: includeCode}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, msg ResetMessage) error {
	attrs := []any{
		"email", msg.Email,
		"expires_at", msg.ExpiresAt,
	}
	if n.includeCode {
		attrs = append(attrs, "code", msg.Code)
	}
	n.logger.InfoContext(ctx, "password reset requested", attrs...)
	return nil
}
