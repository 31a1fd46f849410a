package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bloomit/internal/identity/models"
	"bloomit/internal/identity/notify"
	dErrors "bloomit/pkg/domain-errors"
	audit "bloomit/pkg/platform/audit"
	"bloomit/pkg/platform/sentinel"
	"bloomit/pkg/requestcontext"
)

// ResetPassword issues a single-use reset code when the account exists.
// Callers get the same answer either way so accounts cannot be enumerated.
func (s *Service) ResetPassword(ctx context.Context, email string) (err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer func() { endSpan(span, err) }()
	defer s.observe("reset_password", start)

	email = models.NormalizeEmail(email)
	if err := models.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.logger.InfoContext(ctx, "password reset for unknown email ignored")
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	spanUser(span, user.ID)

	resetToken := &models.ResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: requestcontext.Now(ctx).Add(s.resetTokenTTL),
	}
	if err := s.resets.Save(ctx, resetToken); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store reset code")
	}
	if err := s.notifier.SendPasswordReset(ctx, notify.ResetMessage{
		Email:     resetToken.Email,
		Code:      resetToken.Token,
		ExpiresAt: resetToken.ExpiresAt,
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send password reset email")
	}

	s.logAudit(ctx, audit.EventPasswordResetRequested,
		"user_id", user.ID.String(),
		"email", user.Email,
	)
	if s.metrics != nil {
		s.metrics.IncrementPasswordReset("requested")
	}
	return nil
}

// ConfirmPasswordReset redeems a reset code and sets the new password.
// Tokens issued before the change stop verifying.
func (s *Service) ConfirmPasswordReset(ctx context.Context, req models.ResetConfirmation) (err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "ConfirmPasswordReset")
	defer func() { endSpan(span, err) }()
	defer s.observe("confirm_password_reset", start)

	if err := req.Validate(); err != nil {
		return err
	}

	resetToken, err := s.resets.Consume(ctx, req.Token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return dErrors.New(dErrors.CodeInvalidInput, "reset code is invalid or expired")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to redeem reset code")
	}
	spanUser(span, resetToken.UserID)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	if err := s.users.UpdatePassword(ctx, resetToken.UserID, hash, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeInvalidInput, "reset code is invalid or expired")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update password")
	}

	s.logAudit(ctx, audit.EventPasswordResetCompleted,
		"user_id", resetToken.UserID.String(),
		"email", resetToken.Email,
	)
	if s.metrics != nil {
		s.metrics.IncrementPasswordReset("completed")
	}
	return nil
}
