package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bloomit/internal/identity/models"
	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
	audit "bloomit/pkg/platform/audit"
	"bloomit/pkg/platform/sentinel"
	"bloomit/pkg/requestcontext"
)

const invalidCredentials = "invalid email or password"

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bloomit-placeholder"), bcrypt.MinCost)

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, creds models.Credentials) (result *models.AuthResult, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "Register")
	defer func() { endSpan(span, err) }()
	defer s.observe("register", start)

	creds.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	user := &models.User{
		ID:                id.NewUserID(),
		Email:             creds.Email,
		PasswordHash:      hash,
		CreatedAt:         now,
		PasswordChangedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email address is already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}
	spanUser(span, user.ID)

	result, err = s.issueTokens(user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logAudit(ctx, audit.EventUserRegistered,
		"user_id", user.ID.String(),
		"email", user.Email,
	)
	if s.metrics != nil {
		s.metrics.IncrementUsersRegistered()
	}
	return result, nil
}

// Login checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (result *models.AuthResult, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "Login")
	defer func() { endSpan(span, err) }()
	defer s.observe("login", start)

	creds.Normalize()
	if err := models.ValidateEmail(creds.Email); err != nil {
		return nil, err
	}
	if creds.Password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}

	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
		s.loginFailed(ctx, creds.Email, id.UserID{}, "unknown_email")
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		s.loginFailed(ctx, creds.Email, user.ID, "wrong_password")
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}
	spanUser(span, user.ID)

	result, err = s.issueTokens(user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logAudit(ctx, audit.EventLoginSucceeded,
		"user_id", user.ID.String(),
		"email", user.Email,
	)
	if s.metrics != nil {
		s.metrics.IncrementLogin("success")
	}
	return result, nil
}

func (s *Service) loginFailed(ctx context.Context, email string, userID id.UserID, reason string) {
	attributes := []any{"email", email, "reason", reason}
	if !userID.IsNil() {
		attributes = append(attributes, "user_id", userID.String())
	}
	s.logAudit(ctx, audit.EventLoginFailed, attributes...)
	if s.metrics != nil {
		s.metrics.IncrementLogin("failure")
	}
}

// Logout revokes the presented access token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, accessToken string) (err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "Logout")
	defer func() { endSpan(span, err) }()
	defer s.observe("logout", start)

	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return err
	}

	if remaining := s.tokens.RemainingLifetime(claims); remaining > 0 {
		if err := s.revocations.RevokeToken(ctx, claims.ID, remaining); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
		}
	}

	s.logAudit(ctx, audit.EventLogout,
		"user_id", claims.UserID,
		"email", claims.Email,
	)
	if s.metrics != nil {
		s.metrics.IncrementLogout()
	}
	return nil
}

// Verify resolves an access token to the current identity of its user.
// Revoked tokens and deleted accounts are rejected as unauthorized.
func (s *Service) Verify(ctx context.Context, accessToken string) (identity *models.Identity, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "Verify")
	defer func() { endSpan(span, err) }()
	defer s.observe("verify", start)

	identity, err = s.verify(ctx, accessToken)
	if s.metrics != nil {
		outcome := "valid"
		if err != nil {
			outcome = "rejected"
		}
		s.metrics.IncrementTokenVerification(outcome)
	}
	return identity, err
}

func (s *Service) verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Before(user.PasswordChangedAt.Truncate(time.Second)) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token predates password change")
	}
	return user.Identity(), nil
}

// IsTokenRevoked backs the RequireAuth middleware.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := s.revocations.IsRevoked(ctx, jti)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check token revocation")
	}
	return revoked, nil
}
