package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"bloomit/internal/identity/device"
	"bloomit/internal/identity/models"
	"bloomit/internal/identity/notify"
	"bloomit/internal/identity/token"
	"bloomit/internal/platform/metrics"
	"bloomit/pkg/attrs"
	id "bloomit/pkg/domain"
	audit "bloomit/pkg/platform/audit"
	"bloomit/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID id.UserID, hash []byte, changedAt time.Time) error
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type ResetTokenStore interface {
	Save(ctx context.Context, token *models.ResetToken) error
	Consume(ctx context.Context, code string) (*models.ResetToken, error)
}

type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, msg notify.ResetMessage) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

var tracer = otel.Tracer("bloomit/internal/identity/service")

// Service is the identity provider: accounts, access tokens, revocation and
// password reset. Transport concerns stay in the HTTP handlers.
type Service struct {
	users       UserStore
	revocations RevocationList
	resets      ResetTokenStore
	tokens      *token.JWTService

	notifier       ResetNotifier
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics

	tokenTTL      time.Duration
	resetTokenTTL time.Duration
	bcryptCost    int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithResetNotifier(n ResetNotifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTokenTTL = ttl
		}
	}
}

// WithBcryptCost lowers hashing cost in tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(users UserStore, revocations RevocationList, resets ResetTokenStore, tokens *token.JWTService, opts ...Option) *Service {
	s := &Service{
		users:         users,
		revocations:   revocations,
		resets:        resets,
		tokens:        tokens,
		logger:        slog.Default(),
		tokenTTL:      24 * time.Hour,
		resetTokenTTL: time.Hour,
		bcryptCost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger, false)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "identity."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func spanUser(span trace.Span, userID id.UserID) {
	span.SetAttributes(attribute.String("user_id", userID.String()))
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	userID, _ := id.ParseUserID(attrs.String(attributes, "user_id"))
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:    userID,
		Email:     attrs.String(attributes, "email"),
		Action:    string(event),
		Reason:    attrs.String(attributes, "reason"),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    device.ParseUserAgent(requestcontext.UserAgent(ctx)),
	})
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, start)
	}
}

func (s *Service) issueTokens(user *models.User) (*models.AuthResult, error) {
	identity := user.Identity()
	tokens, _, err := s.tokens.GenerateAccessToken(identity, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Identity: identity, Tokens: tokens}, nil
}
