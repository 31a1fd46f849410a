package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
	"bloomit/pkg/platform/httputil"
	"bloomit/pkg/requestcontext"
)

// JWTValidator checks a bearer token's signature and expiry.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker reports whether a token was invalidated by logout
// or a password reset.
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTClaims is what the validator extracts from a session token.
type JWTClaims struct {
	UserID      string
	Email       string
	DisplayName string
	JTI         string
}

var errInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")

// RequireAuth lets a request through only with a valid, unrevoked bearer
// token, and puts the caller's identity on the request context.
func RequireAuth(validator JWTValidator, revocations TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	gate := &gate{validator: validator, revocations: revocations, logger: logger}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := gate.authenticate(r)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type gate struct {
	validator   JWTValidator
	revocations TokenRevocationChecker
	logger      *slog.Logger
}

func (g *gate) authenticate(r *http.Request) (context.Context, error) {
	ctx := r.Context()
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		g.reject(ctx, "missing token", nil)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header")
	}

	claims, err := g.validator.ValidateToken(token)
	if err != nil {
		g.reject(ctx, "invalid token", err)
		return nil, errInvalidToken
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		g.reject(ctx, "malformed subject", err)
		return nil, errInvalidToken
	}

	if g.revocations != nil {
		if claims.JTI == "" {
			g.reject(ctx, "missing jti", nil)
			return nil, errInvalidToken
		}
		revoked, err := g.revocations.IsTokenRevoked(ctx, claims.JTI)
		if err != nil {
			g.logger.ErrorContext(ctx, "revocation lookup failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to validate token")
		}
		if revoked {
			g.reject(ctx, "token revoked", nil, "jti", claims.JTI)
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Token has been revoked")
		}
	}

	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithEmail(ctx, claims.Email)
	ctx = requestcontext.WithDisplayName(ctx, claims.DisplayName)
	ctx = requestcontext.WithTokenID(ctx, claims.JTI)
	ctx = requestcontext.WithAccessToken(ctx, token)
	return ctx, nil
}

func (g *gate) reject(ctx context.Context, reason string, err error, extra ...any) {
	args := append([]any{"reason", reason, "request_id", requestcontext.RequestID(ctx)}, extra...)
	if err != nil {
		args = append(args, "error", err)
	}
	g.logger.WarnContext(ctx, "unauthorized request", args...)
}
