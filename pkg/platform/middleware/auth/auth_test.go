package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	id "bloomit/pkg/domain"
	"bloomit/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) { return v.claims, v.err }

type stubRevocation struct {
	revoked bool
	err     error
}

func (c stubRevocation) IsTokenRevoked(context.Context, string) (bool, error) { return c.revoked, c.err }

type RequireAuthSuite struct {
	suite.Suite
	logger *slog.Logger
	userID id.UserID
}

func TestRequireAuthSuite(t *testing.T) {
	suite.Run(t, new(RequireAuthSuite))
}

func (s *RequireAuthSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.userID = id.NewUserID()
}

func (s *RequireAuthSuite) serve(v JWTValidator, rc TokenRevocationChecker, header string) (*httptest.ResponseRecorder, context.Context) {
	var seen context.Context
	h := RequireAuth(v, rc, s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusNoContent)
	}))
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w, seen
}

func (s *RequireAuthSuite) validClaims() *JWTClaims {
	return &JWTClaims{UserID: s.userID.String(), Email: "manar@example.com", DisplayName: "Manar", JTI: "jti-1"}
}

func (s *RequireAuthSuite) TestRejections() {
	s.Run("missing header", func() {
		w, _ := s.serve(stubValidator{claims: s.validClaims()}, nil, "")
		s.Equal(http.StatusUnauthorized, w.Code)
		s.JSONEq(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, w.Body.String())
	})

	s.Run("invalid token", func() {
		w, _ := s.serve(stubValidator{err: errors.New("bad")}, nil, "Bearer abc")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("revoked token", func() {
		w, _ := s.serve(stubValidator{claims: s.validClaims()}, stubRevocation{revoked: true}, "Bearer abc")
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Contains(w.Body.String(), "revoked")
	})

	s.Run("revocation lookup failure", func() {
		w, _ := s.serve(stubValidator{claims: s.validClaims()}, stubRevocation{err: errors.New("redis down")}, "Bearer abc")
		s.Equal(http.StatusInternalServerError, w.Code)
		s.NotContains(w.Body.String(), "redis down")
	})

	s.Run("missing jti with revocation checks enabled", func() {
		claims := s.validClaims()
		claims.JTI = ""
		w, _ := s.serve(stubValidator{claims: claims}, stubRevocation{}, "Bearer abc")
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *RequireAuthSuite) TestPopulatesContext() {
	w, ctx := s.serve(stubValidator{claims: s.validClaims()}, stubRevocation{}, "Bearer abc")

	s.Equal(http.StatusNoContent, w.Code)
	s.Require().NotNil(ctx)
	s.Equal(s.userID, requestcontext.UserID(ctx))
	s.Equal("manar@example.com", requestcontext.Email(ctx))
	s.Equal("Manar", requestcontext.DisplayName(ctx))
	s.Equal("jti-1", requestcontext.TokenID(ctx))
	s.Equal("abc", requestcontext.AccessToken(ctx))
}
