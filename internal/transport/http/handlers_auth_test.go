package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bloomit/internal/identity/models"
	"bloomit/internal/transport/http/mocks"
	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
	audit "bloomit/pkg/platform/audit"
	"bloomit/pkg/testutil"
)

//go:generate mockgen -source=handlers_auth.go -destination=mocks/auth-mocks.go -package=mocks
type AuthHandlerSuite struct {
	suite.Suite
	userID id.UserID
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupSuite() {
	s.userID = id.NewUserID()
}

// fakeAuth stands in for RequireAuth and marks every request as signed in.
func (s *AuthHandlerSuite) fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = testutil.WithIdentity(r, s.userID.String(), "sara@example.com")
		r = testutil.WithAccessToken(r, "access-token", "jti-1")
		next.ServeHTTP(w, r)
	})
}

func (s *AuthHandlerSuite) newHandler(t *testing.T) (*mocks.MockAuthService, *mocks.MockActivityLog, chi.Router) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockAuthService(ctrl)
	activity := mocks.NewMockActivityLog(ctrl)
	router := chi.NewRouter()
	NewAuthHandler(service, activity, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(router, s.fakeAuth)
	return service, activity, router
}

func (s *AuthHandlerSuite) authResult() *models.AuthResult {
	return &models.AuthResult{
		Identity: &models.Identity{UserID: s.userID, Email: "sara@example.com"},
		Tokens: models.Tokens{
			AccessToken: "access-token",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		},
	}
}

func (s *AuthHandlerSuite) TestRegister() {
	s.T().Run("normalizes credentials and returns 201", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		expected := s.authResult()
		service.EXPECT().
			Register(gomock.Any(), models.Credentials{Email: "sara@example.com", Password: "secret1"}).
			Return(expected, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			models.Credentials{Email: "  Sara@Example.com ", Password: "secret1"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[models.AuthResult](t, rr)
		assert.Equal(t, expected.Identity, got.Identity)
		assert.Equal(t, "access-token", got.Tokens.AccessToken)
		assert.True(t, expected.Tokens.ExpiresAt.Equal(got.Tokens.ExpiresAt))
	})

	s.T().Run("returns 409 when the email is taken", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "email address is already in use"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			models.Credentials{Email: "sara@example.com", Password: "secret1"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.T().Run("returns 400 for a short password without calling the service", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			models.Credentials{Email: "sara@example.com", Password: "123"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.T().Run("returns 400 for unknown fields", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			map[string]string{"mail": "sara@example.com", "password": "secret1"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *AuthHandlerSuite) TestLogin() {
	s.T().Run("returns 200 with tokens", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Login(gomock.Any(), gomock.Any()).Return(s.authResult(), nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			models.Credentials{Email: "sara@example.com", Password: "secret1"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	s.T().Run("returns 401 with the shared message", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			models.Credentials{Email: "sara@example.com", Password: "wrong-one"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		assert.Equal(t, "invalid email or password", testutil.ErrorBody(t, rr).Description)
	})

	s.T().Run("hides internal error details", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "postgres is on fire"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			models.Credentials{Email: "sara@example.com", Password: "secret1"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
		assert.NotContains(t, rr.Body.String(), "postgres")
	})
}

func (s *AuthHandlerSuite) TestLogout() {
	s.T().Run("revokes the bearer token", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Logout(gomock.Any(), "access-token").Return(nil)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/auth/logout"))

		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	s.T().Run("propagates unavailable stores", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Logout(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeUnavailable, "revocation list unavailable"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/auth/logout"))

		testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, string(dErrors.CodeUnavailable))
	})
}

func (s *AuthHandlerSuite) TestMe() {
	s.T().Run("returns the verified identity", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		identity := &models.Identity{UserID: s.userID, Email: "sara@example.com", DisplayName: "Sara"}
		service.EXPECT().Verify(gomock.Any(), "access-token").Return(identity, nil)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/auth/me"))

		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, identity, testutil.UnmarshalResponse[models.Identity](t, rr))
	})

	s.T().Run("returns 401 for a token issued before a password change", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "token is no longer valid"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/auth/me"))

		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}

func (s *AuthHandlerSuite) TestActivity() {
	_, activity, router := s.newHandler(s.T())
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity.EXPECT().List(gomock.Any(), s.userID).Return([]audit.Event{
		{UserID: s.userID, Action: string(audit.EventLoginSucceeded), Timestamp: at, Device: "Firefox on Linux", ClientIP: "10.0.0.1"},
	}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/auth/me/activity"))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.NotContains(rr.Body.String(), "10.0.0.1")
	got := *testutil.UnmarshalResponse[[]ActivityEntry](s.T(), rr)
	require.Len(s.T(), got, 1)
	s.Equal(ActivityEntry{Action: "login_succeeded", Timestamp: at, Device: "Firefox on Linux"}, got[0])
}

func (s *AuthHandlerSuite) TestResetPassword() {
	s.T().Run("accepts any well-formed email", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().ResetPassword(gomock.Any(), "sara@example.com").Return(nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/reset-password",
			ResetPasswordRequest{Email: "Sara@example.com"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusAccepted)
		testutil.AssertJSONContains(t, rr, "message", resetRequestedMessage)
	})

	s.T().Run("rejects a malformed email", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().ResetPassword(gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/reset-password",
			ResetPasswordRequest{Email: "not-an-email"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})
}

func (s *AuthHandlerSuite) TestConfirmPasswordReset() {
	s.T().Run("returns 204 on success", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		confirmation := models.ResetConfirmation{Token: "code", NewPassword: "new-secret"}
		service.EXPECT().ConfirmPasswordReset(gomock.Any(), confirmation).Return(nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/reset-password/confirm", confirmation))

		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	s.T().Run("returns 400 for a used code", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().ConfirmPasswordReset(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeInvalidInput, "reset code is invalid or expired"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/reset-password/confirm",
			models.ResetConfirmation{Token: "code", NewPassword: "new-secret"}))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.T().Run("validates before calling the service", func(t *testing.T) {
		service, _, router := s.newHandler(t)
		service.EXPECT().ConfirmPasswordReset(gomock.Any(), gomock.Any()).Times(0)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/reset-password/confirm",
			models.ResetConfirmation{Token: "", NewPassword: "new-secret"}))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})
}
