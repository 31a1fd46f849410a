package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bloomit/internal/catalog"
	"bloomit/internal/identity/models"
	"bloomit/internal/identity/service"
	"bloomit/internal/identity/store/resettoken"
	"bloomit/internal/identity/store/revocation"
	userstore "bloomit/internal/identity/store/user"
	"bloomit/internal/identity/token"
	"bloomit/internal/platform/metrics"
	"bloomit/internal/ratelimit"
	"bloomit/internal/ratelimit/store/bucket"
	dErrors "bloomit/pkg/domain-errors"
	auditmemory "bloomit/pkg/platform/audit/store/memory"
	"bloomit/pkg/platform/audit/publisher"
	"bloomit/pkg/platform/middleware/request"
	"bloomit/pkg/testutil"
)

func newTestRouter(t *testing.T, health map[string]HealthCheck, opts ...AuthHandlerOption) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	audit := publisher.NewPublisher(auditmemory.NewInMemoryStore(), publisher.WithLogger(logger))
	jwt := token.NewJWTService("router-test-key", "bloomit-test")
	svc := service.New(userstore.New(), revocation.NewInMemoryTRL(), resettoken.New(), jwt,
		service.WithLogger(logger),
		service.WithAuditPublisher(audit),
		service.WithMetrics(m),
		service.WithBcryptCost(bcrypt.MinCost),
		service.WithTokenTTL(time.Hour),
	)
	return NewRouter(RouterConfig{
		Auth:      NewAuthHandler(svc, audit, logger, opts...),
		Content:   NewContentHandler(catalog.MustNew(), audit, m, logger),
		Validator: jwt.Validator(),
		Revoked:   svc,
		Gatherer:  reg,
		Health:    health,
		Logger:    logger,
	})
}

func TestRouter_SessionLifecycle(t *testing.T) {
	router := newTestRouter(t, nil)
	creds := models.Credentials{Email: "sara@example.com", Password: "secret1"}

	testutil.Given(t, "a registered account", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", creds))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		assert.NotEmpty(t, rr.Header().Get(request.HeaderRequestID))
		registered := testutil.UnmarshalResponse[models.AuthResult](t, rr)
		accessToken := registered.Tokens.AccessToken

		testutil.When(t, "the bearer joins an opportunity", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPost, "/volunteering/1/join"), accessToken))
			testutil.Then(t, "the sign-up is confirmed", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				testutil.AssertJSONContains(t, rr, "message", catalog.JoinConfirmation)
			})
		})

		testutil.When(t, "the bearer asks who they are", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/auth/me"), accessToken))
			testutil.Then(t, "the identity comes back", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				got := testutil.UnmarshalResponse[models.Identity](t, rr)
				assert.Equal(t, registered.Identity.UserID, got.UserID)
			})
		})

		testutil.When(t, "the bearer logs out", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPost, "/auth/logout"), accessToken))
			testutil.AssertStatus(t, rr, http.StatusNoContent)

			testutil.Then(t, "the token is refused afterwards", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/auth/me"), accessToken))
				testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
			})
		})

		testutil.When(t, "the account logs in again", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", creds))
			testutil.AssertStatus(t, rr, http.StatusOK)
			loggedIn := testutil.UnmarshalResponse[models.AuthResult](t, rr)

			testutil.Then(t, "the activity trail lists every step", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/auth/me/activity"), loggedIn.Tokens.AccessToken))
				testutil.AssertStatus(t, rr, http.StatusOK)
				entries := *testutil.UnmarshalResponse[[]ActivityEntry](t, rr)
				actions := make([]string, 0, len(entries))
				for _, e := range entries {
					actions = append(actions, e.Action)
				}
				assert.Equal(t, []string{"user_registered", "volunteer_joined", "logout", "login_succeeded"}, actions)
			})
		})
	})
}

func TestRouter_RequiresBearer(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/auth/logout", "/volunteering/1/join"} {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, path))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	}

	rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/auth/me"), "garbage"))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestRouter_Health(t *testing.T) {
	t.Run("ok without checks", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(t, nil), testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("degraded when a dependency fails", func(t *testing.T) {
		router := newTestRouter(t, map[string]HealthCheck{
			"redis":    func(context.Context) error { return errors.New("connection refused") },
			"postgres": func(context.Context) error { return nil },
		})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		got := testutil.UnmarshalResponse[HealthResponse](t, rr)
		assert.Equal(t, "degraded", got.Status)
		assert.Equal(t, map[string]string{"redis": "connection refused", "postgres": "ok"}, got.Checks)
	})
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, nil)
	testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
		models.Credentials{Email: "metrics@example.com", Password: "secret1"}))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	body := testutil.Body(rr)
	require.True(t, strings.Contains(body, "bloomit_users_registered_total 1"), "metrics body: %s", body)
}

func TestRouter_ThrottlesPublicAuthRoutes(t *testing.T) {
	limiter := ratelimit.New(bucket.NewInMemoryBucketStore(), 2, time.Minute,
		ratelimit.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	router := newTestRouter(t, nil, WithThrottle(limiter.Middleware))
	creds := models.Credentials{Email: "moss@example.com", Password: "secret1"}

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", creds))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	accessToken := testutil.UnmarshalResponse[models.AuthResult](t, rr).Tokens.AccessToken

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", creds))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", creds))
	testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, string(dErrors.CodeTooManyRequests))

	rr = testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/auth/me"), accessToken))
	testutil.AssertStatus(t, rr, http.StatusOK)
	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/plants"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
