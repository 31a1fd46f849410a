package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the identity provider and content API metrics.
type Metrics struct {
	UsersRegistered    prometheus.Counter
	Logins             *prometheus.CounterVec
	Logouts            prometheus.Counter
	PasswordResets     *prometheus.CounterVec
	TokenVerifications *prometheus.CounterVec
	VolunteerSignups   prometheus.Counter
	AuthThrottled      prometheus.Counter
	OperationDuration  *prometheus.HistogramVec
}

// New creates and registers all server metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "bloomit_users_registered_total",
			Help: "Total number of accounts created",
		}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomit_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "bloomit_logouts_total",
			Help: "Total number of logouts",
		}),
		PasswordResets: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomit_password_resets_total",
			Help: "Password reset flow steps",
		}, []string{"stage"}),
		TokenVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomit_token_verifications_total",
			Help: "Access token verifications by outcome",
		}, []string{"outcome"}),
		VolunteerSignups: f.NewCounter(prometheus.CounterOpts{
			Name: "bloomit_volunteer_signups_total",
			Help: "Volunteering opportunity sign-ups",
		}),
		AuthThrottled: f.NewCounter(prometheus.CounterOpts{
			Name: "bloomit_auth_throttled_total",
			Help: "Auth requests rejected by the per-IP rate limit",
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloomit_identity_operation_duration_ms",
			Help:    "Latency of identity operations in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementUsersRegistered() { m.UsersRegistered.Inc() }

func (m *Metrics) IncrementLogin(outcome string) { m.Logins.WithLabelValues(outcome).Inc() }

func (m *Metrics) IncrementLogout() { m.Logouts.Inc() }

func (m *Metrics) IncrementPasswordReset(stage string) {
	m.PasswordResets.WithLabelValues(stage).Inc()
}

func (m *Metrics) IncrementTokenVerification(outcome string) {
	m.TokenVerifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementVolunteerSignups() { m.VolunteerSignups.Inc() }

func (m *Metrics) IncrementThrottled() { m.AuthThrottled.Inc() }

func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// AppMetrics tracks the app process: session notifications and root view changes.
type AppMetrics struct {
	SessionNotifications *prometheus.CounterVec
	RootTransitions      *prometheus.CounterVec
	Retries              prometheus.Counter
}

func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	f := promauto.With(reg)
	return &AppMetrics{
		SessionNotifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomit_app_session_notifications_total",
			Help: "Identity provider notifications received by kind",
		}, []string{"kind"}),
		RootTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomit_app_root_transitions_total",
			Help: "Root view changes by new target",
		}, []string{"target"}),
		Retries: f.NewCounter(prometheus.CounterOpts{
			Name: "bloomit_app_retries_total",
			Help: "Full re-initializations triggered from the error view",
		}),
	}
}

func (m *AppMetrics) IncrementNotification(kind string) {
	m.SessionNotifications.WithLabelValues(kind).Inc()
}

func (m *AppMetrics) IncrementRootTransition(target string) {
	m.RootTransitions.WithLabelValues(target).Inc()
}

func (m *AppMetrics) IncrementRetries() { m.Retries.Inc() }
