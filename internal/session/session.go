// Package session tracks who is signed in for the whole app process. The
// Session changes only when the identity provider sends a notification;
// operations pass straight through to the provider.
package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"bloomit/internal/identity/models"
	"bloomit/internal/platform/metrics"
)

type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the Session. LastError is the provider's
// error value exactly as delivered. Seq counts applied notifications, so a
// larger Seq is a newer state of the same Session.
type Snapshot struct {
	Identity  *models.Identity
	Phase     Phase
	LastError error
	Seq       uint64
}

// Provider is the identity provider surface the Manager consumes.
type Provider interface {
	Register(ctx context.Context, email, password string) (*models.Identity, error)
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	Subscribe(onChange func(*models.Identity), onError func(error)) (unsubscribe func())
}

type listener struct {
	id uint64
	fn func(Snapshot)
}

// Manager owns one Session and one provider subscription.
type Manager struct {
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.AppMetrics

	mu          sync.Mutex
	session     Snapshot
	closed      bool
	listeners   []listener
	nextID      uint64
	unsubscribe func()
	closeOnce   sync.Once
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(am *metrics.AppMetrics) Option {
	return func(m *Manager) {
		m.metrics = am
	}
}

// WithListener registers fn before the subscription opens so it cannot
// miss the first notification.
func WithListener(fn func(Snapshot)) Option {
	return func(m *Manager) {
		m.addListener(fn)
	}
}

// New creates a Session in the initializing phase and subscribes to the
// provider. The provider must not deliver notifications concurrently.
func New(provider Provider, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		logger:   slog.Default(),
		session:  Snapshot{Phase: PhaseInitializing},
	}
	for _, opt := range opts {
		opt(m)
	}
	unsubscribe := provider.Subscribe(m.handleChange, m.handleError)

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
	return m
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// OnChange registers fn to run after every Session mutation, on the
// notifying goroutine, in registration order.
func (m *Manager) OnChange(fn func(Snapshot)) (remove func()) {
	listenerID := m.addListener(fn)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == listenerID {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) addListener(fn func(Snapshot)) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.listeners = append(m.listeners, listener{id: m.nextID, fn: fn})
	return m.nextID
}

func (m *Manager) handleChange(identity *models.Identity) {
	m.apply("change", func(s *Snapshot) {
		s.Identity = identity
		s.LastError = nil
		s.Phase = PhaseSettled
	})
}

func (m *Manager) handleError(err error) {
	m.logger.Error("identity provider notification failed", "error", err)
	m.apply("error", func(s *Snapshot) {
		s.LastError = err
		s.Phase = PhaseSettled
	})
}

func (m *Manager) apply(kind string, mutate func(*Snapshot)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Debug("discarding notification after close", "kind", kind)
		return
	}
	mutate(&m.session)
	m.session.Seq++
	snapshot := m.session
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncrementNotification(kind)
	}
	for _, l := range listeners {
		l.fn(snapshot)
	}
}

func (m *Manager) Register(ctx context.Context, email, password string) (*models.Identity, error) {
	identity, err := m.provider.Register(ctx, email, password)
	if err != nil {
		return nil, &OperationError{Op: "register", Err: err}
	}
	return identity, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	identity, err := m.provider.Login(ctx, email, password)
	if err != nil {
		return nil, &OperationError{Op: "login", Err: err}
	}
	return identity, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.provider.Logout(ctx); err != nil {
		return &OperationError{Op: "logout", Err: err}
	}
	return nil
}

func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	if err := m.provider.ResetPassword(ctx, email); err != nil {
		return &OperationError{Op: "reset password", Err: err}
	}
	return nil
}

// Close releases the subscription. Later notifications are discarded.
// Safe to call more than once and from any goroutine.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		unsubscribe := m.unsubscribe
		m.listeners = nil
		m.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

// Closed reports whether Close has run.
func (m *Manager) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
