package navigation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloomit/internal/identity/models"
	"bloomit/internal/platform/metrics"
	"bloomit/internal/session"
	id "bloomit/pkg/domain"
	"bloomit/pkg/testutil"
)

// stubProvider records its callbacks so tests can deliver notifications,
// including late ones after the Manager has been replaced.
type stubProvider struct {
	mu           sync.Mutex
	onChange     func(*models.Identity)
	onError      func(error)
	unsubscribed bool
}

func (p *stubProvider) Subscribe(onChange func(*models.Identity), onError func(error)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange, p.onError = onChange, onError
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.unsubscribed = true
	}
}

func (p *stubProvider) emit(identity *models.Identity) {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	fn(identity)
}

func (p *stubProvider) fail(err error) {
	p.mu.Lock()
	fn := p.onError
	p.mu.Unlock()
	fn(err)
}

func (p *stubProvider) Register(context.Context, string, string) (*models.Identity, error) {
	return nil, nil
}

func (p *stubProvider) Login(context.Context, string, string) (*models.Identity, error) {
	return nil, nil
}

func (p *stubProvider) Logout(context.Context) error { return nil }

func (p *stubProvider) ResetPassword(context.Context, string) error { return nil }

type appHarness struct {
	providers []*stubProvider
	cleanups  int
	roots     []Root
	metrics   *metrics.AppMetrics
	app       *App
}

func newAppHarness(t *testing.T) *appHarness {
	t.Helper()
	h := &appHarness{metrics: metrics.NewAppMetrics(prometheus.NewRegistry())}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := func(opts ...session.Option) (*session.Manager, func()) {
		p := &stubProvider{}
		h.providers = append(h.providers, p)
		return session.New(p, append(opts, session.WithLogger(logger))...), func() { h.cleanups++ }
	}
	h.app = NewApp(factory,
		WithAppLogger(logger),
		WithAppMetrics(h.metrics),
		WithRootListener(func(r Root) { h.roots = append(h.roots, r) }),
	)
	t.Cleanup(h.app.Close)
	return h
}

func (h *appHarness) provider() *stubProvider {
	return h.providers[len(h.providers)-1]
}

func TestAppRootFollowsSession(t *testing.T) {
	u1 := &models.Identity{UserID: id.NewUserID(), Email: "u1@example.com"}

	testutil.Given(t, "a freshly started app", func(t *testing.T) {
		h := newAppHarness(t)
		assert.Equal(t, TargetLoading, h.app.Root().Target)
		assert.Empty(t, h.roots, "loading is the initial root, not a transition")

		testutil.When(t, "the provider reports no user", func(t *testing.T) {
			h.provider().emit(nil)
			testutil.Then(t, "the unauthenticated flow is shown", func(t *testing.T) {
				assert.Equal(t, TargetUnauthenticated, h.app.Root().Target)
			})
		})

		testutil.When(t, "the provider reports u1", func(t *testing.T) {
			h.provider().emit(u1)
			testutil.Then(t, "the authenticated flow is shown for u1", func(t *testing.T) {
				root := h.app.Root()
				assert.Equal(t, TargetAuthenticated, root.Target)
				assert.Equal(t, u1, root.Identity)
			})
		})

		testutil.When(t, "the provider reports network-lost", func(t *testing.T) {
			h.provider().fail(errors.New("network-lost"))
			testutil.Then(t, "the error view is shown and the session keeps u1", func(t *testing.T) {
				root := h.app.Root()
				assert.Equal(t, TargetError, root.Target)
				assert.ErrorContains(t, root.Err, "network-lost")
				assert.Equal(t, u1, h.app.Manager().Snapshot().Identity)
			})
		})

		testutil.Then(t, "every transition reached the listener in order", func(t *testing.T) {
			require.Len(t, h.roots, 3)
			assert.Equal(t, TargetUnauthenticated, h.roots[0].Target)
			assert.Equal(t, TargetAuthenticated, h.roots[1].Target)
			assert.Equal(t, TargetError, h.roots[2].Target)
			assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.RootTransitions.WithLabelValues("error")))
		})
	})
}

func TestAppSkipsUnchangedRoot(t *testing.T) {
	h := newAppHarness(t)
	h.provider().emit(nil)
	h.provider().emit(nil)

	assert.Len(t, h.roots, 1)
	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.RootTransitions.WithLabelValues("unauthenticated")))
}

func TestAppRetry(t *testing.T) {
	h := newAppHarness(t)
	h.provider().fail(errors.New("network-lost"))
	require.Equal(t, TargetError, h.app.Root().Target)

	first := h.provider()
	oldManager := h.app.Manager()

	h.app.Retry()

	t.Run("starts over with a new session", func(t *testing.T) {
		assert.Len(t, h.providers, 2)
		assert.NotSame(t, oldManager, h.app.Manager())
		assert.True(t, oldManager.Closed())
		assert.True(t, first.unsubscribed)
		assert.Equal(t, 1, h.cleanups)
		assert.Equal(t, TargetLoading, h.app.Root().Target)
		assert.Equal(t, session.PhaseInitializing, h.app.Manager().Snapshot().Phase)
		assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.Retries))
	})

	t.Run("late notifications from the old provider are ignored", func(t *testing.T) {
		first.emit(&models.Identity{UserID: id.NewUserID(), Email: "late@example.com"})
		assert.Equal(t, TargetLoading, h.app.Root().Target)
	})

	t.Run("the new provider drives the root", func(t *testing.T) {
		h.provider().emit(nil)
		assert.Equal(t, TargetUnauthenticated, h.app.Root().Target)
	})
}

func TestAppClose(t *testing.T) {
	h := newAppHarness(t)
	manager := h.app.Manager()

	h.app.Close()
	h.app.Close()

	assert.True(t, manager.Closed())
	assert.Equal(t, 1, h.cleanups)

	h.app.Retry()
	assert.Len(t, h.providers, 1, "retry after close is a no-op")
}

func TestAppConcurrentRetry(t *testing.T) {
	var built, cleaned atomic.Int32
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var mu sync.Mutex
	var providers []*stubProvider
	app := NewApp(func(opts ...session.Option) (*session.Manager, func()) {
		built.Add(1)
		p := &stubProvider{}
		mu.Lock()
		providers = append(providers, p)
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		return session.New(p, append(opts, session.WithLogger(logger))...), func() { cleaned.Add(1) }
	}, WithAppLogger(logger))

	mu.Lock()
	providers[0].fail(errors.New("network-lost"))
	mu.Unlock()
	require.Equal(t, TargetError, app.Root().Target)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.Retry()
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, built.Load(), int32(2))
	assert.Equal(t, built.Load()-1, cleaned.Load(), "every replaced session was released once")
	require.NotNil(t, app.Manager())
	assert.False(t, app.Manager().Closed())
	assert.Equal(t, TargetLoading, app.Root().Target)

	app.Close()
	assert.Equal(t, built.Load(), cleaned.Load())
}

// settledProvider reports no user from inside Subscribe, so the Manager has
// already changed by the time the factory returns.
type settledProvider struct {
	stubProvider
}

func (p *settledProvider) Subscribe(onChange func(*models.Identity), onError func(error)) func() {
	unsubscribe := p.stubProvider.Subscribe(onChange, onError)
	onChange(nil)
	return unsubscribe
}

func TestAppKeepsRootSettledDuringStart(t *testing.T) {
	var roots []Root
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := NewApp(func(opts ...session.Option) (*session.Manager, func()) {
		return session.New(&settledProvider{}, append(opts, session.WithLogger(logger))...), nil
	},
		WithAppLogger(logger),
		WithRootListener(func(r Root) { roots = append(roots, r) }),
	)
	t.Cleanup(app.Close)

	assert.Equal(t, TargetUnauthenticated, app.Root().Target)
	require.Len(t, roots, 1)
	assert.Equal(t, TargetUnauthenticated, roots[0].Target)
}

func TestAppIgnoresOlderSnapshot(t *testing.T) {
	h := newAppHarness(t)
	h.provider().emit(nil)
	stale := h.app.Manager().Snapshot()
	h.provider().emit(&models.Identity{UserID: id.NewUserID(), Email: "u1@example.com"})
	require.Equal(t, TargetAuthenticated, h.app.Root().Target)

	h.app.mu.Lock()
	gen := h.app.gen
	h.app.mu.Unlock()
	h.app.reselect(gen, stale)

	assert.Equal(t, TargetAuthenticated, h.app.Root().Target)
	assert.Len(t, h.roots, 2)
}
