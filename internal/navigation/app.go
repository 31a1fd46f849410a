package navigation

import (
	"log/slog"
	"slices"
	"sync"

	"bloomit/internal/platform/metrics"
	"bloomit/internal/session"
)

// Factory builds a fresh Manager for the app. The returned cleanup releases
// anything the factory set up besides the Manager itself and may be nil.
type Factory func(opts ...session.Option) (*session.Manager, func())

// App holds the process-wide root view. It re-selects synchronously on every
// Session change and can throw the whole Session away and start over.
type App struct {
	factory Factory
	logger  *slog.Logger
	metrics *metrics.AppMetrics

	// retryMu is held for a whole Retry so only one teardown runs at a time.
	retryMu sync.Mutex

	mu sync.Mutex
	// gen identifies the current Manager; seq is the newest Snapshot.Seq
	// applied from it.
	gen       uint64
	seq       uint64
	manager   *session.Manager
	cleanup   func()
	root      Root
	listeners []func(Root)
	closed    bool
}

type AppOption func(*App)

func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

func WithAppMetrics(m *metrics.AppMetrics) AppOption {
	return func(a *App) {
		a.metrics = m
	}
}

// WithRootListener registers fn before the first Manager is built.
func WithRootListener(fn func(Root)) AppOption {
	return func(a *App) {
		a.listeners = append(a.listeners, fn)
	}
}

func NewApp(factory Factory, opts ...AppOption) *App {
	a := &App{factory: factory, logger: slog.Default(), root: Root{Target: TargetLoading}}
	for _, opt := range opts {
		opt(a)
	}
	a.start()
	return a
}

func (a *App) start() {
	a.mu.Lock()
	a.gen++
	a.seq = 0
	gen := a.gen
	a.mu.Unlock()

	manager, cleanup := a.factory(session.WithListener(func(snap session.Snapshot) {
		a.reselect(gen, snap)
	}))

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		release(manager, cleanup)
		return
	}
	a.manager = manager
	a.cleanup = cleanup
	a.mu.Unlock()

	a.reselect(gen, manager.Snapshot())
}

// reselect ignores snapshots from a Manager that has been replaced, and
// snapshots older than one already applied.
func (a *App) reselect(gen uint64, snap session.Snapshot) {
	root := Select(snap)

	a.mu.Lock()
	if a.closed || gen != a.gen || snap.Seq < a.seq {
		a.mu.Unlock()
		return
	}
	a.seq = snap.Seq
	changed := root.Target != a.root.Target || root.Identity != a.root.Identity || root.Err != a.root.Err
	a.root = root
	listeners := slices.Clone(a.listeners)
	a.mu.Unlock()

	if !changed {
		return
	}
	if a.metrics != nil {
		a.metrics.IncrementRootTransition(root.Target.String())
	}
	a.logger.Debug("root view selected", "target", root.Target.String())
	for _, fn := range listeners {
		fn(root)
	}
}

func (a *App) Root() Root {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.root
}

// Manager is the current Session owner; it changes after Retry.
func (a *App) Manager() *session.Manager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.manager
}

// OnRootChange registers fn to run whenever the selected Root changes.
func (a *App) OnRootChange(fn func(Root)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Retry tears down the current Manager and re-initializes from scratch: a
// new Session in the initializing phase with its own subscription. A Retry
// issued while another is still running is dropped.
func (a *App) Retry() {
	if !a.retryMu.TryLock() {
		a.logger.Debug("retry already in progress")
		return
	}
	defer a.retryMu.Unlock()

	a.mu.Lock()
	if a.closed || a.manager == nil {
		a.mu.Unlock()
		return
	}
	old, cleanup := a.manager, a.cleanup
	a.cleanup = nil
	a.gen++
	a.mu.Unlock()

	a.logger.Info("re-initializing session")
	if a.metrics != nil {
		a.metrics.IncrementRetries()
	}
	release(old, cleanup)
	a.start()
}

func release(manager *session.Manager, cleanup func()) {
	if manager != nil {
		manager.Close()
	}
	if cleanup != nil {
		cleanup()
	}
}

// Close releases the current Manager. Root stays at its last value.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	manager, cleanup := a.manager, a.cleanup
	a.cleanup = nil
	a.mu.Unlock()

	release(manager, cleanup)
}
