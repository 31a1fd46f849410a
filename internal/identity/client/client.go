// Package client is the app-side identity provider handle. It owns the
// signed-in identity and bearer token and tells subscribers whenever either
// changes.
package client

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"bloomit/internal/identity/models"
	dErrors "bloomit/pkg/domain-errors"
)

// Backend is the identity provider as seen over the wire (or in process).
type Backend interface {
	Register(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Logout(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
	Verify(ctx context.Context, accessToken string) (*models.Identity, error)
}

type subscriber struct {
	id       uint64
	onChange func(*models.Identity)
	onError  func(error)
	active   atomic.Bool
}

// notification targets one subscriber, or every subscriber when target is nil.
type notification struct {
	target   *subscriber
	identity *models.Identity
	err      error
}

type Client struct {
	backend Backend
	cache   TokenCache
	logger  *slog.Logger

	mu       sync.Mutex
	identity *models.Identity
	token    string
	lastErr  error
	ready    bool
	subs     map[uint64]*subscriber
	nextID   uint64
	queue    []notification
	started  bool
	closed   bool
	wake     chan struct{}
	stop     context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithTokenCache(cache TokenCache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

func New(backend Backend, opts ...Option) *Client {
	c := &Client{
		backend: backend,
		cache:   &MemoryTokenCache{},
		logger:  slog.Default(),
		subs:    make(map[uint64]*subscriber),
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the dispatcher and restores a cached session in the
// background. Subscribers hear the outcome once restoration finishes.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, c.stop = context.WithCancel(ctx)
	c.mu.Unlock()

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.dispatch(ctx)
	}()
	go func() {
		defer c.wg.Done()
		c.restore(ctx)
	}()
}

func (c *Client) restore(ctx context.Context) {
	token, err := c.cache.Load()
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read cached session", "error", err)
		token = ""
	}
	if token == "" {
		c.settle(nil, "", nil)
		return
	}
	if c.isReady() {
		return
	}

	identity, err := c.backend.Verify(ctx, token)
	switch {
	case err == nil:
		c.logger.InfoContext(ctx, "restored cached session", "user_id", identity.UserID.String())
		c.settle(identity, token, nil)
	case dErrors.HasCode(err, dErrors.CodeUnauthorized):
		c.logger.InfoContext(ctx, "cached session no longer valid")
		if c.isReady() {
			return
		}
		if err := c.cache.Clear(); err != nil {
			c.logger.WarnContext(ctx, "failed to clear cached session", "error", err)
		}
		c.settle(nil, "", nil)
	default:
		if ctx.Err() != nil {
			return
		}
		c.logger.ErrorContext(ctx, "failed to restore session", "error", err)
		c.settle(nil, "", err)
	}
}

// settle records the restored state and announces it to everyone subscribed
// so far. An operation that finished first has already set the state.
func (c *Client) settle(identity *models.Identity, token string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.ready {
		return
	}
	c.identity = identity
	c.token = token
	c.lastErr = err
	c.ready = true
	c.enqueueLocked(notification{identity: identity, err: err})
}

func (c *Client) isReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Subscribe registers callbacks. Once the initial state is known each
// subscriber receives it, then every later change, one at a time.
func (c *Client) Subscribe(onChange func(*models.Identity), onError func(error)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	sub := &subscriber{id: c.nextID, onChange: onChange, onError: onError}
	sub.active.Store(true)
	c.subs[sub.id] = sub
	if c.ready {
		c.enqueueLocked(notification{target: sub, identity: c.identity, err: c.lastErr})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			c.mu.Lock()
			delete(c.subs, sub.id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) Register(ctx context.Context, email, password string) (*models.Identity, error) {
	result, err := c.backend.Register(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	c.signedIn(ctx, result)
	return result.Identity, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	result, err := c.backend.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	c.signedIn(ctx, result)
	return result.Identity, nil
}

func (c *Client) signedIn(ctx context.Context, result *models.AuthResult) {
	if err := c.cache.Save(result.Tokens.AccessToken); err != nil {
		c.logger.WarnContext(ctx, "failed to cache session", "error", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = result.Identity
	c.token = result.Tokens.AccessToken
	c.lastErr = nil
	c.ready = true
	c.enqueueLocked(notification{identity: result.Identity})
}

// Logout revokes the token with the backend and signs out locally. A token
// the backend already rejects still counts as signed out.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token != "" {
		if err := c.backend.Logout(ctx, token); err != nil && !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return err
		}
	}
	if err := c.cache.Clear(); err != nil {
		c.logger.WarnContext(ctx, "failed to clear cached session", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = nil
	c.token = ""
	c.lastErr = nil
	c.ready = true
	c.enqueueLocked(notification{})
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.backend.ResetPassword(ctx, email)
}

// AccessToken is the bearer token for authenticated content calls.
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Close stops delivery and waits for background work. Safe to call twice.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.queue = nil
		stop := c.stop
		c.mu.Unlock()
		if stop != nil {
			stop()
		}
		c.wg.Wait()
	})
}

func (c *Client) enqueueLocked(n notification) {
	if c.closed {
		return
	}
	c.queue = append(c.queue, n)
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Client) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		}
		for {
			n, subs, ok := c.next()
			if !ok {
				break
			}
			for _, sub := range subs {
				deliver(sub, n)
			}
		}
	}
}

func (c *Client) next() (notification, []*subscriber, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queue) == 0 {
		return notification{}, nil, false
	}
	n := c.queue[0]
	c.queue = c.queue[1:]
	if n.target != nil {
		return n, []*subscriber{n.target}, true
	}
	subs := make([]*subscriber, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	sortSubscribers(subs)
	return n, subs, true
}

func deliver(sub *subscriber, n notification) {
	if !sub.active.Load() {
		return
	}
	if n.err != nil {
		if sub.onError != nil {
			sub.onError(n.err)
		}
		return
	}
	if sub.onChange != nil {
		sub.onChange(n.identity)
	}
}

// sortSubscribers orders by subscription time.
func sortSubscribers(subs []*subscriber) {
	slices.SortFunc(subs, func(a, b *subscriber) int {
		return cmp.Compare(a.id, b.id)
	})
}
