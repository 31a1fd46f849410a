package session

import (
	"context"
	"sync"

	"bloomit/internal/identity/models"
)

// fakeProvider lets tests drive notifications by hand. It keeps the last
// callbacks after unsubscribe so late deliveries can be simulated.
type fakeProvider struct {
	mu           sync.Mutex
	onChange     func(*models.Identity)
	onError      func(error)
	subscribes   int
	unsubscribes int

	registerErr error
	loginErr    error
	logoutErr   error
	resetErr    error
	identity    *models.Identity
}

func (p *fakeProvider) Subscribe(onChange func(*models.Identity), onError func(error)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = onChange
	p.onError = onError
	p.subscribes++
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.unsubscribes++
	}
}

func (p *fakeProvider) emit(identity *models.Identity) {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	fn(identity)
}

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	fn := p.onError
	p.mu.Unlock()
	fn(err)
}

func (p *fakeProvider) counts() (subscribes, unsubscribes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribes, p.unsubscribes
}

func (p *fakeProvider) Register(context.Context, string, string) (*models.Identity, error) {
	return p.identity, p.registerErr
}

func (p *fakeProvider) Login(context.Context, string, string) (*models.Identity, error) {
	return p.identity, p.loginErr
}

func (p *fakeProvider) Logout(context.Context) error { return p.logoutErr }

func (p *fakeProvider) ResetPassword(context.Context, string) error { return p.resetErr }
