package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"bloomit/internal/catalog"
	"bloomit/internal/identity/models"
	"bloomit/internal/navigation"
	"bloomit/internal/session"
	"bloomit/internal/todo"
	id "bloomit/pkg/domain"
)

// stubProvider answers operations the way a hosted provider does: a
// successful login or logout is followed by a change notification.
type stubProvider struct {
	mu       sync.Mutex
	onChange func(*models.Identity)
	onError  func(error)

	loginErr    error
	logoutErr   error
	resetEmails []string
	loggedOut   bool
}

func (p *stubProvider) Subscribe(onChange func(*models.Identity), onError func(error)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange, p.onError = onChange, onError
	return func() {}
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

func (p *stubProvider) signIn(email string) (*models.Identity, error) {
	p.mu.Lock()
	err := p.loginErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	identity := &models.Identity{UserID: id.NewUserID(), Email: email}
	p.emit(identity)
	return identity, nil
}

func (p *stubProvider) Register(_ context.Context, email, _ string) (*models.Identity, error) {
	return p.signIn(email)
}

func (p *stubProvider) Login(_ context.Context, email, _ string) (*models.Identity, error) {
	return p.signIn(email)
}

func (p *stubProvider) Logout(context.Context) error {
	p.mu.Lock()
	err := p.logoutErr
	p.loggedOut = err == nil
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.emit(nil)
	return nil
}

func (p *stubProvider) ResetPassword(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetEmails = append(p.resetEmails, email)
	return nil
}

type harness struct {
	t         *testing.T
	providers []*stubProvider
	app       *navigation.App
	catalog   *catalog.Catalog
	todos     *todo.List
	model     *Model
}

// newHarness wires a Model to an App over stub providers. A nil content
// serves the embedded catalog.
func newHarness(t *testing.T, content Content) *harness {
	t.Helper()
	h := &harness{t: t, catalog: catalog.MustNew(), todos: todo.New()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.app = navigation.NewApp(func(opts ...session.Option) (*session.Manager, func()) {
		p := &stubProvider{}
		h.providers = append(h.providers, p)
		return session.New(p, append(opts, session.WithLogger(logger))...), nil
	}, navigation.WithAppLogger(logger))
	t.Cleanup(h.app.Close)

	if content == nil {
		content = &LocalContent{Catalog: h.catalog, User: func() id.UserID {
			if identity := h.app.Root().Identity; identity != nil {
				return identity.UserID
			}
			return id.UserID{}
		}}
	}
	h.model = New(h.app, content, h.todos,
		WithLogger(logger),
		WithTimeout(time.Second),
		WithMarkdownStyle("notty"),
	)
	return h
}

func (h *harness) provider() *stubProvider {
	return h.providers[len(h.providers)-1]
}

// sync delivers the root change the program would have been sent.
func (h *harness) sync() {
	h.send(rootChangedMsg{})
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	_, cmd := h.model.Update(msg)
	h.drain(cmd)
}

func (h *harness) press(keys ...tea.KeyMsg) {
	h.t.Helper()
	for _, k := range keys {
		h.send(k)
	}
}

// drain runs cmd and everything it leads to, feeding the model's own
// messages back into Update. Spinner ticks and widget messages are dropped.
func (h *harness) drain(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := execute(next).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		case rootChangedMsg, retriedMsg, opDoneMsg, joinedMsg, homeLoadedMsg, plantsLoadedMsg,
			plantLoadedMsg, faqLoadedMsg, aboutLoadedMsg, opportunitiesLoadedMsg:
			_, follow := h.model.Update(msg)
			queue = append(queue, follow)
		}
	}
}

// execute gives up on commands that wait on a timer, like cursor blinks.
func execute(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// signedIn brings the harness to the authenticated home screen as email.
func (h *harness) signedIn(email string) {
	h.t.Helper()
	h.provider().emit(&models.Identity{UserID: id.NewUserID(), Email: email})
	h.sync()
}
