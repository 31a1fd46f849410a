// Package tui is the terminal front end. The root view follows
// navigation.App; everything below it is a stack of screens per tab.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"bloomit/internal/catalog"
	"bloomit/internal/navigation"
	"bloomit/internal/todo"
)

// rootChangedMsg tells the model to re-read the App's root.
type rootChangedMsg struct{}

// retriedMsg reports that a Retry has finished rebuilding the session.
type retriedMsg struct{}

// opDoneMsg reports a finished session operation.
type opDoneMsg struct {
	op      string
	message string
	err     error
}

type homeLoadedMsg struct {
	home catalog.Home
	err  error
}

type plantsLoadedMsg struct {
	plants     []catalog.Plant
	suggestion string
	err        error
}

type plantLoadedMsg struct {
	plant *catalog.Plant
	err   error
}

type faqLoadedMsg struct {
	intro   string
	entries []catalog.FAQEntry
	err     error
}

type aboutLoadedMsg struct {
	about catalog.About
	err   error
}

type opportunitiesLoadedMsg struct {
	opportunities []catalog.Opportunity
	err           error
}

type joinedMsg struct {
	message string
	err     error
}

// entryFields backs the huh form inputs.
type entryFields struct {
	email    string
	password string
}

type Model struct {
	app     *navigation.App
	content Content
	todos   *todo.List
	logger  *slog.Logger
	timeout time.Duration

	root     navigation.Root
	nav      *navigation.Navigator
	spinner  spinner.Model
	markdown *markdown
	width    int
	status   string
	failed   bool
	busy     bool
	cursor   int

	form   *huh.Form
	fields *entryFields

	home          catalog.Home
	plants        []catalog.Plant
	suggestion    string
	category      catalog.Category
	search        textinput.Model
	searching     bool
	plant         *catalog.Plant
	faqIntro      string
	faq           []catalog.FAQEntry
	about         catalog.About
	opportunities []catalog.Opportunity
	todoInput     textinput.Model
	addingTodo    bool
}

type Option func(*Model)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithTimeout bounds every call the model makes on the user's behalf.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.timeout = d
	}
}

// WithMarkdownStyle picks a glamour standard style such as "dark" or "notty".
func WithMarkdownStyle(style string) Option {
	return func(m *Model) {
		m.markdown = newMarkdown(style, 76)
	}
}

func New(app *navigation.App, content Content, todos *todo.List, opts ...Option) *Model {
	search := textinput.New()
	search.Placeholder = "Search plants"
	search.CharLimit = 64
	todoInput := textinput.New()
	todoInput.Placeholder = "New task"
	todoInput.CharLimit = 120

	m := &Model{
		app:       app,
		content:   content,
		todos:     todos,
		logger:    slog.Default(),
		timeout:   10 * time.Second,
		nav:       navigation.NewNavigator(navigation.TargetLoading),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		fields:    &entryFields{},
		search:    search,
		todoInput: todoInput,
		category:  catalog.CategoryAll,
		width:     80,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.markdown == nil {
		m.markdown = newMarkdown("dark", 76)
	}
	return m
}

// Run starts the program and forwards root changes into it until it exits.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append(opts, tea.WithContext(ctx))...)
	m.app.OnRootChange(func(navigation.Root) {
		// Send blocks until the event loop reads it, and the loop itself may
		// be the caller (Retry); hand it off.
		go p.Send(rootChangedMsg{})
	})
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return rootChangedMsg{} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.markdown.resize(msg.Width - 4)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.root.Target != navigation.TargetLoading && !m.busy {
			return m, nil
		}
		return m, cmd

	case rootChangedMsg:
		return m, m.syncRoot()

	case retriedMsg:
		m.busy = false
		return m, m.syncRoot()

	case opDoneMsg:
		return m, m.handleOpDone(msg)

	case homeLoadedMsg:
		if !m.loaded(msg.err) {
			return m, nil
		}
		m.home = msg.home
		return m, nil

	case plantsLoadedMsg:
		if !m.loaded(msg.err) {
			return m, nil
		}
		m.plants, m.suggestion = msg.plants, msg.suggestion
		m.cursor = clamp(m.cursor, len(m.plants))
		return m, nil

	case plantLoadedMsg:
		if !m.loaded(msg.err) {
			return m, nil
		}
		m.plant = msg.plant
		return m, nil

	case faqLoadedMsg:
		if !m.loaded(msg.err) {
			return m, nil
		}
		m.faqIntro, m.faq = msg.intro, msg.entries
		return m, nil

	case aboutLoadedMsg:
		if !m.loaded(msg.err) {
			return m, nil
		}
		m.about = msg.about
		return m, nil

	case opportunitiesLoadedMsg:
		if !m.loaded(msg.err) {
			return m, nil
		}
		m.opportunities = msg.opportunities
		return m, nil

	case joinedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(msg.message)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	}

	switch {
	case m.form != nil && !m.busy:
		return m, m.updateForm(msg)
	case m.searching:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	case m.addingTodo:
		var cmd tea.Cmd
		m.todoInput, cmd = m.todoInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncRoot applies the App's current root. A new target resets navigation.
func (m *Model) syncRoot() tea.Cmd {
	root := m.app.Root()
	changed := root.Target != m.root.Target
	m.root = root
	if !changed {
		return nil
	}

	m.logger.Debug("showing root", "target", root.Target.String())
	m.nav.Reset(root.Target)
	m.form = nil
	m.busy = false
	m.cursor = 0
	m.searching, m.addingTodo = false, false
	m.setStatus("")

	switch root.Target {
	case navigation.TargetLoading:
		return m.spinner.Tick
	case navigation.TargetUnauthenticated, navigation.TargetAuthenticated:
		return m.enter()
	default:
		return nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.root.Target {
	case navigation.TargetLoading:
		return nil
	case navigation.TargetError:
		switch msg.String() {
		case "r":
			if m.busy {
				return nil
			}
			m.busy = true
			app := m.app
			return func() tea.Msg {
				app.Retry()
				return retriedMsg{}
			}
		case "q":
			return tea.Quit
		}
		return nil
	case navigation.TargetUnauthenticated:
		return m.handleEntryKey(msg)
	default:
		return m.handleShellKey(msg)
	}
}

func (m *Model) handleOpDone(msg opDoneMsg) tea.Cmd {
	m.busy = false
	if msg.err != nil {
		m.logger.Warn("operation failed", "op", msg.op, "error", msg.err)
		m.setError(msg.err)
		if m.root.Target == navigation.TargetUnauthenticated {
			return m.openEntryForm()
		}
		return nil
	}
	if msg.op == "reset" && m.root.Target == navigation.TargetUnauthenticated {
		cmd := m.navigate(navigation.RouteLogin, "")
		m.setStatus(msg.message)
		return cmd
	}
	m.setStatus(msg.message)
	return nil
}

// loaded clears the busy flag and reports whether the data can be applied.
func (m *Model) loaded(err error) bool {
	m.busy = false
	if err != nil {
		m.setError(err)
		return false
	}
	return true
}

func (m *Model) navigate(route navigation.Route, param string) tea.Cmd {
	if err := m.nav.Navigate(route, param); err != nil {
		m.setError(err)
		return nil
	}
	m.cursor = 0
	m.setStatus("")
	return m.enter()
}

func (m *Model) back() tea.Cmd {
	if !m.nav.Back() {
		return nil
	}
	m.cursor = 0
	m.setStatus("")
	return m.enter()
}

// enter prepares the current screen, loading its data when needed.
func (m *Model) enter() tea.Cmd {
	screen := m.nav.Current()
	switch screen.Route {
	case navigation.RouteLogin, navigation.RouteRegister, navigation.RouteResetPassword:
		return m.openEntryForm()
	case navigation.RouteHome, navigation.RouteServices:
		return m.load(func(ctx context.Context) tea.Msg {
			home, err := m.content.Home(ctx)
			return homeLoadedMsg{home: home, err: err}
		})
	case navigation.RoutePlantLibrary:
		return m.loadPlants()
	case navigation.RoutePlantDetail:
		m.plant = nil
		slug := screen.Param
		return m.load(func(ctx context.Context) tea.Msg {
			plant, err := m.content.Plant(ctx, slug)
			return plantLoadedMsg{plant: plant, err: err}
		})
	case navigation.RouteVolunteering:
		return m.load(func(ctx context.Context) tea.Msg {
			opportunities, err := m.content.Opportunities(ctx)
			return opportunitiesLoadedMsg{opportunities: opportunities, err: err}
		})
	case navigation.RouteAbout:
		return m.load(func(ctx context.Context) tea.Msg {
			about, err := m.content.About(ctx)
			return aboutLoadedMsg{about: about, err: err}
		})
	case navigation.RouteFAQ:
		return m.load(func(ctx context.Context) tea.Msg {
			intro, entries, err := m.content.FAQ(ctx)
			return faqLoadedMsg{intro: intro, entries: entries, err: err}
		})
	default:
		return nil
	}
}

func (m *Model) loadPlants() tea.Cmd {
	filter := catalog.PlantFilter{Category: m.category, Query: m.search.Value()}
	return m.load(func(ctx context.Context) tea.Msg {
		plants, suggestion, err := m.content.Plants(ctx, filter)
		return plantsLoadedMsg{plants: plants, suggestion: suggestion, err: err}
	})
}

// load runs fetch off the event loop with the model's timeout.
func (m *Model) load(fetch func(ctx context.Context) tea.Msg) tea.Cmd {
	m.busy = true
	timeout := m.timeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fetch(ctx)
	})
}

func (m *Model) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *Model) setError(err error) {
	m.status, m.failed = errorText(err), true
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
