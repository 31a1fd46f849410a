package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"bloomit/internal/catalog"
	"bloomit/internal/navigation"
)

type profileItem struct {
	label string
	route navigation.Route
}

// logout has no route of its own.
var profileItems = []profileItem{
	{label: "About", route: navigation.RouteAbout},
	{label: "FAQ", route: navigation.RouteFAQ},
	{label: "Log out"},
}

var categoryCycle = []catalog.Category{catalog.CategoryAll, catalog.CategoryIndoor, catalog.CategoryOutdoor}

func (m *Model) handleShellKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.addingTodo {
		return m.handleTodoInputKey(msg)
	}

	key := msg.String()
	switch key {
	case "q":
		return tea.Quit
	case "tab":
		return m.nextTab()
	case "esc", "backspace":
		return m.back()
	case "up", "k":
		m.cursor = clamp(m.cursor-1, m.itemCount())
		return nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, m.itemCount())
		return nil
	}
	if m.busy {
		return nil
	}

	switch m.nav.Current().Route {
	case navigation.RouteHome, navigation.RouteServices:
		if key == "enter" && m.cursor < len(m.home.Services) {
			return m.navigate(navigation.Route(m.home.Services[m.cursor].Route), "")
		}
	case navigation.RoutePlantLibrary:
		switch key {
		case "/":
			m.searching = true
			return m.search.Focus()
		case "c":
			m.category = nextCategory(m.category)
			m.cursor = 0
			return m.loadPlants()
		case "enter":
			if m.cursor < len(m.plants) {
				return m.navigate(navigation.RoutePlantDetail, m.plants[m.cursor].Slug)
			}
		}
	case navigation.RouteVolunteering:
		if key == "enter" && m.cursor < len(m.opportunities) {
			return m.join(m.opportunities[m.cursor].ID)
		}
	case navigation.RouteToDoList:
		return m.handleTodoKey(key)
	case navigation.RouteMyProfile:
		if key == "enter" {
			item := profileItems[clamp(m.cursor, len(profileItems))]
			if item.route == "" {
				return m.logout()
			}
			return m.navigate(item.route, "")
		}
	}
	return nil
}

func (m *Model) nextTab() tea.Cmd {
	tabs := navigation.Tabs(m.root.Target)
	if len(tabs) < 2 {
		return nil
	}
	next := tabs[0]
	for i, t := range tabs {
		if t == m.nav.Tab() {
			next = tabs[(i+1)%len(tabs)]
		}
	}
	if err := m.nav.SwitchTab(next); err != nil {
		m.setError(err)
		return nil
	}
	m.cursor = 0
	m.setStatus("")
	return m.enter()
}

// itemCount is the number of selectable rows on the current screen.
func (m *Model) itemCount() int {
	switch m.nav.Current().Route {
	case navigation.RouteHome, navigation.RouteServices:
		return len(m.home.Services)
	case navigation.RoutePlantLibrary:
		return len(m.plants)
	case navigation.RouteVolunteering:
		return len(m.opportunities)
	case navigation.RouteToDoList:
		return len(m.todos.List())
	case navigation.RouteMyProfile:
		return len(profileItems)
	case navigation.RouteFAQ:
		return len(m.faq)
	default:
		return 0
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return cmd
	}
	m.cursor = 0
	return tea.Batch(cmd, m.loadPlants())
}

func (m *Model) handleTodoKey(key string) tea.Cmd {
	tasks := m.todos.List()
	switch key {
	case "a":
		m.addingTodo = true
		m.todoInput.Reset()
		return m.todoInput.Focus()
	case " ", "enter":
		if m.cursor < len(tasks) {
			if _, err := m.todos.Toggle(tasks[m.cursor].ID); err != nil {
				m.setError(err)
			}
		}
	case "d", "delete":
		if m.cursor < len(tasks) {
			if err := m.todos.Delete(tasks[m.cursor].ID); err != nil {
				m.setError(err)
				return nil
			}
			m.cursor = clamp(m.cursor, len(tasks)-1)
		}
	}
	return nil
}

func (m *Model) handleTodoInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.addingTodo = false
		m.todoInput.Blur()
		return nil
	case "enter":
		if _, err := m.todos.Add(m.todoInput.Value()); err != nil {
			m.setError(err)
			return nil
		}
		m.addingTodo = false
		m.todoInput.Blur()
		m.cursor = len(m.todos.List()) - 1
		m.setStatus("")
		return nil
	}
	var cmd tea.Cmd
	m.todoInput, cmd = m.todoInput.Update(msg)
	return cmd
}

func (m *Model) join(opportunityID string) tea.Cmd {
	content, timeout := m.content, m.timeout
	m.busy = true
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msg, err := content.Join(ctx, opportunityID)
		return joinedMsg{message: msg, err: err}
	})
}

// logout asks the Manager to sign out. The entry flow appears once the
// provider reports the change.
func (m *Model) logout() tea.Cmd {
	manager := m.app.Manager()
	if manager == nil {
		return nil
	}
	timeout := m.timeout
	m.busy = true
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return opDoneMsg{op: "logout", err: manager.Logout(ctx)}
	})
}

func nextCategory(c catalog.Category) catalog.Category {
	for i, cat := range categoryCycle {
		if cat == c {
			return categoryCycle[(i+1)%len(categoryCycle)]
		}
	}
	return catalog.CategoryAll
}
