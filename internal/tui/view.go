package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bloomit/internal/catalog"
	"bloomit/internal/navigation"
	"bloomit/pkg/email"
)

var tabLabels = map[navigation.Tab]string{
	navigation.TabHome:    "Home",
	navigation.TabProfile: "Profile",
}

func (m *Model) View() string {
	switch m.root.Target {
	case navigation.TargetLoading:
		return "\n  " + m.spinner.View() + " Loading...\n"
	case navigation.TargetError:
		return m.errorView()
	case navigation.TargetUnauthenticated:
		return m.entryView()
	default:
		return m.shellView()
	}
}

func (m *Model) errorView() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Authentication Error"))
	b.WriteString("\n\n")
	b.WriteString(errorText(m.root.Err))
	return boxStyle.Render(b.String()) + "\n" + helpStyle.Render("r retry • q quit")
}

func (m *Model) entryView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bloom It"))
	b.WriteString("\n")
	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())

	help := "enter submit • ctrl+r create account • ctrl+f forgot password"
	if m.nav.Current().Route != navigation.RouteLogin {
		help = "enter submit • esc back to sign in"
	}
	b.WriteString(helpStyle.Render(help + " • ctrl+c quit"))
	return b.String()
}

func (m *Model) shellView() string {
	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	screen := m.nav.Current()
	switch screen.Route {
	case navigation.RouteHome:
		b.WriteString(m.homeView())
	case navigation.RouteServices:
		b.WriteString(titleStyle.Render("Services"))
		b.WriteString("\n")
		b.WriteString(m.servicesList())
	case navigation.RoutePlantLibrary:
		b.WriteString(m.libraryView())
	case navigation.RoutePlantDetail:
		b.WriteString(m.plantView())
	case navigation.RouteVolunteering:
		b.WriteString(m.volunteeringView())
	case navigation.RouteToDoList:
		b.WriteString(m.todoView())
	case navigation.RouteMyProfile:
		b.WriteString(m.profileView())
	case navigation.RouteAbout:
		b.WriteString(m.aboutView())
	case navigation.RouteFAQ:
		b.WriteString(m.faqView())
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString(helpStyle.Render(m.shellHelp(screen.Route)))
	return b.String()
}

func (m *Model) tabBar() string {
	var tabs []string
	for _, t := range navigation.Tabs(m.root.Target) {
		style := tabStyle
		if t == m.nav.Tab() {
			style = activeTab
		}
		tabs = append(tabs, style.Render(tabLabels[t]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{headerStyle.Render("Bloom It")}, tabs...)...)
}

func (m *Model) statusLine() string {
	switch {
	case m.busy:
		return m.spinner.View() + " Working...\n"
	case m.status == "":
		return ""
	case m.failed:
		return errorStyle.Render(m.status) + "\n"
	default:
		return statusStyle.Render(m.status) + "\n"
	}
}

func (m *Model) shellHelp(route navigation.Route) string {
	parts := []string{"↑/↓ move", "enter select"}
	switch route {
	case navigation.RoutePlantLibrary:
		parts = append(parts, "/ search", "c category")
	case navigation.RouteVolunteering:
		parts = []string{"↑/↓ move", "enter join"}
	case navigation.RouteToDoList:
		parts = []string{"↑/↓ move", "space toggle", "a add", "d delete"}
	}
	if route != navigation.RouteHome && route != navigation.RouteMyProfile {
		parts = append(parts, "esc back")
	}
	return strings.Join(append(parts, "tab switch tab", "q quit"), " • ")
}

func (m *Model) row(i int, text string) string {
	if i == m.cursor {
		return selectedStyle.Render("> "+text) + "\n"
	}
	return itemStyle.Render("  "+text) + "\n"
}

func (m *Model) homeView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(catalog.Greeting(m.root.Identity)))
	b.WriteString("\n")
	if m.home.Location != "" {
		b.WriteString(m.home.Location + "\n\n")
	}
	b.WriteString(m.servicesList())
	if len(m.home.News) > 0 {
		b.WriteString("\n" + selectedStyle.Render("News") + "\n")
		for _, n := range m.home.News {
			b.WriteString("• " + n + "\n")
		}
	}
	return b.String()
}

func (m *Model) servicesList() string {
	var b strings.Builder
	for i, s := range m.home.Services {
		b.WriteString(m.row(i, s.Label))
	}
	return b.String()
}

func (m *Model) libraryView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Plant Library"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("Category: " + string(m.category)))
	b.WriteString("\n\n")
	if len(m.plants) == 0 && !m.busy {
		b.WriteString("No plants match.\n")
		if m.suggestion != "" {
			b.WriteString(fmt.Sprintf("Did you mean %s?\n", selectedStyle.Render(m.suggestion)))
		}
	}
	for i, p := range m.plants {
		b.WriteString(m.row(i, fmt.Sprintf("%s (%s)", p.Name, p.Category)))
	}
	return b.String()
}

func (m *Model) plantView() string {
	if m.plant == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.plant.Title))
	b.WriteString("\n")
	b.WriteString(m.markdown.render(m.plant.Description))
	b.WriteString("\n\n")
	if m.plant.CareTitle != "" {
		b.WriteString(selectedStyle.Render(m.plant.CareTitle) + "\n")
	}
	for _, tip := range m.plant.Tips {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", tip.Icon, tip.Title, tip.Text))
	}
	return b.String()
}

func (m *Model) volunteeringView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Volunteering"))
	b.WriteString("\n")
	for i, o := range m.opportunities {
		b.WriteString(m.row(i, o.Title))
		b.WriteString(itemStyle.Render(fmt.Sprintf("    %s • %s", o.Date, o.Location)) + "\n")
	}
	return b.String()
}

func (m *Model) todoView() string {
	var b strings.Builder
	tasks := m.todos.List()
	b.WriteString(titleStyle.Render(fmt.Sprintf("To-Do List (%d left)", m.todos.Remaining())))
	b.WriteString("\n")
	for i, t := range tasks {
		box, text := "[ ]", t.Text
		if t.Completed {
			box, text = "[x]", doneStyle.Render(t.Text)
		}
		b.WriteString(m.row(i, box+" "+text))
	}
	if m.addingTodo {
		b.WriteString("\n" + m.todoInput.View() + "\n")
	}
	return b.String()
}

func (m *Model) profileView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("My Profile"))
	b.WriteString("\n")
	if ident := m.root.Identity; ident != nil {
		b.WriteString(email.DisplayName(ident.DisplayName, ident.Email) + "\n")
		b.WriteString(statusStyle.Render(ident.Email) + "\n\n")
	}
	for i, item := range profileItems {
		b.WriteString(m.row(i, item.label))
	}
	return b.String()
}

func (m *Model) aboutView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("About"))
	b.WriteString("\n")
	var md strings.Builder
	for _, s := range m.about.Sections {
		md.WriteString("## " + s.Title + "\n\n" + s.Text + "\n\n")
	}
	loc := m.about.Location
	if loc.Name != "" {
		md.WriteString("## " + loc.Name + "\n\n" + loc.Description + "\n\n")
	}
	b.WriteString(m.markdown.render(md.String()))
	b.WriteString("\n")
	if m.about.MapsURL != "" {
		b.WriteString("Map: " + m.about.MapsURL + "\n")
	}
	c := m.about.Contact
	for _, line := range []string{c.Email, c.Instagram, c.Phone} {
		if line != "" {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m *Model) faqView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FAQ"))
	b.WriteString("\n")
	if m.faqIntro != "" {
		b.WriteString(m.faqIntro + "\n\n")
	}
	for i, e := range m.faq {
		b.WriteString(m.row(i, e.Question))
		if i == m.cursor {
			b.WriteString(m.markdown.render(e.Answer) + "\n")
		}
	}
	return b.String()
}
