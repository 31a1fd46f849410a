package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"bloomit/internal/navigation"
	dErrors "bloomit/pkg/domain-errors"
)

const resetSentMessage = "Check your email for a reset link"

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if !govalidator.IsEmail(s) {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	return nil
}

// openEntryForm builds the form for the current entry screen. Typed values
// survive switching between screens.
func (m *Model) openEntryForm() tea.Cmd {
	route := m.nav.Current().Route
	email := huh.NewInput().
		Key("email").
		Title("Email").
		Placeholder("you@example.com").
		Value(&m.fields.email).
		Validate(validateEmail)

	var group *huh.Group
	switch route {
	case navigation.RouteResetPassword:
		group = huh.NewGroup(email).
			Title("Reset Password").
			Description("We will email you a reset link.")
	case navigation.RouteRegister:
		group = huh.NewGroup(email, m.passwordInput()).
			Title("Create Account")
	default:
		group = huh.NewGroup(email, m.passwordInput()).
			Title("Sign In")
	}

	m.form = huh.NewForm(group).WithShowHelp(false).WithWidth(min(m.width, 60))
	return m.form.Init()
}

func (m *Model) passwordInput() *huh.Input {
	m.fields.password = ""
	return huh.NewInput().
		Key("password").
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&m.fields.password).
		Validate(validatePassword)
}

func (m *Model) handleEntryKey(msg tea.KeyMsg) tea.Cmd {
	if m.busy {
		return nil
	}
	switch msg.String() {
	case "ctrl+r":
		return m.navigate(navigation.RouteRegister, "")
	case "ctrl+f":
		return m.navigate(navigation.RouteResetPassword, "")
	case "esc":
		return m.back()
	}
	return m.updateForm(msg)
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if m.form == nil {
		return nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.submitEntry()
	case huh.StateAborted:
		return m.openEntryForm()
	}
	return cmd
}

// submitEntry runs the current entry screen's operation against the active
// Manager. Success on login or register shows up as a root change.
func (m *Model) submitEntry() tea.Cmd {
	manager := m.app.Manager()
	if manager == nil {
		return nil
	}
	route := m.nav.Current().Route
	email := strings.TrimSpace(m.fields.email)
	password := m.fields.password
	timeout := m.timeout

	m.busy = true
	m.setStatus("")
	op := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		switch route {
		case navigation.RouteRegister:
			_, err := manager.Register(ctx, email, password)
			return opDoneMsg{op: "register", err: err}
		case navigation.RouteResetPassword:
			err := manager.ResetPassword(ctx, email)
			return opDoneMsg{op: "reset", message: resetSentMessage, err: err}
		default:
			_, err := manager.Login(ctx, email, password)
			return opDoneMsg{op: "login", err: err}
		}
	}
	return tea.Batch(m.spinner.Tick, op)
}

// errorText is the user-facing line for err.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	if dErrors.HasCode(err, dErrors.CodeUnavailable) {
		return "The service is unreachable. Check your connection and try again."
	}
	return dErrors.MessageOf(err)
}
