package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bloomit/internal/catalog"
	"bloomit/internal/navigation"
	"bloomit/internal/tui/mocks"
	dErrors "bloomit/pkg/domain-errors"
)

type ShellSuite struct {
	suite.Suite
	h *harness
}

func TestShellSuite(t *testing.T) {
	suite.Run(t, new(ShellSuite))
}

func (s *ShellSuite) SetupTest() {
	s.h = newHarness(s.T(), nil)
	s.h.signedIn("fern@example.com")
	s.Require().Equal(navigation.RouteHome, s.h.model.nav.Current().Route)
}

// open picks the home service labelled label.
func (s *ShellSuite) open(label string) {
	for i, svc := range s.h.model.home.Services {
		if svc.Label == label {
			s.h.model.cursor = i
			s.h.press(key(tea.KeyEnter))
			return
		}
	}
	s.FailNow("no such service", label)
}

func (s *ShellSuite) plantNames() []string {
	names := make([]string, 0, len(s.h.model.plants))
	for _, p := range s.h.model.plants {
		names = append(names, p.Name)
	}
	return names
}

func (s *ShellSuite) TestHome() {
	view := s.h.model.View()
	s.Contains(view, "Welcome fern")
	s.Contains(view, "Library")
	s.Contains(view, "News")
}

func (s *ShellSuite) TestPlantLibrary() {
	s.open("Library")
	s.Require().Equal(navigation.RoutePlantLibrary, s.h.model.nav.Current().Route)
	s.Len(s.h.model.plants, 12)

	s.Run("c cycles the category", func() {
		s.h.press(runes("c"))
		s.Equal(catalog.CategoryIndoor, s.h.model.category)
		s.Len(s.h.model.plants, 6)
		for _, p := range s.h.model.plants {
			s.Equal(catalog.CategoryIndoor, p.Category)
		}

		s.h.press(runes("c"), runes("c"))
		s.Equal(catalog.CategoryAll, s.h.model.category)
		s.Len(s.h.model.plants, 12)
	})

	s.Run("search narrows as the user types", func() {
		s.h.press(runes("/"), runes("tree"))
		s.True(s.h.model.searching)
		s.Equal([]string{"Rubber Tree", "Lemon tree"}, s.plantNames())

		s.h.press(key(tea.KeyEnter))
		s.False(s.h.model.searching)
	})

	s.Run("a near miss offers a suggestion", func() {
		s.h.model.search.SetValue("")
		s.h.press(runes("/"), runes("monstra"), key(tea.KeyEsc))
		s.Empty(s.h.model.plants)
		s.Equal("Monstera", s.h.model.suggestion)
		s.Contains(s.h.model.View(), "Did you mean Monstera?")
	})

	s.Run("enter opens the plant detail", func() {
		s.h.model.search.SetValue("")
		s.h.drain(s.h.model.loadPlants())
		s.h.model.cursor = 2
		s.h.press(key(tea.KeyEnter))

		screen := s.h.model.nav.Current()
		s.Equal(navigation.RoutePlantDetail, screen.Route)
		s.Equal("monstera", screen.Param)
		s.Require().NotNil(s.h.model.plant)
		s.Equal("Monstera", s.h.model.plant.Title)
		s.Contains(s.h.model.View(), "Care Tips")
	})

	s.Run("esc walks back to the library", func() {
		s.h.press(key(tea.KeyEsc))
		s.Equal(navigation.RoutePlantLibrary, s.h.model.nav.Current().Route)
	})
}

func (s *ShellSuite) TestVolunteering() {
	s.open("Volunteer")
	s.Require().Equal(navigation.RouteVolunteering, s.h.model.nav.Current().Route)
	s.Require().Len(s.h.model.opportunities, 3)

	s.h.press(key(tea.KeyEnter))
	s.Equal(catalog.JoinConfirmation, s.h.model.status)
	s.False(s.h.model.failed)
	s.True(s.h.catalog.Joined(s.h.app.Root().Identity.UserID, s.h.model.opportunities[0].ID))
}

func (s *ShellSuite) TestToDoList() {
	s.open("To-Do List")
	s.Require().Equal(navigation.RouteToDoList, s.h.model.nav.Current().Route)
	s.Require().Len(s.h.todos.List(), 5)
	remaining := s.h.todos.Remaining()

	s.Run("a adds a task at the end", func() {
		s.h.press(runes("a"), runes("Mist the ferns"), key(tea.KeyEnter))
		tasks := s.h.todos.List()
		s.Require().Len(tasks, 6)
		s.Equal("Mist the ferns", tasks[5].Text)
		s.Equal(5, s.h.model.cursor)
		s.False(s.h.model.addingTodo)
		s.Equal(remaining+1, s.h.todos.Remaining())
	})

	s.Run("blank tasks are refused", func() {
		s.h.press(runes("a"), key(tea.KeyEnter))
		s.True(s.h.model.failed)
		s.Len(s.h.todos.List(), 6)
		s.h.press(key(tea.KeyEsc))
		s.False(s.h.model.addingTodo)
	})

	s.Run("space toggles the selected task", func() {
		s.h.press(key(tea.KeySpace))
		s.True(s.h.todos.List()[5].Completed)
		s.Equal(remaining, s.h.todos.Remaining())
	})

	s.Run("d deletes the selected task", func() {
		s.h.press(runes("d"))
		s.Len(s.h.todos.List(), 5)
		s.Equal(4, s.h.model.cursor)
	})
}

func (s *ShellSuite) TestProfileAndLogout() {
	s.h.press(key(tea.KeyTab))
	s.Require().Equal(navigation.TabProfile, s.h.model.nav.Tab())
	s.Contains(s.h.model.View(), "fern@example.com")

	s.Run("about renders the long-form sections", func() {
		s.h.press(key(tea.KeyEnter))
		s.Equal(navigation.RouteAbout, s.h.model.nav.Current().Route)
		view := s.h.model.View()
		s.Contains(view, "Our Mission")
		s.Contains(view, "https://www.google.com/maps?q=")
		s.h.press(key(tea.KeyEsc))
	})

	s.Run("faq expands the selected answer", func() {
		s.h.press(key(tea.KeyDown), key(tea.KeyEnter))
		s.Equal(navigation.RouteFAQ, s.h.model.nav.Current().Route)
		s.NotEmpty(s.h.model.faq)
		s.Contains(s.h.model.View(), s.h.model.faq[0].Question)
		s.h.press(key(tea.KeyEsc))
	})

	s.Run("tab returns to home where it was left", func() {
		s.h.press(key(tea.KeyTab))
		s.Equal(navigation.TabHome, s.h.model.nav.Tab())
		s.h.press(key(tea.KeyTab))
	})

	s.Run("log out hands back to the entry flow", func() {
		s.h.model.cursor = len(profileItems) - 1
		s.h.press(key(tea.KeyEnter))
		s.True(s.h.provider().loggedOut)
		s.h.sync()
		s.Equal(navigation.TargetUnauthenticated, s.h.model.root.Target)
		s.Equal(navigation.RouteLogin, s.h.model.nav.Current().Route)
	})
}

func (s *ShellSuite) TestLogoutFailureKeepsSession() {
	s.h.provider().logoutErr = dErrors.New(dErrors.CodeUnavailable, "service unavailable")
	s.h.press(key(tea.KeyTab))
	s.h.model.cursor = len(profileItems) - 1
	s.h.press(key(tea.KeyEnter))

	s.Equal(navigation.TargetAuthenticated, s.h.model.root.Target)
	s.True(s.h.model.failed)
	s.Contains(s.h.model.status, "unreachable")
}

func TestContentFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	content := mocks.NewMockContent(ctrl)
	content.EXPECT().Home(gomock.Any()).Return(catalog.Home{}, dErrors.New(dErrors.CodeUnavailable, "service unavailable"))

	h := newHarness(t, content)
	h.signedIn("fern@example.com")

	assert.True(t, h.model.failed)
	assert.False(t, h.model.busy)
	assert.Contains(t, h.model.View(), "unreachable")
}

func TestJoinFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	content := mocks.NewMockContent(ctrl)
	content.EXPECT().Home(gomock.Any()).Return(catalog.MustNew().Home(), nil)
	content.EXPECT().Opportunities(gomock.Any()).Return([]catalog.Opportunity{{ID: "1", Title: "Tree Planting Day"}}, nil)
	content.EXPECT().Join(gomock.Any(), "1").Return("", dErrors.New(dErrors.CodeUnauthorized, "sign in to join"))

	h := newHarness(t, content)
	h.signedIn("fern@example.com")
	require.NoError(t, h.model.nav.Navigate(navigation.RouteVolunteering, ""))
	h.drain(h.model.enter())
	h.press(key(tea.KeyEnter))

	assert.True(t, h.model.failed)
	assert.Equal(t, "sign in to join", h.model.status)
}

func TestNextCategory(t *testing.T) {
	assert.Equal(t, catalog.CategoryIndoor, nextCategory(catalog.CategoryAll))
	assert.Equal(t, catalog.CategoryOutdoor, nextCategory(catalog.CategoryIndoor))
	assert.Equal(t, catalog.CategoryAll, nextCategory(catalog.CategoryOutdoor))
	assert.Equal(t, catalog.CategoryAll, nextCategory("bogus"))
}
