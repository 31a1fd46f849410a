package navigation

import (
	"slices"
	"sync"

	dErrors "bloomit/pkg/domain-errors"
)

type Route string

const (
	RouteLogin         Route = "Login"
	RouteRegister      Route = "Register"
	RouteResetPassword Route = "ResetPassword"

	RouteHome         Route = "HomeScreen"
	RouteServices     Route = "Services"
	RoutePlantLibrary Route = "PlantLibrary"
	RouteVolunteering Route = "Volunteering"
	RouteToDoList     Route = "ToDoList"
	RoutePlantDetail  Route = "PlantDetail"

	RouteMyProfile Route = "MyProfile"
	RouteAbout     Route = "About"
	RouteFAQ       Route = "FAQ"
)

type Tab string

const (
	// TabEntry is the single stack of the signed-out flow.
	TabEntry   Tab = "Entry"
	TabHome    Tab = "HomeTab"
	TabProfile Tab = "ProfileTab"
)

// Screen is one entry on a stack. Param carries the plant slug for
// PlantDetail and is empty otherwise.
type Screen struct {
	Route Route
	Param string
}

// stackRoutes lists each tab's routes; the first one is the tab root.
var stackRoutes = map[Tab][]Route{
	TabEntry:   {RouteLogin, RouteRegister, RouteResetPassword},
	TabHome:    {RouteHome, RouteServices, RoutePlantLibrary, RouteVolunteering, RouteToDoList, RoutePlantDetail},
	TabProfile: {RouteMyProfile, RouteAbout, RouteFAQ},
}

var rootTabs = map[Target][]Tab{
	TargetUnauthenticated: {TabEntry},
	TargetAuthenticated:   {TabHome, TabProfile},
}

// Tabs returns the tabs available under target, in display order.
func Tabs(target Target) []Tab {
	return slices.Clone(rootTabs[target])
}

func tabFor(target Target, route Route) (Tab, bool) {
	for _, tab := range rootTabs[target] {
		if slices.Contains(stackRoutes[tab], route) {
			return tab, true
		}
	}
	return "", false
}

// Navigator keeps one stack per tab of the current root. Loading and Error
// roots have no screens.
type Navigator struct {
	mu     sync.Mutex
	target Target
	tab    Tab
	stacks map[Tab][]Screen
}

func NewNavigator(target Target) *Navigator {
	n := &Navigator{}
	n.Reset(target)
	return n
}

// Reset discards all stacks and starts target's first tab at its root.
func (n *Navigator) Reset(target Target) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = target
	n.tab = ""
	n.stacks = make(map[Tab][]Screen)
	for i, tab := range rootTabs[target] {
		if i == 0 {
			n.tab = tab
		}
		n.stacks[tab] = []Screen{{Route: stackRoutes[tab][0]}}
	}
}

func (n *Navigator) Target() Target {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

func (n *Navigator) Tab() Tab {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tab
}

// Current is the top of the active tab's stack, or the zero Screen when
// the root has no screens.
func (n *Navigator) Current() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	stack := n.stacks[n.tab]
	if len(stack) == 0 {
		return Screen{}
	}
	return stack[len(stack)-1]
}

func (n *Navigator) Stack() []Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.stacks[n.tab])
}

// Navigate shows route. A route already on the stack is popped back to;
// a route from another tab of the same root switches tabs first.
func (n *Navigator) Navigate(route Route, param string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	tab, ok := tabFor(n.target, route)
	if !ok {
		return dErrors.New(dErrors.CodeBadRequest, "route "+string(route)+" is not available here")
	}
	if route == RoutePlantDetail && param == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "plant detail needs a plant")
	}
	n.tab = tab

	screen := Screen{Route: route, Param: param}
	stack := n.stacks[tab]
	if i := slices.Index(stack, screen); i >= 0 {
		n.stacks[tab] = stack[:i+1]
		return nil
	}
	n.stacks[tab] = append(stack, screen)
	return nil
}

// Back pops the active stack. It reports false at the tab root.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	stack := n.stacks[n.tab]
	if len(stack) <= 1 {
		return false
	}
	n.stacks[n.tab] = stack[:len(stack)-1]
	return true
}

// SwitchTab keeps each tab's stack as it was left.
func (n *Navigator) SwitchTab(tab Tab) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !slices.Contains(rootTabs[n.target], tab) {
		return dErrors.New(dErrors.CodeBadRequest, "tab "+string(tab)+" is not available here")
	}
	n.tab = tab
	return nil
}
