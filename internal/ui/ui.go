// Package ui holds the navigation and alert collaborators the screens drive.
package ui

import (
	"sync"
)

// Screen names known to the navigator.
const (
	ScreenCreateAppointment  = "CreateAppointment"
	ScreenAppointmentCreated = "AppointmentCreated"
)

// Params are route parameters passed along with a navigation.
type Params map[string]any

// Navigator moves between screens.
type Navigator interface {
	GoBack()
	Navigate(screen string, params Params)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(title, message string)
}

// Route is one entry of a navigation Stack.
type Route struct {
	Screen string
	Params Params
}

// Stack is an in-memory Navigator that keeps the route history.
type Stack struct {
	mu     sync.Mutex
	routes []Route
}

// NewStack returns a stack rooted at the given screen.
func NewStack(root string, params Params) *Stack {
	return &Stack{routes: []Route{{Screen: root, Params: params}}}
}

func (s *Stack) Navigate(screen string, params Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, Route{Screen: screen, Params: params})
}

// GoBack pops the current route. The root route is never popped.
func (s *Stack) GoBack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routes) > 1 {
		s.routes = s.routes[:len(s.routes)-1]
	}
}

// Current returns the top route.
func (s *Stack) Current() Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routes) == 0 {
		return Route{}
	}
	return s.routes[len(s.routes)-1]
}

// Depth reports how many routes are on the stack.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.routes)
}

// Alert is a recorded alert.
type Alert struct {
	Title   string
	Message string
}

// AlertRecorder is an Alerter that remembers every alert it was asked to show.
type AlertRecorder struct {
	mu     sync.Mutex
	alerts []Alert
}

func (r *AlertRecorder) Alert(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, Alert{Title: title, Message: message})
}

// Alerts returns a copy of the recorded alerts.
func (r *AlertRecorder) Alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}
