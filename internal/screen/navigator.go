// Package screen switches between the dashboard views. Every screen is
// reachable from every other; there are no guards.
package screen

import (
	"strings"
	"sync"

	"github.com/datadash/backend/internal/models"
)

var actions = map[models.Screen][]models.ScreenAction{
	models.ScreenHome: {
		{Label: "Login", Target: models.ScreenLogin},
	},
	models.ScreenLogin: {
		{Label: "Login", Target: models.ScreenDashboard},
		{Label: "Sign Up"},
	},
	models.ScreenDashboard: {},
}

// Parse resolves a screen name. Unknown names resolve to home with ok=false.
func Parse(name string) (models.Screen, bool) {
	s := models.Screen(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return models.ScreenHome, false
	}
	return s, true
}

// Actions returns the controls shown on a screen.
func Actions(s models.Screen) []models.ScreenAction {
	src, ok := actions[s]
	if !ok {
		src = actions[models.ScreenHome]
	}
	out := make([]models.ScreenAction, len(src))
	copy(out, src)
	return out
}

// Navigator tracks the current screen of one session.
type Navigator struct {
	mu      sync.RWMutex
	current models.Screen
}

// NewNavigator starts on the home screen.
func NewNavigator() *Navigator {
	return &Navigator{current: models.ScreenHome}
}

// Current returns the screen being shown.
func (n *Navigator) Current() models.Screen {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Navigate switches to s and returns the screen now shown. An unknown
// screen shows home.
func (n *Navigator) Navigate(s models.Screen) models.Screen {
	if !s.Valid() {
		s = models.ScreenHome
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = s
	return s
}
