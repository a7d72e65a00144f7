// Package events wires the launcher to D-Bus system events. It provides a
// small named-hook registry and two bus watchers: one that notices the
// StatusNotifierWatcher (re)appearing on the session bus, and one that
// listens for logind shutdown announcements on the system bus.
package events

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Event names dispatched by the watchers in this package.
const (
	// WatcherRegistered fires when the StatusNotifierWatcher name gains an
	// owner. Tray items must re-register, since a restarted watcher loses
	// all registrations.
	WatcherRegistered = "watcher-registered"

	// SessionEnd fires when logind announces an imminent shutdown or the
	// session is otherwise ending.
	SessionEnd = "session-end"
)

// Hooks is a registry of callbacks keyed by event name. Dispatch is
// best-effort: a panicking callback is logged and does not stop the others.
type Hooks struct {
	mu    sync.Mutex
	hooks map[string][]func()
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{hooks: map[string][]func(){}}
}

// Register adds a callback for the named event.
func (h *Hooks) Register(event string, callback func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks[event] = append(h.hooks[event], callback)
}

// Trigger runs every callback registered for the named event.
func (h *Hooks) Trigger(event string) {
	h.mu.Lock()
	callbacks := append([]func(){}, h.hooks[event]...)
	h.mu.Unlock()

	for _, callback := range callbacks {
		run(event, callback)
	}
}

func run(event string, callback func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("event", event).Errorf("hook callback panicked: %v", r)
		}
	}()

	callback()
}
