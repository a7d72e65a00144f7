package events

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

const watcherName = "org.kde.StatusNotifierWatcher"

// SessionWatcher follows ownership of the StatusNotifierWatcher name on the
// session bus and triggers [WatcherRegistered] whenever the name gains an
// owner.
type SessionWatcher struct {
	conn    *dbus.Conn
	hooks   *Hooks
	signals chan *dbus.Signal
	closed  bool
}

// NewSessionWatcher returns a new [SessionWatcher] dispatching into hooks.
func NewSessionWatcher(conn *dbus.Conn, hooks *Hooks) *SessionWatcher {
	return &SessionWatcher{
		conn:    conn,
		hooks:   hooks,
		signals: make(chan *dbus.Signal, 16),
	}
}

// Listen subscribes to NameOwnerChanged for the watcher name and starts
// dispatching.
//
// If Listen is called after [SessionWatcher.Close], an error is returned.
func (w *SessionWatcher) Listen() error {
	if w.closed {
		return fmt.Errorf("listen: session watcher is closed")
	}

	if err := w.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, watcherName),
	); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	w.conn.Signal(w.signals)

	go func() {
		for signal := range w.signals {
			if signal.Name != "org.freedesktop.DBus.NameOwnerChanged" {
				continue
			}

			w.handleNameOwnerChanged(signal)
		}
	}()

	return nil
}

// Close unsubscribes from the session bus signals.
func (w *SessionWatcher) Close() error {
	if err := w.conn.RemoveMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, watcherName),
	); err != nil {
		return err
	}

	w.conn.RemoveSignal(w.signals)
	close(w.signals)
	w.closed = true

	return nil
}

func (w *SessionWatcher) handleNameOwnerChanged(signal *dbus.Signal) {
	if len(signal.Body) < 3 {
		return
	}

	name, ok := signal.Body[0].(string)
	if !ok || name != watcherName {
		return
	}

	newOwner, ok := signal.Body[2].(string)
	if !ok || newOwner == "" {
		return
	}

	logrus.WithField("owner", newOwner).Info("status notifier watcher appeared")
	w.hooks.Trigger(WatcherRegistered)
}
