package events

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

const (
	loginInterface = "org.freedesktop.login1.Manager"
	loginPath      = "/org/freedesktop/login1"
)

// PowerWatcher listens on the system bus for logind's PrepareForShutdown
// announcement and triggers [SessionEnd] so the launcher can exit cleanly
// before the session goes away.
type PowerWatcher struct {
	conn    *dbus.Conn
	hooks   *Hooks
	signals chan *dbus.Signal
	closed  bool
}

// NewPowerWatcher returns a new [PowerWatcher] dispatching into hooks.
func NewPowerWatcher(conn *dbus.Conn, hooks *Hooks) *PowerWatcher {
	return &PowerWatcher{
		conn:    conn,
		hooks:   hooks,
		signals: make(chan *dbus.Signal, 16),
	}
}

// Listen subscribes to PrepareForShutdown and starts dispatching.
func (w *PowerWatcher) Listen() error {
	if w.closed {
		return fmt.Errorf("listen: power watcher is closed")
	}

	if err := w.conn.AddMatchSignal(
		dbus.WithMatchInterface(loginInterface),
		dbus.WithMatchObjectPath(loginPath),
		dbus.WithMatchMember("PrepareForShutdown"),
	); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	w.conn.Signal(w.signals)

	go func() {
		for signal := range w.signals {
			if signal.Name != loginInterface+".PrepareForShutdown" {
				continue
			}

			w.handlePrepareForShutdown(signal)
		}
	}()

	return nil
}

// Close unsubscribes from the system bus signals.
func (w *PowerWatcher) Close() error {
	if err := w.conn.RemoveMatchSignal(
		dbus.WithMatchInterface(loginInterface),
		dbus.WithMatchObjectPath(loginPath),
		dbus.WithMatchMember("PrepareForShutdown"),
	); err != nil {
		return err
	}

	w.conn.RemoveSignal(w.signals)
	close(w.signals)
	w.closed = true

	return nil
}

func (w *PowerWatcher) handlePrepareForShutdown(signal *dbus.Signal) {
	if len(signal.Body) < 1 {
		return
	}

	// The signal also fires with false when a shutdown is cancelled.
	starting, ok := signal.Body[0].(bool)
	if !ok || !starting {
		return
	}

	logrus.Info("system shutdown announced")
	w.hooks.Trigger(SessionEnd)
}
