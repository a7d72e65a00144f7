// Package notify sends desktop notifications over the
// org.freedesktop.Notifications interface. The launcher uses it to report
// failed application launches to the user.
package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsInterface = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
)

// expireTimeout is how long notifications stay on screen, in milliseconds.
const expireTimeout = int32(5000)

// Notifier sends desktop notifications on a session bus connection.
type Notifier struct {
	conn    *dbus.Conn
	appName string
}

// New returns a [Notifier] that reports as appName.
func New(conn *dbus.Conn, appName string) *Notifier {
	return &Notifier{conn: conn, appName: appName}
}

// Notify shows a notification and returns its server-assigned ID.
func (n *Notifier) Notify(summary, body string) (uint32, error) {
	call := n.conn.Object(notificationsInterface, notificationsPath).Call(
		notificationsInterface+".Notify",
		0,
		n.appName,
		uint32(0),         // replaces_id: always a new notification
		"dialog-error",    // app_icon
		summary,
		body,
		[]string{}, // actions
		map[string]dbus.Variant{},
		expireTimeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}

	if len(call.Body) != 1 {
		return 0, fmt.Errorf("notify: invalid response format")
	}

	id, ok := call.Body[0].(uint32)
	if !ok {
		return 0, fmt.Errorf("notify: invalid response format")
	}

	return id, nil
}
