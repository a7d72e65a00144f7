// Package tray puts an application into the system tray using the
// [StatusNotifierItem] specification. It exports the item and its menu on
// the D-Bus session bus and registers them with the StatusNotifierWatcher,
// so any compliant tray host can display them.
//
// # Usage
//
// A tray presence consists of an [Item] and a [Menu]:
//   - [Menu] serves the com.canonical.dbusmenu interface. Its content is a
//     tree of [Node] values and can be swapped atomically with
//     [Menu.Update].
//   - [Item] serves the org.kde.StatusNotifierItem interface and points
//     tray hosts at the menu.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/
package tray
