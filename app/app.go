// Package app assembles the launcher: it connects the configuration store,
// the desktop file scanner, and the application launcher to the tray item
// and its menu, and keeps the menu in sync with configuration changes.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/shelepuginivan/traylauncher/config"
	"github.com/shelepuginivan/traylauncher/desktop"
	"github.com/shelepuginivan/traylauncher/events"
	"github.com/shelepuginivan/traylauncher/launch"
	"github.com/shelepuginivan/traylauncher/notify"
	"github.com/shelepuginivan/traylauncher/tray"
)

// ID is the application identifier used on the bus and in notifications.
const ID = "traylauncher"

// App is the running launcher.
type App struct {
	store    *config.Store
	scanner  *desktop.Scanner
	launcher *launch.Launcher
	hooks    *events.Hooks

	session  *dbus.Conn
	system   *dbus.Conn
	menu     *tray.Menu
	notifier *notify.Notifier

	// item is written once by Run and read by the re-registration hook,
	// which runs on the session watcher goroutine.
	mu   sync.Mutex
	item *tray.Item

	quitOnce sync.Once
	done     chan struct{}
}

// New returns an [App] over the given configuration store.
func New(store *config.Store) *App {
	return &App{
		store:    store,
		scanner:  desktop.NewScanner(),
		launcher: launch.New(),
		hooks:    events.NewHooks(),
		done:     make(chan struct{}),
	}
}

// Run connects to D-Bus, exports the tray item, and blocks until the
// application quits via the menu, a signal, or a session end event.
func (a *App) Run() error {
	session, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("app: failed to connect to session bus: %w", err)
	}
	a.session = session
	defer session.Close()

	a.notifier = notify.New(session, ID)

	a.menu, err = tray.NewMenu(session)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	a.rebuildMenu()
	a.store.OnChange(a.rebuildMenu)

	// The watcher hook must be live before the item is exported, so a
	// watcher appearing during startup is never missed.
	a.hooks.Register(events.WatcherRegistered, a.registerItem)
	a.hooks.Register(events.SessionEnd, a.Quit)

	sessionWatcher := events.NewSessionWatcher(session, a.hooks)
	if err := sessionWatcher.Listen(); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	item, err := tray.NewItem(session, ID, "Tray Launcher", "applications-system", a.menu)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	defer item.Close()

	a.mu.Lock()
	a.item = item
	a.mu.Unlock()

	if pixmaps := trayPixmaps(); len(pixmaps) > 0 {
		item.SetIconPixmap(pixmaps)
	}

	// Shutdown tracking is best-effort: a missing system bus only costs the
	// early-exit nicety.
	if system, err := dbus.ConnectSystemBus(); err != nil {
		logrus.WithError(err).Warn("system bus unavailable, shutdown events disabled")
	} else {
		a.system = system
		defer system.Close()

		powerWatcher := events.NewPowerWatcher(system, a.hooks)
		if err := powerWatcher.Listen(); err != nil {
			logrus.WithError(err).Warn("failed to subscribe to shutdown events")
		}
	}

	logrus.Info("tray launcher running")
	<-a.done

	return nil
}

// registerItem announces the tray item to a newly appeared watcher. A hook
// firing before the item is exported is a no-op; NewItem registers on its
// own in that case.
func (a *App) registerItem() {
	a.mu.Lock()
	item := a.item
	a.mu.Unlock()

	if item == nil {
		return
	}

	if err := item.RegisterWithWatcher(); err != nil {
		logrus.WithError(err).Error("failed to register tray item")
	}
}

// trayPixmaps loads a user-provided tray icon from icon.png in the data
// directory, rendered as raw pixmaps for hosts that cannot resolve themed
// icon names. Without the file, the themed icon is the only one offered.
func trayPixmaps() []tray.Pixmap {
	path := filepath.Join(config.DataDir(), "icon.png")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	pixmaps, err := tray.LoadPixmaps(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("failed to load tray icon file")
		return nil
	}

	return pixmaps
}

// Quit stops a running [App]. Safe to call from any goroutine and more
// than once.
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		logrus.Info("quitting")
		close(a.done)
	})
}

// Regenerate scans the .desktop files, classifies the found applications,
// and merges them into the configuration. It returns the number of newly
// added applications.
func (a *App) Regenerate() (int, error) {
	entries := a.scanner.Scan()
	grouped := desktop.ByCategory(entries)

	apps := make(map[string][]config.App, len(grouped))
	for category, list := range grouped {
		for _, entry := range list {
			apps[string(category)] = append(apps[string(category)], config.App{
				Name: entry.Name,
				Cmd:  entry.Exec,
				Icon: entry.Icon,
			})
		}
	}

	added, err := a.store.Merge(apps)
	if err != nil {
		return 0, fmt.Errorf("app: regenerate: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"scanned": len(entries),
		"added":   added,
	}).Info("regenerated application list")

	return added, nil
}

// rebuildMenu renders the current configuration into the tray menu.
func (a *App) rebuildMenu() {
	cfg := a.store.Config()

	a.menu.Update(buildMenu(cfg, menuCallbacks{
		launch:     a.launchApp,
		regenerate: a.regenerateFromMenu,
		setShowIcons: func(show bool) {
			if err := a.store.SetShowIcons(show); err != nil {
				logrus.WithError(err).Error("failed to save settings")
			}
		},
		setShowQuickLaunch: func(show bool) {
			if err := a.store.SetShowQuickLaunch(show); err != nil {
				logrus.WithError(err).Error("failed to save settings")
			}
		},
		quit: a.Quit,
	})...)
}

// launchApp starts an application and reports failures with a desktop
// notification.
func (a *App) launchApp(cmd string) {
	if err := a.launcher.Launch(cmd); err != nil {
		if _, nerr := a.notifier.Notify("Failed to launch application", err.Error()); nerr != nil {
			logrus.WithError(nerr).Error("failed to show notification")
		}
	}
}

func (a *App) regenerateFromMenu() {
	if _, err := a.Regenerate(); err != nil {
		logrus.WithError(err).Error("regenerate failed")
	}
}
