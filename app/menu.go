package app

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/shelepuginivan/traylauncher/config"
	"github.com/shelepuginivan/traylauncher/desktop"
	"github.com/shelepuginivan/traylauncher/tray"
)

// categoryIcons maps launcher categories to freedesktop themed icon names.
var categoryIcons = map[string]string{
	"General":     "applications-accessories",
	"Development": "applications-development",
	"Games":       "applications-games",
	"Graphics":    "applications-graphics",
	"Multimedia":  "applications-multimedia",
	"Internet":    "applications-internet",
	"Office":      "applications-office",
	"Settings":    "preferences-system",
	"System":      "applications-system",
}

const fallbackIcon = "application-x-executable"

func categoryIcon(name string) string {
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}

	return fallbackIcon
}

// menuCallbacks are the actions behind the menu entries.
type menuCallbacks struct {
	launch             func(cmd string)
	regenerate         func()
	setShowIcons       func(bool)
	setShowQuickLaunch func(bool)
	quit               func()
}

// buildMenu renders the configuration into the tray menu tree: quick-launch
// entries, one submenu per non-empty category, and the control entries.
func buildMenu(cfg *config.Config, cb menuCallbacks) []*tray.Node {
	var entries []*tray.Node

	settings := cfg.Settings

	icon := func(name string) string {
		if settings.ShowIcons {
			return name
		}

		return ""
	}

	if settings.ShowQuickLaunch {
		quick := quickLaunchEntries(settings.QuickLaunchApps, icon, cb.launch)
		if len(quick) > 0 {
			entries = append(entries, quick...)
			entries = append(entries, tray.Separator())
		}
	}

	categories := lo.Filter(orderedCategories(cfg.Categories), func(name string, _ int) bool {
		return len(cfg.Categories[name]) > 0
	})

	for _, name := range categories {
		apps := cfg.Categories[name]

		children := make([]*tray.Node, 0, len(apps))
		for _, app := range apps {
			cmd := app.Cmd
			appIcon := icon(app.Icon)
			if settings.ShowIcons && appIcon == "" {
				appIcon = fallbackIcon
			}

			children = append(children, tray.MenuItem(app.Name, appIcon, func() {
				cb.launch(cmd)
			}))
		}

		label := fmt.Sprintf("%s (%d)", name, len(apps))
		entries = append(entries, tray.Submenu(label, icon(categoryIcon(name)), children...))
	}

	if len(categories) > 0 {
		entries = append(entries, tray.Separator())
	}

	entries = append(entries,
		tray.MenuItem("Regenerate", icon("view-refresh"), cb.regenerate),
		tray.Submenu("Settings", icon("preferences-system"),
			tray.Checkbox("Show icons", settings.ShowIcons, cb.setShowIcons),
			tray.Checkbox("Show quick launch", settings.ShowQuickLaunch, cb.setShowQuickLaunch),
		),
		tray.MenuItem("Quit", icon("application-exit"), cb.quit),
	)

	return entries
}

// quickLaunchEntries renders the quick-launch section. Entries with an
// empty command are omitted.
func quickLaunchEntries(quick config.QuickLaunch, icon func(string) string, launch func(string)) []*tray.Node {
	type quickEntry struct {
		label string
		icon  string
		cmd   string
	}

	all := []quickEntry{
		{"Terminal", "utilities-terminal", quick.Terminal},
		{"Web Browser", "web-browser", quick.Browser},
		{"File Manager", "system-file-manager", quick.FileManager},
	}

	var entries []*tray.Node

	for _, entry := range all {
		if entry.cmd == "" {
			continue
		}

		cmd := entry.cmd
		entries = append(entries, tray.MenuItem(entry.label, icon(entry.icon), func() {
			launch(cmd)
		}))
	}

	return entries
}

// orderedCategories returns the configured category names with the fixed
// launcher categories first, in menu order, followed by any custom
// categories sorted alphabetically.
func orderedCategories(categories map[string][]config.App) []string {
	var names []string

	fixed := map[string]struct{}{}
	for _, category := range desktop.Categories() {
		name := string(category)
		fixed[name] = struct{}{}

		if _, ok := categories[name]; ok {
			names = append(names, name)
		}
	}

	var custom []string
	for name := range categories {
		if _, ok := fixed[name]; !ok {
			custom = append(custom, name)
		}
	}

	sort.Strings(custom)

	return append(names, custom...)
}
