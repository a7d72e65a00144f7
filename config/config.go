// Package config persists the launcher configuration: the categorized
// application list and the display settings. The configuration is a single
// flat JSON document under the user data directory, read at startup and
// rewritten on every change.
package config

import (
	"os"
	"path/filepath"
)

// App is a launchable application stored in the configuration.
type App struct {
	// Name shown in the menu.
	Name string `json:"name"`

	// Cmd is the command executed on activation.
	Cmd string `json:"cmd"`

	// Icon is a themed icon name or a path to an icon file. May be empty.
	Icon string `json:"icon,omitempty"`
}

// QuickLaunch holds the commands behind the quick-launch menu entries.
type QuickLaunch struct {
	Terminal    string `json:"terminal"`
	Browser     string `json:"browser"`
	FileManager string `json:"file_manager"`
	MailClient  string `json:"mail_client"`
	Messenger   string `json:"messenger"`
}

// Settings are the display settings of the launcher.
type Settings struct {
	// ShowIcons toggles icons next to menu entries.
	ShowIcons bool `json:"show_icons"`

	// ShowQuickLaunch toggles the quick-launch section at the top of the
	// menu.
	ShowQuickLaunch bool `json:"show_quick_launch"`

	// QuickLaunchApps are the commands of the quick-launch entries.
	QuickLaunchApps QuickLaunch `json:"quick_launch_apps"`
}

// Config is the on-disk configuration document.
type Config struct {
	// Categories maps a category name to the applications assigned to it.
	Categories map[string][]App `json:"categories"`

	// Settings are the display settings.
	Settings Settings `json:"settings"`
}

// Default returns the configuration used when no config file exists yet.
func Default() *Config {
	return &Config{
		Categories: map[string][]App{},
		Settings: Settings{
			ShowIcons:       true,
			ShowQuickLaunch: true,
			QuickLaunchApps: defaultQuickLaunch(),
		},
	}
}

func defaultQuickLaunch() QuickLaunch {
	return QuickLaunch{
		Terminal:    "x-terminal-emulator",
		Browser:     "x-www-browser",
		FileManager: "xdg-open ~",
		MailClient:  "xdg-email",
		Messenger:   "discord",
	}
}

// normalize fills in parts of the document that are missing or malformed so
// the rest of the application never has to nil-check them.
func (c *Config) normalize() {
	if c.Categories == nil {
		c.Categories = map[string][]App{}
	}

	defaults := defaultQuickLaunch()
	quick := &c.Settings.QuickLaunchApps

	if quick.Terminal == "" {
		quick.Terminal = defaults.Terminal
	}
	if quick.Browser == "" {
		quick.Browser = defaults.Browser
	}
	if quick.FileManager == "" {
		quick.FileManager = defaults.FileManager
	}
	if quick.MailClient == "" {
		quick.MailClient = defaults.MailClient
	}
	if quick.Messenger == "" {
		quick.Messenger = defaults.Messenger
	}
}

// DefaultPath returns the default location of the configuration file:
// $XDG_DATA_HOME/traylauncher/config.json, falling back to
// ~/.local/share/traylauncher/config.json.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the launcher's data directory under the XDG data home.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "traylauncher"
		}

		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "traylauncher")
}
