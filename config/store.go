package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store owns the configuration document and its file on disk. Every
// mutation is persisted immediately and reported through the change
// callback so the tray menu can rebuild itself.
//
// The launcher is a single-process, single-writer application; the mutex
// only guards against the menu callback racing a concurrent mutation from a
// D-Bus handler.
type Store struct {
	path     string
	mu       sync.Mutex
	config   *Config
	onChange func()
}

// Open loads the configuration at path, creating it with defaults when it
// does not exist. A corrupt file is replaced by the defaults with a logged
// error, never a startup failure.
func Open(path string) (*Store, error) {
	store := &Store{
		path:     path,
		onChange: func() {},
	}

	cfg, err := load(path)
	if err != nil {
		if os.IsNotExist(err) {
			store.config = Default()
			if err := store.save(); err != nil {
				return nil, err
			}

			return store, nil
		}

		logrus.WithError(err).Error("config is unreadable, falling back to defaults")
		store.config = Default()

		return store, nil
	}

	store.config = cfg

	return store, nil
}

// OpenDefault loads the configuration from [DefaultPath].
func OpenDefault() (*Store, error) {
	return Open(DefaultPath())
}

// Path returns the location of the configuration file.
func (s *Store) Path() string {
	return s.path
}

// OnChange sets the callback invoked after every persisted mutation.
func (s *Store) OnChange(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = callback
}

// Config returns a deep copy of the current configuration document.
func (s *Store) Config() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config.clone()
}

// Settings returns the current display settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config.Settings
}

// SetShowIcons updates the show_icons setting.
func (s *Store) SetShowIcons(show bool) error {
	return s.mutate(func(c *Config) bool {
		if c.Settings.ShowIcons == show {
			return false
		}

		c.Settings.ShowIcons = show
		return true
	})
}

// SetShowQuickLaunch updates the show_quick_launch setting.
func (s *Store) SetShowQuickLaunch(show bool) error {
	return s.mutate(func(c *Config) bool {
		if c.Settings.ShowQuickLaunch == show {
			return false
		}

		c.Settings.ShowQuickLaunch = show
		return true
	})
}

// Categories returns a deep copy of the categorized application list.
func (s *Store) Categories() map[string][]App {
	return s.Config().Categories
}

// AddCategory creates an empty category. Adding an existing category is a
// no-op.
func (s *Store) AddCategory(name string) error {
	return s.mutate(func(c *Config) bool {
		if _, ok := c.Categories[name]; ok {
			return false
		}

		c.Categories[name] = []App{}
		return true
	})
}

// RemoveCategory deletes a category and all applications in it.
func (s *Store) RemoveCategory(name string) error {
	return s.mutate(func(c *Config) bool {
		if _, ok := c.Categories[name]; !ok {
			return false
		}

		delete(c.Categories, name)
		return true
	})
}

// AddApplication adds an application to a category, creating the category
// if needed. An application with the same name and command is not added
// twice.
func (s *Store) AddApplication(category string, app App) error {
	return s.mutate(func(c *Config) bool {
		return addApp(c, category, app)
	})
}

// RemoveApplication removes every application with the given name from a
// category.
func (s *Store) RemoveApplication(category, name string) error {
	return s.mutate(func(c *Config) bool {
		apps, ok := c.Categories[category]
		if !ok {
			return false
		}

		kept := apps[:0]
		for _, app := range apps {
			if app.Name != name {
				kept = append(kept, app)
			}
		}

		if len(kept) == len(apps) {
			return false
		}

		c.Categories[category] = kept
		return true
	})
}

// UpdateApplication replaces the first application named oldName in a
// category.
func (s *Store) UpdateApplication(category, oldName string, app App) error {
	return s.mutate(func(c *Config) bool {
		apps, ok := c.Categories[category]
		if !ok {
			return false
		}

		for i := range apps {
			if apps[i].Name == oldName {
				apps[i] = app
				return true
			}
		}

		return false
	})
}

// Merge bulk-adds applications per category, skipping duplicates, and
// returns the number actually added. Used by the Regenerate operation.
func (s *Store) Merge(apps map[string][]App) (int, error) {
	added := 0

	err := s.mutate(func(c *Config) bool {
		for category, list := range apps {
			for _, app := range list {
				if addApp(c, category, app) {
					added++
				}
			}
		}

		return added > 0
	})

	return added, err
}

// mutate applies fn to the document and, when fn reports a change, persists
// the document and fires the change callback.
func (s *Store) mutate(fn func(*Config) bool) error {
	s.mu.Lock()

	if !fn(s.config) {
		s.mu.Unlock()
		return nil
	}

	err := s.save()
	callback := s.onChange
	s.mu.Unlock()

	if err != nil {
		return err
	}

	callback()

	return nil
}

// save writes the document to disk. Callers must hold the mutex.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

func addApp(c *Config, category string, app App) bool {
	for _, existing := range c.Categories[category] {
		if existing.Name == app.Name && existing.Cmd == app.Cmd {
			return false
		}
	}

	c.Categories[category] = append(c.Categories[category], app)

	return true
}

// document mirrors [Config] with optional booleans so that settings absent
// from the file get their defaults while an explicit false survives a
// round trip.
type document struct {
	Categories map[string][]App `json:"categories"`
	Settings   struct {
		ShowIcons       *bool       `json:"show_icons"`
		ShowQuickLaunch *bool       `json:"show_quick_launch"`
		QuickLaunchApps QuickLaunch `json:"quick_launch_apps"`
	} `json:"settings"`
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		Categories: doc.Categories,
		Settings: Settings{
			ShowIcons:       true,
			ShowQuickLaunch: true,
			QuickLaunchApps: doc.Settings.QuickLaunchApps,
		},
	}

	if doc.Settings.ShowIcons != nil {
		cfg.Settings.ShowIcons = *doc.Settings.ShowIcons
	}

	if doc.Settings.ShowQuickLaunch != nil {
		cfg.Settings.ShowQuickLaunch = *doc.Settings.ShowQuickLaunch
	}

	cfg.normalize()

	return cfg, nil
}

func (c *Config) clone() *Config {
	cloned := &Config{
		Categories: make(map[string][]App, len(c.Categories)),
		Settings:   c.Settings,
	}

	for name, apps := range c.Categories {
		cloned.Categories[name] = append([]App(nil), apps...)
	}

	return cloned
}
