// Package desktop reads application metadata from [freedesktop .desktop
// files]. It extracts the handful of keys the launcher cares about (Name,
// Exec, Icon, NoDisplay, Terminal, Categories) from the [Desktop Entry]
// section and maps the freedesktop category keywords onto the launcher's
// fixed category set.
//
// [freedesktop .desktop files]: https://specifications.freedesktop.org/desktop-entry-spec/latest/
package desktop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Errors returned by [Parse] for entries that are well-formed but unusable
// by the launcher.
var (
	// ErrIncomplete is returned when an entry lacks a Name or an Exec key.
	ErrIncomplete = errors.New("desktop: entry has no name or command")

	// ErrNoDisplay is returned when an entry sets NoDisplay=true and must
	// not be shown in menus.
	ErrNoDisplay = errors.New("desktop: entry is marked NoDisplay")
)

// Entry is an application described by a .desktop file.
type Entry struct {
	// Name of the application as it should appear in the menu.
	Name string

	// Exec is the launch command with field codes already stripped.
	Exec string

	// Icon is a themed icon name or an absolute path to an icon file.
	Icon string

	// Terminal reports whether the application runs in a terminal.
	Terminal bool

	// Categories are the raw category keywords from the Categories key,
	// title-cased, with empty elements dropped.
	Categories []string
}

// fieldCodes are the Exec placeholders defined by the desktop entry
// specification. They carry no meaning outside a file manager context and
// are removed before the command is stored.
var fieldCodes = []string{
	"%U", "%u", "%F", "%f", "%D", "%d",
	"%N", "%n", "%i", "%c", "%k", "%v", "%m", "%M",
}

// CleanExec removes field codes from an Exec value and collapses the
// whitespace left behind.
func CleanExec(exec string) string {
	for _, code := range fieldCodes {
		exec = strings.ReplaceAll(exec, code, "")
	}

	return strings.Join(strings.Fields(exec), " ")
}

// Parse reads a single .desktop file and returns its [Entry].
//
// Only the [Desktop Entry] section is considered; actions and other sections
// are ignored. Comments, blank lines, and unknown keys are skipped. Values
// wrapped in single or double quotes are unquoted.
//
// Entries without both a Name and an Exec key return [ErrIncomplete].
// Entries with NoDisplay=true return [ErrNoDisplay].
func Parse(r io.Reader) (*Entry, error) {
	var (
		entry          Entry
		inDesktopEntry bool
		noDisplay      bool
	)

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inDesktopEntry = strings.EqualFold(line, "[Desktop Entry]")
			continue
		}

		if !inDesktopEntry || line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		switch strings.ToLower(key) {
		case "name":
			entry.Name = value
		case "exec":
			entry.Exec = CleanExec(value)
		case "icon":
			entry.Icon = value
		case "nodisplay":
			noDisplay = parseBool(value)
		case "terminal":
			entry.Terminal = parseBool(value)
		case "categories":
			entry.Categories = splitCategories(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("desktop: %w", err)
	}

	if entry.Name == "" || entry.Exec == "" {
		return nil, ErrIncomplete
	}

	if noDisplay {
		return nil, ErrNoDisplay
	}

	if len(entry.Categories) == 0 {
		entry.Categories = []string{"Uncategorized"}
	}

	return &entry, nil
}

// ParseFile parses the .desktop file at path.
func ParseFile(path string) (*Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("desktop: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// unquote strips one pair of matching single or double quotes.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}

	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}

	return value
}

// parseBool reports whether a desktop entry boolean value is truthy. The
// specification only allows "true", but "yes" and "1" occur in the wild.
func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true
	}

	return false
}

// splitCategories splits a ;-separated Categories value, title-casing each
// keyword and dropping empty elements.
func splitCategories(value string) []string {
	parts := strings.Split(value, ";")
	categories := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		categories = append(categories, title(part))
	}

	return categories
}

// title upper-cases the first byte of an ASCII keyword and lower-cases the
// rest, matching how category keywords are normalized in the configuration.
func title(s string) string {
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
