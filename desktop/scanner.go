package desktop

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Scanner locates and parses .desktop files from the XDG application
// directories.
type Scanner struct {
	dirs []string
}

// NewScanner returns a [Scanner] over the standard application directories:
// $XDG_DATA_HOME/applications (or ~/.local/share/applications) followed by
// <dir>/applications for every entry of $XDG_DATA_DIRS (or the usual
// /usr/share and /usr/local/share defaults).
func NewScanner() *Scanner {
	return &Scanner{dirs: applicationDirs()}
}

// NewScannerWithDirs returns a [Scanner] over an explicit list of
// directories. Intended for tests and non-standard setups.
func NewScannerWithDirs(dirs ...string) *Scanner {
	return &Scanner{dirs: dirs}
}

// Dirs returns the directories the scanner searches.
func (s *Scanner) Dirs() []string {
	return s.dirs
}

// Find returns paths of all .desktop files in the scanner directories.
// Directories that do not exist are silently skipped.
func (s *Scanner) Find() []string {
	var files []string

	for _, dir := range s.dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.desktop"))
		if err != nil {
			continue
		}

		files = append(files, matches...)
	}

	return files
}

// Scan parses every .desktop file found in the scanner directories.
// Malformed, incomplete, and NoDisplay entries are skipped; parse failures
// are logged and never abort the scan.
func (s *Scanner) Scan() []*Entry {
	return lo.FilterMap(s.Find(), func(path string, _ int) (*Entry, bool) {
		entry, err := ParseFile(path)
		if err != nil {
			if !errors.Is(err, ErrIncomplete) && !errors.Is(err, ErrNoDisplay) {
				logrus.WithError(err).WithField("path", path).Debug("skipping desktop file")
			}

			return nil, false
		}

		return entry, true
	})
}

// applicationDirs resolves the XDG application search path.
func applicationDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}

	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}

	for _, dir := range strings.Split(dataDirs, ":") {
		if dir == "" {
			continue
		}

		dirs = append(dirs, filepath.Join(dir, "applications"))
	}

	return lo.Uniq(dirs)
}
