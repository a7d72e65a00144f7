package desktop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDesktopFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()

	writeDesktopFile(t, dir, "firefox.desktop", `[Desktop Entry]
Name=Firefox
Exec=firefox %u
Categories=Network;
`)
	writeDesktopFile(t, dir, "hidden.desktop", `[Desktop Entry]
Name=Hidden
Exec=hidden
NoDisplay=true
`)
	writeDesktopFile(t, dir, "broken.desktop", `[Desktop Entry]
Name=Broken
`)
	writeDesktopFile(t, dir, "notes.txt", "not a desktop file")

	scanner := NewScannerWithDirs(dir)
	entries := scanner.Scan()

	require.Len(t, entries, 1)
	assert.Equal(t, "Firefox", entries[0].Name)
	assert.Equal(t, "firefox", entries[0].Exec)
}

func TestScanner_MissingDirectory(t *testing.T) {
	scanner := NewScannerWithDirs(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, scanner.Scan())
}

func TestScanner_MultipleDirs(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeDesktopFile(t, first, "a.desktop", "[Desktop Entry]\nName=A\nExec=a\n")
	writeDesktopFile(t, second, "b.desktop", "[Desktop Entry]\nName=B\nExec=b\n")

	scanner := NewScannerWithDirs(first, second)
	assert.Len(t, scanner.Scan(), 2)
}

func TestApplicationDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/home/user/.local/share")
	t.Setenv("XDG_DATA_DIRS", "/usr/local/share:/usr/share:/usr/share")

	dirs := applicationDirs()

	assert.Equal(t, []string{
		"/home/user/.local/share/applications",
		"/usr/local/share/applications",
		"/usr/share/applications",
	}, dirs)
}
