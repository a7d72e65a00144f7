package app

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelepuginivan/traylauncher/config"
	"github.com/shelepuginivan/traylauncher/desktop"
	"github.com/shelepuginivan/traylauncher/events"
	"github.com/shelepuginivan/traylauncher/launch"
)

func testApp(t *testing.T, desktopDir string) *App {
	t.Helper()

	store, err := config.Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	return &App{
		store:    store,
		scanner:  desktop.NewScannerWithDirs(desktopDir),
		launcher: launch.New(),
		hooks:    events.NewHooks(),
		done:     make(chan struct{}),
	}
}

func TestApp_Regenerate(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("firefox.desktop", `[Desktop Entry]
Name=Firefox
Exec=firefox %u
Icon=firefox
Categories=Network;WebBrowser;
`)
	write("gimp.desktop", `[Desktop Entry]
Name=GIMP
Exec=gimp-2.10 %U
Icon=gimp
Categories=Graphics;2DGraphics;
`)
	write("hidden.desktop", `[Desktop Entry]
Name=Hidden
Exec=hidden
NoDisplay=true
`)

	app := testApp(t, dir)

	added, err := app.Regenerate()
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	categories := app.store.Categories()
	require.Len(t, categories["Internet"], 1)
	assert.Equal(t, config.App{Name: "Firefox", Cmd: "firefox", Icon: "firefox"}, categories["Internet"][0])
	require.Len(t, categories["Graphics"], 1)
	assert.Equal(t, "gimp-2.10", categories["Graphics"][0].Cmd)

	// A second run finds nothing new.
	added, err = app.Regenerate()
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestApp_RegenerateEmptyDir(t *testing.T) {
	app := testApp(t, t.TempDir())

	added, err := app.Regenerate()
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Empty(t, app.store.Categories())
}

func TestApp_WatcherAppearsBeforeItem(t *testing.T) {
	app := testApp(t, t.TempDir())
	app.hooks.Register(events.WatcherRegistered, app.registerItem)

	// The watcher may announce itself before the item is exported; the hook
	// must not trip over the missing item.
	assert.NotPanics(t, func() { app.hooks.Trigger(events.WatcherRegistered) })
}

func TestTrayPixmaps(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	// Without an icon file, only the themed icon is offered.
	assert.Nil(t, trayPixmaps())

	dir := filepath.Join(dataHome, "traylauncher")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "icon.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, image.NewNRGBA(image.Rect(0, 0, 32, 32))))
	require.NoError(t, file.Close())

	pixmaps := trayPixmaps()
	require.NotEmpty(t, pixmaps)
	assert.Equal(t, int32(16), pixmaps[0].Width)

	// An unreadable icon file degrades to the themed icon.
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	assert.Nil(t, trayPixmaps())
}

func TestApp_QuitIsIdempotent(t *testing.T) {
	app := testApp(t, t.TempDir())

	app.Quit()
	assert.NotPanics(t, app.Quit)

	select {
	case <-app.done:
	default:
		t.Fatal("done channel is not closed after Quit")
	}
}
