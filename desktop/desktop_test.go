package desktop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormed(t *testing.T) {
	const file = `[Desktop Entry]
Version=1.0
Type=Application
Name=Firefox
Comment=Browse the web
Exec=firefox %u
Icon=firefox
Terminal=false
Categories=Network;WebBrowser;
`

	entry, err := Parse(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, "Firefox", entry.Name)
	assert.Equal(t, "firefox", entry.Exec)
	assert.Equal(t, "firefox", entry.Icon)
	assert.False(t, entry.Terminal)
	assert.Equal(t, []string{"Network", "Webbrowser"}, entry.Categories)
}

func TestParse_QuotedValues(t *testing.T) {
	const file = `[Desktop Entry]
Name="My App"
Exec='myapp --flag'
`

	entry, err := Parse(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, "My App", entry.Name)
	assert.Equal(t, "myapp --flag", entry.Exec)
}

func TestParse_IgnoresOtherSections(t *testing.T) {
	const file = `[Desktop Action new-window]
Name=New Window
Exec=evil --new-window

[Desktop Entry]
Name=App
Exec=app

[Desktop Action incognito]
Name=Incognito
Exec=evil --incognito
`

	entry, err := Parse(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, "App", entry.Name)
	assert.Equal(t, "app", entry.Exec)
}

func TestParse_IgnoresCommentsAndUnknownKeys(t *testing.T) {
	const file = `[Desktop Entry]
# This line is a comment.
Name=App
Exec=app
StartupWMClass=app
MimeType=text/plain;

no-equals-sign-line
`

	entry, err := Parse(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, "App", entry.Name)
}

func TestParse_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{
			name: "missing exec",
			file: "[Desktop Entry]\nName=App\n",
		},
		{
			name: "missing name",
			file: "[Desktop Entry]\nExec=app\n",
		},
		{
			name: "empty file",
			file: "",
		},
		{
			name: "keys outside desktop entry section",
			file: "[Other]\nName=App\nExec=app\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.file))
			assert.ErrorIs(t, err, ErrIncomplete)
		})
	}
}

func TestParse_NoDisplay(t *testing.T) {
	for _, value := range []string{"true", "True", "yes", "1"} {
		file := "[Desktop Entry]\nName=App\nExec=app\nNoDisplay=" + value + "\n"

		_, err := Parse(strings.NewReader(file))
		assert.ErrorIs(t, err, ErrNoDisplay, "NoDisplay=%s", value)
	}

	file := "[Desktop Entry]\nName=App\nExec=app\nNoDisplay=false\n"
	_, err := Parse(strings.NewReader(file))
	assert.NoError(t, err)
}

func TestParse_DefaultCategory(t *testing.T) {
	const file = "[Desktop Entry]\nName=App\nExec=app\n"

	entry, err := Parse(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, []string{"Uncategorized"}, entry.Categories)
}

func TestParse_ValueWithEquals(t *testing.T) {
	const file = "[Desktop Entry]\nName=App\nExec=env FOO=bar app\n"

	entry, err := Parse(strings.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, "env FOO=bar app", entry.Exec)
}

func TestCleanExec(t *testing.T) {
	tests := []struct {
		exec string
		want string
	}{
		{"firefox %u", "firefox"},
		{"nautilus --new-window %U", "nautilus --new-window"},
		{"gimp-2.10 %U %F", "gimp-2.10"},
		{"app %f middle %d end", "app middle end"},
		{"plain-command", "plain-command"},
		{"", ""},
		{"  spaced   out  ", "spaced out"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, CleanExec(test.exec), "CleanExec(%q)", test.exec)
	}
}
