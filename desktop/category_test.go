package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCategories(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     Category
	}{
		{
			name:     "web browser",
			keywords: []string{"Network", "WebBrowser"},
			want:     CategoryInternet,
		},
		{
			name:     "ide",
			keywords: []string{"Development", "IDE"},
			want:     CategoryDevelopment,
		},
		{
			name:     "media player",
			keywords: []string{"AudioVideo", "Player"},
			want:     CategoryMultimedia,
		},
		{
			name:     "image editor",
			keywords: []string{"Graphics", "2DGraphics"},
			want:     CategoryGraphics,
		},
		{
			name:     "game",
			keywords: []string{"Game", "Arcade"},
			want:     CategoryGames,
		},
		{
			name:     "office suite",
			keywords: []string{"Office", "Spreadsheet"},
			want:     CategoryOffice,
		},
		{
			name:     "control center",
			keywords: []string{"Control"},
			want:     CategorySettings,
		},
		{
			name:     "system tool",
			keywords: []string{"System", "Monitor"},
			want:     CategorySystem,
		},
		{
			name:     "utility",
			keywords: []string{"Utility", "Calculator"},
			want:     CategoryGeneral,
		},
		{
			name:     "unknown keywords fall back to general",
			keywords: []string{"Science", "Astronomy"},
			want:     CategoryGeneral,
		},
		{
			name:     "no keywords",
			keywords: nil,
			want:     CategoryGeneral,
		},
		{
			name:     "case insensitive",
			keywords: []string{"nEtWoRk"},
			want:     CategoryInternet,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, MapCategories(test.keywords))
		})
	}
}

// System claims entries before Settings even though the two share keywords,
// matching the fixed priority order.
func TestMapCategories_Priority(t *testing.T) {
	assert.Equal(t, CategorySystem, MapCategories([]string{"Settings"}))
	assert.Equal(t, CategorySystem, MapCategories([]string{"Preferences"}))

	// Control is a Settings-only keyword.
	assert.Equal(t, CategorySettings, MapCategories([]string{"Control"}))

	// An entry matching both Office and Development keywords goes to Office.
	assert.Equal(t, CategoryOffice, MapCategories([]string{"Development", "Office"}))
}

func TestByCategory(t *testing.T) {
	entries := []*Entry{
		{Name: "Firefox", Exec: "firefox", Categories: []string{"Network"}},
		{Name: "GIMP", Exec: "gimp", Categories: []string{"Graphics"}},
		{Name: "Thunderbird", Exec: "thunderbird", Categories: []string{"Email"}},
		{Name: "Notes", Exec: "notes", Categories: []string{"Uncategorized"}},
	}

	grouped := ByCategory(entries)

	assert.Len(t, grouped, len(Categories()))
	assert.Len(t, grouped[CategoryInternet], 2)
	assert.Len(t, grouped[CategoryGraphics], 1)
	assert.Len(t, grouped[CategoryGeneral], 1)
	assert.Empty(t, grouped[CategoryGames])
}
