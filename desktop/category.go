package desktop

import "strings"

// Category is one of the launcher's fixed menu categories.
type Category string

// Launcher categories. Every application is assigned to exactly one of
// these.
const (
	CategoryGeneral     Category = "General"
	CategoryDevelopment Category = "Development"
	CategoryGames       Category = "Games"
	CategoryGraphics    Category = "Graphics"
	CategoryMultimedia  Category = "Multimedia"
	CategoryInternet    Category = "Internet"
	CategoryOffice      Category = "Office"
	CategorySettings    Category = "Settings"
	CategorySystem      Category = "System"
)

// Categories lists all launcher categories in menu order.
func Categories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryDevelopment,
		CategoryGames,
		CategoryGraphics,
		CategoryMultimedia,
		CategoryInternet,
		CategoryOffice,
		CategorySettings,
		CategorySystem,
	}
}

// categoryKeywords maps each category to the freedesktop category keywords
// that select it. Matching is case-insensitive against the keywords of the
// entry.
var categoryKeywords = map[Category][]string{
	CategorySystem:      {"system", "settings", "preferences", "configure", "admin", "hardware"},
	CategorySettings:    {"settings", "preferences", "configure", "control"},
	CategoryOffice:      {"office", "word", "spreadsheet", "document", "text", "edit", "publish"},
	CategoryGraphics:    {"graphics", "2dgraphics", "3dgraphics", "image", "photo", "picture", "art"},
	CategoryMultimedia:  {"audio", "audiovideo", "music", "video", "tv", "player", "recorder"},
	CategoryInternet:    {"network", "email", "web", "internet", "chat", "p2p", "filetransfer"},
	CategoryGames:       {"game", "arcade", "sports", "kids", "logic", "strategy", "simulation"},
	CategoryDevelopment: {"development", "programming", "ide", "editor", "debugger", "database"},
	CategoryGeneral:     {"utility", "accessibility", "archiving", "calculator", "clock", "filemanager"},
}

// categoryPriority is the order in which categories claim an entry. An
// application matching keywords of several categories is assigned to the
// first match. General doubles as the fallback.
var categoryPriority = []Category{
	CategorySystem,
	CategorySettings,
	CategoryOffice,
	CategoryGraphics,
	CategoryMultimedia,
	CategoryInternet,
	CategoryGames,
	CategoryDevelopment,
	CategoryGeneral,
}

// MapCategories assigns a single launcher [Category] to a set of raw
// freedesktop category keywords.
func MapCategories(keywords []string) Category {
	set := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		set[strings.ToLower(keyword)] = struct{}{}
	}

	for _, category := range categoryPriority {
		for _, keyword := range categoryKeywords[category] {
			if _, ok := set[keyword]; ok {
				return category
			}
		}
	}

	return CategoryGeneral
}

// Category returns the launcher category of the entry.
func (e *Entry) Category() Category {
	return MapCategories(e.Categories)
}

// ByCategory groups entries by their launcher category. Categories without
// entries are present with a nil slice so callers can iterate the full set.
func ByCategory(entries []*Entry) map[Category][]*Entry {
	grouped := make(map[Category][]*Entry, len(categoryPriority))
	for _, category := range Categories() {
		grouped[category] = nil
	}

	for _, entry := range entries {
		category := entry.Category()
		grouped[category] = append(grouped[category], entry)
	}

	return grouped
}
