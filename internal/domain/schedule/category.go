package schedule

import "strings"

// Category classifies a task into one of four fixed buckets.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryMeeting  Category = "meeting"
	CategoryFocus    Category = "focus"
)

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryMeeting, CategoryFocus:
		return true
	}
	return false
}

// Remote event colors carry the category on the calendar side. Color ids are
// the remote provider's fixed palette identifiers.
var categoryColors = map[Category]string{
	CategoryWork:     "9",
	CategoryPersonal: "10",
	CategoryMeeting:  "6",
	CategoryFocus:    "11",
}

var colorCategories = map[string]Category{
	"9":  CategoryWork,
	"10": CategoryPersonal,
	"6":  CategoryMeeting,
	"11": CategoryFocus,
}

// Title glyphs carry the category for items authored before color support,
// and for task items (which have no color field). Both the emoji form and
// the bracketed form must be recognized on read.
var categoryGlyphs = map[Category]string{
	CategoryWork:     "\U0001F4BC", // 💼
	CategoryPersonal: "\U0001F3E0", // 🏠
	CategoryMeeting:  "\U0001F465", // 👥
	CategoryFocus:    "\U0001F3AF", // 🎯
}

var categoryBrackets = map[Category]string{
	CategoryWork:     "[W]",
	CategoryPersonal: "[P]",
	CategoryMeeting:  "[M]",
	CategoryFocus:    "[F]",
}

// ColorForCategory maps a category to its remote color id. Returns "" for
// unknown categories.
func ColorForCategory(c Category) string {
	return categoryColors[c]
}

// CategoryForColor maps a remote color id back to a category. The second
// return value is false when the color id has no mapping.
func CategoryForColor(colorID string) (Category, bool) {
	c, ok := colorCategories[colorID]
	return c, ok
}

// GlyphForCategory returns the emoji prefix written on pushed titles,
// including a trailing space. Returns "" for unknown categories.
func GlyphForCategory(c Category) string {
	g, ok := categoryGlyphs[c]
	if !ok {
		return ""
	}
	return g + " "
}

// CategoryFromTitle detects a category from a leading glyph, accepting both
// the emoji form and the bracketed form. The second return value is false
// when no glyph is present.
func CategoryFromTitle(title string) (Category, bool) {
	trimmed := strings.TrimSpace(title)
	for c, glyph := range categoryGlyphs {
		if strings.HasPrefix(trimmed, glyph) {
			return c, true
		}
	}
	for c, bracket := range categoryBrackets {
		if strings.HasPrefix(trimmed, bracket) {
			return c, true
		}
	}
	return "", false
}

// StripGlyph removes a recognized leading glyph (either form) from a title.
// Detected glyphs never reach display surfaces.
func StripGlyph(title string) string {
	trimmed := strings.TrimSpace(title)
	for _, glyph := range categoryGlyphs {
		if strings.HasPrefix(trimmed, glyph) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, glyph))
		}
	}
	for _, bracket := range categoryBrackets {
		if strings.HasPrefix(trimmed, bracket) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, bracket))
		}
	}
	return trimmed
}

// ResolveCategory applies the precedence rule when both a color and a title
// glyph are present: the color mapping wins.
func ResolveCategory(colorID, title string) (Category, bool) {
	if c, ok := CategoryForColor(colorID); ok {
		return c, true
	}
	return CategoryFromTitle(title)
}
