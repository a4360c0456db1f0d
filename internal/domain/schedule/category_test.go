package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorCategoryRoundTrip(t *testing.T) {
	for _, c := range []Category{CategoryWork, CategoryPersonal, CategoryMeeting, CategoryFocus} {
		colorID := ColorForCategory(c)
		assert.NotEmpty(t, colorID, "category %s has no color", c)

		back, ok := CategoryForColor(colorID)
		assert.True(t, ok)
		assert.Equal(t, c, back)
	}

	_, ok := CategoryForColor("1")
	assert.False(t, ok, "unmapped color ids must not resolve")
	assert.Empty(t, ColorForCategory(Category("unknown")))
}

func TestGlyphForCategory(t *testing.T) {
	glyph := GlyphForCategory(CategoryWork)
	assert.Equal(t, "\U0001F4BC ", glyph, "glyph carries a trailing space for the title prefix")
	assert.Empty(t, GlyphForCategory(Category("unknown")))
}

func TestCategoryFromTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  Category
		found bool
	}{
		{"emoji work glyph", "\U0001F4BC quarterly report", CategoryWork, true},
		{"emoji personal glyph", "\U0001F3E0 dentist", CategoryPersonal, true},
		{"bracket meeting glyph", "[M] standup", CategoryMeeting, true},
		{"bracket focus glyph", "[F] deep work", CategoryFocus, true},
		{"leading whitespace tolerated", "  \U0001F3AF sprint goal", CategoryFocus, true},
		{"no glyph", "plain title", "", false},
		{"glyph not at start", "report \U0001F4BC", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CategoryFromTitle(tt.title)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripGlyph(t *testing.T) {
	assert.Equal(t, "quarterly report", StripGlyph("\U0001F4BC quarterly report"))
	assert.Equal(t, "standup", StripGlyph("[M] standup"))
	assert.Equal(t, "plain title", StripGlyph("plain title"))
	assert.Equal(t, "padded", StripGlyph("  [W]  padded  "))
}

func TestResolveCategoryColorWins(t *testing.T) {
	// Color id says work, glyph says personal: the color mapping wins.
	got, ok := ResolveCategory("9", "\U0001F3E0 ambiguous")
	assert.True(t, ok)
	assert.Equal(t, CategoryWork, got)

	// Unmapped color falls back to the glyph.
	got, ok = ResolveCategory("1", "\U0001F3E0 from glyph")
	assert.True(t, ok)
	assert.Equal(t, CategoryPersonal, got)

	// Neither present.
	_, ok = ResolveCategory("", "plain")
	assert.False(t, ok)
}
