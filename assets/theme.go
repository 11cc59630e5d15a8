package assets

import "github.com/gdamore/tcell/v2"

// Glyphs for things that are not catalog items.
const (
	GlyphPlayer  = "🧍"
	GlyphUnknown = "❔"
	GlyphWall    = "▒"
	GlyphFloor   = "·"
)

// Colors shared by the renderer and the factory.
var (
	ColorPlayer = tcell.ColorYellow
	ColorItem   = tcell.ColorGreen
	ColorWall   = tcell.ColorGray
	ColorFloor  = tcell.ColorDarkSlateGray
)
