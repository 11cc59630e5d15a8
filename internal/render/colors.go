package render

import "github.com/gdamore/tcell/v2"

// Styles shared by the arena, HUD and inventory screens.
var (
	styleArena    = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleSlot     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHandSlot = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleGhost    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorLightCyan).Bold(true)
)
