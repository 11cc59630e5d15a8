package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// SlotView is what the renderer needs to draw one inventory slot. The zero
// value is an empty slot.
type SlotView struct {
	Glyph    string
	Name     string
	Quantity int
}

// Empty reports whether the slot draws as empty.
func (s SlotView) Empty() bool { return s.Glyph == "" }

// HUD is the gameplay overlay: hand bar, facing, altitude and a status line.
type HUD struct {
	Hand     []SlotView
	Selected int
	Yaw      float64
	Altitude float64
	Status   string
}

// Slot boxes are slotW columns by slotH rows: "┌1────┐", "│🧊 64│", "└─────┘".
const (
	slotW   = 7
	slotH   = 3
	slotGap = 1
)

// DrawHUD renders the hand bar and status line at the bottom of the screen.
func (r *Renderer) DrawHUD(h HUD) {
	_, screenH := r.screen.Size()
	hudY := screenH - hudRows

	r.drawHLine(hudY, tcell.ColorGray)

	x := 1
	for i, slot := range h.Hand {
		style := styleHandSlot
		if i == h.Selected {
			style = styleSelected
		}
		r.drawSlot(x, hudY+1, slot, style, rune('1'+i))
		x += slotW + slotGap
	}

	info := fmt.Sprintf("facing %s", FacingArrow(h.Yaw))
	if h.Altitude > 0.05 {
		info += fmt.Sprintf("  alt %.1f", h.Altitude)
	}
	r.drawText(x+1, hudY+2, info, styleDim)

	if sel := h.Selected; sel >= 0 && sel < len(h.Hand) && !h.Hand[sel].Empty() {
		r.drawText(x+1, hudY+1, h.Hand[sel].Name, styleText)
	}
	r.drawText(0, hudY+4, h.Status, styleStatus)
}

// drawSlot draws one slot box with its top-left corner at (x, y). label, when
// non-zero, is written into the top border.
func (r *Renderer) drawSlot(x, y int, slot SlotView, style tcell.Style, label rune) {
	r.drawBox(x, y, slotW, slotH, style)
	if label != 0 {
		r.screen.SetContent(x+1, y, label, nil, style)
	}
	if slot.Empty() {
		return
	}
	r.putGlyph(x+1, y+1, slot.Glyph, styleText)
	if q := quantityLabel(slot.Quantity); q != "" {
		r.drawText(x+slotW-1-len(q), y+1, q, styleText)
	}
}

// quantityLabel is blank for single items and "++" past two digits.
func quantityLabel(n int) string {
	switch {
	case n <= 1:
		return ""
	case n > 99:
		return "++"
	}
	return fmt.Sprint(n)
}

func (r *Renderer) drawBox(x, y, w, h int, style tcell.Style) {
	for i := 1; i < w-1; i++ {
		r.screen.SetContent(x+i, y, '─', nil, style)
		r.screen.SetContent(x+i, y+h-1, '─', nil, style)
	}
	for j := 1; j < h-1; j++ {
		r.screen.SetContent(x, y+j, '│', nil, style)
		r.screen.SetContent(x+w-1, y+j, '│', nil, style)
		for i := 1; i < w-1; i++ {
			r.screen.SetContent(x+i, y+j, ' ', nil, style)
		}
	}
	r.screen.SetContent(x, y, '┌', nil, style)
	r.screen.SetContent(x+w-1, y, '┐', nil, style)
	r.screen.SetContent(x, y+h-1, '└', nil, style)
	r.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(1, runewidth.RuneWidth(ch))
	}
}
