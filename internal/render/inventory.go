package render

// InventoryView is everything the inventory screen draws.
type InventoryView struct {
	Slots    []SlotView
	HandSize int
	Selected int
	Columns  int
	// Hidden is the slot being dragged, drawn empty; -1 when nothing is.
	Hidden int
	Ghost  *Ghost
	Status string
}

// Ghost is the dragged slot following the mouse.
type Ghost struct {
	X, Y int
	Slot SlotView
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// Grid origin on screen, below the title.
const (
	gridX = 2
	gridY = 3
)

// layoutGrid places capacity slot boxes in rows of columns.
func layoutGrid(capacity, columns int) []rect {
	columns = max(1, columns)
	out := make([]rect, capacity)
	for i := range out {
		col, row := i%columns, i/columns
		out[i] = rect{
			x: gridX + col*(slotW+slotGap),
			y: gridY + row*slotH,
			w: slotW,
			h: slotH,
		}
	}
	return out
}

// DrawInventory clears the screen and draws the slot grid, the drag ghost
// and the selected item's details.
func (r *Renderer) DrawInventory(v InventoryView) {
	r.screen.Clear()
	r.slotRects = layoutGrid(len(v.Slots), v.Columns)

	r.drawText(gridX, 1, "Inventory  (drag to rearrange, i or Esc to close)", styleTitle)

	for i, slot := range v.Slots {
		style := styleSlot
		var label rune
		if i < v.HandSize {
			style = styleHandSlot
			label = rune('1' + i)
		}
		if i == v.Selected {
			style = styleSelected
		}
		if i == v.Hidden {
			slot = SlotView{}
		}
		rc := r.slotRects[i]
		r.drawSlot(rc.x, rc.y, slot, style, label)
	}

	bottom := gridY
	if n := len(r.slotRects); n > 0 {
		last := r.slotRects[n-1]
		bottom = last.y + last.h + 1
	}
	if v.Selected >= 0 && v.Selected < len(v.Slots) && !v.Slots[v.Selected].Empty() {
		s := v.Slots[v.Selected]
		r.drawText(gridX, bottom, s.Name, styleText)
	}
	r.drawText(gridX, bottom+1, v.Status, styleStatus)

	if g := v.Ghost; g != nil && !g.Slot.Empty() {
		// Center the ghost box on the pointer.
		r.drawSlot(g.X-slotW/2, g.Y-slotH/2, g.Slot, styleGhost, 0)
	}
}

// SlotAt returns the slot index under screen position (x, y) in the last
// drawn inventory grid, or -1.
func (r *Renderer) SlotAt(x, y int) int {
	for i, rc := range r.slotRects {
		if rc.contains(x, y) {
			return i
		}
	}
	return -1
}
