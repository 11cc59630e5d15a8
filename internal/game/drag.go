package game

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"satchel/internal/view"
)

// dragState tracks a slot being dragged across the inventory grid.
type dragState struct {
	active bool
	source int
	x, y   int
}

func (d *dragState) cancel() { *d = dragState{} }

// handleMouse runs the inventory drag and drop: press grabs a slot, motion
// moves the ghost, release over a slot swaps it with the source. Releasing
// anywhere else puts the source back untouched.
func (g *Game) handleMouse(ev *tcell.EventMouse) {
	if g.view.Current() != view.Inventory {
		return
	}
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !g.drag.active:
		idx := g.renderer.SlotAt(x, y)
		if idx < 0 || g.store.Slot(idx).Empty() {
			return
		}
		g.drag = dragState{active: true, source: idx, x: x, y: y}
	case pressed:
		g.drag.x, g.drag.y = x, y
	case g.drag.active:
		source := g.drag.source
		g.drag.cancel()
		target := g.renderer.SlotAt(x, y)
		if target < 0 {
			return
		}
		if err := g.store.Swap(target, source); err != nil {
			g.logError("swap failed", err)
			return
		}
		g.log.Debug("slots swapped", zap.Int("source", source), zap.Int("target", target))
	}
}
