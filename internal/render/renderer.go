package render

import (
	"math"
	"slices"

	"satchel/assets"
	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/gamemap"
	"satchel/internal/vecmath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the height of the HUD strip at the bottom of the gameplay view.
const hudRows = 5

// Renderer draws the arena, HUD and inventory screen onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera

	// slotRects is the inventory grid layout from the last DrawInventory,
	// indexed by slot.
	slotRects []rect
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(0, 0, w, max(1, h-hudRows)),
	}
}

// Resize recomputes the viewport after a terminal resize.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = w
	r.camera.ViewHeight = max(1, h-hudRows)
}

// CenterOn recenters the camera on cell (x, z).
func (r *Renderer) CenterOn(x, z int) { r.camera.Center(x, z) }

// WorldToScreen converts a cell to screen coordinates.
func (r *Renderer) WorldToScreen(x, z int) (sx, sy int, visible bool) {
	return r.camera.WorldToScreen(x, z)
}

// Show flushes the frame to the terminal.
func (r *Renderer) Show() { r.screen.Show() }

// DrawFrame clears the screen and renders tiles and entities. Items in
// flight are drawn at the positions in inFlight rather than where they were
// spawned.
func (r *Renderer) DrawFrame(w *ecs.World, gmap *gamemap.GameMap, inFlight map[ecs.EntityID]vecmath.Vec3) {
	r.screen.Clear()
	r.drawMap(gmap)
	r.drawEntities(w, gmap, inFlight)
}

func (r *Renderer) drawMap(gmap *gamemap.GameMap) {
	wallStyle := styleArena.Foreground(assets.ColorWall)
	floorStyle := styleArena.Foreground(assets.ColorFloor)

	for z := range gmap.Depth {
		for x := range gmap.Width {
			sx, sy, onScreen := r.camera.WorldToScreen(x, z)
			if !onScreen {
				continue
			}
			switch gmap.At(x, z).Kind {
			case gamemap.TileWall:
				r.putGlyph(sx, sy, assets.GlyphWall, wallStyle)
				r.putGlyph(sx+1, sy, assets.GlyphWall, wallStyle)
			default:
				r.putGlyph(sx, sy, assets.GlyphFloor, floorStyle)
				r.screen.SetContent(sx+1, sy, ' ', nil, floorStyle)
			}
		}
	}
}

// renderableEntity holds sorting info for entity rendering.
type renderableEntity struct {
	order int
	pos   vecmath.Vec3
	rend  component.Renderable
}

// drawEntities renders all entities with Renderable + Transform, ordered by
// RenderOrder. Airborne entities draw above grounded ones.
func (r *Renderer) drawEntities(w *ecs.World, gmap *gamemap.GameMap, inFlight map[ecs.EntityID]vecmath.Vec3) {
	ids := w.Query(component.CRenderable, component.CTransform)
	entities := make([]renderableEntity, 0, len(ids))
	for _, id := range ids {
		pos := w.Get(id, component.CTransform).(component.Transform).Pos
		if p, ok := inFlight[id]; ok {
			pos = p
		}
		rend := w.Get(id, component.CRenderable).(component.Renderable)
		order := rend.RenderOrder
		if pos.Y > 0.5 {
			order += 100
		}
		entities = append(entities, renderableEntity{order: order, pos: pos, rend: rend})
	}

	// Lower order is drawn first (behind).
	slices.SortStableFunc(entities, func(a, b renderableEntity) int { return a.order - b.order })

	for _, e := range entities {
		x, z := gmap.Cell(e.pos)
		sx, sy, onScreen := r.camera.WorldToScreen(x, z)
		if !onScreen {
			continue
		}
		style := tcell.StyleDefault.Foreground(e.rend.FGColor).Background(tcell.ColorBlack)
		r.putGlyph(sx, sy, e.rend.Glyph, style)
	}
}

// FacingArrow returns the arrow for a yaw angle, snapped to 45°.
func FacingArrow(yaw float64) string {
	arrows := [8]string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}
	i := int(math.Round(yaw/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return arrows[i]
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen
// position (x, y) and returns its width in columns.
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) int {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return 0
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	width := runewidth.StringWidth(glyph)
	if width == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
	return max(1, width)
}
