package factory

import (
	"satchel/assets"
	"satchel/internal/catalog"
	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/vecmath"

	"github.com/gdamore/tcell/v2"
)

// PlayerParams tunes the player entity.
type PlayerParams struct {
	Mover         component.Mover
	CollectRadius float64
}

// NewPlayer creates the player entity standing at pos.
func NewPlayer(w *ecs.World, pos vecmath.Vec3, p PlayerParams) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Transform{Pos: pos})
	w.Add(id, component.Body{Grounded: true})
	w.Add(id, component.Renderable{
		Glyph:       assets.GlyphPlayer,
		FGColor:     assets.ColorPlayer,
		BGColor:     tcell.ColorDefault,
		RenderOrder: 10,
	})
	w.Add(id, p.Mover)
	w.Add(id, component.Collector{Radius: p.CollectRadius})
	w.Add(id, component.TagPlayer{})
	return id
}

// NewItem creates a collectible item entity at pos. Items without a glyph
// render as a question mark.
func NewItem(w *ecs.World, def catalog.ItemDefinition, amount int, pos vecmath.Vec3) ecs.EntityID {
	glyph := def.Glyph
	if glyph == "" {
		glyph = assets.GlyphUnknown
	}
	id := w.CreateEntity()
	w.Add(id, component.Transform{Pos: pos})
	w.Add(id, component.Renderable{
		Glyph:       glyph,
		FGColor:     assets.ColorItem,
		BGColor:     tcell.ColorDefault,
		RenderOrder: 2,
	})
	w.Add(id, component.Collectible{ItemID: def.ID, Amount: amount})
	w.Add(id, component.TagItem{})
	return id
}
