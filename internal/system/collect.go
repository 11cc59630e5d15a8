package system

import (
	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/vecmath"
)

// StartFunc begins a pickup for an item entity.
type StartFunc func(entity ecs.EntityID, itemID string, amount int, pos vecmath.Vec3)

// TriggerCollector claims every unclaimed collectible within the collector's
// radius that hasRoom accepts, and hands it to start. Items the inventory
// cannot hold are left where they are. It returns the number claimed.
func TriggerCollector(w *ecs.World, collector ecs.EntityID, hasRoom func(itemID string, amount int) bool, start StartFunc) int {
	tc, cc := w.Get(collector, component.CTransform), w.Get(collector, component.CCollector)
	if tc == nil || cc == nil {
		return 0
	}
	center := tc.(component.Transform).Pos
	radius := cc.(component.Collector).Radius
	limit := radius * radius

	claimed := 0
	for _, id := range w.Query(component.CCollectible, component.CTransform) {
		col := w.Get(id, component.CCollectible).(component.Collectible)
		if col.Claimed {
			continue
		}
		pos := w.Get(id, component.CTransform).(component.Transform).Pos
		if pos.SqrDistance(center) > limit {
			continue
		}
		if !hasRoom(col.ItemID, col.Amount) {
			continue
		}
		col.Claimed = true
		w.Add(id, col)
		start(id, col.ItemID, col.Amount, pos)
		claimed++
	}
	return claimed
}
