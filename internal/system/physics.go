package system

import (
	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/gamemap"
)

// DefaultGravity is the downward acceleration in world units per second².
const DefaultGravity = 25.0

// Integrate advances every entity with a Transform and a Body by dt seconds:
// gravity while airborne, the floor at y=0, and the arena walls.
func Integrate(w *ecs.World, gmap *gamemap.GameMap, gravity, dt float64) {
	for _, id := range w.Query(component.CTransform, component.CBody) {
		tr := w.Get(id, component.CTransform).(component.Transform)
		body := w.Get(id, component.CBody).(component.Body)

		if !body.Grounded || body.Velocity.Y > 0 {
			body.Velocity.Y -= gravity * dt
		}
		tr.Pos = tr.Pos.Add(body.Velocity.Scale(dt))

		if tr.Pos.Y <= 0 {
			tr.Pos.Y = 0
			if body.Velocity.Y < 0 {
				body.Velocity.Y = 0
			}
			body.Grounded = true
		} else {
			body.Grounded = false
		}

		var hit [2]bool
		tr.Pos, hit = gmap.Clamp(tr.Pos)
		if hit[0] {
			body.Velocity.X = 0
		}
		if hit[1] {
			body.Velocity.Z = 0
		}

		w.Add(id, tr)
		w.Add(id, body)
	}
}
