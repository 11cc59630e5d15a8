package system

import (
	"testing"

	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/gamemap"
	"satchel/internal/vecmath"
)

func setupBody(pos, vel vecmath.Vec3, grounded bool) (*ecs.World, *gamemap.GameMap, ecs.EntityID) {
	w := ecs.NewWorld()
	gmap := gamemap.New(10, 10)
	id := w.CreateEntity()
	w.Add(id, component.Transform{Pos: pos})
	w.Add(id, component.Body{Velocity: vel, Grounded: grounded})
	return w, gmap, id
}

func TestIntegrateRestingBodyStays(t *testing.T) {
	w, gmap, id := setupBody(vecmath.Vec3{X: 5, Z: 5}, vecmath.Zero, true)
	Integrate(w, gmap, DefaultGravity, 0.1)
	tr := w.Get(id, component.CTransform).(component.Transform)
	b := w.Get(id, component.CBody).(component.Body)
	if tr.Pos != (vecmath.Vec3{X: 5, Z: 5}) || !b.Grounded || !b.Velocity.IsZero() {
		t.Errorf("resting body moved: pos=%+v body=%+v", tr.Pos, b)
	}
}

func TestIntegrateJumpLandsAgain(t *testing.T) {
	w, gmap, id := setupBody(vecmath.Vec3{X: 5, Z: 5}, vecmath.Vec3{Y: 10}, true)

	Integrate(w, gmap, DefaultGravity, 0.05)
	b := w.Get(id, component.CBody).(component.Body)
	if b.Grounded {
		t.Fatal("body should be airborne after a jump")
	}
	if tr := w.Get(id, component.CTransform).(component.Transform); tr.Pos.Y <= 0 {
		t.Fatalf("y = %v; want above the floor", tr.Pos.Y)
	}

	for range 100 {
		Integrate(w, gmap, DefaultGravity, 0.05)
	}
	b = w.Get(id, component.CBody).(component.Body)
	tr := w.Get(id, component.CTransform).(component.Transform)
	if !b.Grounded || tr.Pos.Y != 0 || b.Velocity.Y != 0 {
		t.Errorf("body should have landed: pos=%+v body=%+v", tr.Pos, b)
	}
}

func TestIntegrateStopsAtWall(t *testing.T) {
	w, gmap, id := setupBody(vecmath.Vec3{X: 8.5, Z: 5}, vecmath.Vec3{X: 20, Z: 1}, true)
	Integrate(w, gmap, DefaultGravity, 0.5)

	tr := w.Get(id, component.CTransform).(component.Transform)
	b := w.Get(id, component.CBody).(component.Body)
	x, z := gmap.Cell(tr.Pos)
	if !gmap.IsWalkable(x, z) {
		t.Errorf("body ended in wall cell (%d,%d)", x, z)
	}
	if b.Velocity.X != 0 {
		t.Errorf("Vx = %v; want 0 after hitting the wall", b.Velocity.X)
	}
	if b.Velocity.Z != 1 {
		t.Errorf("Vz = %v; want unchanged 1", b.Velocity.Z)
	}
}
