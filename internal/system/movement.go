package system

import (
	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/vecmath"
)

// CameraRelative turns a stick-style input (x = right, y = forward) into a
// flat world direction for a camera looking along yaw.
func CameraRelative(input vecmath.Vec2, yaw float64) vecmath.Vec3 {
	fwd := vecmath.YawForward(yaw).Scale(input.Y)
	right := vecmath.YawRight(yaw).Scale(input.X)
	return fwd.Add(right)
}

// AccelerationFactor scales acceleration by how far the desired direction
// turns away from the current velocity: reverseBoost when opposite (dot -1),
// 1 when aligned (dot 1), linear in between.
func AccelerationFactor(dot, reverseBoost float64) float64 {
	t := (vecmath.Clamp(dot, -1, 1) + 1) / 2
	return reverseBoost + (1-reverseBoost)*t
}

// Move steers body's horizontal velocity toward dir*MaxSpeed. Vertical
// velocity is left alone.
func Move(body component.Body, dir vecmath.Vec3, dt float64, m component.Mover) component.Body {
	cur := body.Velocity
	desired := dir.Flatten().Scale(m.MaxSpeed)

	var accel float64
	if dir.IsZero() {
		accel = m.MaxDeceleration
	} else {
		dot := cur.Flatten().Normalize().Dot(desired.Normalize())
		accel = m.MaxAcceleration * AccelerationFactor(dot, m.ReverseBoost)
	}

	next := vecmath.MoveTowards(cur.Flatten(), desired, accel*dt)
	body.Velocity = next.WithY(cur.Y)
	return body
}

// MovePlayer applies one frame of camera-relative movement to id and turns it
// to face the camera.
func MovePlayer(w *ecs.World, id ecs.EntityID, input vecmath.Vec2, yaw, dt float64) {
	tc, bc, mc := w.Get(id, component.CTransform), w.Get(id, component.CBody), w.Get(id, component.CMover)
	if tc == nil || bc == nil || mc == nil {
		return
	}
	tr := tc.(component.Transform)
	tr.Yaw = yaw
	w.Add(id, tr)
	w.Add(id, Move(bc.(component.Body), CameraRelative(input, yaw), dt, mc.(component.Mover)))
}
