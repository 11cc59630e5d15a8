// Package vecmath holds the small vector helpers the arena simulation needs.
package vecmath

import "math"

// Vec2 is a 2D input vector (x = right, y = forward).
type Vec2 struct {
	X, Y float64
}

// Vec3 is a world-space vector. Y is up; the arena floor is the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the zero vector.
var Zero = Vec3{}

func (v Vec3) Add(o Vec3) Vec3            { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3            { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3       { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64         { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) SqrMagnitude() float64      { return v.Dot(v) }
func (v Vec3) Magnitude() float64         { return math.Sqrt(v.SqrMagnitude()) }
func (v Vec3) IsZero() bool               { return v == Zero }
func (v Vec3) Flatten() Vec3              { return Vec3{v.X, 0, v.Z} }
func (v Vec3) WithY(y float64) Vec3       { return Vec3{v.X, y, v.Z} }
func (v Vec3) SqrDistance(o Vec3) float64 { return v.Sub(o).SqrMagnitude() }

// Normalize returns v scaled to unit length, or the zero vector when v is
// (nearly) zero.
func (v Vec3) Normalize() Vec3 {
	m := v.Magnitude()
	if m < 1e-9 {
		return Zero
	}
	return v.Scale(1 / m)
}

// MoveTowards moves current toward target by at most maxDelta without
// overshooting.
func MoveTowards(current, target Vec3, maxDelta float64) Vec3 {
	diff := target.Sub(current)
	dist := diff.Magnitude()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(diff.Scale(maxDelta / dist))
}

// YawForward returns the flat unit forward vector for a yaw angle in
// radians. Yaw 0 faces +Z; positive yaw turns toward +X.
func YawForward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// YawRight returns the flat unit right vector for a yaw angle.
func YawRight(yaw float64) Vec3 {
	return Vec3{X: math.Cos(yaw), Z: -math.Sin(yaw)}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
