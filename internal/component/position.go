package component

import (
	"satchel/internal/ecs"
	"satchel/internal/vecmath"
)

const (
	CTransform ecs.ComponentType = 1
	CBody      ecs.ComponentType = 2
)

// Transform places an entity in the arena. Yaw is only meaningful for the
// player, whose facing follows the camera.
type Transform struct {
	Pos vecmath.Vec3
	Yaw float64
}

func (Transform) Type() ecs.ComponentType { return CTransform }

// Forward is the flat unit vector the entity faces.
func (t Transform) Forward() vecmath.Vec3 { return vecmath.YawForward(t.Yaw) }

// Body is a simple point mass integrated by the physics system.
type Body struct {
	Velocity vecmath.Vec3
	Grounded bool
}

func (Body) Type() ecs.ComponentType { return CBody }
