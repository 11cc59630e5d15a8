package component

import "satchel/internal/ecs"

const CMover ecs.ComponentType = 4

// Mover holds the movement tuning for an agent.
type Mover struct {
	MaxSpeed        float64
	MaxAcceleration float64
	MaxDeceleration float64
	// ReverseBoost scales acceleration when input points against the current
	// velocity. 1 means no boost.
	ReverseBoost float64
}

func (Mover) Type() ecs.ComponentType { return CMover }
