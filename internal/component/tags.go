package component

import "satchel/internal/ecs"

const (
	CTagPlayer ecs.ComponentType = 8
	CTagItem   ecs.ComponentType = 10
)

// TagPlayer marks the player-controlled entity.
type TagPlayer struct{}

func (TagPlayer) Type() ecs.ComponentType { return CTagPlayer }

// TagItem marks a pickup item in the arena.
type TagItem struct{}

func (TagItem) Type() ecs.ComponentType { return CTagItem }
