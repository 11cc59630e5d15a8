package component

import "satchel/internal/ecs"

const CCollectible ecs.ComponentType = 5

// Collectible is an item lying in the arena waiting to be picked up.
// Claimed is set once a pickup task owns it so the trigger fires only once.
type Collectible struct {
	ItemID  string
	Amount  int
	Claimed bool
}

func (Collectible) Type() ecs.ComponentType { return CCollectible }
