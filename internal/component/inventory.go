package component

import "satchel/internal/ecs"

const CCollector ecs.ComponentType = 6

// Collector marks an entity whose inventory pulls in nearby collectibles.
type Collector struct {
	Radius float64
}

func (Collector) Type() ecs.ComponentType { return CCollector }
