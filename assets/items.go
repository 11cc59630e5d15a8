package assets

import (
	_ "embed"

	"satchel/internal/generate"
)

// ItemsYAML is the built-in item catalog and behavior table.
//
//go:embed items.yaml
var ItemsYAML []byte

// ItemSpawns is the weighted table the arena populator draws from.
var ItemSpawns = []generate.ItemSpawnEntry{
	{ItemID: "cube", Amount: 1, Weight: 4},
	{ItemID: "sphere", Amount: 1, Weight: 4},
	{ItemID: "feather", Amount: 3, Weight: 2},
	{ItemID: "pepper", Amount: 1, Weight: 1},
}
