// Package generate scatters collectible items across the arena floor.
package generate

import (
	"math/rand"

	"satchel/internal/gamemap"
)

// ItemSpawnEntry is one row of the weighted spawn table.
type ItemSpawnEntry struct {
	ItemID string
	Amount int
	Weight int // relative chance; entries with Weight <= 0 never spawn
}

// SpawnPoint is a cell coordinate on the arena floor.
type SpawnPoint struct {
	X, Z int
}

// ItemSpawn describes one item to create.
type ItemSpawn struct {
	Entry ItemSpawnEntry
	X, Z  int
}

// Config drives one Populate pass.
type Config struct {
	ItemCount int
	ItemTable []ItemSpawnEntry
	// Avoid lists cells already in use (the player, items still lying around).
	Avoid []SpawnPoint
	// Clearance is the Chebyshev distance to keep from every Avoid cell.
	Clearance int
	Rand      *rand.Rand
}

// Populate places up to cfg.ItemCount items on distinct walkable cells. It
// returns fewer when the floor runs out of free cells.
func Populate(gmap *gamemap.GameMap, cfg *Config) []ItemSpawn {
	total := totalWeight(cfg.ItemTable)
	if total == 0 || cfg.ItemCount <= 0 {
		return nil
	}

	type pt = [2]int
	occupied := make(map[pt]bool)
	var free []pt
	for z := range gmap.Depth {
		for x := range gmap.Width {
			if gmap.IsWalkable(x, z) && !nearAny(x, z, cfg.Avoid, cfg.Clearance) {
				free = append(free, pt{x, z})
			}
		}
	}

	var out []ItemSpawn
	for range cfg.ItemCount {
		if len(occupied) == len(free) {
			break
		}
		p := pickFree(free, occupied, cfg.Rand)
		occupied[p] = true
		entry := pickWeighted(cfg.ItemTable, total, cfg.Rand)
		out = append(out, ItemSpawn{Entry: entry, X: p[0], Z: p[1]})
	}
	return out
}

func totalWeight(table []ItemSpawnEntry) int {
	n := 0
	for _, e := range table {
		if e.Weight > 0 {
			n += e.Weight
		}
	}
	return n
}

// pickWeighted draws one entry; total must be totalWeight(table) and positive.
func pickWeighted(table []ItemSpawnEntry, total int, rng *rand.Rand) ItemSpawnEntry {
	r := rng.Intn(total)
	for _, e := range table {
		if e.Weight <= 0 {
			continue
		}
		if r < e.Weight {
			return e
		}
		r -= e.Weight
	}
	return table[len(table)-1]
}

// pickFree tries up to 20 random cells, then falls back to a linear scan so
// a nearly full floor still terminates.
func pickFree(free [][2]int, occupied map[[2]int]bool, rng *rand.Rand) [2]int {
	const maxAttempts = 20
	for range maxAttempts {
		p := free[rng.Intn(len(free))]
		if !occupied[p] {
			return p
		}
	}
	for _, p := range free {
		if !occupied[p] {
			return p
		}
	}
	return free[0]
}

func nearAny(x, z int, avoid []SpawnPoint, clearance int) bool {
	for _, a := range avoid {
		if abs(x-a.X) <= clearance && abs(z-a.Z) <= clearance {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
