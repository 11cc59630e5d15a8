package generate

import (
	"math/rand"
	"testing"

	"satchel/internal/gamemap"
)

// makeBaseConfig returns a Config with a two-entry table and a fixed seed.
func makeBaseConfig(itemCount int) *Config {
	return &Config{
		ItemCount: itemCount,
		ItemTable: []ItemSpawnEntry{
			{ItemID: "cube", Amount: 1, Weight: 3},
			{ItemID: "feather", Amount: 2, Weight: 1},
		},
		Rand: rand.New(rand.NewSource(42)),
	}
}

func TestPopulateCount(t *testing.T) {
	gmap := gamemap.New(20, 12)
	got := Populate(gmap, makeBaseConfig(8))
	if len(got) != 8 {
		t.Fatalf("spawned %d items; want 8", len(got))
	}
}

func TestPopulateWalkableAndDistinct(t *testing.T) {
	gmap := gamemap.New(20, 12)
	seen := map[[2]int]bool{}
	for _, s := range Populate(gmap, makeBaseConfig(30)) {
		if !gmap.IsWalkable(s.X, s.Z) {
			t.Errorf("item at (%d,%d) is not on the floor", s.X, s.Z)
		}
		if seen[[2]int{s.X, s.Z}] {
			t.Errorf("two items share cell (%d,%d)", s.X, s.Z)
		}
		seen[[2]int{s.X, s.Z}] = true
	}
}

func TestPopulateRespectsClearance(t *testing.T) {
	gmap := gamemap.New(20, 12)
	cfg := makeBaseConfig(40)
	cfg.Avoid = []SpawnPoint{{X: 10, Z: 6}}
	cfg.Clearance = 2
	for _, s := range Populate(gmap, cfg) {
		if abs(s.X-10) <= 2 && abs(s.Z-6) <= 2 {
			t.Errorf("item at (%d,%d) inside clearance of (10,6)", s.X, s.Z)
		}
	}
}

func TestPopulateStopsWhenFloorIsFull(t *testing.T) {
	// 4x4 map has a 2x2 floor.
	gmap := gamemap.New(4, 4)
	got := Populate(gmap, makeBaseConfig(10))
	if len(got) != 4 {
		t.Errorf("spawned %d items on a 4-cell floor; want 4", len(got))
	}
}

func TestPopulateEmptyTable(t *testing.T) {
	gmap := gamemap.New(10, 10)
	cfg := makeBaseConfig(5)
	cfg.ItemTable = []ItemSpawnEntry{{ItemID: "cube", Weight: 0}}
	if got := Populate(gmap, cfg); len(got) != 0 {
		t.Errorf("zero-weight table spawned %d items", len(got))
	}
}

func TestPickWeightedDistribution(t *testing.T) {
	table := makeBaseConfig(0).ItemTable
	rng := rand.New(rand.NewSource(1))
	counts := map[string]int{}
	for range 4000 {
		counts[pickWeighted(table, totalWeight(table), rng).ItemID]++
	}
	// cube has weight 3 of 4.
	if counts["cube"] < 2700 || counts["cube"] > 3300 {
		t.Errorf("cube drawn %d/4000 times; want about 3000", counts["cube"])
	}
}
