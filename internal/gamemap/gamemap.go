// Package gamemap describes the walled rectangular arena the player moves in.
// World X maps to columns and world Z to rows; one world unit is one cell.
package gamemap

import (
	"math"

	"satchel/internal/vecmath"
)

// GameMap holds the tile grid for the arena. The outermost ring is wall.
type GameMap struct {
	Width, Depth int
	Tiles        [][]Tile
}

// New creates a walled arena of the given size in cells.
func New(width, depth int) *GameMap {
	tiles := make([][]Tile, depth)
	for z := range tiles {
		tiles[z] = make([]Tile, width)
		for x := range tiles[z] {
			if x == 0 || z == 0 || x == width-1 || z == depth-1 {
				tiles[z][x] = MakeWall()
			} else {
				tiles[z][x] = MakeFloor()
			}
		}
	}
	return &GameMap{Width: width, Depth: depth, Tiles: tiles}
}

// InBounds reports whether cell (x, z) is within the map.
func (m *GameMap) InBounds(x, z int) bool {
	return x >= 0 && x < m.Width && z >= 0 && z < m.Depth
}

// At returns a pointer to the tile at (x, z). Panics if out of bounds.
func (m *GameMap) At(x, z int) *Tile {
	return &m.Tiles[z][x]
}

// IsWalkable returns true when (x, z) is in bounds and walkable.
func (m *GameMap) IsWalkable(x, z int) bool {
	if !m.InBounds(x, z) {
		return false
	}
	return m.Tiles[z][x].Walkable
}

// Cell returns the cell containing world position p.
func (m *GameMap) Cell(p vecmath.Vec3) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Z))
}

// CellCenter returns the world position at the middle of cell (x, z), on the
// floor.
func (m *GameMap) CellCenter(x, z int) vecmath.Vec3 {
	return vecmath.Vec3{X: float64(x) + 0.5, Z: float64(z) + 0.5}
}

// Center returns the middle of the arena floor.
func (m *GameMap) Center() vecmath.Vec3 {
	return vecmath.Vec3{X: float64(m.Width) / 2, Z: float64(m.Depth) / 2}
}

// Clamp keeps p inside the walls. The second result reports which horizontal
// axes were clipped so the caller can cancel velocity along them.
func (m *GameMap) Clamp(p vecmath.Vec3) (vecmath.Vec3, [2]bool) {
	var hit [2]bool
	lo := 1.0
	hiX := float64(m.Width-1) - 1e-6
	hiZ := float64(m.Depth-1) - 1e-6
	if p.X < lo || p.X > hiX {
		p.X = vecmath.Clamp(p.X, lo, hiX)
		hit[0] = true
	}
	if p.Z < lo || p.Z > hiZ {
		p.Z = vecmath.Clamp(p.Z, lo, hiZ)
		hit[1] = true
	}
	return p, hit
}
