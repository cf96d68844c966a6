// Package world holds the simulated tile grid.
package world

import (
	"math/rand"

	"github.com/Faultbox/warp-horizon/pkg/math"
)

// Tile values.
const (
	TileEmpty  = 0
	TileGround = 1
)

// Grid is a fixed-size 2D array of tile values.
type Grid struct {
	width  int
	height int
	tiles  []int
}

// NewGrid creates a grid filled with a reproducible pattern of empty and
// ground tiles.
func NewGrid(width, height int, seed int64) *Grid {
	rng := rand.New(rand.NewSource(seed))
	g := &Grid{
		width:  width,
		height: height,
		tiles:  make([]int, width*height),
	}
	for i := range g.tiles {
		g.tiles[i] = int(rng.Uint32() % 2)
	}
	return g
}

// Size returns the grid dimensions in tiles.
func (g *Grid) Size() math.Vec2i {
	return math.Vec2i{X: int32(g.width), Y: int32(g.height)}
}

// Get returns the tile at (x, y), or false outside the grid.
func (g *Grid) Get(x, y int) (int, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, false
	}
	return g.tiles[x+y*g.width], true
}

// Set changes the tile at (x, y). It reports false outside the grid.
func (g *Grid) Set(x, y, value int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	g.tiles[x+y*g.width] = value
	return true
}
