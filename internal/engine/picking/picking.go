// Package picking finds the grid tile under the mouse cursor.
package picking

import (
	"github.com/Faultbox/warp-horizon/internal/engine/camera"
	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// Grid is a bounded tile map.
type Grid interface {
	// Get returns the tile value, or false outside the grid.
	Get(x, y int) (int, bool)
}

// TileAt returns the grid tile containing a screen point, or false if the
// point lies outside the grid.
func TileAt(cam *camera.Camera, grid Grid, screen math.Vec2i) (math.Vec2i, bool) {
	tile := cam.ScreenToTile(screen)
	if _, ok := grid.Get(int(tile.X), int(tile.Y)); !ok {
		return math.Vec2i{}, false
	}
	return tile, true
}

// GridInputController tracks the tile under the mouse cursor.
type GridInputController struct {
	selected math.Vec2i
	has      bool
}

// NewGridInputController creates a controller with no selection.
func NewGridInputController() *GridInputController {
	return &GridInputController{}
}

// Update recomputes the selection. Nothing is selected while the mouse
// position is unknown or outside the grid.
func (c *GridInputController) Update(grid Grid, cam *camera.Camera, state *input.State) {
	pos, ok := state.MousePosition()
	if !ok {
		c.has = false
		return
	}
	c.selected, c.has = TileAt(cam, grid, pos)
}

// Selected returns the selected tile.
func (c *GridInputController) Selected() (math.Vec2i, bool) {
	return c.selected, c.has
}
