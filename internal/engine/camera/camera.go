// Package camera converts between screen pixels, the camera-relative render
// plane and isometric world tile coordinates.
//
// The render plane is the space batches are built in: one unit is one screen
// pixel at zoom 1, and Y grows downwards like screen coordinates.
package camera

import (
	"time"

	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// Tile footprint of the reference tile set, in render-plane units.
const (
	TileWidth  = 32
	TileHeight = 15

	// TileSeam is the one unit of vertical overlap between adjacent tiles.
	// Picking and drawing both add it to the tile height.
	TileSeam = 1
)

// Camera is a window onto the render plane, centered on Position.
type Camera struct {
	resolution math.Vec2i
	position   math.Vec2
	zoom       int32
	moveSpeed  float32
}

// New creates a camera at the origin with zoom 1.
func New(resolution math.Vec2i) *Camera {
	return &Camera{
		resolution: resolution,
		zoom:       1,
		moveSpeed:  1,
	}
}

// Position returns the render-plane point at the center of the screen.
func (c *Camera) Position() math.Vec2 {
	return c.position
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(p math.Vec2) {
	c.position = p
}

// Zoom returns the integer zoom factor.
func (c *Camera) Zoom() int32 {
	return c.zoom
}

// SetZoom sets the zoom factor, clamped to at least 1.
func (c *Camera) SetZoom(zoom int32) {
	if zoom < 1 {
		zoom = 1
	}
	c.zoom = zoom
}

// SetMoveSpeed sets the camera speed in render-plane units per second.
func (c *Camera) SetMoveSpeed(speed float32) {
	c.moveSpeed = speed
}

// Resolution returns the screen size in pixels.
func (c *Camera) Resolution() math.Vec2i {
	return c.resolution
}

// SetResolution updates the screen size, e.g. after a window resize.
func (c *Camera) SetResolution(r math.Vec2i) {
	c.resolution = r
}

// ScreenToRenderPlane converts a screen pixel to render-plane coordinates.
func (c *Camera) ScreenToRenderPlane(p math.Vec2i) math.Vec2 {
	fromCenter := p.Sub(c.resolution.Div(2)).Float()
	return c.position.Add(fromCenter.Scale(1 / float32(c.zoom)))
}

// ScreenToWorld converts a screen pixel to fractional world coordinates.
func (c *Camera) ScreenToWorld(p math.Vec2i) math.Vec2 {
	return RenderPlaneToWorld(c.ScreenToRenderPlane(p))
}

// ScreenToTile returns the tile containing a screen pixel.
func (c *Camera) ScreenToTile(p math.Vec2i) math.Vec2i {
	return ContainingTile(c.ScreenToWorld(p))
}

// ViewProjection returns the orthographic projection * view matrix that maps
// the render plane seen by this camera to clip space.
func (c *Camera) ViewProjection() math.Mat4 {
	return ViewProjection(c.resolution, c.position, c.zoom)
}

// Update moves the camera according to the held camera buttons.
func (c *Camera) Update(state *input.State, dt time.Duration) {
	var dir math.Vec2
	if state.Button(input.MoveCameraRight) {
		dir.X++
	}
	if state.Button(input.MoveCameraLeft) {
		dir.X--
	}
	if state.Button(input.MoveCameraUp) {
		dir.Y--
	}
	if state.Button(input.MoveCameraDown) {
		dir.Y++
	}

	c.position = c.position.Add(dir.Scale(math.PerSecond(c.moveSpeed, dt)))
}

// RenderPlaneToWorld converts render-plane coordinates to fractional world
// coordinates. Every TileWidth units along X add (1, -1), every
// TileHeight+TileSeam units along Y add (1, 1).
func RenderPlaneToWorld(p math.Vec2) math.Vec2 {
	fromX := math.Vec2{X: 1, Y: -1}.Scale(p.X / TileWidth)
	fromY := math.Vec2{X: 1, Y: 1}.Scale(p.Y / (TileHeight + TileSeam))
	return fromX.Add(fromY)
}

// WorldToRenderPlane is the inverse of RenderPlaneToWorld. World (x, y) is
// the top corner of tile (x, y).
func WorldToRenderPlane(w math.Vec2) math.Vec2 {
	return math.Vec2{
		X: (w.X - w.Y) * TileWidth / 2,
		Y: (w.X + w.Y) * (TileHeight + TileSeam) / 2,
	}
}

// ContainingTile returns the tile a world point lies in. Points on a tile
// boundary belong to the tile whose origin is at or below them.
func ContainingTile(w math.Vec2) math.Vec2i {
	return w.Floor()
}

// ViewProjection builds the matrix for a camera layer: translate by -position,
// then project the visible resolution/zoom area with Y pointing down. The
// camera position sits at the integer half resolution, the same pixel
// ScreenToRenderPlane treats as the center, so odd sizes stay aligned.
func ViewProjection(resolution math.Vec2i, position math.Vec2, zoom int32) math.Mat4 {
	if zoom < 1 {
		zoom = 1
	}
	center := resolution.Div(2)
	z := float32(zoom)
	left := -float32(center.X) / z
	right := float32(resolution.X-center.X) / z
	top := -float32(center.Y) / z
	bottom := float32(resolution.Y-center.Y) / z

	projection := math.Ortho(left, right, bottom, top, -10, 10)
	view := math.Translate(-position.X, -position.Y, 0)
	return projection.Mul(view)
}
