package game

import (
	"github.com/Faultbox/warp-horizon/internal/engine/camera"
	"github.com/Faultbox/warp-horizon/internal/engine/scene"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/internal/game/world"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

var tileSpriteSize = math.Vec2{X: TileSpriteSize, Y: TileSpriteSize}

// View turns the simulation state into a scene description.
type View struct {
	ground    texture.ID
	selection texture.ID
}

// NewView creates a view drawing with the given textures.
func NewView(ground, selection texture.ID) *View {
	return &View{ground: ground, selection: selection}
}

// TileOrigin returns the top-left corner of a tile sprite in the render plane.
func TileOrigin(x, y int32) math.Vec2 {
	top := camera.WorldToRenderPlane(math.Vec2{X: float32(x), Y: float32(y)})
	return math.Vec2{X: top.X - camera.TileWidth/2, Y: top.Y}
}

// Build writes every non-empty tile and the selection marker into f, in one
// batch inside one camera layer.
func (v *View) Build(f *scene.Frame, cam *camera.Camera, grid *world.Grid, selected math.Vec2i, hasSelection bool) {
	batch := f.Camera(cam.Position(), cam.Zoom()).Batch()

	size := grid.Size()
	for y := int32(0); y < size.Y; y++ {
		for x := int32(0); x < size.X; x++ {
			if tile, _ := grid.Get(int(x), int(y)); tile == world.TileEmpty {
				continue
			}
			batch.Rect(TileOrigin(x, y), tileSpriteSize, v.ground)
		}
	}

	if hasSelection {
		batch.Rect(TileOrigin(selected.X, selected.Y), tileSpriteSize, v.selection)
	}
}
