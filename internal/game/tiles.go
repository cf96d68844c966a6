package game

import (
	"image"
	"image/color"

	"github.com/Faultbox/warp-horizon/internal/engine/camera"
)

// TileSpriteSize is the square texture size used for tile sprites. The
// diamond occupies the top TileHeight+TileSeam rows.
const TileSpriteSize = 32

var (
	groundFill    = color.RGBA{R: 74, G: 110, B: 62, A: 255}
	groundEdge    = color.RGBA{R: 52, G: 80, B: 44, A: 255}
	selectionEdge = color.RGBA{R: 255, G: 214, B: 64, A: 255}
)

// GroundTexture draws a filled tile diamond.
func GroundTexture() *image.RGBA {
	return drawDiamond(func(inside, edge bool) color.RGBA {
		switch {
		case edge:
			return groundEdge
		case inside:
			return groundFill
		}
		return color.RGBA{}
	})
}

// SelectionTexture draws the outline of a tile diamond.
func SelectionTexture() *image.RGBA {
	return drawDiamond(func(_, edge bool) color.RGBA {
		if edge {
			return selectionEdge
		}
		return color.RGBA{}
	})
}

func drawDiamond(shade func(inside, edge bool) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSpriteSize, TileSpriteSize))

	halfW := float32(camera.TileWidth) / 2
	halfH := float32(camera.TileHeight+camera.TileSeam) / 2
	// One pixel, measured in the normalized diamond distance.
	edgeWidth := 1 / halfH

	for y := 0; y < TileSpriteSize; y++ {
		for x := 0; x < TileSpriteSize; x++ {
			dx := abs(float32(x)+0.5-halfW) / halfW
			dy := abs(float32(y)+0.5-halfH) / halfH
			d := dx + dy
			inside := d <= 1
			edge := inside && d > 1-edgeWidth
			img.SetRGBA(x, y, shade(inside, edge))
		}
	}
	return img
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
