package renderer

import (
	"github.com/Faultbox/warp-horizon/internal/engine/scene"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// Vertex is the layout uploaded for every rectangle corner.
type Vertex struct {
	Position math.Vec2
	UV       math.Vec2
	Bucket   float32
	Layer    float32
}

// VertexSize is the size of a Vertex in bytes.
const VertexSize = 6 * 4

// VerticesPerRect is the number of vertices emitted per rectangle.
const VerticesPerRect = 6

// appendQuad appends two triangles covering r. Both triangles are counter
// clockwise on screen (Y down in the render plane, flipped by the
// projection) so they survive clockwise face culling.
func appendQuad(dst []Vertex, r scene.Rect, loc texture.Location) []Vertex {
	x0, y0 := r.Position.X, r.Position.Y
	x1, y1 := x0+r.Size.X, y0+r.Size.Y
	b, l := float32(loc.Bucket), float32(loc.Layer)

	tl := Vertex{Position: math.Vec2{X: x0, Y: y0}, UV: math.Vec2{X: 0, Y: 0}, Bucket: b, Layer: l}
	tr := Vertex{Position: math.Vec2{X: x1, Y: y0}, UV: math.Vec2{X: 1, Y: 0}, Bucket: b, Layer: l}
	bl := Vertex{Position: math.Vec2{X: x0, Y: y1}, UV: math.Vec2{X: 0, Y: 1}, Bucket: b, Layer: l}
	br := Vertex{Position: math.Vec2{X: x1, Y: y1}, UV: math.Vec2{X: 1, Y: 1}, Bucket: b, Layer: l}

	return append(dst, tl, bl, tr, tr, bl, br)
}
