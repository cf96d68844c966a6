// Package scene describes what the render side draws for one frame: an
// ordered list of camera layers, each holding ordered batches of textured
// rectangles. The builder methods are the only way to add content, which
// keeps the nesting exactly one level deep.
package scene

import (
	"fmt"

	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// State tracks where a frame is in its round trip between the simulation
// and the render side.
type State int

const (
	// Idle frames are owned by the simulation and may be built.
	Idle State = iota
	// InTransit frames were submitted and wait in the command queue.
	InTransit
	// Rendering frames are being drawn by the render side.
	Rendering
	// Returned frames are on their way back to the simulation.
	Returned
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InTransit:
		return "in-transit"
	case Rendering:
		return "rendering"
	case Returned:
		return "returned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Rect is a textured rectangle. Position is its top-left corner in
// render-plane units; Y grows downwards.
type Rect struct {
	Position math.Vec2
	Size     math.Vec2
	Texture  texture.ID
}

// Batch is a group of rectangles drawn with a single draw call.
type Batch struct {
	frame *Frame
	rects []Rect
}

// Rect appends a rectangle to the batch.
func (b *Batch) Rect(position, size math.Vec2, id texture.ID) {
	b.frame.mustBeIdle("add rect")
	b.rects = append(b.rects, Rect{Position: position, Size: size, Texture: id})
}

// Rects returns the rectangles in draw order.
func (b *Batch) Rects() []Rect {
	return b.rects
}

// CameraLayer is a set of batches drawn through one camera.
type CameraLayer struct {
	frame    *Frame
	position math.Vec2
	zoom     int32
	batches  []*Batch
	used     int
}

// Position returns the render-plane point shown at the screen center.
func (l *CameraLayer) Position() math.Vec2 {
	return l.position
}

// Zoom returns the integer zoom factor.
func (l *CameraLayer) Zoom() int32 {
	return l.zoom
}

// Batch starts a new batch in this layer.
func (l *CameraLayer) Batch() *Batch {
	l.frame.mustBeIdle("add batch")
	if l.used == len(l.batches) {
		l.batches = append(l.batches, &Batch{frame: l.frame})
	}
	b := l.batches[l.used]
	b.rects = b.rects[:0]
	l.used++
	return b
}

// Batches returns the batches in draw order.
func (l *CameraLayer) Batches() []*Batch {
	return l.batches[:l.used]
}

// Frame is a complete scene description. Frames are reused: Reset keeps the
// allocated storage of layers, batches and rectangles.
type Frame struct {
	state  State
	seq    uint64
	layers []*CameraLayer
	used   int
}

// NewFrame returns an empty Idle frame.
func NewFrame() *Frame {
	return &Frame{}
}

// Camera starts a new camera layer. Zoom must be at least 1.
func (f *Frame) Camera(position math.Vec2, zoom int32) *CameraLayer {
	f.mustBeIdle("add camera layer")
	if zoom < 1 {
		panic(fmt.Sprintf("scene: camera zoom %d < 1", zoom))
	}
	if f.used == len(f.layers) {
		f.layers = append(f.layers, &CameraLayer{frame: f})
	}
	l := f.layers[f.used]
	l.position = position
	l.zoom = zoom
	l.used = 0
	f.used++
	return l
}

// Layers returns the camera layers in draw order.
func (f *Frame) Layers() []*CameraLayer {
	return f.layers[:f.used]
}

// Reset empties an Idle frame.
func (f *Frame) Reset() {
	f.mustBeIdle("reset")
	f.used = 0
}

// RectCount returns the number of rectangles across all layers.
func (f *Frame) RectCount() int {
	n := 0
	for _, l := range f.Layers() {
		for _, b := range l.Batches() {
			n += len(b.rects)
		}
	}
	return n
}

// State returns the lifecycle state.
func (f *Frame) State() State {
	return f.state
}

// Seq returns how many times the frame has been submitted.
func (f *Frame) Seq() uint64 {
	return f.seq
}

// BeginTransit marks an Idle frame as submitted.
func (f *Frame) BeginTransit() {
	f.transition(Idle, InTransit)
	f.seq++
}

// BeginRendering marks a submitted frame as received by the render side.
func (f *Frame) BeginRendering() {
	f.transition(InTransit, Rendering)
}

// MarkReturned marks a rendered frame as handed back.
func (f *Frame) MarkReturned() {
	f.transition(Rendering, Returned)
}

// Reclaim makes a returned frame Idle and empty again. Reclaiming an Idle
// frame only empties it.
func (f *Frame) Reclaim() {
	if f.state == Returned {
		f.state = Idle
	}
	f.Reset()
}

func (f *Frame) transition(from, to State) {
	if f.state != from {
		panic(fmt.Sprintf("scene: frame %d cannot move to %s from %s (want %s)", f.seq, to, f.state, from))
	}
	f.state = to
}

func (f *Frame) mustBeIdle(op string) {
	if f.state != Idle {
		panic(fmt.Sprintf("scene: %s on %s frame %d", op, f.state, f.seq))
	}
}
