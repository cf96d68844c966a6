package camera

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

func TestUpdateWithArrowInputMovesCamera(t *testing.T) {
	cam := New(math.Vec2i{X: 100, Y: 50})
	if cam.Position() != (math.Vec2{}) {
		t.Fatalf("expected camera at origin, got %v", cam.Position())
	}

	state := input.NewState(nil)
	state.SetButton(input.MoveCameraRight, true)
	state.SetButton(input.MoveCameraUp, true)

	cam.Update(state, 20*time.Millisecond)

	if cam.Position().X <= 0 {
		t.Errorf("expected camera to move right, got %v", cam.Position())
	}
	// Up is towards negative Y on the render plane
	if cam.Position().Y >= 0 {
		t.Errorf("expected camera to move up, got %v", cam.Position())
	}
}

func TestUpdateWithDifferentSpeeds(t *testing.T) {
	slow := New(math.Vec2i{X: 100, Y: 50})
	slow.SetMoveSpeed(1)
	fast := New(math.Vec2i{X: 100, Y: 50})
	fast.SetMoveSpeed(2)

	state := input.NewState(nil)
	state.SetButton(input.MoveCameraRight, true)

	slow.Update(state, 20*time.Millisecond)
	fast.Update(state, 20*time.Millisecond)

	if slow.Position().X >= fast.Position().X {
		t.Errorf("fast camera should move further: slow=%v fast=%v", slow.Position(), fast.Position())
	}
}

func TestScreenToWorldAtOriginWithoutZoom(t *testing.T) {
	cam := New(math.Vec2i{X: 100, Y: 50})

	tests := []struct {
		name   string
		screen math.Vec2i
		want   math.Vec2i
	}{
		{"screen center", math.Vec2i{X: 50, Y: 26}, math.Vec2i{X: 0, Y: 0}},
		{"one tile down", math.Vec2i{X: 50, Y: 26 + 16}, math.Vec2i{X: 1, Y: 1}},
		{"half tile right", math.Vec2i{X: 50 + 16, Y: 26}, math.Vec2i{X: 0, Y: -1}},
		{"further away", math.Vec2i{X: 50 + 16, Y: 26 + 16*20}, math.Vec2i{X: 20, Y: 19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.ScreenToTile(tt.screen); got != tt.want {
				t.Errorf("ScreenToTile(%v) = %v, want %v", tt.screen, got, tt.want)
			}
		})
	}
}

func TestScreenToWorldWithZoom(t *testing.T) {
	cam := New(math.Vec2i{X: 100, Y: 50})
	cam.SetZoom(4)

	if got := cam.ScreenToTile(math.Vec2i{X: 50, Y: 26}); got != (math.Vec2i{}) {
		t.Errorf("center = %v, want (0, 0)", got)
	}

	// One world unit takes 16 px at zoom 1 and 64 px at zoom 4
	if got := cam.ScreenToTile(math.Vec2i{X: 50, Y: 26 + 16*4}); got != (math.Vec2i{X: 1, Y: 1}) {
		t.Errorf("center + 64px = %v, want (1, 1)", got)
	}
	if got := cam.ScreenToTile(math.Vec2i{X: 50, Y: 26 + 16}); got != (math.Vec2i{}) {
		t.Errorf("center + 16px at zoom 4 = %v, want (0, 0)", got)
	}
}

func TestZoomScalesScreenDistance(t *testing.T) {
	res := math.Vec2i{X: 100, Y: 50}
	center := math.Vec2i{X: 50, Y: 25}

	for _, zoom := range []int32{1, 2, 4} {
		cam := New(res)
		cam.SetZoom(zoom)

		// Moving (TileHeight+TileSeam)*zoom pixels down advances one world unit on each axis
		a := cam.ScreenToWorld(center)
		b := cam.ScreenToWorld(center.Add(math.Vec2i{Y: (TileHeight + TileSeam) * zoom}))
		d := b.Sub(a)
		if !near(d.X, 1) || !near(d.Y, 1) {
			t.Errorf("zoom %d: world delta = %v, want (1, 1)", zoom, d)
		}
	}
}

func TestScreenToWorldWithPosition(t *testing.T) {
	cam := New(math.Vec2i{X: 100, Y: 50})
	cam.SetPosition(math.Vec2{X: -16, Y: 30})

	if got := cam.ScreenToTile(math.Vec2i{X: 50, Y: 26}); got != (math.Vec2i{X: 1, Y: 2}) {
		t.Errorf("center = %v, want (1, 2)", got)
	}
	if got := cam.ScreenToTile(math.Vec2i{X: 50, Y: 26 + 15}); got != (math.Vec2i{X: 2, Y: 3}) {
		t.Errorf("center + 15px = %v, want (2, 3)", got)
	}
}

func TestCameraTranslationIsLinear(t *testing.T) {
	res := math.Vec2i{X: 1280, Y: 720}
	points := []math.Vec2i{{X: 0, Y: 0}, {X: 640, Y: 360}, {X: 1000, Y: 17}, {X: 3, Y: 719}}
	offsets := []math.Vec2{{X: 32, Y: 0}, {X: 0, Y: 16}, {X: -48.5, Y: 100.25}}

	for _, zoom := range []int32{1, 3} {
		base := New(res)
		base.SetZoom(zoom)

		for _, off := range offsets {
			moved := New(res)
			moved.SetZoom(zoom)
			moved.SetPosition(off)
			shift := RenderPlaneToWorld(off)

			for _, p := range points {
				want := base.ScreenToWorld(p).Add(shift)
				got := moved.ScreenToWorld(p)
				if !near(got.X, want.X) || !near(got.Y, want.Y) {
					t.Errorf("zoom %d offset %v point %v: got %v, want %v", zoom, off, p, got, want)
				}
			}
		}
	}
}

func TestWorldToRenderPlaneIsInverse(t *testing.T) {
	points := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 5, Y: -3}, {X: 0.25, Y: 7.5}}

	for _, w := range points {
		back := RenderPlaneToWorld(WorldToRenderPlane(w))
		if !near(back.X, w.X) || !near(back.Y, w.Y) {
			t.Errorf("round trip of %v gave %v", w, back)
		}
	}

	// One step along the world diagonal is exactly one seam-corrected tile height down
	if got := WorldToRenderPlane(math.Vec2{X: 1, Y: 1}); got != (math.Vec2{X: 0, Y: TileHeight + TileSeam}) {
		t.Errorf("WorldToRenderPlane(1, 1) = %v", got)
	}
}

func TestContainingTileUsesFloor(t *testing.T) {
	tests := []struct {
		in   math.Vec2
		want math.Vec2i
	}{
		{math.Vec2{X: 1, Y: 1}, math.Vec2i{X: 1, Y: 1}},
		{math.Vec2{X: 0.99, Y: 1.99}, math.Vec2i{X: 0, Y: 1}},
		{math.Vec2{X: -0.01, Y: -0.5}, math.Vec2i{X: -1, Y: -1}},
	}
	for _, tt := range tests {
		if got := ContainingTile(tt.in); got != tt.want {
			t.Errorf("ContainingTile(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestViewProjectionMapsScreenEdges(t *testing.T) {
	cam := New(math.Vec2i{X: 100, Y: 50})
	cam.SetZoom(2)
	cam.SetPosition(math.Vec2{X: 10, Y: 20})
	m := cam.ViewProjection()

	// The camera position is the center of the screen
	if got := m.TransformVec2(cam.Position()); !near(got.X, 0) || !near(got.Y, 0) {
		t.Errorf("center maps to %v, want (0, 0)", got)
	}

	// The render-plane point under the top-left pixel maps to the top-left of clip space
	topLeft := cam.ScreenToRenderPlane(math.Vec2i{})
	if got := m.TransformVec2(topLeft); !near(got.X, -1) || !near(got.Y, 1) {
		t.Errorf("top-left maps to %v, want (-1, 1)", got)
	}
}

func TestViewProjectionMatchesPickingWithOddResolution(t *testing.T) {
	tests := []struct {
		name       string
		resolution math.Vec2i
		zoom       int32
	}{
		{"odd width", math.Vec2i{X: 101, Y: 50}, 1},
		{"odd height", math.Vec2i{X: 100, Y: 51}, 1},
		{"odd both zoomed", math.Vec2i{X: 333, Y: 199}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.resolution)
			cam.SetZoom(tt.zoom)
			cam.SetPosition(math.Vec2{X: 7, Y: -3})
			m := cam.ViewProjection()

			for _, px := range []math.Vec2i{{}, {X: 40, Y: 17}, tt.resolution.Div(2), tt.resolution} {
				clip := m.TransformVec2(cam.ScreenToRenderPlane(px))
				// Clip space to pixels, Y down
				gotX := (clip.X + 1) / 2 * float32(tt.resolution.X)
				gotY := (1 - clip.Y) / 2 * float32(tt.resolution.Y)
				if gomath.Abs(float64(gotX)-float64(px.X)) > 1e-2 || gomath.Abs(float64(gotY)-float64(px.Y)) > 1e-2 {
					t.Errorf("pixel %v drawn at (%v, %v)", px, gotX, gotY)
				}
			}
		})
	}
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}
