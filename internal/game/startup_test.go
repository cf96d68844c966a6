package game

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/warp-horizon/internal/config"
	"github.com/Faultbox/warp-horizon/internal/engine/camera"
	"github.com/Faultbox/warp-horizon/internal/engine/exchange"
	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/internal/engine/renderer"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/internal/game/world"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// sizedWindow reports a fixed drawable size, like a fullscreen desktop window.
type sizedWindow struct {
	width, height int
}

func (w *sizedWindow) PollEvents(dst []input.Event) []input.Event { return dst }
func (w *sizedWindow) Size() (int, int) { return w.width, w.height }
func (w *sizedWindow) SetTitle(string) {}
func (w *sizedWindow) Present() {}
func (w *sizedWindow) Close() {}

// recordingDevice keeps the matrix of the last draw.
type recordingDevice struct {
	mu       sync.Mutex
	next     texture.ArrayHandle
	lastView math.Mat4
	draws    int
}

func (d *recordingDevice) CreateArray(size int, layers [][]byte) (texture.ArrayHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	return d.next, nil
}

func (d *recordingDevice) DeleteArray(texture.ArrayHandle) {}
func (d *recordingDevice) Begin([4]float32) {}
func (d *recordingDevice) End() {}
func (d *recordingDevice) Resize(int, int) {}
func (d *recordingDevice) Close() {}

func (d *recordingDevice) Draw(vertices []renderer.Vertex, samplers []texture.ArrayHandle, viewProjection math.Mat4) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastView = viewProjection
	d.draws++
	return nil
}

func (d *recordingDevice) ReadPixels(width, height int) ([]byte, error) {
	return make([]byte, width*height*4), nil
}

func TestCameraFollowsDrawableSizeAtStartup(t *testing.T) {
	cfg := testConfig(config.FramePolicyBlock)
	window := &sizedWindow{width: 200, height: 100}
	device := &recordingDevice{}

	sim, link := exchange.New(exchange.Config{CommandQueue: 8})
	rt, err := renderer.Start(renderer.Config{ScreenshotDir: t.TempDir()}, link, nil,
		func() (renderer.Window, renderer.Device, error) {
			return window, device, nil
		}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	g, err := New(cfg, sim, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	g.Grid().Set(3, 3, world.TileGround)

	if _, err := g.tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Wait for the frame to come back so the draw is recorded.
	if _, err := sim.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	sim.Close()
	if err := rt.Wait(); err != nil {
		t.Fatal(err)
	}

	if res := g.Camera().Resolution(); res != (math.Vec2i{X: 200, Y: 100}) {
		t.Fatalf("camera resolution = %v, want drawable size 200x100", res)
	}

	device.mu.Lock()
	view, draws := device.lastView, device.draws
	device.mu.Unlock()
	if draws == 0 {
		t.Fatal("nothing drawn")
	}

	// Where the renderer draws the center of tile (3, 3), picking finds tile (3, 3).
	center := camera.WorldToRenderPlane(math.Vec2{X: 3.5, Y: 3.5})
	clip := view.TransformVec2(center)
	pixel := math.Vec2i{
		X: int32((clip.X + 1) / 2 * float32(window.width)),
		Y: int32((1 - clip.Y) / 2 * float32(window.height)),
	}
	if tile := g.Camera().ScreenToTile(pixel); tile != (math.Vec2i{X: 3, Y: 3}) {
		t.Errorf("tile under drawn center %v = %v, want (3, 3)", pixel, tile)
	}
}
