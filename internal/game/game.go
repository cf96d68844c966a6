// Package game implements the simulation side of the client: it owns the
// grid, the camera and the input state, and builds a scene description
// every tick.
package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/warp-horizon/internal/config"
	"github.com/Faultbox/warp-horizon/internal/engine/camera"
	"github.com/Faultbox/warp-horizon/internal/engine/exchange"
	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/internal/engine/picking"
	"github.com/Faultbox/warp-horizon/internal/engine/scene"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/internal/game/world"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// How long the skip policy waits before checking for the frame buffer again.
const idleWait = time.Millisecond

// Game is the simulation state and loop.
type Game struct {
	config *config.Config
	sim    *exchange.Sim
	log    *zap.Logger

	state  *input.State
	camera *camera.Camera
	grid   *world.Grid
	picker *picking.GridInputController
	view   *View
	timer  *FrameTimer

	events []input.Event

	// Stats
	ticks     uint64
	frames    uint64
	skipped   uint64
	lastRects int
}

// New creates the simulation and queues its textures on the exchange.
func New(cfg *config.Config, sim *exchange.Sim, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cam := camera.New(math.Vec2i{X: int32(cfg.Window.Width), Y: int32(cfg.Window.Height)})
	cam.SetZoom(int32(cfg.Camera.Zoom))
	cam.SetMoveSpeed(cfg.Camera.MoveSpeed)
	cam.SetPosition(math.Vec2{X: cfg.Camera.Position[0], Y: cfg.Camera.Position[1]})

	g := &Game{
		config: cfg,
		sim:    sim,
		log:    log,
		state:  input.NewState(input.DefaultBindings()),
		camera: cam,
		grid:   world.NewGrid(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Seed),
		picker: picking.NewGridInputController(),
		timer:  NewFrameTimer(),
	}

	ground, err := g.loadTexture(cfg.Assets.TileTexture, GroundTexture)
	if err != nil {
		return nil, err
	}
	selection, err := g.loadTexture(cfg.Assets.SelectionTexture, SelectionTexture)
	if err != nil {
		return nil, err
	}
	g.view = NewView(ground, selection)

	log.Info("simulation initialized",
		zap.Int("grid_width", cfg.Grid.Width),
		zap.Int("grid_height", cfg.Grid.Height),
		zap.Int64("seed", cfg.Grid.Seed),
		zap.String("frame_policy", cfg.Render.FramePolicy),
	)
	return g, nil
}

func (g *Game) loadTexture(path string, fallback func() *image.RGBA) (texture.ID, error) {
	if path != "" {
		id, err := g.sim.LoadTexture(path)
		if err != nil {
			return 0, fmt.Errorf("queueing texture %s: %w", path, err)
		}
		return id, nil
	}
	id, err := g.sim.LoadTextureImage(fallback())
	if err != nil {
		return 0, fmt.Errorf("queueing generated texture: %w", err)
	}
	return id, nil
}

// Camera returns the main camera.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Grid returns the world grid.
func (g *Game) Grid() *world.Grid {
	return g.grid
}

// Selected returns the tile under the cursor.
func (g *Game) Selected() (math.Vec2i, bool) {
	return g.picker.Selected()
}

// Run ticks the simulation until close is requested, ctx is cancelled or
// the render side stops. It always closes the exchange before returning.
func (g *Game) Run(ctx context.Context) error {
	defer g.sim.Close()

	g.log.Info("starting simulation loop")
	fpsTimer := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			g.log.Info("simulation cancelled")
			return nil
		}

		done, err := g.tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				g.log.Info("simulation cancelled")
				return nil
			}
			if errors.Is(err, exchange.ErrClosed) {
				g.log.Info("render side stopped, ending simulation")
				return nil
			}
			return err
		}
		if done {
			g.log.Info("close requested", zap.Uint64("ticks", g.ticks), zap.Uint64("frames", g.frames))
			return nil
		}

		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps",
				zap.Uint64("frames", g.frames),
				zap.Uint64("skipped", g.skipped),
				zap.Uint64("ticks", g.ticks),
				zap.Int("rects", g.lastRects),
			)
			g.frames, g.skipped, g.ticks = 0, 0, 0
			fpsTimer = time.Now()
		}
	}
}

// tick advances the simulation once and submits a frame if the buffer is
// available. It reports true when the loop should end.
func (g *Game) tick(ctx context.Context) (bool, error) {
	dt := g.timer.Tick()
	g.ticks++

	g.events = g.sim.DrainEvents(g.events[:0])
	g.state.Update(g.events)
	if g.state.CloseRequested() {
		return true, nil
	}
	if res, ok := g.state.Resized(); ok && res != g.camera.Resolution() {
		g.log.Debug("resolution changed",
			zap.Int32("width", res.X),
			zap.Int32("height", res.Y),
		)
		g.camera.SetResolution(res)
	}

	if g.state.Pressed(input.TakeScreenshot) {
		if err := g.sim.RequestScreenshot(); err != nil {
			return false, err
		}
	}

	g.camera.Update(g.state, dt)
	g.picker.Update(g.grid, g.camera, g.state)

	f, err := g.acquire(ctx)
	if err != nil {
		return false, err
	}
	if f == nil {
		g.skipped++
		return false, nil
	}

	selected, ok := g.picker.Selected()
	g.view.Build(f, g.camera, g.grid, selected, ok)
	g.lastRects = f.RectCount()
	if err := g.sim.Submit(f); err != nil {
		return false, err
	}
	g.frames++
	return false, nil
}

// acquire returns the frame buffer according to the frame policy. With the
// skip policy it returns nil when the render side still holds the buffer.
func (g *Game) acquire(ctx context.Context) (*scene.Frame, error) {
	if g.config.Render.FramePolicy == config.FramePolicyBlock {
		return g.sim.Acquire(ctx)
	}

	if f, ok := g.sim.TryAcquire(); ok {
		return f, nil
	}
	select {
	case <-g.sim.Done():
		return nil, exchange.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(idleWait):
		return nil, nil
	}
}
