// Package renderer runs the render goroutine: it owns the window, the GPU
// device and the texture atlas, and serves commands from the simulation.
package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/warp-horizon/internal/engine/camera"
	"github.com/Faultbox/warp-horizon/internal/engine/exchange"
	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/internal/engine/scene"
	"github.com/Faultbox/warp-horizon/internal/engine/screenshot"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

// ErrProtocol marks a violation of the exchange protocol between the two
// sides. It is always fatal.
var ErrProtocol = errors.New("render protocol violation")

// Device is the GPU capability the runtime needs.
type Device interface {
	texture.ArrayBackend

	// Begin clears the backbuffer.
	Begin(clear [4]float32)
	// Draw issues one draw call for the vertices, with every bucket's
	// texture array bound and the given view-projection matrix.
	Draw(vertices []Vertex, samplers []texture.ArrayHandle, viewProjection math.Mat4) error
	End()
	// ReadPixels reads the backbuffer as RGBA rows, bottom row first.
	ReadPixels(width, height int) ([]byte, error)
	Resize(width, height int)
	Close()
}

// Window is the presentation surface and input source.
type Window interface {
	// PollEvents appends pending backend events to dst.
	PollEvents(dst []input.Event) []input.Event
	Size() (width, height int)
	SetTitle(title string)
	Present()
	Close()
}

// Loader reads texture files by path.
type Loader interface {
	Load(path string) ([]byte, error)
}

// Factory creates the window and device. It runs on the render goroutine
// after it has been locked to its OS thread.
type Factory func() (Window, Device, error)

// Config holds renderer configuration.
type Config struct {
	// Title is the window title; the frame rate is appended once a second.
	Title         string
	ClearColor    [4]float32
	ScreenshotDir string
}

// Runtime is a running render goroutine.
type Runtime struct {
	config Config
	link   *exchange.Render
	loader Loader
	log    *zap.Logger

	window Window
	device Device
	atlas  *texture.Manager
	shots  *screenshot.Writer

	vertices   []Vertex
	events     []input.Event
	lastSeq    uint64
	frames     uint64
	screenshot bool // capture the next frame

	fpsStart  time.Time
	fpsFrames int

	done chan struct{}
	err  error
}

// Start spawns the render goroutine and waits until the window, device and
// atlas exist. If initialization fails the goroutine exits, the exchange is
// marked done and the error is returned.
func Start(cfg Config, link *exchange.Render, loader Loader, factory Factory, log *zap.Logger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	r := &Runtime{
		config: cfg,
		link:   link,
		loader: loader,
		log:    log,
		shots:  screenshot.NewWriter(cfg.ScreenshotDir, "warp"),
		done:   make(chan struct{}),
	}

	ready := make(chan error, 1)
	go r.run(factory, ready)

	if err := <-ready; err != nil {
		<-r.done
		return nil, err
	}
	return r, nil
}

// Wait blocks until the render goroutine exits and returns its error.
func (r *Runtime) Wait() error {
	<-r.done
	return r.err
}

// Done is closed when the render goroutine exits.
func (r *Runtime) Done() <-chan struct{} {
	return r.done
}

func (r *Runtime) run(factory Factory, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.done)
	defer r.link.Done()

	window, device, err := factory()
	if err != nil {
		r.err = fmt.Errorf("initializing renderer: %w", err)
		ready <- r.err
		return
	}
	r.window = window
	r.device = device
	r.atlas = texture.NewManager(device, r.log.Named("atlas"))

	// The window may not have the requested size; the simulation learns
	// the drawable size before its first tick.
	w, h := window.Size()
	device.Resize(w, h)
	r.link.PushEvent(input.Event{Type: input.EventWindowResize, Width: w, Height: h})
	ready <- nil
	r.log.Info("render loop started", zap.Int("width", w), zap.Int("height", h))
	r.fpsStart = time.Now()

	r.err = r.loop()

	stats := r.atlas.Stats()
	r.atlas.Close()
	r.device.Close()
	r.window.Close()

	if r.err != nil {
		r.log.Error("render loop failed", zap.Error(r.err), zap.Uint64("frames", r.frames), zap.Object("atlas", stats))
	} else {
		r.log.Info("render loop stopped", zap.Uint64("frames", r.frames), zap.Object("atlas", stats))
	}
}

func (r *Runtime) loop() error {
	for {
		cmd, ok := r.link.Next()
		if !ok {
			return nil
		}
		switch c := cmd.(type) {
		case exchange.RenderFrame:
			if err := r.renderFrame(c.Frame); err != nil {
				return err
			}
		case exchange.LoadTexture:
			if err := r.loadTexture(c); err != nil {
				return err
			}
		case exchange.Screenshot:
			r.screenshot = true
		case exchange.Shutdown:
			r.log.Debug("shutdown requested")
			return nil
		default:
			return fmt.Errorf("%w: unknown command %T", ErrProtocol, cmd)
		}
	}
}

func (r *Runtime) loadTexture(c exchange.LoadTexture) error {
	start := time.Now()

	img := c.Image
	if img == nil {
		data, err := r.loader.Load(c.Path)
		if err != nil {
			return fmt.Errorf("loading texture %d: %w", c.ID, err)
		}
		img, err = texture.Decode(c.Path, data)
		if err != nil {
			return fmt.Errorf("loading texture %d: %w", c.ID, err)
		}
	}

	id, err := r.atlas.LoadImage(img)
	if err != nil {
		return fmt.Errorf("loading texture %d (%s): %w", c.ID, c.Path, err)
	}
	if id != c.ID {
		return fmt.Errorf("%w: texture %q got id %d, simulation expects %d", ErrProtocol, c.Path, id, c.ID)
	}

	r.log.Debug("texture ready",
		zap.Uint32("id", uint32(id)),
		zap.String("path", c.Path),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (r *Runtime) renderFrame(f *scene.Frame) error {
	if f.Seq() <= r.lastSeq {
		return fmt.Errorf("%w: frame %d received after frame %d", ErrProtocol, f.Seq(), r.lastSeq)
	}
	r.lastSeq = f.Seq()

	r.pollEvents()

	if err := r.atlas.PrepareForFrame(); err != nil {
		return fmt.Errorf("preparing frame %d: %w", f.Seq(), err)
	}
	samplers := r.atlas.Samplers()

	w, h := r.window.Size()
	resolution := math.Vec2i{X: int32(w), Y: int32(h)}

	r.device.Begin(r.config.ClearColor)
	for _, layer := range f.Layers() {
		vp := camera.ViewProjection(resolution, layer.Position(), layer.Zoom())
		for _, batch := range layer.Batches() {
			rects := batch.Rects()
			if need := len(rects) * VerticesPerRect; cap(r.vertices) < need {
				r.vertices = make([]Vertex, 0, need)
			}
			r.vertices = r.vertices[:0]
			for _, rect := range rects {
				loc, err := r.atlas.Resolve(rect.Texture)
				if err != nil {
					return fmt.Errorf("%w: frame %d: %w", ErrProtocol, f.Seq(), err)
				}
				r.vertices = appendQuad(r.vertices, rect, loc)
			}
			if len(r.vertices) == 0 {
				continue
			}
			if err := r.device.Draw(r.vertices, samplers, vp); err != nil {
				return fmt.Errorf("drawing frame %d: %w", f.Seq(), err)
			}
		}
	}
	r.device.End()
	if r.screenshot {
		r.screenshot = false
		r.capture(w, h)
	}
	r.window.Present()
	r.countFrame(time.Now())

	r.frames++
	r.link.Return(f)
	return nil
}

// countFrame shows the frame rate in the window title once a second.
func (r *Runtime) countFrame(now time.Time) {
	r.fpsFrames++
	elapsed := now.Sub(r.fpsStart)
	if elapsed < time.Second {
		return
	}
	fps := float64(r.fpsFrames) / elapsed.Seconds()
	r.window.SetTitle(fmt.Sprintf("%s - %.0f fps", r.config.Title, fps))
	r.fpsFrames = 0
	r.fpsStart = now
}

// capture saves the backbuffer. Failures are logged, never fatal.
func (r *Runtime) capture(width, height int) {
	pixels, err := r.device.ReadPixels(width, height)
	if err != nil {
		r.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := r.shots.WriteBottomUp(pixels, width, height)
	if err != nil {
		r.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	r.log.Info("screenshot saved", zap.String("path", path))
}

func (r *Runtime) pollEvents() {
	r.events = r.window.PollEvents(r.events[:0])
	for _, e := range r.events {
		if e.Type == input.EventWindowResize {
			r.device.Resize(e.Width, e.Height)
		}
		r.link.PushEvent(e)
	}
}
