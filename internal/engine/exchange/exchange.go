// Package exchange connects the simulation goroutine to the render goroutine.
//
// A single scene.Frame circulates between the two sides: the simulation
// builds it and submits it on the command channel, the render side draws it
// and hands it back over a return channel of capacity one. Texture loads
// travel on the same command channel so they are processed in order with
// frames. Input events flow back over an unbounded queue.
package exchange

import (
	"context"
	"errors"
	"image"

	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/internal/engine/scene"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
)

// ErrClosed is returned once the render side has stopped or the simulation
// side was closed.
var ErrClosed = errors.New("exchange closed")

// Command is a message from the simulation to the render side.
type Command interface {
	command()
}

// RenderFrame asks the render side to draw a frame and return it.
type RenderFrame struct {
	Frame *scene.Frame
}

// LoadTexture asks the render side to load a texture. Exactly one of Path
// and Image is set. ID is the id the simulation assigned; the render side
// must arrive at the same one.
type LoadTexture struct {
	ID    texture.ID
	Path  string
	Image image.Image
}

// Screenshot asks the render side to save the next rendered frame.
type Screenshot struct{}

// Shutdown asks the render side to stop.
type Shutdown struct{}

func (RenderFrame) command() {}
func (LoadTexture) command() {}
func (Screenshot) command() {}
func (Shutdown) command() {}

// Config holds exchange configuration.
type Config struct {
	// CommandQueue is the capacity of the command channel.
	CommandQueue int
}

type link struct {
	commands chan Command
	frames   chan *scene.Frame
	events   *EventQueue
	done     chan struct{}
}

// New creates both ends of an exchange with one Idle frame ready to acquire.
func New(cfg Config) (*Sim, *Render) {
	if cfg.CommandQueue < 1 {
		cfg.CommandQueue = 1
	}
	l := &link{
		commands: make(chan Command, cfg.CommandQueue),
		frames:   make(chan *scene.Frame, 1),
		events:   &EventQueue{},
		done:     make(chan struct{}),
	}
	l.frames <- scene.NewFrame()
	return &Sim{link: l}, &Render{link: l}
}

// Sim is the simulation end. It must be used from a single goroutine.
type Sim struct {
	link   *link
	nextID texture.ID
	closed bool
}

// LoadTexture queues a texture file load and returns the id it will get.
func (s *Sim) LoadTexture(path string) (texture.ID, error) {
	return s.load(LoadTexture{Path: path})
}

// LoadTextureImage queues an in-memory image load and returns the id it will get.
func (s *Sim) LoadTextureImage(img image.Image) (texture.ID, error) {
	return s.load(LoadTexture{Image: img})
}

func (s *Sim) load(cmd LoadTexture) (texture.ID, error) {
	cmd.ID = s.nextID
	if err := s.send(cmd); err != nil {
		return 0, err
	}
	s.nextID++
	return cmd.ID, nil
}

// RequestScreenshot asks the render side to capture the next frame.
func (s *Sim) RequestScreenshot() error {
	return s.send(Screenshot{})
}

// Acquire waits for the frame buffer to come back and returns it empty and Idle.
func (s *Sim) Acquire(ctx context.Context) (*scene.Frame, error) {
	if s.closed {
		return nil, ErrClosed
	}
	select {
	case f := <-s.link.frames:
		f.Reclaim()
		return f, nil
	default:
	}
	select {
	case f := <-s.link.frames:
		f.Reclaim()
		return f, nil
	case <-s.link.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire returns the frame buffer if it is back, without waiting.
func (s *Sim) TryAcquire() (*scene.Frame, bool) {
	if s.closed {
		return nil, false
	}
	select {
	case f := <-s.link.frames:
		f.Reclaim()
		return f, true
	default:
		return nil, false
	}
}

// Submit hands a built frame to the render side. The caller gives up the
// frame until it is acquired again.
func (s *Sim) Submit(f *scene.Frame) error {
	f.BeginTransit()
	return s.send(RenderFrame{Frame: f})
}

// DrainEvents appends pending input events to dst.
func (s *Sim) DrainEvents(dst []input.Event) []input.Event {
	return s.link.events.Drain(dst)
}

// Done is closed when the render side stops.
func (s *Sim) Done() <-chan struct{} {
	return s.link.done
}

// Close sends Shutdown and closes the command channel. It is safe to call
// more than once.
func (s *Sim) Close() {
	if s.closed {
		return
	}
	s.closed = true
	select {
	case s.link.commands <- Shutdown{}:
	case <-s.link.done:
	}
	close(s.link.commands)
}

func (s *Sim) send(cmd Command) error {
	if s.closed {
		return ErrClosed
	}
	select {
	case <-s.link.done:
		return ErrClosed
	default:
	}
	select {
	case s.link.commands <- cmd:
		return nil
	case <-s.link.done:
		return ErrClosed
	}
}

// Render is the render end. It must be used from a single goroutine.
type Render struct {
	link     *link
	finished bool
}

// Next waits for the next command. It returns false once the command
// channel is closed. Received frames are marked Rendering.
func (r *Render) Next() (Command, bool) {
	cmd, ok := <-r.link.commands
	if !ok {
		return nil, false
	}
	if rf, isFrame := cmd.(RenderFrame); isFrame {
		rf.Frame.BeginRendering()
	}
	return cmd, true
}

// Return hands a rendered frame back to the simulation. It panics if a
// frame is already waiting, since only one buffer exists.
func (r *Render) Return(f *scene.Frame) {
	f.MarkReturned()
	select {
	case r.link.frames <- f:
	default:
		panic("exchange: second frame returned while one is pending")
	}
}

// PushEvent queues an input event for the simulation.
func (r *Render) PushEvent(e input.Event) {
	r.link.events.Push(e)
}

// Done signals that the render side stopped. It is safe to call more than once.
func (r *Render) Done() {
	if r.finished {
		return
	}
	r.finished = true
	close(r.link.done)
}
