package exchange

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/internal/engine/scene"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

func build(f *scene.Frame, id int) {
	f.Camera(math.Vec2{}, 1).Batch().Rect(math.Vec2{X: float32(id)}, math.Vec2{X: 16, Y: 16}, 0)
}

func TestSingleBufferInFlight(t *testing.T) {
	sim, render := New(Config{CommandQueue: 4})

	f, ok := sim.TryAcquire()
	if !ok {
		t.Fatal("initial frame not available")
	}
	if _, again := sim.TryAcquire(); again {
		t.Fatal("second buffer acquired while the first is held")
	}

	build(f, 1)
	if err := sim.Submit(f); err != nil {
		t.Fatal(err)
	}
	if f.State() != scene.InTransit {
		t.Errorf("state after submit = %v", f.State())
	}
	if _, again := sim.TryAcquire(); again {
		t.Fatal("buffer acquired while in transit")
	}

	cmd, ok := render.Next()
	if !ok {
		t.Fatal("command channel closed")
	}
	rf, isFrame := cmd.(RenderFrame)
	if !isFrame || rf.Frame != f {
		t.Fatalf("got %#v, want the submitted frame", cmd)
	}
	if f.State() != scene.Rendering {
		t.Errorf("state on render side = %v", f.State())
	}
	if _, again := sim.TryAcquire(); again {
		t.Fatal("buffer acquired while rendering")
	}

	render.Return(rf.Frame)
	back, ok := sim.TryAcquire()
	if !ok || back != f {
		t.Fatal("returned buffer not acquired")
	}
	if back.State() != scene.Idle || back.RectCount() != 0 {
		t.Errorf("reacquired frame state=%v rects=%d", back.State(), back.RectCount())
	}
}

func TestReturnWhilePendingPanics(t *testing.T) {
	_, render := New(Config{})
	f := scene.NewFrame()
	f.BeginTransit()
	f.BeginRendering()

	defer func() {
		if recover() == nil {
			t.Error("returning a second buffer did not panic")
		}
	}()
	render.Return(f)
}

func TestAcquireBlocksUntilReturned(t *testing.T) {
	sim, render := New(Config{CommandQueue: 1})
	f, _ := sim.TryAcquire()
	sim.Submit(f)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := sim.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire with frame in flight: err = %v", err)
	}

	go func() {
		cmd, _ := render.Next()
		time.Sleep(10 * time.Millisecond)
		render.Return(cmd.(RenderFrame).Frame)
	}()

	got, err := sim.Acquire(context.Background())
	if err != nil || got != f {
		t.Fatalf("Acquire = %p, %v", got, err)
	}
}

func TestAcquireAfterRenderStopped(t *testing.T) {
	sim, render := New(Config{})
	f, _ := sim.TryAcquire()
	sim.Submit(f)
	render.Done()

	if _, err := sim.Acquire(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Acquire err = %v, want ErrClosed", err)
	}
	if _, err := sim.LoadTexture("a.png"); !errors.Is(err, ErrClosed) {
		t.Errorf("LoadTexture err = %v, want ErrClosed", err)
	}
	select {
	case <-sim.Done():
	default:
		t.Error("Done channel not closed")
	}
}

func TestCommandsKeepOrderAndIDs(t *testing.T) {
	sim, render := New(Config{CommandQueue: 8})

	id0, _ := sim.LoadTexture("ground.png")
	id1, _ := sim.LoadTextureImage(image.NewRGBA(image.Rect(0, 0, 16, 16)))
	f, _ := sim.TryAcquire()
	sim.Submit(f)
	id2, _ := sim.LoadTexture("marker.png")
	sim.Close()

	if id0 != 0 || id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d %d %d", id0, id1, id2)
	}

	var got []string
	for {
		cmd, ok := render.Next()
		if !ok {
			break
		}
		switch c := cmd.(type) {
		case LoadTexture:
			if c.Image != nil {
				got = append(got, "image")
			} else {
				got = append(got, c.Path)
			}
		case RenderFrame:
			got = append(got, "frame")
			render.Return(c.Frame)
		case Shutdown:
			got = append(got, "shutdown")
		}
	}

	want := []string{"ground.png", "image", "frame", "marker.png", "shutdown"}
	if len(got) != len(want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	sim, _ := New(Config{CommandQueue: 2})
	sim.Close()
	sim.Close()
	if _, ok := sim.TryAcquire(); ok {
		t.Error("TryAcquire succeeded after Close")
	}
	if err := sim.Submit(scene.NewFrame()); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close err = %v", err)
	}
}

func TestEventsDrainInOrder(t *testing.T) {
	sim, render := New(Config{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			render.PushEvent(input.Event{Type: input.EventMouseMove, MouseX: i})
		}
	}()
	wg.Wait()

	events := sim.DrainEvents(nil)
	if len(events) != 1000 {
		t.Fatalf("drained %d events, want 1000", len(events))
	}
	for i, e := range events {
		if e.MouseX != i {
			t.Fatalf("event %d has x %d", i, e.MouseX)
		}
	}
	if more := sim.DrainEvents(nil); len(more) != 0 {
		t.Errorf("second drain returned %d events", len(more))
	}
}

func TestFrameRoundTrips(t *testing.T) {
	sim, render := New(Config{CommandQueue: 2})

	go func() {
		defer render.Done()
		for {
			cmd, ok := render.Next()
			if !ok {
				return
			}
			if rf, isFrame := cmd.(RenderFrame); isFrame {
				render.Return(rf.Frame)
			}
		}
	}()

	ctx := context.Background()
	var first *scene.Frame
	for i := 0; i < 100; i++ {
		f, err := sim.Acquire(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = f
		} else if f != first {
			t.Fatal("a second buffer appeared")
		}
		build(f, i)
		if err := sim.Submit(f); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := sim.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if first.Seq() != 100 {
		t.Errorf("Seq = %d, want 100", first.Seq())
	}
	sim.Close()
	<-sim.Done()
}
