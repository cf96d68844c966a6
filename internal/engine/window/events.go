package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/warp-horizon/internal/engine/input"
)

var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_UP:     input.KeyUp,
	sdl.SCANCODE_DOWN:   input.KeyDown,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_F12:    input.KeyF12,
}

// PollEvents drains the SDL event queue and appends the events the
// simulation cares about to dst.
func (w *Window) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				width, height := w.Size()
				dst = append(dst, input.Event{
					Type:   input.EventWindowResize,
					Width:  width,
					Height: height,
				})
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				dst = append(dst, input.Event{Type: input.EventFocusGained})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				dst = append(dst, input.Event{Type: input.EventFocusLost})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key, ok := scancodes[e.Keysym.Scancode]
			if !ok {
				continue
			}
			typ := input.EventKeyDown
			if e.Type == sdl.KEYUP {
				typ = input.EventKeyUp
			}
			dst = append(dst, input.Event{Type: typ, Key: key})

		case *sdl.MouseMotionEvent:
			dst = append(dst, input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})

		case *sdl.MouseButtonEvent:
			typ := input.EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = input.EventMouseUp
			}
			dst = append(dst, input.Event{
				Type:   typ,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		}
	}
	return dst
}
