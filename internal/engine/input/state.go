package input

import "github.com/Faultbox/warp-horizon/pkg/math"

// Button is a game action, mapped from physical keys.
type Button int

const (
	MoveCameraRight Button = iota
	MoveCameraLeft
	MoveCameraUp
	MoveCameraDown
	RequestClose
	TakeScreenshot
	buttonCount
)

// DefaultBindings maps keys to buttons: arrows and WASD move the camera,
// Escape closes the client and F12 takes a screenshot.
func DefaultBindings() map[Key]Button {
	return map[Key]Button{
		KeyRight:  MoveCameraRight,
		KeyD:      MoveCameraRight,
		KeyLeft:   MoveCameraLeft,
		KeyA:      MoveCameraLeft,
		KeyUp:     MoveCameraUp,
		KeyW:      MoveCameraUp,
		KeyDown:   MoveCameraDown,
		KeyS:      MoveCameraDown,
		KeyEscape: RequestClose,
		KeyF12:    TakeScreenshot,
	}
}

// State is the current player input, accumulated from raw events.
type State struct {
	buttons  [buttonCount]bool
	pressed  [buttonCount]bool // went down during the last Update
	bindings map[Key]Button

	mouse    math.Vec2i
	hasMouse bool
	focused  bool

	closeRequested bool
	resized        bool
	resolution     math.Vec2i
}

// NewState creates an input state using the given key bindings.
func NewState(bindings map[Key]Button) *State {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &State{
		bindings: bindings,
		focused:  true,
	}
}

// Button reports whether a button is held.
func (s *State) Button(b Button) bool {
	return s.buttons[b]
}

// Pressed reports whether a button went down during the last Update.
func (s *State) Pressed(b Button) bool {
	return s.pressed[b]
}

// SetButton sets a button state directly.
func (s *State) SetButton(b Button, pressed bool) {
	s.buttons[b] = pressed
}

// MousePosition returns the last known cursor position.
// There is no position while the window is unfocused.
func (s *State) MousePosition() (math.Vec2i, bool) {
	if !s.focused || !s.hasMouse {
		return math.Vec2i{}, false
	}
	return s.mouse, true
}

// SetMousePosition sets the cursor position directly.
func (s *State) SetMousePosition(p math.Vec2i) {
	s.mouse = p
	s.hasMouse = true
}

// SetFocused sets whether the window has input focus.
func (s *State) SetFocused(focused bool) {
	s.focused = focused
}

// CloseRequested reports whether a quit event or the close button was seen.
func (s *State) CloseRequested() bool {
	return s.closeRequested || s.buttons[RequestClose]
}

// Resized returns the latest window size if a resize happened during the last Update.
func (s *State) Resized() (math.Vec2i, bool) {
	return s.resolution, s.resized
}

// Update applies a batch of raw events in order.
func (s *State) Update(events []Event) {
	s.resized = false
	s.pressed = [buttonCount]bool{}

	for _, e := range events {
		switch e.Type {
		case EventQuit:
			s.closeRequested = true
		case EventKeyDown, EventKeyUp:
			if b, ok := s.bindings[e.Key]; ok {
				down := e.Type == EventKeyDown
				if down && !s.buttons[b] {
					s.pressed[b] = true
				}
				s.SetButton(b, down)
			}
		case EventMouseMove:
			s.SetMousePosition(math.Vec2i{X: int32(e.MouseX), Y: int32(e.MouseY)})
		case EventFocusGained:
			s.SetFocused(true)
		case EventFocusLost:
			s.SetFocused(false)
		case EventWindowResize:
			s.resized = true
			s.resolution = math.Vec2i{X: int32(e.Width), Y: int32(e.Height)}
		}
	}
}
