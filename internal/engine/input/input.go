// Package input defines the raw events forwarded by the render goroutine
// and the input state the simulation builds from them.
package input

// EventType identifies a raw backend event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventFocusGained
	EventFocusLost
)

// Key is a physical key, independent of keyboard layout.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
	KeyF12
)

// Event represents a raw backend event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}
