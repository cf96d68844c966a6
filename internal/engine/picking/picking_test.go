package picking

import (
	"testing"

	"github.com/Faultbox/warp-horizon/internal/engine/camera"
	"github.com/Faultbox/warp-horizon/internal/engine/input"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

type boxGrid struct {
	w, h int
}

func (g boxGrid) Get(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0, false
	}
	return 0, true
}

func TestGridInputController(t *testing.T) {
	tests := []struct {
		name   string
		mouse  math.Vec2i
		want   math.Vec2i
		wantOK bool
	}{
		{"center", math.Vec2i{X: 50, Y: 26}, math.Vec2i{X: 0, Y: 0}, true},
		{"one tile down", math.Vec2i{X: 50, Y: 26 + 15}, math.Vec2i{X: 1, Y: 1}, true},
		{"above the grid", math.Vec2i{X: 50, Y: 10}, math.Vec2i{}, false},
		{"left of the grid", math.Vec2i{X: 10, Y: 26}, math.Vec2i{}, false},
	}

	cam := camera.New(math.Vec2i{X: 100, Y: 50})
	grid := boxGrid{w: 10, h: 10}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := input.NewState(nil)
			state.SetMousePosition(tt.mouse)

			c := NewGridInputController()
			c.Update(grid, cam, state)

			got, ok := c.Selected()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Selected() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSelectionClearedWhenUnfocused(t *testing.T) {
	cam := camera.New(math.Vec2i{X: 100, Y: 50})
	state := input.NewState(nil)
	state.SetMousePosition(math.Vec2i{X: 50, Y: 41})

	c := NewGridInputController()
	c.Update(boxGrid{w: 10, h: 10}, cam, state)
	if _, ok := c.Selected(); !ok {
		t.Fatal("expected a selection while focused")
	}

	state.SetFocused(false)
	c.Update(boxGrid{w: 10, h: 10}, cam, state)
	if _, ok := c.Selected(); ok {
		t.Error("selection kept while unfocused")
	}
}
