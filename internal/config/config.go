// Package config handles client configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Frame pacing policies for the simulation side of the frame exchange.
const (
	// FramePolicySkip skips building a frame when the render side still holds the buffer.
	FramePolicySkip = "skip"
	// FramePolicyBlock waits for the render side to return the buffer.
	FramePolicyBlock = "block"
)

// Config holds all client settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Grid    GridConfig    `yaml:"grid"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds settings for the render runtime and the frame exchange.
type RenderConfig struct {
	FramePolicy   string     `yaml:"frame_policy"`   // "skip" or "block"
	CommandQueue  int        `yaml:"command_queue"`  // Buffered commands between simulation and render
	ClearColor    [3]float32 `yaml:"clear_color"`    // sRGB, 0-1
	ScreenshotDir string     `yaml:"screenshot_dir"` // Where F12 captures are written
}

// CameraConfig holds the initial state of the main camera.
type CameraConfig struct {
	Zoom      int        `yaml:"zoom"`
	MoveSpeed float32    `yaml:"move_speed"` // Render-plane units per second
	Position  [2]float32 `yaml:"position"`
}

// GridConfig holds the generated world grid settings.
type GridConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

// AssetsConfig holds asset file locations.
// Empty texture paths fall back to procedurally generated textures.
type AssetsConfig struct {
	Roots            []string `yaml:"roots"` // Directories searched for relative asset paths
	TileTexture      string   `yaml:"tile_texture"`
	SelectionTexture string   `yaml:"selection_texture"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // "console" or "json"
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Warp Horizon",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			FramePolicy:   FramePolicySkip,
			CommandQueue:  64,
			ClearColor:    [3]float32{10.0 / 255.0, 10.0 / 255.0, 10.0 / 255.0},
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Zoom:      2,
			MoveSpeed: 80,
		},
		Grid: GridConfig{
			Width:  100,
			Height: 100,
			Seed:   1234,
		},
		Assets: AssetsConfig{
			Roots: []string{"assets"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
	}
}

// Validate checks values that would otherwise fail deep inside the runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Zoom < 1 {
		errs = append(errs, fmt.Errorf("camera zoom must be at least 1, got %d", c.Camera.Zoom))
	}
	if c.Render.FramePolicy != FramePolicySkip && c.Render.FramePolicy != FramePolicyBlock {
		errs = append(errs, fmt.Errorf("unknown frame policy %q", c.Render.FramePolicy))
	}
	if c.Render.CommandQueue < 1 {
		errs = append(errs, fmt.Errorf("command queue must hold at least 1 command, got %d", c.Render.CommandQueue))
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Width, c.Grid.Height))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
