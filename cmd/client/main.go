// Package main is the entry point for the Warp Horizon client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/warp-horizon/internal/assets"
	"github.com/Faultbox/warp-horizon/internal/config"
	"github.com/Faultbox/warp-horizon/internal/engine/exchange"
	"github.com/Faultbox/warp-horizon/internal/engine/gpu"
	"github.com/Faultbox/warp-horizon/internal/engine/renderer"
	"github.com/Faultbox/warp-horizon/internal/engine/window"
	"github.com/Faultbox/warp-horizon/internal/game"
	"github.com/Faultbox/warp-horizon/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.SaveRequested() {
		path, err := cfg.SaveEffective()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== Warp Horizon Client ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("client stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("client closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	assetMgr := assets.NewManager(logger.Named("assets"))
	defer assetMgr.Close()
	for _, root := range cfg.Assets.Roots {
		if err := assetMgr.AddRoot(root); err != nil {
			logger.Warn("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}
	logger.Info("asset roots", zap.Strings("search_order", assetMgr.Roots()))

	sim, link := exchange.New(exchange.Config{CommandQueue: cfg.Render.CommandQueue})

	cc := cfg.Render.ClearColor
	rt, err := renderer.Start(
		renderer.Config{
			Title:         cfg.Window.Title,
			ClearColor:    [4]float32{cc[0], cc[1], cc[2], 1},
			ScreenshotDir: cfg.Render.ScreenshotDir,
		},
		link,
		assetMgr,
		func() (renderer.Window, renderer.Device, error) {
			return openDisplay(cfg)
		},
		logger.Named("render"),
	)
	if err != nil {
		return fmt.Errorf("starting renderer: %w", err)
	}

	g, err := game.New(cfg, sim, logger.Named("game"))
	if err != nil {
		sim.Close()
		if rerr := rt.Wait(); rerr != nil {
			logger.Warn("renderer stopped with error", zap.Error(rerr))
		}
		return fmt.Errorf("creating simulation: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return g.Run(ctx)
	})
	eg.Go(rt.Wait)

	return eg.Wait()
}

// openDisplay runs on the render goroutine: the GL context is bound to the
// thread that creates it.
func openDisplay(cfg *config.Config) (renderer.Window, renderer.Device, error) {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}

	dev, err := gpu.New(logger.Named("gpu"))
	if err != nil {
		win.Close()
		return nil, nil, fmt.Errorf("failed to create GPU device: %w", err)
	}
	return win, dev, nil
}
