package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"learngl/internal/app"
	"learngl/internal/config"
	"learngl/internal/graphics/glapi"
	"learngl/internal/graphics/glapi/glnative"
	"learngl/internal/graphics/renderer"
	"learngl/internal/input"
	"learngl/internal/window"
)

// shutdownWait bounds how long a signal handler waits for the frame loop to
// release GL resources.
const shutdownWait = 2 * time.Second

func init() {
	runtime.LockOSThread()
}

func main() {
	// Setup errors carry GL info logs and go to standard output.
	log.SetFlags(0)
	log.SetOutput(os.Stdout)

	if err := run(); err != nil {
		log.Println(err)
		closer.Exit(1)
	}
	closer.Close()
}

func run() error {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	config.ApplyLive(cfg)

	params, err := paramsFromConfig(cfg)
	if err != nil {
		return err
	}

	if err := window.Init(); err != nil {
		return err
	}
	defer window.Terminate()

	im := input.NewManager()
	win, err := window.New(cfg.Window, im)
	if err != nil {
		return err
	}
	defer win.Destroy()

	native, err := glnative.Init()
	if err != nil {
		return err
	}
	if _, err := glapi.RequireVersion(native, ">= 3.3"); err != nil {
		return err
	}
	glnative.LogInfo(native)

	width, height := win.FramebufferSize()
	sc, err := buildScene(native, cfg, params, width, height)
	if err != nil {
		return fmt.Errorf("demo %s: %w", cfg.Demo, err)
	}
	r, err := renderer.NewRenderer(native, width, height, sc.renderables...)
	if err != nil {
		return fmt.Errorf("demo %s: %w", cfg.Demo, err)
	}

	state := input.NewState(mgl32.Vec3(cfg.ClearColor), mgl32.Vec3{0, 0, 3})
	application := app.New(win, r, im, state, params)
	win.OnResize(application.Resize)

	// Signals only ask the loop to stop; teardown stays on the GL thread.
	closer.Bind(func() {
		application.RequestClose()
		select {
		case <-application.Done():
		case <-time.After(shutdownWait):
			slog.Warn("frame loop did not stop in time")
		}
	})

	slog.Info("starting demo", "demo", cfg.Demo, "motion", params.Motion, "width", width, "height", height)
	application.Run()
	return nil
}

func paramsFromConfig(cfg *config.Config) (input.Params, error) {
	motion, err := input.ParseMotion(cfg.Motion)
	if err != nil {
		return input.Params{}, err
	}
	return input.Params{
		Motion:      motion,
		MoveStep:    cfg.MoveStep,
		SpinStep:    cfg.SpinStep,
		Sensitivity: cfg.MouseSensitivity,
	}, nil
}
