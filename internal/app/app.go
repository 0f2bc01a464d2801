package app

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"learngl/internal/config"
	"learngl/internal/graphics/renderer"
	"learngl/internal/input"
	"learngl/internal/profiling"
)

// SlowFrame is the processing time above which a frame is logged with its
// most expensive profiling buckets.
const SlowFrame = 16 * time.Millisecond

// Surface is the window as seen by the frame loop. Implementations must be
// used from the thread that owns the GL context.
type Surface interface {
	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()
	PollEvents()
}

// Application runs the per-frame loop over a renderer, an input manager and
// the interaction state.
type Application struct {
	surface  Surface
	renderer *renderer.Renderer
	input    *input.Manager

	state  input.State
	params input.Params

	fpsLimiter *FPSLimiter
	fps        *FPSCounter
	now        func() time.Time
	start      time.Time
	lastTime   time.Time

	closeRequested atomic.Bool
	disposeOnce    sync.Once
	done           chan struct{}
}

// New creates an application. The renderables registered with r are drawn in
// order every frame.
func New(surface Surface, r *renderer.Renderer, im *input.Manager, state input.State, params input.Params) *Application {
	now := time.Now()
	return &Application{
		surface:    surface,
		renderer:   r,
		input:      im,
		state:      state,
		params:     params,
		fpsLimiter: NewFPSLimiter(),
		fps:        NewFPSCounter(os.Stdout, now),
		now:        time.Now,
		start:      now,
		lastTime:   now,
		done:       make(chan struct{}),
	}
}

// SetFPSOutput redirects the once-per-second FPS line. nil silences it.
func (a *Application) SetFPSOutput(w io.Writer) {
	a.fps = NewFPSCounter(w, a.now())
}

// Run loops until the surface is asked to close, then disposes every
// renderable. It must be called on the GL thread.
func (a *Application) Run() {
	defer close(a.done)
	defer a.Dispose()
	for a.Running() {
		a.Tick()
	}
}

// Running reports whether another frame will be drawn.
func (a *Application) Running() bool {
	if a.closeRequested.Load() {
		a.surface.SetShouldClose(true)
	}
	return !a.surface.ShouldClose()
}

// Tick runs one frame: clear, apply queued input, step the interaction state,
// draw with fresh transforms, swap and poll.
func (a *Application) Tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	now := a.now()
	dt := now.Sub(a.lastTime).Seconds()
	a.lastTime = now

	a.renderer.Clear(a.state.ClearColor)

	func() {
		defer profiling.Track("input.Apply")()
		a.state = input.ApplyAll(a.state, a.input.Poll(), a.params)
	}()
	if a.state.Close {
		a.surface.SetShouldClose(true)
	}
	config.SetWireframeMode(a.state.Wireframe)
	a.state = input.Step(a.state, dt, a.params)

	a.renderer.Render(a.state, dt, now.Sub(a.start).Seconds())

	a.surface.SwapBuffers()
	a.surface.PollEvents()

	if d := time.Since(startTick); d > SlowFrame {
		slog.Debug("slow frame", "duration", d,
			"render", profiling.SumWithPrefix("renderer.Render"),
			"input", profiling.SumWithPrefix("input."),
			"top", profiling.TopNCurrentFrame(5))
	}
	a.fps.Frame(a.now())
	a.fpsLimiter.Wait()
}

// Resize forwards a framebuffer size change to the renderer.
func (a *Application) Resize(width, height int) {
	a.renderer.SetViewport(width, height)
}

// RequestClose asks the loop to stop after the current frame. Safe to call from
// any goroutine.
func (a *Application) RequestClose() {
	a.closeRequested.Store(true)
}

// Done is closed once Run has returned and resources are released.
func (a *Application) Done() <-chan struct{} { return a.done }

func (a *Application) State() input.State { return a.state }

func (a *Application) Renderer() *renderer.Renderer { return a.renderer }

// Dispose releases every renderable once. Run calls it on exit.
func (a *Application) Dispose() {
	a.disposeOnce.Do(a.renderer.Dispose)
}
