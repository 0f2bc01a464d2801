// Package window owns the GLFW window and its OpenGL 4.1 core context and
// translates GLFW callbacks into input events.
package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"learngl/internal/config"
	"learngl/internal/input"
)

// Init initializes GLFW. Call Terminate when done. Must run on the main thread.
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	return nil
}

func Terminate() { glfw.Terminate() }

// Window is a GLFW window with a current GL context.
type Window struct {
	win      *glfw.Window
	onResize func(width, height int)
}

// New creates the window, makes its context current and routes key, cursor and
// scroll callbacks into im.
func New(cfg config.Window, im *input.Manager) (*Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		// Frame pacing is left to the FPS limiter.
		glfw.SwapInterval(0)
	}
	win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	w := &Window{win: win}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(input.Key(key), input.KeyAction(action))
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		im.HandleCursor(xpos, ypos)
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		im.HandleScroll(xoff, yoff)
	})
	// Framebuffer size rather than window size: they differ on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	return w, nil
}

// OnResize registers the framebuffer resize handler.
func (w *Window) OnResize(fn func(width, height int)) { w.onResize = fn }

func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

func (w *Window) ShouldClose() bool     { return w.win.ShouldClose() }
func (w *Window) SetShouldClose(v bool) { w.win.SetShouldClose(v) }
func (w *Window) SwapBuffers()          { w.win.SwapBuffers() }
func (w *Window) PollEvents()           { glfw.PollEvents() }
func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }
func (w *Window) Destroy()              { w.win.Destroy() }
