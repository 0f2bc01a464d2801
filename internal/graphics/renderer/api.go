package renderer

import (
	"learngl/internal/graphics"
	"learngl/internal/input"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared per-frame context for all renderables
type RenderContext struct {
	Camera *graphics.Camera
	State  input.State
	DT     float64
	// Time is the number of seconds since the loop started.
	Time float64
	View mgl32.Mat4
	Proj mgl32.Mat4
	// Width and Height are the current framebuffer size in pixels.
	Width  int
	Height int
}

// Renderable interface defines the lifecycle for drawable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
