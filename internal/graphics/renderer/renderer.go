package renderer

import (
	"fmt"

	"learngl/internal/config"
	"learngl/internal/graphics"
	"learngl/internal/graphics/glapi"
	"learngl/internal/input"
	"learngl/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	gl          glapi.GL
	renderables []Renderable
	camera      *graphics.Camera

	width, height int
}

// NewRenderer enables depth testing, creates the camera and initializes the
// renderables in order. If one fails the ones already initialized are disposed.
func NewRenderer(gl glapi.GL, width, height int, rs ...Renderable) (*Renderer, error) {
	gl.Enable(glapi.DepthTest)

	r := &Renderer{
		gl:          gl,
		renderables: rs,
		camera:      graphics.NewCamera(width, height, mgl32.Vec3{0, 0, 3}),
		width:       width,
		height:      height,
	}

	for i, rb := range rs {
		if err := rb.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, fmt.Errorf("init renderable %d: %w", i, err)
		}
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	return r, nil
}

// Clear fills the color buffer with color and resets depth.
func (r *Renderer) Clear(color mgl32.Vec3) {
	r.gl.ClearColor(color[0], color[1], color[2], 1.0)
	r.gl.Clear(glapi.ColorBufferBit | glapi.DepthBufferBit)
}

// Render applies the live wireframe setting, syncs the camera with the
// interaction state, recomputes view and projection and draws every renderable.
func (r *Renderer) Render(s input.State, dt, t float64) {
	defer profiling.Track("renderer.Render")()

	mode := uint32(glapi.Fill)
	if config.GetWireframeMode() {
		mode = glapi.Line
	}
	r.gl.PolygonMode(glapi.FrontAndBack, mode)

	r.camera.Position = s.Position
	r.camera.FOV = s.FOV
	r.camera.SetAngles(s.Yaw, s.Pitch)

	ctx := RenderContext{
		Camera: r.camera,
		State:  s,
		DT:     dt,
		Time:   t,
		View:   r.camera.ViewMatrix(),
		Proj:   r.camera.ProjectionMatrix(),
		Width:  r.width,
		Height: r.height,
	}

	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.renderables = nil
}

// Camera returns the camera instance
func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// SetViewport resizes the GL viewport, the camera aspect ratio and every
// renderable. A zero size (minimized window) is ignored.
func (r *Renderer) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, renderable := range r.renderables {
		renderable.SetViewport(width, height)
	}
}
