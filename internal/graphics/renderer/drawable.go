package renderer

import (
	"fmt"

	"learngl/internal/graphics"
	"learngl/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformFunc pushes the per-frame uniform values of a model. The model's
// program is in use when it runs.
type UniformFunc func(ctx RenderContext, m *graphics.Model)

// ModelRenderable draws a Model: program, then per mesh vertex array, textures
// and one indexed draw.
type ModelRenderable struct {
	model    *graphics.Model
	uniforms UniformFunc
	// Update, when set, runs before uniforms and may change the model transform.
	Update func(ctx RenderContext, m *graphics.Model)
}

func NewModelRenderable(m *graphics.Model, uniforms UniformFunc) *ModelRenderable {
	return &ModelRenderable{model: m, uniforms: uniforms}
}

func (r *ModelRenderable) Model() *graphics.Model { return r.model }

// Init checks that the program can be used for drawing.
func (r *ModelRenderable) Init() error {
	if p := r.model.Program(); p == nil || p.State() != graphics.ProgramLinked {
		return fmt.Errorf("model program is not linked: %w", graphics.ErrProgramState)
	}
	return nil
}

func (r *ModelRenderable) Render(ctx RenderContext) {
	defer profiling.Track("renderer.Model")()

	if r.Update != nil {
		r.Update(ctx, r.model)
	}
	r.model.Program().Use()
	if r.uniforms != nil {
		r.uniforms(ctx, r.model)
	}
	for _, mesh := range r.model.Meshes() {
		mesh.BindVAO()
		mesh.ActivateTextures()
		mesh.Render()
	}
}

// Dispose deletes the meshes. The program is shared and deleted by its owner.
func (r *ModelRenderable) Dispose() { r.model.Delete() }

func (r *ModelRenderable) SetViewport(width, height int) {}

// TextLine is one string drawn by TextRenderable.
type TextLine struct {
	Text  string
	X, Y  float32
	Scale float32
	Color mgl32.Vec3
}

// TextRenderable draws the lines returned by Lines each frame.
type TextRenderable struct {
	text  *graphics.TextRenderer
	Lines func(ctx RenderContext) []TextLine
}

// NewTextRenderable wraps a text renderer whose glyphs are already loaded.
// Depth testing is restored after each frame of text.
func NewTextRenderable(tr *graphics.TextRenderer, lines func(ctx RenderContext) []TextLine) *TextRenderable {
	tr.DepthTest = true
	return &TextRenderable{text: tr, Lines: lines}
}

func (r *TextRenderable) Init() error { return nil }

func (r *TextRenderable) Render(ctx RenderContext) {
	defer profiling.Track("renderer.Text")()
	if r.Lines == nil {
		return
	}
	for _, l := range r.Lines(ctx) {
		r.text.RenderText(l.Text, l.X, l.Y, l.Scale, l.Color)
	}
}

func (r *TextRenderable) Dispose() { r.text.Delete() }

func (r *TextRenderable) SetViewport(width, height int) {
	r.text.SetViewport(width, height)
}
