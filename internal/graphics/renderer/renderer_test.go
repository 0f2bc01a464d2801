package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/internal/config"
	"learngl/internal/graphics"
	"learngl/internal/graphics/glapi"
	"learngl/internal/graphics/glapi/gltest"
	"learngl/internal/input"
	"learngl/internal/profiling"
)

const vertexSource = `#version 330 core
layout (location = 0) in vec3 aPos;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {
	gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`

const fragmentSource = `#version 330 core
out vec4 FragColor;
uniform vec3 color1;
void main() {
	FragColor = vec4(color1, 1.0);
}
`

type fakeRenderable struct {
	name    string
	initErr error
	log     *[]string
	ctx     RenderContext
	w, h    int
}

func (f *fakeRenderable) Init() error {
	*f.log = append(*f.log, "init "+f.name)
	return f.initErr
}

func (f *fakeRenderable) Render(ctx RenderContext) {
	*f.log = append(*f.log, "render "+f.name)
	f.ctx = ctx
}

func (f *fakeRenderable) Dispose() { *f.log = append(*f.log, "dispose "+f.name) }

func (f *fakeRenderable) SetViewport(w, h int) { f.w, f.h = w, h }

func TestRendererLifecycle(t *testing.T) {
	rec := gltest.New()
	var log []string
	a := &fakeRenderable{name: "a", log: &log}
	b := &fakeRenderable{name: "b", log: &log}

	r, err := NewRenderer(rec, 800, 600, a, b)
	require.NoError(t, err)
	assert.True(t, rec.Enabled[glapi.DepthTest])
	assert.Equal(t, [4]int32{0, 0, 800, 600}, rec.ViewportValue)

	config.SetWireframeMode(true)
	t.Cleanup(func() { config.SetWireframeMode(false) })
	s := input.NewState(mgl32.Vec3{}, mgl32.Vec3{1, 2, 3})
	s.FOV = 30
	r.Render(s, 0.016, 2.5)

	assert.Equal(t, uint32(glapi.Line), rec.PolygonModeValue)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, a.ctx.Camera.Position)
	assert.Equal(t, float32(30), r.Camera().FOV)
	assert.Equal(t, 2.5, b.ctx.Time)
	assert.Equal(t, r.Camera().ViewMatrix(), b.ctx.View)
	assert.Equal(t, 800, b.ctx.Width)

	r.SetViewport(1024, 768)
	assert.Equal(t, [4]int32{0, 0, 1024, 768}, rec.ViewportValue)
	assert.Equal(t, 1024, a.w)
	assert.InDelta(t, 1024.0/768.0, r.Camera().AspectRatio, 1e-6)

	r.SetViewport(0, 0)
	assert.Equal(t, 1024, b.w)

	r.Dispose()
	assert.Equal(t, []string{"init a", "init b", "render a", "render b", "dispose b", "dispose a"}, log)
}

func TestRendererClear(t *testing.T) {
	rec := gltest.New()
	r, err := NewRenderer(rec, 800, 600)
	require.NoError(t, err)

	mark := rec.Mark()
	r.Clear(mgl32.Vec3{0.2, 0.3, 0.3})
	assert.Equal(t, []string{"ClearColor", "Clear"}, rec.Names(mark))
	assert.Equal(t, [4]float32{0.2, 0.3, 0.3, 1}, rec.ClearColorValue)

	r.Render(input.NewState(mgl32.Vec3{}, mgl32.Vec3{}), 0, 0)
	assert.Equal(t, uint32(glapi.Fill), rec.PolygonModeValue)
}

func TestRendererInitFailureDisposesInitialized(t *testing.T) {
	rec := gltest.New()
	var log []string
	boom := errors.New("boom")
	a := &fakeRenderable{name: "a", log: &log}
	b := &fakeRenderable{name: "b", log: &log, initErr: boom}
	c := &fakeRenderable{name: "c", log: &log}

	_, err := NewRenderer(rec, 800, 600, a, b, c)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init a", "init b", "dispose a"}, log)
}

func TestModelRenderable(t *testing.T) {
	rec := gltest.New()
	p, shaders, err := graphics.BuildProgramSource(rec, vertexSource, fragmentSource)
	require.NoError(t, err)

	mesh, err := graphics.NewMesh(rec,
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]uint32{0, 1, 2},
		graphics.Interleaved(3))
	require.NoError(t, err)
	mesh.AddUniform(graphics.ResolveUniform(rec, p, "color1"))
	model := graphics.NewModel(p, mesh)

	mr := NewModelRenderable(model, func(ctx RenderContext, m *graphics.Model) {
		for _, mesh := range m.Meshes() {
			mesh.Uniform("color1").Update(graphics.Vec3(ctx.State.ClearColor))
		}
	})
	mr.Update = func(ctx RenderContext, m *graphics.Model) {
		m.SetTransform(mgl32.Translate3D(1, 0, 0))
	}
	require.NoError(t, mr.Init())

	s := input.NewState(mgl32.Vec3{1, 0.5, 0}, mgl32.Vec3{})
	mr.Render(RenderContext{State: s})

	require.Len(t, rec.Draws, 1)
	d := rec.Draws[0]
	assert.Equal(t, p.ID(), d.Program)
	assert.Equal(t, mesh.Layout().ID(), d.VertexArray)
	assert.Equal(t, int32(3), d.Count)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), model.Transform())

	got, ok := rec.UniformValue(p.ID(), "color1")
	require.True(t, ok)
	assert.Equal(t, [3]float32{1, 0.5, 0}, got)
	assert.Empty(t, rec.Errors)

	mr.Dispose()
	for _, sh := range shaders {
		sh.Delete()
	}
	p.Delete()
	assert.Equal(t, 0, rec.Live())
}

func TestModelRenderableRejectsUnlinkedProgram(t *testing.T) {
	rec := gltest.New()
	mr := NewModelRenderable(graphics.NewModel(graphics.NewProgram(rec)), nil)
	assert.ErrorIs(t, mr.Init(), graphics.ErrProgramState)
}

func TestTextRenderableSetsViewport(t *testing.T) {
	rec := gltest.New()
	p, _, err := graphics.BuildProgramSource(rec, `#version 330 core
layout (location = 0) in vec4 vertex;
uniform mat4 projection;
void main() { gl_Position = projection * vec4(vertex.xy, 0.0, 1.0); }
`, `#version 330 core
out vec4 color;
uniform sampler2D text;
uniform vec3 textColor;
void main() { color = vec4(textColor, texture(text, vec2(0.0)).r); }
`)
	require.NoError(t, err)

	tr, err := graphics.NewTextRenderer(rec, p, 800, 600)
	require.NoError(t, err)
	called := false
	hud := NewTextRenderable(tr, func(ctx RenderContext) []TextLine {
		called = true
		return []TextLine{{Text: "fps", X: 10, Y: 10, Scale: 1, Color: mgl32.Vec3{1, 1, 1}}}
	})
	require.NoError(t, hud.Init())

	hud.SetViewport(1024, 768)
	got, ok := rec.UniformValue(p.ID(), "projection")
	require.True(t, ok)
	assert.Equal(t, [16]float32(mgl32.Ortho(0, 1024, 0, 768, -1, 1)), got)

	hud.Render(RenderContext{})
	assert.True(t, called)
	assert.True(t, rec.Enabled[glapi.DepthTest])
	assert.False(t, rec.Enabled[glapi.Blend])

	hud.Dispose()
	assert.Empty(t, rec.Errors)
}

func TestFrameStatsWindow(t *testing.T) {
	s := NewFrameStats(3)
	s.Add(10 * time.Millisecond)
	s.Add(20 * time.Millisecond)
	s.Add(30 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, s.Avg)

	s.Add(40 * time.Millisecond)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 20*time.Millisecond, s.Min)
	assert.Equal(t, 40*time.Millisecond, s.Max)
	assert.Equal(t, 30*time.Millisecond, s.Avg)
}

func TestProfilingOverlayLines(t *testing.T) {
	profiling.ResetFrame()
	t.Cleanup(profiling.ResetFrame)
	func() {
		defer profiling.Track("renderer.Model")()
		time.Sleep(2 * time.Millisecond)
	}()

	stats := NewFrameStats(60)
	lines := ProfilingOverlay(stats, 5)(RenderContext{
		DT:     0.02,
		Height: 600,
		State:  input.NewState(mgl32.Vec3{}, mgl32.Vec3{1, 2, 3}),
	})

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0].Text, "FPS: 50 | Frame: 20.00ms"))
	assert.Equal(t, "Pos: 1.00, 2.00, 3.00 | Yaw: -90.0 | Pitch: 0.0 | FOV: 45", lines[1].Text)
	assert.True(t, strings.HasPrefix(lines[2].Text, "renderer.Model:"))
	assert.Equal(t, float32(600-10-17), lines[0].Y)
	assert.Equal(t, lines[0].Y-17, lines[1].Y)
	assert.Equal(t, 1, stats.Len())
}
