package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"learngl/internal/assets"
	"learngl/internal/config"
	"learngl/internal/geometry"
	"learngl/internal/graphics"
	"learngl/internal/graphics/glapi"
	"learngl/internal/graphics/renderer"
	"learngl/internal/input"
)

// scene is the list of renderables one demo registers with the renderer.
type scene struct {
	renderables []renderer.Renderable
}

func (s *scene) add(r renderer.Renderable) { s.renderables = append(s.renderables, r) }

// dispose releases everything built so far when setup fails before the
// renderer takes ownership.
func (s *scene) dispose() {
	for i := len(s.renderables) - 1; i >= 0; i-- {
		s.renderables[i].Dispose()
	}
	s.renderables = nil
}

// programs owns the shaders and programs of a scene. It is added first so the
// renderer deletes them after every model drawn with them.
type programs struct {
	gl       glapi.GL
	shaders  []*graphics.Shader
	programs []*graphics.Program
}

func (p *programs) Init() error                   { return nil }
func (p *programs) Render(renderer.RenderContext) {}
func (p *programs) SetViewport(int, int)          {}

func (p *programs) Dispose() {
	for _, sh := range p.shaders {
		sh.Delete()
	}
	for _, prog := range p.programs {
		prog.Delete()
	}
	p.shaders, p.programs = nil, nil
}

func (p *programs) shader(stage graphics.Stage, path string) (*graphics.Shader, error) {
	sh, err := graphics.LoadShader(p.gl, stage, path)
	if err != nil {
		return nil, err
	}
	p.shaders = append(p.shaders, sh)
	if err := sh.Compile(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sh, nil
}

func (p *programs) link(shaders ...*graphics.Shader) (*graphics.Program, error) {
	prog := graphics.NewProgram(p.gl)
	p.programs = append(p.programs, prog)
	for _, sh := range shaders {
		if err := prog.Attach(sh); err != nil {
			return nil, err
		}
	}
	if err := prog.Link(); err != nil {
		return nil, err
	}
	return prog, nil
}

func (p *programs) build(vertexPath, fragmentPath string) (*graphics.Program, error) {
	vs, err := p.shader(graphics.VertexStage, vertexPath)
	if err != nil {
		return nil, err
	}
	fs, err := p.shader(graphics.FragmentStage, fragmentPath)
	if err != nil {
		return nil, err
	}
	return p.link(vs, fs)
}

// buildScene wires the demo named by cfg.Demo.
func buildScene(gl glapi.GL, cfg *config.Config, params input.Params, width, height int) (*scene, error) {
	s := &scene{}
	own := &programs{gl: gl}
	s.add(own)

	var err error
	switch cfg.Demo {
	case "triangles":
		err = trianglesScene(s, gl, cfg, own, params)
	case "cubes":
		err = cubesScene(s, gl, cfg, own)
	case "text":
		err = textScene(s, gl, cfg, own, width, height)
	default:
		err = fmt.Errorf("unknown demo %q", cfg.Demo)
	}
	if err == nil && cfg.HUD {
		err = hudOverlay(s, gl, cfg, own, width, height)
	}
	if err != nil {
		s.dispose()
		return nil, err
	}
	return s, nil
}

// Position and colour per vertex. The first mesh is two triangles sharing the
// origin, the second a lone triangle below them.
var (
	fanVertices = []float32{
		0, 0, 0, 0, 1, 0,
		-0.5, 0, 0, 1, 0, 0,
		-0.25, 0.5, 0, 0, 0, 1,
		0.25, 0.5, 0, 0, 1, 0,
		0.5, 0, 0, 1, 0, 0,
	}
	fanIndices = []uint32{0, 1, 2, 0, 3, 4}

	loneVertices = []float32{
		-0.25, -0.5, 0, 1, 0, 0,
		0.25, -0.5, 0, 0, 1, 0,
		0, -0.05, 0, 0, 0, 1,
	}
	loneIndices = []uint32{0, 1, 2}
)

// gradient is the bouncing colour animation of the triangles demo. Each
// channel moves by a fixed step per frame and reverses at 0 and 1.
type gradient struct {
	values [4]float32
	signs  [4]float32
}

var gradientSteps = [4]float32{0.01, 0.01, 0.01, 0.02}

func newGradient() *gradient {
	return &gradient{
		values: [4]float32{0, 0.5, 1, 1},
		signs:  [4]float32{1, 1, 1, 1},
	}
}

// step advances every channel; scale is 1 per frame or dt×60 in delta mode.
func (g *gradient) step(scale float32) {
	for i := range g.values {
		if g.values[i] <= 0 {
			g.signs[i] = 1
		} else if g.values[i] >= 1 {
			g.signs[i] = -1
		}
		g.values[i] += gradientSteps[i] * g.signs[i] * scale
		g.values[i] = mgl32.Clamp(g.values[i], 0, 1)
	}
}

func (g *gradient) colors() (c1, c2, c3, c4, c5 mgl32.Vec3) {
	a, b, c, common := g.values[0], g.values[1], g.values[2], g.values[3]
	return mgl32.Vec3{a, c, b},
		mgl32.Vec3{c, b, a},
		mgl32.Vec3{a, b, c},
		mgl32.Vec3{a, c, b},
		mgl32.Vec3{common, common, common}
}

func trianglesScene(s *scene, gl glapi.GL, cfg *config.Config, own *programs, params input.Params) error {
	// One vertex shader linked into both programs.
	vs, err := own.shader(graphics.VertexStage, cfg.ShaderPath("triangles.vert"))
	if err != nil {
		return err
	}
	gradientFS, err := own.shader(graphics.FragmentStage, cfg.ShaderPath("triangles.frag"))
	if err != nil {
		return err
	}
	solidFS, err := own.shader(graphics.FragmentStage, cfg.ShaderPath("solid.frag"))
	if err != nil {
		return err
	}
	gradientProg, err := own.link(vs, gradientFS)
	if err != nil {
		return err
	}
	solidProg, err := own.link(vs, solidFS)
	if err != nil {
		return err
	}

	attrs := graphics.Interleaved(3, 3)
	fan, err := graphics.NewMesh(gl, fanVertices, fanIndices, attrs)
	if err != nil {
		return err
	}
	for i := 1; i <= 4; i++ {
		fan.AddUniform(graphics.ResolveUniform(gl, gradientProg, "color"+strconv.Itoa(i)))
	}
	lone, err := graphics.NewMesh(gl, loneVertices, loneIndices, attrs)
	if err != nil {
		fan.Delete()
		return err
	}
	lone.AddUniform(graphics.ResolveUniform(gl, solidProg, "color5"))

	// Both models read the same gradient. It advances once per frame, before
	// the first model draws.
	g := newGradient()
	fanR := renderer.NewModelRenderable(graphics.NewModel(gradientProg, fan), func(ctx renderer.RenderContext, m *graphics.Model) {
		c1, c2, c3, c4, _ := g.colors()
		mesh := m.Meshes()[0]
		mesh.Uniform("color1").Update(graphics.Vec3(c1))
		mesh.Uniform("color2").Update(graphics.Vec3(c2))
		mesh.Uniform("color3").Update(graphics.Vec3(c3))
		mesh.Uniform("color4").Update(graphics.Vec3(c4))
	})
	fanR.Update = func(ctx renderer.RenderContext, m *graphics.Model) {
		g.step(params.Scale(ctx.DT))
	}
	s.add(fanR)

	s.add(renderer.NewModelRenderable(graphics.NewModel(solidProg, lone), func(ctx renderer.RenderContext, m *graphics.Model) {
		_, _, _, _, c5 := g.colors()
		m.Meshes()[0].Uniform("color5").Update(graphics.Vec3(c5))
	}))
	return nil
}

// cubePositions places the textured cubes of the cubes demo.
var cubePositions = []mgl32.Vec3{
	{0, 0, 0},
	{2, 1, -4},
	{-1.5, -0.2, -2.5},
	{-3.5, 0.5, -8},
	{2.4, -0.2, -3.5},
	{-1.3, 1.0, -1.5},
}

func cubesScene(s *scene, gl glapi.GL, cfg *config.Config, own *programs) error {
	prog, err := own.build(cfg.ShaderPath("cube.vert"), cfg.ShaderPath("cube.frag"))
	if err != nil {
		return err
	}

	var decoder assets.ImageLoader
	container := graphics.NewTexture(gl, prog, "texture1", cfg.TexturePath("container.jpg"), graphics.RGB, decoder)
	face := graphics.NewTexture(gl, prog, "texture2", cfg.TexturePath("awesomeface.png"), graphics.RGBA, decoder)
	// The textures are shared by every mesh; Delete is idempotent.
	s.add(&textures{list: []*graphics.Texture{container, face}})

	attrs := graphics.Interleaved(3, 2)
	newMesh := func(shape geometry.Shape) (*graphics.Mesh, error) {
		m, err := graphics.NewMesh(gl, shape.Vertices, shape.Indices, attrs)
		if err != nil {
			return nil, err
		}
		m.AddTexture(container)
		m.AddTexture(face)
		return m, nil
	}

	view := graphics.ResolveUniform(gl, prog, "view")
	projection := graphics.ResolveUniform(gl, prog, "projection")
	model := graphics.ResolveUniform(gl, prog, "model")
	mix := graphics.ResolveUniform(gl, prog, "mixValue")
	uniforms := func(ctx renderer.RenderContext, m *graphics.Model) {
		view.Update(graphics.Mat4(ctx.View))
		projection.Update(graphics.Mat4(ctx.Proj))
		model.Update(graphics.Mat4(m.Transform()))
		mix.Update(graphics.Float(0.2))
	}

	for i, pos := range cubePositions {
		mesh, err := newMesh(geometry.Cube(1, mgl32.Vec3{}))
		if err != nil {
			return err
		}
		r := renderer.NewModelRenderable(graphics.NewModel(prog, mesh), uniforms)
		offset := float32(20 * i)
		r.Update = func(ctx renderer.RenderContext, m *graphics.Model) {
			angle := mgl32.DegToRad(ctx.State.Angle + offset)
			axis := mgl32.Vec3{1, 0.3, 0.5}.Normalize()
			m.SetTransform(mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(mgl32.HomogRotate3D(angle, axis)))
		}
		s.add(r)
	}

	floor, err := geometry.Quad(20, 20, mgl32.Vec3{0, -1.5, 0}, mgl32.Vec2{10, 10})
	if err != nil {
		return err
	}
	floorMesh, err := newMesh(floor)
	if err != nil {
		return err
	}
	s.add(renderer.NewModelRenderable(graphics.NewModel(prog, floorMesh), uniforms))
	return nil
}

// textures deletes textures shared between meshes when the scene is disposed.
type textures struct{ list []*graphics.Texture }

func (t *textures) Init() error                   { return nil }
func (t *textures) Render(renderer.RenderContext) {}
func (t *textures) SetViewport(int, int)          {}

func (t *textures) Dispose() {
	for _, tex := range t.list {
		tex.Delete()
	}
}

// newTextRenderer builds the text program and bakes the configured font.
func newTextRenderer(gl glapi.GL, cfg *config.Config, own *programs, width, height int) (*graphics.TextRenderer, error) {
	prog, err := own.build(cfg.ShaderPath("text.vert"), cfg.ShaderPath("text.frag"))
	if err != nil {
		return nil, err
	}

	var font assets.FontRasterizer
	if err := font.Init(cfg.Font.Path, cfg.Font.PixelSize); err != nil {
		return nil, err
	}
	defer font.Close()

	tr, err := graphics.NewTextRenderer(gl, prog, width, height)
	if err != nil {
		return nil, err
	}
	var progress func(rune)
	if cfg.Progress {
		progress = assets.GlyphProgress(os.Stderr)
	}
	if err := tr.LoadGlyphs(&font, progress); err != nil {
		tr.Delete()
		return nil, err
	}
	return tr, nil
}

func textScene(s *scene, gl glapi.GL, cfg *config.Config, own *programs, width, height int) error {
	tr, err := newTextRenderer(gl, cfg, own, width, height)
	if err != nil {
		return err
	}

	s.add(renderer.NewTextRenderable(tr, func(ctx renderer.RenderContext) []renderer.TextLine {
		// Colour cycles slowly with time.
		t := float32(ctx.Time)
		pulse := mgl32.Vec3{
			0.5 + 0.5*math32.Sin(t),
			0.5 + 0.5*math32.Sin(t+2),
			0.5 + 0.5*math32.Sin(t+4),
		}
		title := "This is sample text"
		w, _ := tr.Measure(title, 1)
		return []renderer.TextLine{
			{Text: title, X: (float32(ctx.Width) - w) / 2, Y: float32(ctx.Height) / 2, Scale: 1, Color: pulse},
			{Text: "(C) LearnOpenGL.com", X: 25, Y: 25, Scale: 0.5, Color: mgl32.Vec3{0.5, 0.8, 0.2}},
		}
	}))
	return nil
}

// hudOverlay adds the profiling overlay last so it draws over the demo.
func hudOverlay(s *scene, gl glapi.GL, cfg *config.Config, own *programs, width, height int) error {
	tr, err := newTextRenderer(gl, cfg, own, width, height)
	if err != nil {
		return err
	}
	s.add(renderer.NewTextRenderable(tr, renderer.ProfilingOverlay(renderer.NewFrameStats(60), 5)))
	return nil
}
