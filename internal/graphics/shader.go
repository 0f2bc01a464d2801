package graphics

import (
	"fmt"
	"os"

	"learngl/internal/graphics/glapi"
)

// Stage selects the pipeline stage a shader is compiled for.
type Stage uint32

const (
	VertexStage   Stage = glapi.VertexShader
	FragmentStage Stage = glapi.FragmentShader
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%#x)", uint32(s))
}

// ShaderState tracks a shader through compilation.
type ShaderState int

const (
	ShaderCreated ShaderState = iota
	ShaderCompiled
	ShaderCompileFailed
)

// Shader owns a shader object.
type Shader struct {
	gl     glapi.GL
	id     uint32
	stage  Stage
	path   string
	source string
	state  ShaderState
}

// NewShader creates a shader object holding source. Nothing is compiled yet.
func NewShader(gl glapi.GL, stage Stage, source string) *Shader {
	s := &Shader{gl: gl, stage: stage, source: source}
	s.id = gl.CreateShader(uint32(stage))
	gl.ShaderSource(s.id, source)
	return s
}

// LoadShader reads GLSL source from path and creates a shader from it.
func LoadShader(gl glapi.GL, stage Stage, path string) (*Shader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s shader file: %w", stage, err)
	}
	s := NewShader(gl, stage, string(src))
	s.path = path
	return s, nil
}

// Compile compiles the source. On failure the driver log is returned in a
// *CompileError and the shader moves to ShaderCompileFailed.
func (s *Shader) Compile() error {
	s.gl.CompileShader(s.id)

	var status int32
	s.gl.GetShaderiv(s.id, glapi.CompileStatus, &status)
	if status == glapi.False {
		var logLength int32
		s.gl.GetShaderiv(s.id, glapi.InfoLogLength, &logLength)
		s.state = ShaderCompileFailed
		return &CompileError{Stage: s.stage, Path: s.path, Log: s.gl.GetShaderInfoLog(s.id, logLength)}
	}
	s.state = ShaderCompiled
	return nil
}

func (s *Shader) ID() uint32         { return s.id }
func (s *Shader) Stage() Stage       { return s.stage }
func (s *Shader) State() ShaderState { return s.state }

func (s *Shader) Delete() {
	if s.id == 0 {
		return
	}
	s.gl.DeleteShader(s.id)
	s.id = 0
}

// ProgramState tracks a program through linking.
type ProgramState int

const (
	ProgramUnlinked ProgramState = iota
	ProgramLinked
	ProgramFailed
)

func (s ProgramState) String() string {
	switch s {
	case ProgramUnlinked:
		return "unlinked"
	case ProgramLinked:
		return "linked"
	case ProgramFailed:
		return "failed"
	}
	return fmt.Sprintf("ProgramState(%d)", int(s))
}

// Program owns a program object.
type Program struct {
	gl       glapi.GL
	id       uint32
	state    ProgramState
	attached []*Shader
}

func NewProgram(gl glapi.GL) *Program {
	return &Program{gl: gl, id: gl.CreateProgram()}
}

// Attach queues a compiled shader for the next Link. Shaders that are not in the
// compiled state are refused with ErrShaderNotCompiled.
func (p *Program) Attach(sh *Shader) error {
	if p.state != ProgramUnlinked {
		return fmt.Errorf("attach to %s program: %w", p.state, ErrProgramState)
	}
	if sh.State() != ShaderCompiled {
		return fmt.Errorf("attach %s shader: %w", sh.Stage(), ErrShaderNotCompiled)
	}
	p.attached = append(p.attached, sh)
	return nil
}

// Link attaches the queued shaders and links them. On success the shaders are
// detached again so they can be linked into other programs; they are not deleted.
// On failure the program keeps its handle and moves to ProgramFailed.
func (p *Program) Link() error {
	if p.state != ProgramUnlinked {
		return fmt.Errorf("link %s program: %w", p.state, ErrProgramState)
	}
	for _, sh := range p.attached {
		p.gl.AttachShader(p.id, sh.ID())
	}
	p.gl.LinkProgram(p.id)

	var status int32
	p.gl.GetProgramiv(p.id, glapi.LinkStatus, &status)
	if status == glapi.False {
		var logLength int32
		p.gl.GetProgramiv(p.id, glapi.InfoLogLength, &logLength)
		p.state = ProgramFailed
		return &LinkError{Log: p.gl.GetProgramInfoLog(p.id, logLength)}
	}
	for _, sh := range p.attached {
		p.gl.DetachShader(p.id, sh.ID())
	}
	p.attached = nil
	p.state = ProgramLinked
	return nil
}

// Use makes the program current.
func (p *Program) Use() {
	p.gl.UseProgram(p.id)
}

func (p *Program) ID() uint32          { return p.id }
func (p *Program) State() ProgramState { return p.state }

func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	p.gl.DeleteProgram(p.id)
	p.id = 0
}

// BuildProgram loads and compiles a vertex and a fragment shader and links them.
// The compiled shaders are returned so the caller can link them again or delete
// them; on error everything created here is deleted.
func BuildProgram(gl glapi.GL, vertexPath, fragmentPath string) (*Program, []*Shader, error) {
	vs, err := LoadShader(gl, VertexStage, vertexPath)
	if err != nil {
		return nil, nil, err
	}
	fs, err := LoadShader(gl, FragmentStage, fragmentPath)
	if err != nil {
		vs.Delete()
		return nil, nil, err
	}
	return link(gl, vs, fs)
}

// BuildProgramSource is BuildProgram for in-memory GLSL sources.
func BuildProgramSource(gl glapi.GL, vertexSource, fragmentSource string) (*Program, []*Shader, error) {
	return link(gl, NewShader(gl, VertexStage, vertexSource), NewShader(gl, FragmentStage, fragmentSource))
}

func link(gl glapi.GL, shaders ...*Shader) (*Program, []*Shader, error) {
	cleanup := func() {
		for _, sh := range shaders {
			sh.Delete()
		}
	}
	for _, sh := range shaders {
		if err := sh.Compile(); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	p := NewProgram(gl)
	for _, sh := range shaders {
		if err := p.Attach(sh); err != nil {
			p.Delete()
			cleanup()
			return nil, nil, err
		}
	}
	if err := p.Link(); err != nil {
		p.Delete()
		cleanup()
		return nil, nil, err
	}
	return p, shaders, nil
}
