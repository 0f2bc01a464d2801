package graphics

import (
	"github.com/go-gl/mathgl/mgl32"

	"learngl/internal/graphics/glapi"
)

// UniformValue is one of Float, Int, Vec3 or Mat4.
type UniformValue interface {
	write(gl glapi.GL, location int32)
}

type (
	Float float32
	Int   int32
	Vec3  mgl32.Vec3
	Mat4  mgl32.Mat4
)

func (v Float) write(gl glapi.GL, loc int32) { gl.Uniform1f(loc, float32(v)) }
func (v Int) write(gl glapi.GL, loc int32)   { gl.Uniform1i(loc, int32(v)) }
func (v Vec3) write(gl glapi.GL, loc int32)  { gl.Uniform3f(loc, v[0], v[1], v[2]) }
func (v Mat4) write(gl glapi.GL, loc int32)  { gl.UniformMatrix4fv(loc, 1, false, &v[0]) }

// Uniform is a named uniform of one program with its location resolved once.
type Uniform struct {
	gl       glapi.GL
	program  uint32
	name     string
	location int32
}

// ResolveUniform looks up name in a linked program. Names that are not active
// uniforms resolve to glapi.NoLocation; that is not an error and later updates
// are skipped.
func ResolveUniform(gl glapi.GL, program *Program, name string) *Uniform {
	return &Uniform{
		gl:       gl,
		program:  program.ID(),
		name:     name,
		location: gl.GetUniformLocation(program.ID(), name),
	}
}

// Update writes v to the program currently in use. The value type has to match
// the GLSL declaration; that is not checked. Unresolved uniforms ignore the call.
func (u *Uniform) Update(v UniformValue) {
	if u.location == glapi.NoLocation {
		return
	}
	v.write(u.gl, u.location)
}

func (u *Uniform) Name() string    { return u.name }
func (u *Uniform) Location() int32 { return u.location }
func (u *Uniform) Program() uint32 { return u.program }
func (u *Uniform) Found() bool     { return u.location != glapi.NoLocation }
