// Package glnative implements glapi.GL on top of the go-gl OpenGL 4.1 core
// bindings. It is the only package that imports the binding directly.
package glnative

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"learngl/internal/graphics/glapi"
)

// Native forwards every call to the current OpenGL context.
type Native struct{}

var _ glapi.GL = Native{}

// Init loads the GL function pointers. A context must be current on the calling
// thread.
func Init() (Native, error) {
	if err := gl.Init(); err != nil {
		return Native{}, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return Native{}, nil
}

// LogInfo writes the driver identification and a few limits to the default logger.
func LogInfo(g glapi.GL) {
	var maxAttribs int32
	g.GetIntegerv(glapi.MaxVertexAttribs, &maxAttribs)
	slog.Info("OpenGL context",
		"vendor", g.GetString(glapi.Vendor),
		"renderer", g.GetString(glapi.Renderer),
		"version", g.GetString(glapi.Version),
		"glsl", g.GetString(glapi.ShadingLanguageVersion),
		"max_vertex_attribs", maxAttribs,
	)
}

func (Native) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (Native) Clear(mask uint32)                  { gl.Clear(mask) }
func (Native) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (Native) Enable(capability uint32)           { gl.Enable(capability) }
func (Native) Disable(capability uint32)          { gl.Disable(capability) }
func (Native) BlendFunc(sfactor, dfactor uint32)  { gl.BlendFunc(sfactor, dfactor) }
func (Native) PolygonMode(face, mode uint32)      { gl.PolygonMode(face, mode) }

func (Native) GetString(name uint32) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (Native) GetIntegerv(pname uint32, data *int32) { gl.GetIntegerv(pname, data) }

func (Native) GenBuffers(n int32, buffers *uint32)    { gl.GenBuffers(n, buffers) }
func (Native) DeleteBuffers(n int32, buffers *uint32) { gl.DeleteBuffers(n, buffers) }
func (Native) BindBuffer(target, buffer uint32)       { gl.BindBuffer(target, buffer) }

func (Native) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.BufferData(target, size, data, usage)
}

func (Native) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	gl.BufferSubData(target, offset, size, data)
}

func (Native) GenVertexArrays(n int32, arrays *uint32)    { gl.GenVertexArrays(n, arrays) }
func (Native) DeleteVertexArrays(n int32, arrays *uint32) { gl.DeleteVertexArrays(n, arrays) }
func (Native) BindVertexArray(array uint32)               { gl.BindVertexArray(array) }

func (Native) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(int(offset)))
}

func (Native) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Native) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (Native) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (Native) CompileShader(shader uint32)                     { gl.CompileShader(shader) }
func (Native) GetShaderiv(shader, pname uint32, params *int32) { gl.GetShaderiv(shader, pname, params) }

func (Native) GetShaderInfoLog(shader uint32, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(bufSize)+1)
	gl.GetShaderInfoLog(shader, bufSize, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Native) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Native) CreateProgram() uint32               { return gl.CreateProgram() }
func (Native) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Native) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (Native) LinkProgram(program uint32)          { gl.LinkProgram(program) }
func (Native) GetProgramiv(program, pname uint32, params *int32) {
	gl.GetProgramiv(program, pname, params)
}

func (Native) GetProgramInfoLog(program uint32, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(bufSize)+1)
	gl.GetProgramInfoLog(program, bufSize, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Native) UseProgram(program uint32)    { gl.UseProgram(program) }
func (Native) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Native) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Native) Uniform1f(location int32, v0 float32)         { gl.Uniform1f(location, v0) }
func (Native) Uniform1i(location int32, v0 int32)           { gl.Uniform1i(location, v0) }
func (Native) Uniform3f(location int32, v0, v1, v2 float32) { gl.Uniform3f(location, v0, v1, v2) }

func (Native) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	gl.UniformMatrix4fv(location, count, transpose, value)
}

func (Native) GenTextures(n int32, textures *uint32)    { gl.GenTextures(n, textures) }
func (Native) DeleteTextures(n int32, textures *uint32) { gl.DeleteTextures(n, textures) }
func (Native) BindTexture(target, texture uint32)       { gl.BindTexture(target, texture) }

func (Native) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (Native) TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.TexImage2D(target, level, internalformat, width, height, border, format, xtype, pixels)
}

func (Native) GenerateMipmap(target uint32)          { gl.GenerateMipmap(target) }
func (Native) ActiveTexture(texture uint32)          { gl.ActiveTexture(texture) }
func (Native) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

func (Native) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(int(offset)))
}

func (Native) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }
