// Package gltest provides an in-memory glapi.GL implementation that tracks object
// state and records every call, so code above the bottom layer can be tested without
// a window or a driver.
package gltest

import (
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"learngl/internal/graphics/glapi"
)

// FailMarker makes CompileShader fail when it appears in a shader source. The text
// following it on the same line becomes the info log message.
const FailMarker = "#error"

// Call is one recorded entry point invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Buffer is the state of a buffer object.
type Buffer struct {
	Data    []byte
	Usage   uint32
	Deleted bool
}

// Floats reinterprets the buffer contents as float32 values.
func (b *Buffer) Floats() []float32 {
	if len(b.Data) < 4 {
		return nil
	}
	out := make([]float32, len(b.Data)/4)
	copy(out, unsafe.Slice((*float32)(unsafe.Pointer(&b.Data[0])), len(out)))
	return out
}

// Uints reinterprets the buffer contents as uint32 values.
func (b *Buffer) Uints() []uint32 {
	if len(b.Data) < 4 {
		return nil
	}
	out := make([]uint32, len(b.Data)/4)
	copy(out, unsafe.Slice((*uint32)(unsafe.Pointer(&b.Data[0])), len(out)))
	return out
}

// Attrib is one vertex attribute slot captured by a vertex array.
type Attrib struct {
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	Buffer     uint32
	Enabled    bool
}

// VertexArray is the state of a vertex array object.
type VertexArray struct {
	Attribs       map[uint32]Attrib
	ElementBuffer uint32
	Deleted       bool
}

// Shader is the state of a shader object.
type Shader struct {
	Type     uint32
	Source   string
	Compiled bool
	Log      string
	Deleted  bool
}

// Program is the state of a program object.
type Program struct {
	Attached []uint32
	Linked   bool
	Log      string
	Deleted  bool
	// Uniforms maps active uniform names to locations, filled on a successful link.
	Uniforms map[string]int32
	// Values holds the last value written per location.
	Values map[int32]any
}

// Texture is the state of a texture object.
type Texture struct {
	Width, Height  int32
	InternalFormat int32
	Format         uint32
	Pixels         []byte
	// UnpackAlignment is the GL_UNPACK_ALIGNMENT in effect at the last upload.
	UnpackAlignment int32
	Params          map[uint32]int32
	Mipmapped       bool
	Deleted         bool
}

// Draw is one recorded draw call together with the state it observed.
type Draw struct {
	Mode          uint32
	Count         int32
	Type          uint32
	Offset        uintptr
	First         int32
	Indexed       bool
	Program       uint32
	VertexArray   uint32
	ElementBuffer uint32
}

// Recorder implements glapi.GL in memory.
type Recorder struct {
	Calls []Call
	Draws []Draw
	// Errors collects misuse a real driver would flag with GL_INVALID_OPERATION.
	Errors []string

	// Strings answers GetString; Integers answers GetIntegerv.
	Strings  map[uint32]string
	Integers map[uint32]int32

	// FailLink makes every LinkProgram fail with LinkLog.
	FailLink bool
	LinkLog  string

	ClearColorValue  [4]float32
	ViewportValue    [4]int32
	PolygonModeValue uint32
	Enabled          map[uint32]bool
	PixelStore       map[uint32]int32

	next        uint32
	buffers     map[uint32]*Buffer
	arrays      map[uint32]*VertexArray
	shaders     map[uint32]*Shader
	programs    map[uint32]*Program
	textures    map[uint32]*Texture
	bound       map[uint32]uint32
	units       map[uint32]uint32
	activeUnit  uint32
	vertexArray uint32
	program     uint32
}

var _ glapi.GL = (*Recorder)(nil)

// New returns a recorder that reports a 4.1 core context.
func New() *Recorder {
	return &Recorder{
		Strings: map[uint32]string{
			glapi.Vendor:                 "gltest",
			glapi.Renderer:               "recorder",
			glapi.Version:                "4.1.0 gltest",
			glapi.ShadingLanguageVersion: "4.10",
		},
		Integers:         map[uint32]int32{glapi.MaxVertexAttribs: 16},
		PolygonModeValue: glapi.Fill,
		Enabled:          map[uint32]bool{},
		PixelStore:       map[uint32]int32{glapi.UnpackAlignment: 4},
		buffers:          map[uint32]*Buffer{},
		arrays:           map[uint32]*VertexArray{},
		shaders:          map[uint32]*Shader{},
		programs:         map[uint32]*Program{},
		textures:         map[uint32]*Texture{},
		bound:            map[uint32]uint32{},
		units:            map[uint32]uint32{},
		activeUnit:       glapi.Texture0,
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Recorder) gen() uint32 {
	r.next++
	return r.next
}

// Mark returns the current position in the call log.
func (r *Recorder) Mark() int { return len(r.Calls) }

// Since returns the calls recorded after mark.
func (r *Recorder) Since(mark int) []Call { return r.Calls[mark:] }

// Names returns the names of the calls recorded after mark.
func (r *Recorder) Names(mark int) []string {
	names := make([]string, 0, len(r.Calls)-mark)
	for _, c := range r.Calls[mark:] {
		names = append(names, c.Name)
	}
	return names
}

// Count returns how many times name was called.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Buffer returns the state of a buffer object, or nil.
func (r *Recorder) Buffer(id uint32) *Buffer { return r.buffers[id] }

// VertexArray returns the state of a vertex array object, or nil.
func (r *Recorder) VertexArray(id uint32) *VertexArray { return r.arrays[id] }

// Shader returns the state of a shader object, or nil.
func (r *Recorder) Shader(id uint32) *Shader { return r.shaders[id] }

// Program returns the state of a program object, or nil.
func (r *Recorder) Program(id uint32) *Program { return r.programs[id] }

// Texture returns the state of a texture object, or nil.
func (r *Recorder) Texture(id uint32) *Texture { return r.textures[id] }

// Bound returns the buffer bound to target.
func (r *Recorder) Bound(target uint32) uint32 {
	if target == glapi.ElementArrayBuffer {
		if vao := r.arrays[r.vertexArray]; vao != nil {
			return vao.ElementBuffer
		}
	}
	return r.bound[target]
}

// CurrentProgram returns the program in use.
func (r *Recorder) CurrentProgram() uint32 { return r.program }

// CurrentVertexArray returns the bound vertex array.
func (r *Recorder) CurrentVertexArray() uint32 { return r.vertexArray }

// ActiveUnit returns the active texture unit as a zero-based index.
func (r *Recorder) ActiveUnit() uint32 { return r.activeUnit - glapi.Texture0 }

// TextureUnit returns the texture bound to a zero-based unit.
func (r *Recorder) TextureUnit(unit uint32) uint32 { return r.units[glapi.Texture0+unit] }

// UniformValue returns the last value written to a named uniform of a program.
func (r *Recorder) UniformValue(program uint32, name string) (any, bool) {
	p := r.programs[program]
	if p == nil {
		return nil, false
	}
	loc, ok := p.Uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[loc]
	return v, ok
}

// Live returns the number of objects of every kind that were created and not deleted.
func (r *Recorder) Live() int {
	n := 0
	for _, b := range r.buffers {
		if !b.Deleted {
			n++
		}
	}
	for _, a := range r.arrays {
		if !a.Deleted {
			n++
		}
	}
	for _, s := range r.shaders {
		if !s.Deleted {
			n++
		}
	}
	for _, p := range r.programs {
		if !p.Deleted {
			n++
		}
	}
	for _, t := range r.textures {
		if !t.Deleted {
			n++
		}
	}
	return n
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
	r.ClearColorValue = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) Clear(mask uint32) { r.record("Clear", mask) }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
	r.ViewportValue = [4]int32{x, y, width, height}
}

func (r *Recorder) Enable(capability uint32) {
	r.record("Enable", capability)
	r.Enabled[capability] = true
}

func (r *Recorder) Disable(capability uint32) {
	r.record("Disable", capability)
	r.Enabled[capability] = false
}

func (r *Recorder) BlendFunc(sfactor, dfactor uint32) { r.record("BlendFunc", sfactor, dfactor) }

func (r *Recorder) PolygonMode(face, mode uint32) {
	r.record("PolygonMode", face, mode)
	r.PolygonModeValue = mode
}

func (r *Recorder) GetString(name uint32) string {
	r.record("GetString", name)
	return r.Strings[name]
}

func (r *Recorder) GetIntegerv(pname uint32, data *int32) {
	r.record("GetIntegerv", pname)
	*data = r.Integers[pname]
}

func (r *Recorder) GenBuffers(n int32, buffers *uint32) {
	r.record("GenBuffers", n)
	out := unsafe.Slice(buffers, n)
	for i := range out {
		id := r.gen()
		r.buffers[id] = &Buffer{}
		out[i] = id
	}
}

func (r *Recorder) DeleteBuffers(n int32, buffers *uint32) {
	r.record("DeleteBuffers", n)
	for _, id := range unsafe.Slice(buffers, n) {
		if b := r.buffers[id]; b != nil {
			b.Deleted = true
		}
		for target, bound := range r.bound {
			if bound == id {
				r.bound[target] = 0
			}
		}
	}
}

func (r *Recorder) BindBuffer(target, buffer uint32) {
	r.record("BindBuffer", target, buffer)
	if buffer != 0 && r.buffers[buffer] == nil {
		r.fail("BindBuffer: unknown buffer %d", buffer)
	}
	if target == glapi.ElementArrayBuffer {
		if vao := r.arrays[r.vertexArray]; vao != nil {
			vao.ElementBuffer = buffer
			return
		}
	}
	r.bound[target] = buffer
}

func (r *Recorder) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	r.record("BufferData", target, size, usage)
	b := r.buffers[r.Bound(target)]
	if b == nil {
		r.fail("BufferData: no buffer bound to %#x", target)
		return
	}
	b.Data = make([]byte, size)
	if data != nil {
		copy(b.Data, unsafe.Slice((*byte)(data), size))
	}
	b.Usage = usage
}

func (r *Recorder) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	r.record("BufferSubData", target, offset, size)
	b := r.buffers[r.Bound(target)]
	if b == nil {
		r.fail("BufferSubData: no buffer bound to %#x", target)
		return
	}
	if offset < 0 || offset+size > len(b.Data) {
		r.fail("BufferSubData: range %d+%d exceeds %d bytes", offset, size, len(b.Data))
		return
	}
	copy(b.Data[offset:], unsafe.Slice((*byte)(data), size))
}

func (r *Recorder) GenVertexArrays(n int32, arrays *uint32) {
	r.record("GenVertexArrays", n)
	out := unsafe.Slice(arrays, n)
	for i := range out {
		id := r.gen()
		r.arrays[id] = &VertexArray{Attribs: map[uint32]Attrib{}}
		out[i] = id
	}
}

func (r *Recorder) DeleteVertexArrays(n int32, arrays *uint32) {
	r.record("DeleteVertexArrays", n)
	for _, id := range unsafe.Slice(arrays, n) {
		if a := r.arrays[id]; a != nil {
			a.Deleted = true
		}
		if r.vertexArray == id {
			r.vertexArray = 0
		}
	}
}

func (r *Recorder) BindVertexArray(array uint32) {
	r.record("BindVertexArray", array)
	if array != 0 && r.arrays[array] == nil {
		r.fail("BindVertexArray: unknown array %d", array)
	}
	r.vertexArray = array
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
	vao := r.arrays[r.vertexArray]
	if vao == nil {
		r.fail("VertexAttribPointer: no vertex array bound")
		return
	}
	a := vao.Attribs[index]
	a.Size, a.Type, a.Normalized, a.Stride, a.Offset = size, xtype, normalized, stride, offset
	a.Buffer = r.bound[glapi.ArrayBuffer]
	vao.Attribs[index] = a
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
	vao := r.arrays[r.vertexArray]
	if vao == nil {
		r.fail("EnableVertexAttribArray: no vertex array bound")
		return
	}
	a := vao.Attribs[index]
	a.Enabled = true
	vao.Attribs[index] = a
}

func (r *Recorder) CreateShader(xtype uint32) uint32 {
	r.record("CreateShader", xtype)
	id := r.gen()
	r.shaders[id] = &Shader{Type: xtype}
	return id
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader)
	if s := r.shaders[shader]; s != nil {
		s.Source = source
	}
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader", shader)
	s := r.shaders[shader]
	if s == nil {
		r.fail("CompileShader: unknown shader %d", shader)
		return
	}
	s.Compiled, s.Log = true, ""
	for i, line := range strings.Split(s.Source, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), FailMarker); ok {
			s.Compiled = false
			s.Log = fmt.Sprintf("ERROR: 0:%d: '%s' :%s\n", i+1, FailMarker, rest)
			return
		}
	}
	if strings.TrimSpace(s.Source) == "" {
		s.Compiled = false
		s.Log = "ERROR: 0:1: '' : syntax error: empty source\n"
	}
}

func (r *Recorder) GetShaderiv(shader, pname uint32, params *int32) {
	r.record("GetShaderiv", shader, pname)
	s := r.shaders[shader]
	if s == nil {
		r.fail("GetShaderiv: unknown shader %d", shader)
		return
	}
	switch pname {
	case glapi.CompileStatus:
		*params = boolInt(s.Compiled)
	case glapi.InfoLogLength:
		*params = logLength(s.Log)
	}
}

func (r *Recorder) GetShaderInfoLog(shader uint32, bufSize int32) string {
	r.record("GetShaderInfoLog", shader, bufSize)
	if s := r.shaders[shader]; s != nil {
		return truncate(s.Log, bufSize)
	}
	return ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader", shader)
	if s := r.shaders[shader]; s != nil {
		s.Deleted = true
	}
}

func (r *Recorder) CreateProgram() uint32 {
	r.record("CreateProgram")
	id := r.gen()
	r.programs[id] = &Program{Uniforms: map[string]int32{}, Values: map[int32]any{}}
	return id
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
	p := r.programs[program]
	if p == nil || r.shaders[shader] == nil {
		r.fail("AttachShader: unknown program %d or shader %d", program, shader)
		return
	}
	p.Attached = append(p.Attached, shader)
}

func (r *Recorder) DetachShader(program, shader uint32) {
	r.record("DetachShader", program, shader)
	p := r.programs[program]
	if p == nil {
		r.fail("DetachShader: unknown program %d", program)
		return
	}
	for i, id := range p.Attached {
		if id == shader {
			p.Attached = append(p.Attached[:i], p.Attached[i+1:]...)
			return
		}
	}
	r.fail("DetachShader: shader %d not attached to %d", shader, program)
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram", program)
	p := r.programs[program]
	if p == nil {
		r.fail("LinkProgram: unknown program %d", program)
		return
	}
	p.Linked, p.Log = false, ""
	p.Uniforms = map[string]int32{}
	p.Values = map[int32]any{}
	if r.FailLink {
		p.Log = r.LinkLog
		return
	}
	stages := map[uint32]bool{}
	var sources []string
	for _, id := range p.Attached {
		s := r.shaders[id]
		if !s.Compiled {
			p.Log = fmt.Sprintf("ERROR: shader %d has not been successfully compiled\n", id)
			return
		}
		stages[s.Type] = true
		sources = append(sources, s.Source)
	}
	if !stages[glapi.VertexShader] || !stages[glapi.FragmentShader] {
		p.Log = "ERROR: program needs a vertex and a fragment shader\n"
		return
	}
	p.Linked = true
	var next int32
	for _, src := range sources {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := p.Uniforms[m[1]]; !ok {
				p.Uniforms[m[1]] = next
				next++
			}
		}
	}
}

func (r *Recorder) GetProgramiv(program, pname uint32, params *int32) {
	r.record("GetProgramiv", program, pname)
	p := r.programs[program]
	if p == nil {
		r.fail("GetProgramiv: unknown program %d", program)
		return
	}
	switch pname {
	case glapi.LinkStatus:
		*params = boolInt(p.Linked)
	case glapi.InfoLogLength:
		*params = logLength(p.Log)
	}
}

func (r *Recorder) GetProgramInfoLog(program uint32, bufSize int32) string {
	r.record("GetProgramInfoLog", program, bufSize)
	if p := r.programs[program]; p != nil {
		return truncate(p.Log, bufSize)
	}
	return ""
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
	if program != 0 {
		if p := r.programs[program]; p == nil || !p.Linked {
			r.fail("UseProgram: program %d is not linked", program)
		}
	}
	r.program = program
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	if p := r.programs[program]; p != nil {
		p.Deleted = true
	}
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.record("GetUniformLocation", program, name)
	p := r.programs[program]
	if p == nil || !p.Linked {
		r.fail("GetUniformLocation: program %d is not linked", program)
		return glapi.NoLocation
	}
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	return glapi.NoLocation
}

func (r *Recorder) setUniform(name string, location int32, v any) {
	r.record(name, location, v)
	if location == glapi.NoLocation {
		return
	}
	p := r.programs[r.program]
	if p == nil {
		r.fail("%s: no program in use", name)
		return
	}
	if int(location) >= len(p.Uniforms) || location < 0 {
		r.fail("%s: invalid location %d for program %d", name, location, r.program)
		return
	}
	p.Values[location] = v
}

func (r *Recorder) Uniform1f(location int32, v0 float32) { r.setUniform("Uniform1f", location, v0) }
func (r *Recorder) Uniform1i(location int32, v0 int32)   { r.setUniform("Uniform1i", location, v0) }

func (r *Recorder) Uniform3f(location int32, v0, v1, v2 float32) {
	r.setUniform("Uniform3f", location, [3]float32{v0, v1, v2})
}

func (r *Recorder) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	var m [16]float32
	copy(m[:], unsafe.Slice(value, 16))
	r.setUniform("UniformMatrix4fv", location, m)
}

func (r *Recorder) GenTextures(n int32, textures *uint32) {
	r.record("GenTextures", n)
	out := unsafe.Slice(textures, n)
	for i := range out {
		id := r.gen()
		r.textures[id] = &Texture{Params: map[uint32]int32{}}
		out[i] = id
	}
}

func (r *Recorder) DeleteTextures(n int32, textures *uint32) {
	r.record("DeleteTextures", n)
	for _, id := range unsafe.Slice(textures, n) {
		if t := r.textures[id]; t != nil {
			t.Deleted = true
		}
		for unit, bound := range r.units {
			if bound == id {
				r.units[unit] = 0
			}
		}
	}
}

func (r *Recorder) BindTexture(target, texture uint32) {
	r.record("BindTexture", target, texture)
	if texture != 0 && r.textures[texture] == nil {
		r.fail("BindTexture: unknown texture %d", texture)
	}
	r.units[r.activeUnit] = texture
}

func (r *Recorder) boundTexture(name string) *Texture {
	t := r.textures[r.units[r.activeUnit]]
	if t == nil {
		r.fail("%s: no texture bound", name)
	}
	return t
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.record("TexParameteri", target, pname, param)
	if t := r.boundTexture("TexParameteri"); t != nil {
		t.Params[pname] = param
	}
}

func (r *Recorder) TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	r.record("TexImage2D", target, level, internalformat, width, height, format, xtype)
	t := r.boundTexture("TexImage2D")
	if t == nil {
		return
	}
	t.Width, t.Height, t.InternalFormat, t.Format = width, height, internalformat, format
	t.UnpackAlignment = r.PixelStore[glapi.UnpackAlignment]
	channels := map[uint32]int32{glapi.Red: 1, glapi.RGB: 3, glapi.RGBA: 4}[format]
	size := int(width * height * channels)
	t.Pixels = nil
	if pixels != nil && size > 0 {
		t.Pixels = append([]byte(nil), unsafe.Slice((*byte)(pixels), size)...)
	}
}

func (r *Recorder) GenerateMipmap(target uint32) {
	r.record("GenerateMipmap", target)
	if t := r.boundTexture("GenerateMipmap"); t != nil {
		t.Mipmapped = true
	}
}

func (r *Recorder) ActiveTexture(texture uint32) {
	r.record("ActiveTexture", texture)
	r.activeUnit = texture
}

func (r *Recorder) PixelStorei(pname uint32, param int32) {
	r.record("PixelStorei", pname, param)
	r.PixelStore[pname] = param
}

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	r.record("DrawElements", mode, count, xtype, offset)
	d := Draw{
		Mode: mode, Count: count, Type: xtype, Offset: offset, Indexed: true,
		Program: r.program, VertexArray: r.vertexArray,
	}
	if vao := r.arrays[r.vertexArray]; vao != nil {
		d.ElementBuffer = vao.ElementBuffer
	} else {
		r.fail("DrawElements: no vertex array bound")
	}
	if d.ElementBuffer == 0 {
		r.fail("DrawElements: no element buffer captured by vertex array %d", r.vertexArray)
	}
	r.Draws = append(r.Draws, d)
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.record("DrawArrays", mode, first, count)
	if r.arrays[r.vertexArray] == nil {
		r.fail("DrawArrays: no vertex array bound")
	}
	r.Draws = append(r.Draws, Draw{
		Mode: mode, First: first, Count: count,
		Program: r.program, VertexArray: r.vertexArray,
	})
}

func boolInt(b bool) int32 {
	if b {
		return glapi.True
	}
	return glapi.False
}

// logLength mirrors GL: the length includes the terminating NUL, 0 for an empty log.
func logLength(log string) int32 {
	if log == "" {
		return 0
	}
	return int32(len(log) + 1)
}

func truncate(log string, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	if int(bufSize) <= len(log) {
		return log[:bufSize-1]
	}
	return log
}
