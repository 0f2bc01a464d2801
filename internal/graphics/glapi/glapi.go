// Package glapi is the bottom layer of the renderer: the subset of OpenGL entry
// points the rest of the repository is allowed to call.
//
// Implementations wrap a concrete binding (see glnative) or record calls for tests
// (see gltest). Every method operates on the context current on the calling thread;
// callers must stay on the thread that owns the context.
package glapi

import "unsafe"

// Enum values shared by all implementations. They mirror the OpenGL headers.
const (
	False = 0
	True  = 1

	// Primitive modes
	Lines     = 0x0001
	Triangles = 0x0004

	// Scalar types
	Byte          = 0x1400
	UnsignedByte  = 0x1401
	Short         = 0x1402
	UnsignedShort = 0x1403
	Int           = 0x1404
	UnsignedInt   = 0x1405
	Float         = 0x1406
	Double        = 0x140A

	// Buffer targets and usage
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	// Shaders and programs
	VertexShader   = 0x8B31
	FragmentShader = 0x8B30
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	// Textures
	Texture2D          = 0x0DE1
	Texture0           = 0x84C0
	TextureMagFilter   = 0x2800
	TextureMinFilter   = 0x2801
	TextureWrapS       = 0x2802
	TextureWrapT       = 0x2803
	Nearest            = 0x2600
	Linear             = 0x2601
	LinearMipmapLinear = 0x2703
	Repeat             = 0x2901
	ClampToEdge        = 0x812F
	UnpackAlignment    = 0x0CF5

	// Pixel formats
	Red  = 0x1903
	RGB  = 0x1907
	RGBA = 0x1908

	// Framebuffer and state
	DepthBufferBit   = 0x00000100
	ColorBufferBit   = 0x00004000
	CullFace         = 0x0B44
	DepthTest        = 0x0B71
	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303
	FrontAndBack     = 0x0408
	Line             = 0x1B01
	Fill             = 0x1B02

	// Queries
	Vendor                 = 0x1F00
	Renderer               = 0x1F01
	Version                = 0x1F02
	ShadingLanguageVersion = 0x8B8C
	MaxVertexAttribs       = 0x8869
)

// NoLocation is what GetUniformLocation returns for a name that is not an active
// uniform of the program. Writes to it are silently ignored.
const NoLocation int32 = -1

// GL describes the OpenGL entry points used by this repository.
type GL interface {
	// Framebuffer and global state
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	Enable(capability uint32)
	Disable(capability uint32)
	BlendFunc(sfactor, dfactor uint32)
	PolygonMode(face, mode uint32)
	GetString(name uint32) string
	GetIntegerv(pname uint32, data *int32)

	// Buffer objects
	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset, size int, data unsafe.Pointer)

	// Vertex array objects. Offsets are byte offsets into the bound buffer.
	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	// Shader objects
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32, params *int32)
	// GetShaderInfoLog returns at most bufSize bytes of the info log.
	GetShaderInfoLog(shader uint32, bufSize int32) string
	DeleteShader(shader uint32)

	// Program objects
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32, params *int32)
	// GetProgramInfoLog returns at most bufSize bytes of the info log.
	GetProgramInfoLog(program uint32, bufSize int32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniforms. Writes target the program currently in use.
	GetUniformLocation(program uint32, name string) int32
	Uniform1f(location int32, v0 float32)
	Uniform1i(location int32, v0 int32)
	Uniform3f(location int32, v0, v1, v2 float32)
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)

	// Textures
	GenTextures(n int32, textures *uint32)
	DeleteTextures(n int32, textures *uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer)
	GenerateMipmap(target uint32)
	ActiveTexture(texture uint32)
	PixelStorei(pname uint32, param int32)

	// Drawing. DrawElements reads indices from the element buffer captured by the
	// bound vertex array, starting at the given byte offset.
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
	DrawArrays(mode uint32, first, count int32)
}

// SizeOf returns the size in bytes of a scalar type enum, or 0 if the enum is not
// a scalar type.
func SizeOf(xtype uint32) int {
	switch xtype {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}

// Ptr returns a pointer to the first element of data, or nil for an empty slice.
func Ptr[T any](data []T) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}
