package graphics

import (
	"fmt"
	"log/slog"

	"learngl/internal/graphics/glapi"
)

// PixelFormat is the channel layout of uploaded texture data.
type PixelFormat uint32

const (
	RGB  PixelFormat = glapi.RGB
	RGBA PixelFormat = glapi.RGBA
	Red  PixelFormat = glapi.Red
)

// Channels returns the number of bytes per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case Red:
		return 1
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case Red:
		return "red"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("PixelFormat(%#x)", uint32(f))
}

// PixelBuffer is tightly packed 8-bit image data, rows bottom to top.
type PixelBuffer struct {
	Width, Height int
	Format        PixelFormat
	Pix           []byte
}

// ImageDecoder turns an image file into a PixelBuffer in the requested format,
// flipped vertically so the first row is the bottom of the image.
type ImageDecoder interface {
	Decode(path string, format PixelFormat) (*PixelBuffer, error)
}

// Texture owns a TEXTURE_2D object and the sampler uniform that reads it.
type Texture struct {
	gl      glapi.GL
	id      uint32
	path    string
	sampler *Uniform
	loaded  bool
	width   int
	height  int
}

// NewTexture creates a texture with REPEAT wrapping and trilinear filtering and
// fills it from the image at path. A decode failure is logged and leaves the
// texture allocated but empty; it never fails construction.
func NewTexture(gl glapi.GL, program *Program, samplerName, path string, format PixelFormat, decoder ImageDecoder) *Texture {
	t := &Texture{gl: gl, path: path}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(glapi.Texture2D, t.id)

	gl.TexParameteri(glapi.Texture2D, glapi.TextureWrapS, glapi.Repeat)
	gl.TexParameteri(glapi.Texture2D, glapi.TextureWrapT, glapi.Repeat)
	gl.TexParameteri(glapi.Texture2D, glapi.TextureMinFilter, glapi.LinearMipmapLinear)
	gl.TexParameteri(glapi.Texture2D, glapi.TextureMagFilter, glapi.Linear)

	t.sampler = ResolveUniform(gl, program, samplerName)

	img, err := decoder.Decode(path, format)
	if err != nil {
		slog.Warn("failed to load texture", "path", path, "error", err)
		return t
	}
	t.upload(img)
	gl.GenerateMipmap(glapi.Texture2D)
	return t
}

// defaultUnpackAlignment is GL's initial GL_UNPACK_ALIGNMENT.
const defaultUnpackAlignment = 4

func (t *Texture) upload(img *PixelBuffer) {
	tight := img.Format.Channels() != 4
	if tight {
		// Rows of 1 or 3 byte pixels are not 4-byte aligned in general.
		t.gl.PixelStorei(glapi.UnpackAlignment, 1)
	}
	t.gl.TexImage2D(glapi.Texture2D, 0, int32(img.Format), int32(img.Width), int32(img.Height), 0,
		uint32(img.Format), glapi.UnsignedByte, glapi.Ptr(img.Pix))
	if tight {
		t.gl.PixelStorei(glapi.UnpackAlignment, defaultUnpackAlignment)
	}
	t.width, t.height = img.Width, img.Height
	t.loaded = true
}

// SetActiveTexture binds the texture to unit and points the sampler uniform at it.
// The owning program must be in use, and this has to happen before the draw call.
func (t *Texture) SetActiveTexture(unit uint32) {
	t.gl.ActiveTexture(glapi.Texture0 + unit)
	t.gl.BindTexture(glapi.Texture2D, t.id)
	t.sampler.Update(Int(unit))
}

func (t *Texture) ID() uint32        { return t.id }
func (t *Texture) Path() string      { return t.path }
func (t *Texture) Loaded() bool      { return t.loaded }
func (t *Texture) Size() (int, int)  { return t.width, t.height }
func (t *Texture) Sampler() *Uniform { return t.sampler }

func (t *Texture) Delete() {
	if t.id == 0 {
		return
	}
	t.gl.DeleteTextures(1, &t.id)
	t.id = 0
}
