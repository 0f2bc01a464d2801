package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"learngl/internal/graphics/glapi"
)

// GlyphCount is the number of character codes baked by LoadGlyphs (ASCII 0-127).
const GlyphCount = 128

// Glyph is a rasterized character: an 8-bit coverage bitmap stored top row first,
// its bearing from the pen position and the horizontal advance in 1/64 pixels.
type Glyph struct {
	Width, Height      int
	BearingX, BearingY int
	Advance            int
	Bitmap             []byte
}

// GlyphRasterizer produces glyph bitmaps for a font face at a fixed pixel size.
type GlyphRasterizer interface {
	LoadGlyph(r rune) (Glyph, error)
}

// Character is a baked glyph: one RED texture plus the metrics needed to place it.
type Character struct {
	Texture uint32
	Size    [2]int
	Bearing [2]int
	Advance int
}

// TextRenderer draws strings one glyph quad at a time from per-character textures.
type TextRenderer struct {
	gl         glapi.GL
	program    *Program
	color      *Uniform
	projection *Uniform
	sampler    *Uniform
	layout     *VertexLayout
	vbo        *DynamicBuffer
	characters map[rune]Character

	// DepthTest re-enables GL_DEPTH_TEST after drawing. Text is always drawn with
	// depth testing off.
	DepthTest bool
}

const quadFloats = 6 * 4

// NewTextRenderer creates the streaming quad buffer and sets an orthographic
// projection covering width×height pixels with the origin at the bottom left.
// program must be linked and declare textColor, projection and text uniforms.
func NewTextRenderer(gl glapi.GL, program *Program, width, height int) (*TextRenderer, error) {
	tr := &TextRenderer{
		gl:         gl,
		program:    program,
		color:      ResolveUniform(gl, program, "textColor"),
		projection: ResolveUniform(gl, program, "projection"),
		sampler:    ResolveUniform(gl, program, "text"),
		characters: make(map[rune]Character, GlyphCount),
	}

	tr.vbo = NewDynamicBuffer(gl, quadFloats)
	tr.layout = NewVertexLayout(gl, tr.vbo)
	// vec4: position xy, texture uv
	if err := tr.layout.SetAttributes(Interleaved(4)); err != nil {
		tr.layout.Delete()
		tr.vbo.Delete()
		return nil, fmt.Errorf("text quad layout: %w", err)
	}
	gl.BindBuffer(glapi.ArrayBuffer, 0)
	gl.BindVertexArray(0)

	tr.SetViewport(width, height)
	return tr, nil
}

// LoadGlyphs bakes character codes 0-127 into textures. onGlyph, when set, is
// called after each character.
func (tr *TextRenderer) LoadGlyphs(src GlyphRasterizer, onGlyph func(r rune)) error {
	// Glyph rows are byte sized.
	tr.gl.PixelStorei(glapi.UnpackAlignment, 1)
	defer tr.gl.PixelStorei(glapi.UnpackAlignment, defaultUnpackAlignment)

	for c := rune(0); c < GlyphCount; c++ {
		g, err := src.LoadGlyph(c)
		if err != nil {
			return fmt.Errorf("load glyph %q: %w", c, err)
		}

		var tex uint32
		tr.gl.GenTextures(1, &tex)
		tr.gl.BindTexture(glapi.Texture2D, tex)
		tr.gl.TexImage2D(glapi.Texture2D, 0, glapi.Red, int32(g.Width), int32(g.Height), 0,
			glapi.Red, glapi.UnsignedByte, glapi.Ptr(g.Bitmap))
		tr.gl.TexParameteri(glapi.Texture2D, glapi.TextureWrapS, glapi.ClampToEdge)
		tr.gl.TexParameteri(glapi.Texture2D, glapi.TextureWrapT, glapi.ClampToEdge)
		tr.gl.TexParameteri(glapi.Texture2D, glapi.TextureMinFilter, glapi.Linear)
		tr.gl.TexParameteri(glapi.Texture2D, glapi.TextureMagFilter, glapi.Linear)

		if old, ok := tr.characters[c]; ok {
			tr.gl.DeleteTextures(1, &old.Texture)
		}
		tr.characters[c] = Character{
			Texture: tex,
			Size:    [2]int{g.Width, g.Height},
			Bearing: [2]int{g.BearingX, g.BearingY},
			Advance: g.Advance,
		}
		if onGlyph != nil {
			onGlyph(c)
		}
	}
	tr.gl.BindTexture(glapi.Texture2D, 0)
	return nil
}

// Character returns the baked metrics for r.
func (tr *TextRenderer) Character(r rune) (Character, bool) {
	ch, ok := tr.characters[r]
	return ch, ok
}

// SetViewport replaces the projection with an orthographic one for the new size.
func (tr *TextRenderer) SetViewport(width, height int) {
	tr.program.Use()
	tr.projection.Update(Mat4(mgl32.Ortho(0, float32(width), 0, float32(height), -1, 1)))
}

// RenderText draws text with its baseline starting at (x, y) in pixels, bottom-left
// origin. Runes without a baked glyph are skipped with the width of a space.
func (tr *TextRenderer) RenderText(text string, x, y, scale float32, color mgl32.Vec3) {
	tr.gl.Disable(glapi.DepthTest)
	tr.gl.Enable(glapi.Blend)
	tr.gl.BlendFunc(glapi.SrcAlpha, glapi.OneMinusSrcAlpha)

	tr.program.Use()
	tr.color.Update(Vec3(color))
	tr.sampler.Update(Int(0))
	tr.gl.ActiveTexture(glapi.Texture0)
	tr.layout.Bind()

	for _, r := range text {
		ch, ok := tr.characters[r]
		if !ok {
			x += tr.advance(' ') * scale
			continue
		}
		xpos := x + float32(ch.Bearing[0])*scale
		ypos := y - float32(ch.Size[1]-ch.Bearing[1])*scale
		w := float32(ch.Size[0]) * scale
		h := float32(ch.Size[1]) * scale

		vertices := [quadFloats]float32{
			xpos, ypos + h, 0, 0,
			xpos, ypos, 0, 1,
			xpos + w, ypos, 1, 1,

			xpos, ypos + h, 0, 0,
			xpos + w, ypos, 1, 1,
			xpos + w, ypos + h, 1, 0,
		}
		tr.gl.BindTexture(glapi.Texture2D, ch.Texture)
		// The quad always fits the buffer.
		_ = tr.vbo.SubUpdate(0, vertices[:])
		tr.gl.DrawArrays(glapi.Triangles, 0, 6)

		x += float32(ch.Advance>>6) * scale
	}

	tr.gl.BindVertexArray(0)
	tr.gl.BindTexture(glapi.Texture2D, 0)
	tr.gl.Disable(glapi.Blend)
	if tr.DepthTest {
		tr.gl.Enable(glapi.DepthTest)
	}
}

func (tr *TextRenderer) advance(r rune) float32 {
	return float32(tr.characters[r].Advance >> 6)
}

// Measure returns the width and the tallest glyph height of text in pixels.
func (tr *TextRenderer) Measure(text string, scale float32) (float32, float32) {
	var width, height float32
	for _, r := range text {
		ch, ok := tr.characters[r]
		if !ok {
			width += tr.advance(' ') * scale
			continue
		}
		width += float32(ch.Advance>>6) * scale
		if h := float32(ch.Size[1]) * scale; h > height {
			height = h
		}
	}
	return width, height
}

// Delete removes the glyph textures and the quad buffers. The program belongs to
// the caller.
func (tr *TextRenderer) Delete() {
	for r, ch := range tr.characters {
		tr.gl.DeleteTextures(1, &ch.Texture)
		delete(tr.characters, r)
	}
	tr.layout.Delete()
	tr.vbo.Delete()
}
