package assets

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"learngl/internal/graphics"
)

// FontRasterizer renders glyphs of one TrueType/OpenType face at a fixed pixel
// size. A missing font file falls back to the embedded Go Regular face.
type FontRasterizer struct {
	face      font.Face
	pixelSize int
	Fallback  bool
}

var _ graphics.GlyphRasterizer = (*FontRasterizer)(nil)

// Init loads the face at path and sets the pixel size. An empty path selects the
// embedded face directly.
func (f *FontRasterizer) Init(path string, pixelSize int) error {
	data := goregular.TTF
	f.Fallback = true
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = b
			f.Fallback = false
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("font not found, using built-in face", "path", path)
		default:
			return fmt.Errorf("read font: %w", err)
		}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: float64(pixelSize), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fmt.Errorf("new face: %w", err)
	}
	if f.face != nil {
		_ = f.face.Close()
	}
	f.face = face
	f.pixelSize = pixelSize
	return nil
}

func (f *FontRasterizer) PixelSize() int { return f.pixelSize }

// LoadGlyph rasterizes r with the pen at the origin. Bearing is measured from the
// pen to the top-left of the bitmap with Y pointing up; the advance stays in
// 26.6 fixed point.
func (f *FontRasterizer) LoadGlyph(r rune) (graphics.Glyph, error) {
	if f.face == nil {
		return graphics.Glyph{}, errors.New("font rasterizer is not initialized")
	}
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.P(0, 0), r)
	if !ok {
		return graphics.Glyph{}, fmt.Errorf("no glyph for %q", r)
	}
	g := graphics.Glyph{
		Width:    dr.Dx(),
		Height:   dr.Dy(),
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Advance:  int(advance),
	}
	if g.Width == 0 || g.Height == 0 || mask == nil {
		g.Width, g.Height = 0, 0
		return g, nil
	}
	bitmap := image.NewAlpha(image.Rect(0, 0, g.Width, g.Height))
	draw.Draw(bitmap, bitmap.Bounds(), mask, maskp, draw.Src)
	g.Bitmap = bitmap.Pix
	return g, nil
}

func (f *FontRasterizer) Close() error {
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	return err
}

// GlyphProgress returns a callback for TextRenderer.LoadGlyphs that draws a
// progress bar on w while the glyph textures are baked.
func GlyphProgress(w io.Writer) func(rune) {
	bar := progressbar.NewOptions(graphics.GlyphCount,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("baking glyphs"),
		progressbar.OptionClearOnFinish(),
	)
	return func(r rune) {
		_ = bar.Add(1)
		if r == graphics.GlyphCount-1 {
			_ = bar.Finish()
		}
	}
}
