package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/internal/graphics"
)

// twoRows is a 2×2 PNG: red on top, blue at the bottom.
func twoRows(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.Set(x, 0, color.RGBA{255, 0, 0, 255})
		img.Set(x, 1, color.RGBA{0, 0, 255, 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeFlipsVertically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.png")
	require.NoError(t, os.WriteFile(path, twoRows(t), 0o644))

	pb, err := ImageLoader{}.Decode(path, graphics.RGB)
	require.NoError(t, err)
	assert.Equal(t, 2, pb.Width)
	assert.Equal(t, 2, pb.Height)
	assert.Equal(t, graphics.RGB, pb.Format)
	assert.Equal(t, []byte{
		0, 0, 255, 0, 0, 255,
		255, 0, 0, 255, 0, 0,
	}, pb.Pix)
}

func TestDecodeFormats(t *testing.T) {
	data := twoRows(t)

	pb, err := DecodeBytes(data, graphics.RGBA)
	require.NoError(t, err)
	assert.Len(t, pb.Pix, 16)
	assert.Equal(t, []byte{0, 0, 255, 255}, pb.Pix[:4])

	pb, err = DecodeBytes(data, graphics.Red)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 255, 255}, pb.Pix)

	_, err = DecodeBytes(data, graphics.PixelFormat(0))
	assert.Error(t, err)
}

func TestDecodeRejectsNonImages(t *testing.T) {
	_, err := DecodeBytes([]byte("#version 330 core\nvoid main() {}\n"), graphics.RGB)
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = ImageLoader{}.Decode(filepath.Join(t.TempDir(), "missing.png"), graphics.RGB)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFontRasterizerBuiltin(t *testing.T) {
	var f FontRasterizer
	require.NoError(t, f.Init("", 48))
	defer f.Close()
	assert.True(t, f.Fallback)
	assert.Equal(t, 48, f.PixelSize())

	g, err := f.LoadGlyph('A')
	require.NoError(t, err)
	assert.Positive(t, g.Width)
	assert.Positive(t, g.Height)
	assert.Positive(t, g.BearingY)
	assert.Len(t, g.Bitmap, g.Width*g.Height)
	assert.Positive(t, g.Advance>>6)

	space, err := f.LoadGlyph(' ')
	require.NoError(t, err)
	assert.Zero(t, space.Width)
	assert.Empty(t, space.Bitmap)
	assert.Positive(t, space.Advance)
}

func TestFontRasterizerMissingFileFallsBack(t *testing.T) {
	var f FontRasterizer
	require.NoError(t, f.Init(filepath.Join(t.TempDir(), "Hack-Regular.ttf"), 24))
	assert.True(t, f.Fallback)

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(bad, []byte("not a font"), 0o644))
	assert.Error(t, f.Init(bad, 24))
}

func TestFontRasterizerUninitialized(t *testing.T) {
	var f FontRasterizer
	_, err := f.LoadGlyph('a')
	assert.Error(t, err)
	assert.NoError(t, f.Close())
}

func TestGlyphProgress(t *testing.T) {
	step := GlyphProgress(io.Discard)
	assert.NotPanics(t, func() {
		for r := rune(0); r < graphics.GlyphCount; r++ {
			step(r)
		}
	})
}
