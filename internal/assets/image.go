// Package assets loads image and font files into the plain pixel and glyph
// buffers consumed by the graphics package.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"learngl/internal/graphics"
)

var ErrNotImage = errors.New("file is not an image")

// ImageLoader decodes PNG, JPEG, BMP and WebP files and flips them vertically so
// the first row is the bottom of the picture, matching GL texture coordinates.
type ImageLoader struct{}

var _ graphics.ImageDecoder = ImageLoader{}

func (ImageLoader) Decode(path string, format graphics.PixelFormat) (*graphics.PixelBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return DecodeBytes(data, format)
}

// DecodeBytes is Decode for an in-memory file.
func DecodeBytes(data []byte, format graphics.PixelFormat) (*graphics.PixelBuffer, error) {
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("%w: detected %q", ErrNotImage, kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Pack(transform.FlipV(img), format)
}

// Pack converts an RGBA image into tightly packed rows of the requested format.
func Pack(img *image.RGBA, format graphics.PixelFormat) (*graphics.PixelBuffer, error) {
	channels := format.Channels()
	if channels == 0 {
		return nil, fmt.Errorf("unsupported pixel format %s", format)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &graphics.PixelBuffer{Width: w, Height: h, Format: format, Pix: make([]byte, w*h*channels)}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*w*channels : (y+1)*w*channels]
		for x := 0; x < w; x++ {
			copy(dst[x*channels:(x+1)*channels], row[x*4:x*4+channels])
		}
	}
	return out, nil
}
