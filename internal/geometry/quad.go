package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrOffset is returned by Quad when the offset does not select a single plane.
var ErrOffset = errors.New("quad offset must have exactly one non-zero component")

var quadIndices = []uint32{0, 1, 2, 1, 3, 2}

// Quad returns an axis-aligned rectangle. The non-zero component of offset picks
// the plane: x != 0 gives the plane X = offset.x, y the floor Y = offset.y and z
// the plane Z = offset.z. Vertical quads rise from Y = 0 to height; the floor is
// width×width. The texture is repeated textureScale times along each axis.
func Quad(width, height float32, offset mgl32.Vec3, textureScale mgl32.Vec2) (Shape, error) {
	nonZero := 0
	for _, c := range offset {
		if c != 0 {
			nonZero++
		}
	}
	if nonZero != 1 {
		return Shape{}, ErrOffset
	}

	w := width / 2
	type corner struct {
		pos mgl32.Vec3
		uv  TextureCorner
	}
	var corners [4]corner
	switch {
	case offset[0] != 0:
		x := offset[0]
		corners = [4]corner{
			{mgl32.Vec3{x, 0, -w}, BottomLeft},
			{mgl32.Vec3{x, height, -w}, TopLeft},
			{mgl32.Vec3{x, 0, w}, BottomRight},
			{mgl32.Vec3{x, height, w}, TopRight},
		}
	case offset[1] != 0:
		y := offset[1]
		corners = [4]corner{
			{mgl32.Vec3{-w, y, -w}, BottomLeft},
			{mgl32.Vec3{w, y, -w}, BottomRight},
			{mgl32.Vec3{-w, y, w}, TopLeft},
			{mgl32.Vec3{w, y, w}, TopRight},
		}
	default:
		z := offset[2]
		corners = [4]corner{
			{mgl32.Vec3{-w, 0, z}, BottomLeft},
			{mgl32.Vec3{w, 0, z}, BottomRight},
			{mgl32.Vec3{-w, height, z}, TopLeft},
			{mgl32.Vec3{w, height, z}, TopRight},
		}
	}

	vertices := make([]float32, 0, 4*FloatsPerVertex)
	for _, c := range corners {
		uv := TextureCoords(c.uv, textureScale)
		vertices = append(vertices, c.pos[0], c.pos[1], c.pos[2], uv[0], uv[1])
	}
	return Shape{
		Vertices: vertices,
		Indices:  append([]uint32(nil), quadIndices...),
		Center:   offset,
	}, nil
}
