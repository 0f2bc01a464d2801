// Package geometry builds the hardcoded vertex and index arrays used by the
// demos. Vertices are interleaved position (3 floats) and texture coordinate
// (2 floats).
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved vertex size: position then texture coordinate.
const FloatsPerVertex = 5

// Shape is an indexed triangle list.
type Shape struct {
	Vertices []float32
	Indices  []uint32
	Center   mgl32.Vec3
}

// VertexCount returns the number of vertices in Vertices.
func (s Shape) VertexCount() int { return len(s.Vertices) / FloatsPerVertex }

// Corner names a cube corner. A-D lie on the back face (-Z), E-H on the front;
// A, B, E, F are on top and A, C, E, G on the +X side.
type Corner int

const (
	CornerA Corner = iota
	CornerB
	CornerC
	CornerD
	CornerE
	CornerF
	CornerG
	CornerH
)

// CornerPosition returns the position of a corner of the cube with the given
// center and side length.
func CornerPosition(center mgl32.Vec3, side float32, c Corner) mgl32.Vec3 {
	h := side / 2
	x, y, z := h, h, -h
	if c == CornerB || c == CornerD || c == CornerF || c == CornerH {
		x = -h
	}
	if c == CornerC || c == CornerD || c == CornerG || c == CornerH {
		y = -h
	}
	if c >= CornerE {
		z = h
	}
	return center.Add(mgl32.Vec3{x, y, z})
}

// TextureCorner names a corner of texture space.
type TextureCorner int

const (
	BottomLeft TextureCorner = iota
	BottomRight
	TopLeft
	TopRight
)

// TextureCoords returns the coordinate of a texture corner with the texture
// repeated scale times along each axis.
func TextureCoords(c TextureCorner, scale mgl32.Vec2) mgl32.Vec2 {
	switch c {
	case BottomRight:
		return mgl32.Vec2{scale[0], 0}
	case TopLeft:
		return mgl32.Vec2{0, scale[1]}
	case TopRight:
		return scale
	}
	return mgl32.Vec2{}
}

// Each corner is stored three times, once per face it belongs to, so that every
// face can carry its own texture coordinates.
var cubeTexCoords = [8][3]TextureCorner{
	CornerA: {TopLeft, TopRight, TopRight},
	CornerB: {TopRight, TopLeft, TopLeft},
	CornerC: {BottomLeft, BottomRight, TopLeft},
	CornerD: {BottomRight, BottomLeft, TopRight},
	CornerE: {TopRight, TopLeft, BottomRight},
	CornerF: {TopLeft, TopRight, BottomLeft},
	CornerG: {BottomRight, BottomLeft, BottomLeft},
	CornerH: {BottomLeft, BottomRight, BottomRight},
}

var cubeIndices = []uint32{
	0, 3, 9, 0, 9, 6, // back
	12, 15, 21, 12, 21, 18, // front
	2, 5, 17, 2, 17, 14, // top
	8, 11, 23, 8, 23, 20, // bottom
	1, 13, 19, 1, 19, 7, // right
	4, 16, 22, 4, 22, 10, // left
}

// Cube returns a textured cube of 24 vertices and 36 indices.
func Cube(side float32, center mgl32.Vec3) Shape {
	vertices := make([]float32, 0, 24*FloatsPerVertex)
	for c := CornerA; c <= CornerH; c++ {
		p := CornerPosition(center, side, c)
		for _, tc := range cubeTexCoords[c] {
			uv := TextureCoords(tc, mgl32.Vec2{1, 1})
			vertices = append(vertices, p[0], p[1], p[2], uv[0], uv[1])
		}
	}
	return Shape{
		Vertices: vertices,
		Indices:  append([]uint32(nil), cubeIndices...),
		Center:   center,
	}
}
