package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up direction the camera basis is orthogonalised against.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Camera is a first-person camera described by a position and yaw/pitch angles in
// degrees. The orthonormal basis is rebuilt from the angles by UpdateVectors.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	Front mgl32.Vec3
	Right mgl32.Vec3
	Up    mgl32.Vec3

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera returns a camera at position looking down -Z.
func NewCamera(width, height int, position mgl32.Vec3) *Camera {
	c := &Camera{
		Position:    position,
		Yaw:         -90,
		Pitch:       0,
		AspectRatio: float32(width) / float32(height),
		FOV:         45.0,
		NearPlane:   0.1,
		FarPlane:    100.0,
	}
	c.UpdateVectors()
	return c
}

// FrontVector returns the unit view direction for yaw and pitch in degrees.
func FrontVector(yaw, pitch float32) mgl32.Vec3 {
	y := mgl32.DegToRad(yaw)
	p := mgl32.DegToRad(pitch)
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}.Normalize()
}

// UpdateVectors recomputes Front, Right and Up from Yaw and Pitch. Right is
// front × worldUp and Up is right × front, both normalised.
func (c *Camera) UpdateVectors() {
	c.Front = FrontVector(c.Yaw, c.Pitch)
	c.Right = c.Front.Cross(WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// SetAngles sets yaw and pitch and rebuilds the basis.
func (c *Camera) SetAngles(yaw, pitch float32) {
	c.Yaw, c.Pitch = yaw, pitch
	c.UpdateVectors()
}

// ViewMatrix returns the change of basis with rows right, up and -front, composed
// with a translation by -Position.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	r, u, f := c.Right, c.Up, c.Front
	// mgl32 matrices are column major.
	basis := mgl32.Mat4{
		r[0], u[0], -f[0], 0,
		r[1], u[1], -f[1], 0,
		r[2], u[2], -f[2], 0,
		0, 0, 0, 1,
	}
	return basis.Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// SetViewport updates the aspect ratio after a framebuffer resize.
func (c *Camera) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}
