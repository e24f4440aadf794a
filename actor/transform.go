package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform places a body in world space. Rotation is kept as a matrix so the
// integrator can work on it directly.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Mat3
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.Ident3(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Mat4 returns T * R * S
func (t Transform) Mat4() mgl64.Mat4 {
	return t.Mat4NoScale().Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Mat4NoScale returns T * R
func (t Transform) Mat4NoScale() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Mat4())
}

// ToLocal maps a world point into the body frame, ignoring scale
func (t Transform) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	// R is orthonormal, so R^-1 = R^T
	return t.Rotation.Transpose().Mul3x1(world.Sub(t.Position))
}

// ToWorld maps a body frame point (unscaled) into world space
func (t Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(local).Add(t.Position)
}
