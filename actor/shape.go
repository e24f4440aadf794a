package actor

import (
	"github.com/akmonengine/ascent/render"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is what a body needs from its shape: inertia, bounds, a
// sphere overlap test and the mesh it is drawn with. Shapes live in the body
// frame, unscaled.
type ShapeInterface interface {
	ComputeInertia(mass float64) mgl64.Mat3
	// IntersectsSphere tests a sphere whose center is given in the body frame
	IntersectsSphere(center mgl64.Vec3, radius float64) bool
	ComputeAABB(t Transform) AABB
	MeshID() render.Mesh
}

// Box is an oriented box given by its half extents
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) MeshID() render.Mesh {
	return render.MeshBox
}

// ComputeInertia returns m/12 * diag(y²+z², x²+z², x²+y²) on the full sides
func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	side := b.HalfExtents.Mul(2)
	sq := mgl64.Vec3{side[0] * side[0], side[1] * side[1], side[2] * side[2]}

	return mgl64.Diag3(mgl64.Vec3{
		sq[1] + sq[2],
		sq[0] + sq[2],
		sq[0] + sq[1],
	}.Mul(mass / 12))
}

func (b *Box) ComputeAABB(t Transform) AABB {
	return OrientedBoxAABB(t, b.HalfExtents)
}

// IntersectsSphere clamps the center onto the box and compares the distance
// to the radius. A center inside the box always intersects.
func (b *Box) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	var closest mgl64.Vec3
	for i := range closest {
		closest[i] = mgl64.Clamp(center[i], -b.HalfExtents[i], b.HalfExtents[i])
	}

	return center.Sub(closest).LenSqr() <= radius*radius
}

// Sphere is centered on the body origin
type Sphere struct {
	Radius float64
}

func (s *Sphere) MeshID() render.Mesh {
	return render.MeshSphere
}

// ComputeInertia returns 2/5 m r² on the diagonal
func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	i := 0.4 * mass * s.Radius * s.Radius
	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (s *Sphere) ComputeAABB(t Transform) AABB {
	return SphereAABB(t.Position, s.Radius)
}

func (s *Sphere) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	return center.Len() <= s.Radius+radius
}
