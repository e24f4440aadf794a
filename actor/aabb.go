package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// SphereAABB bounds a sphere
func SphereAABB(center mgl64.Vec3, radius float64) AABB {
	r := mgl64.Vec3{radius, radius, radius}
	return AABB{Min: center.Sub(r), Max: center.Add(r)}
}

// OrientedBoxAABB bounds a box of the given half extents placed by t.
// The world half extent on each axis is |R| * halfExtents.
func OrientedBoxAABB(t Transform, halfExtents mgl64.Vec3) AABB {
	var extent mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			extent[row] += math.Abs(t.Rotation.At(row, col)) * halfExtents[col]
		}
	}
	return AABB{Min: t.Position.Sub(extent), Max: t.Position.Add(extent)}
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
