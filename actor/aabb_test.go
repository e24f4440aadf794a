package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"separated on x", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}, false},
		{"separated on y", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}, false},
		{"separated on z", AABB{Min: mgl64.Vec3{0, 0, 5}, Max: mgl64.Vec3{1, 1, 6}}, false},
		{"touching", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"contained", AABB{Min: mgl64.Vec3{0.2, 0.2, 0.2}, Max: mgl64.Vec3{0.8, 0.8, 0.8}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("overlap must be symmetric")
			}
		})
	}
}

func TestSphereAABB(t *testing.T) {
	aabb := SphereAABB(mgl64.Vec3{1, 2, 3}, 0.5)

	if aabb.Min != (mgl64.Vec3{0.5, 1.5, 2.5}) || aabb.Max != (mgl64.Vec3{1.5, 2.5, 3.5}) {
		t.Errorf("unexpected bounds %+v", aabb)
	}
}

func TestOrientedBoxAABB(t *testing.T) {
	tests := []struct {
		name     string
		rotation mgl64.Mat3
		want     mgl64.Vec3
	}{
		{"identity", mgl64.Ident3(), mgl64.Vec3{2, 1, 0.5}},
		{"quarter turn about z", mgl64.Rotate3DZ(math.Pi / 2), mgl64.Vec3{1, 2, 0.5}},
		{"eighth turn about z", mgl64.Rotate3DZ(math.Pi / 4), mgl64.Vec3{3 / math.Sqrt2, 3 / math.Sqrt2, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform := NewTransform()
			transform.Position = mgl64.Vec3{10, 0, 0}
			transform.Rotation = tt.rotation

			aabb := OrientedBoxAABB(transform, mgl64.Vec3{2, 1, 0.5})

			if !vec3AlmostEqual(aabb.Max.Sub(transform.Position), tt.want, 1e-9) {
				t.Errorf("expected half extent %v, got %v", tt.want, aabb.Max.Sub(transform.Position))
			}
			if !vec3AlmostEqual(transform.Position.Sub(aabb.Min), tt.want, 1e-9) {
				t.Errorf("expected a centered box")
			}
		})
	}
}
