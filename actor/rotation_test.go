package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSkew(t *testing.T) {
	w := mgl64.Vec3{1, -2, 3}
	v := mgl64.Vec3{0.5, 4, -1}

	got := Skew(w).Mul3x1(v)
	if !vec3AlmostEqual(got, w.Cross(v), 1e-12) {
		t.Errorf("Skew(w) * v = %v, want %v", got, w.Cross(v))
	}

	if !mat3AlmostEqual(Skew(w).Transpose(), Skew(w).Mul(-1), 1e-12) {
		t.Error("Skew(w) should be antisymmetric")
	}
}

func TestProjectToRotation(t *testing.T) {
	rotation := mgl64.Rotate3DX(0.3).Mul3(mgl64.Rotate3DZ(-1.1))

	tests := []struct {
		name  string
		input mgl64.Mat3
		want  mgl64.Mat3
		tol   float64
	}{
		{"already a rotation", rotation, rotation, 1e-12},
		{"identity", mgl64.Ident3(), mgl64.Ident3(), 1e-12},
		{
			name:  "small perturbation",
			input: rotation.Add(mgl64.Mat3{0.01, -0.005, 0.002, 0.003, 0.008, -0.01, 0, 0.004, -0.006}),
			want:  rotation,
			tol:   0.05,
		},
		{"uniform scaling", rotation.Mul(2.5), rotation, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectToRotation(tt.input)
			if !IsRotation(got, 1e-9) {
				t.Fatalf("ProjectToRotation() = %v is not a rotation", got)
			}
			if !mat3AlmostEqual(got, tt.want, tt.tol) {
				t.Errorf("ProjectToRotation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectToRotation_Reflection(t *testing.T) {
	reflection := mgl64.Diag3(mgl64.Vec3{1, 1, -1})

	got := ProjectToRotation(reflection)
	if !IsRotation(got, 1e-9) {
		t.Errorf("ProjectToRotation(reflection) = %v, det = %v, want a proper rotation", got, got.Det())
	}
}

func TestIsRotation(t *testing.T) {
	if !IsRotation(mgl64.Rotate3DY(math.Pi/7), 1e-12) {
		t.Error("rotation about y should be a rotation")
	}
	// zero off diagonal entries of R^T * R carry rounding noise
	if !IsRotation(mgl64.Rotate3DX(0.3).Mul3(mgl64.Rotate3DZ(-1.1)), 1e-9) {
		t.Error("composed rotation should be a rotation")
	}
	if IsRotation(mgl64.Rotate3DX(0.3).Add(mgl64.Mat3{0, 1e-6}), 1e-9) {
		t.Error("a sheared rotation is not a rotation")
	}
	if IsRotation(mgl64.Diag3(mgl64.Vec3{1, 1, -1}), 1e-6) {
		t.Error("a reflection is not a rotation")
	}
	if IsRotation(mgl64.Ident3().Mul(1.01), 1e-6) {
		t.Error("a scaled identity is not a rotation")
	}
}
