package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Skew returns the cross product matrix of w, so that Skew(w) * v == w x v
func Skew(w mgl64.Vec3) mgl64.Mat3 {
	// column major
	return mgl64.Mat3{
		0, w.Z(), -w.Y(),
		-w.Z(), 0, w.X(),
		w.Y(), -w.X(), 0,
	}
}

// ProjectToRotation returns the rotation matrix closest to m in the Frobenius
// norm (polar decomposition through SVD: R = U * V^T, with the last singular
// direction flipped when the determinant is negative).
// Degenerate input falls back to the identity.
func ProjectToRotation(m mgl64.Mat3) mgl64.Mat3 {
	a := mat.NewDense(3, 3, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			a.Set(row, col, m.At(row, col))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return mgl64.Ident3()
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&u, v.T())
	if mat.Det(&r) < 0 {
		// Reflection: flip the column of U paired with the smallest singular value
		for row := 0; row < 3; row++ {
			u.Set(row, 2, -u.At(row, 2))
		}
		r.Mul(&u, v.T())
	}

	var out mgl64.Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.Set(row, col, r.At(row, col))
		}
	}
	return out
}

// IsRotation reports whether every entry of R^T * R - I and det(R) - 1 stay within eps
func IsRotation(m mgl64.Mat3, eps float64) bool {
	gram := m.Transpose().Mul3(m).Sub(mgl64.Ident3())
	for _, e := range gram {
		if math.Abs(e) > eps {
			return false
		}
	}
	return math.Abs(m.Det()-1) < eps
}
