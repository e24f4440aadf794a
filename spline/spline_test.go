package spline

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func line() *Hermite {
	h := NewHermite(0)
	h.SetControlPoints([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	return h
}

func TestHermite_Degenerate(t *testing.T) {
	single := NewHermite(10)
	single.AddControlPoint(mgl64.Vec3{3, 3, 3}, mgl64.Vec3{1, 0, 0})

	tests := []struct {
		name  string
		curve *Hermite
		t     float64
	}{
		{"empty", NewHermite(10), 0.5},
		{"single point", single, 0.5},
		{"below range", line(), -0.1},
		{"above range", line(), 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.curve.Evaluate(tt.t); got != (mgl64.Vec3{}) {
				t.Errorf("expected origin, got %v", got)
			}
		})
	}
}

func TestHermite_InterpolatesControlPoints(t *testing.T) {
	h := NewHermite(0)
	points := []mgl64.Vec3{{0, 0, 0}, {1, 2, 0}, {3, 1, 1}, {4, 4, 0}}
	h.SetControlPoints(points)

	for i, p := range points {
		param := float64(i) / float64(len(points)-1)
		if got := h.Evaluate(param); got.Sub(p).Len() > 1e-12 {
			t.Errorf("t=%v: expected %v, got %v", param, p, got)
		}
	}
}

func TestHermite_Tangents(t *testing.T) {
	h := line()

	want := []mgl64.Vec3{{0, 0, 0}, {0.5, 0, 0}, {0.5, 0, 0}}
	for i, tangent := range want {
		if h.tangents[i] != tangent {
			t.Errorf("tangent %d: expected %v, got %v", i, tangent, h.tangents[i])
		}
	}
}

func TestHermite_ArcLength(t *testing.T) {
	h := line()

	if got := h.ArcLength(0); got != 0 {
		t.Errorf("expected 0 at t=0, got %v", got)
	}
	if got := h.ArcLength(1); math.Abs(got-2) > 1e-9 {
		t.Errorf("expected 2 at t=1, got %v", got)
	}

	previous := 0.0
	for i := 0; i <= 50; i++ {
		length := h.ArcLength(float64(i) / 50)
		if length < previous {
			t.Fatalf("arc length decreased at step %d: %v < %v", i, length, previous)
		}
		previous = length
	}
}

func TestHermite_ArcLengthRefreshes(t *testing.T) {
	h := line()
	before := h.ArcLength(1)

	h.ChangeControlPoint(2, mgl64.Vec3{4, 0, 0})
	h.ChangeTangent(2, mgl64.Vec3{1.5, 0, 0})

	if after := h.ArcLength(1); after <= before {
		t.Errorf("expected a longer curve, got %v then %v", before, after)
	}
}

func TestHermite_EditControlPoints(t *testing.T) {
	h := line()

	h.DeleteControlPoint(1)
	if h.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", h.Len())
	}
	h.DeleteControlPoint(5)
	if h.Len() != 2 {
		t.Errorf("out of range delete must be ignored")
	}

	h.Clear()
	if h.Len() != 0 || h.Evaluate(0.5) != (mgl64.Vec3{}) {
		t.Errorf("expected an empty curve")
	}
}

func TestTranslate(t *testing.T) {
	offset := mgl64.Vec3{1, 10, 0}
	c := Translate(line(), offset)

	if got := c.Evaluate(1); got.Sub(mgl64.Vec3{3, 10, 0}).Len() > 1e-12 {
		t.Errorf("expected (3, 10, 0), got %v", got)
	}
	if got := c.ArcLength(1); math.Abs(got-2) > 1e-9 {
		t.Errorf("translation must keep the arc length, got %v", got)
	}
}

func TestPoint(t *testing.T) {
	p := Point{1, 5, 0}

	for _, param := range []float64{0, 0.3, 1} {
		if got := p.Evaluate(param); got != (mgl64.Vec3{1, 5, 0}) {
			t.Errorf("expected a stationary point, got %v", got)
		}
	}
	if p.ArcLength(1) != 0 {
		t.Errorf("expected zero length")
	}
}
