package grip

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/ascent/render"
	"github.com/akmonengine/ascent/spline"
	"github.com/go-gl/mathgl/mgl64"
)

func mat4AlmostEqual(a, b mgl64.Mat4, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func TestGrip_Position(t *testing.T) {
	h := spline.NewHermite(0)
	h.SetControlPoints([]mgl64.Vec3{{0, 0, 0}, {2, 0, 0}})

	tests := []struct {
		name  string
		t     float64
		omega float64
		want  mgl64.Vec3
	}{
		// sin(0) = 0 maps to the middle of the curve
		{"rest phase", 0, 1, h.Evaluate(0.5)},
		{"peak", math.Pi / 2, 1, mgl64.Vec3{2, 0, 0}},
		{"trough", math.Pi / 4, -2, mgl64.Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(h, tt.t, tt.omega)
			if got := g.Position(); got.Sub(tt.want).Len() > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGrip_Grab(t *testing.T) {
	g := New(spline.Point{}, 0, 1)

	if !g.Grab() {
		t.Fatalf("first grab must succeed")
	}
	if g.Grabable || g.Color != GrabbedColor {
		t.Errorf("expected a used grip, got %+v", g)
	}
	if g.Grab() {
		t.Errorf("second grab must fail")
	}
}

func TestTrack_UpdateAging(t *testing.T) {
	tests := []struct {
		name          string
		margin        float64
		grabbed       bool
		wantMissed    int
		wantRemaining int
	}{
		{"below the scroll height", 0, false, 1, 0},
		{"below threshold", 2, false, 1, 0},
		{"below threshold, grabbed", 2, true, 0, 0},
		{"wide margin keeps it", 10, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTrack(0, tt.margin)
			g := tr.Add(spline.Point{0, 5, 0}, 0, 1)
			if tt.grabbed {
				g.Grab()
			}

			missed := tr.Update(10, 0)

			if tr.Height != 10 {
				t.Errorf("expected height 10, got %v", tr.Height)
			}
			if missed != tt.wantMissed {
				t.Errorf("expected %d missed, got %d", tt.wantMissed, missed)
			}
			if tr.Len() != tt.wantRemaining {
				t.Errorf("expected %d grips left, got %d", tt.wantRemaining, tr.Len())
			}
		})
	}
}

func TestTrack_UpdateRemovesInReverseOrder(t *testing.T) {
	tr := NewTrack(0, 0)
	heights := []float64{1, 20, 2, 3, 30}
	for _, y := range heights {
		tr.Add(spline.Point{0, y, 0}, 0, 1)
	}

	missed := tr.Update(10, 0)

	if missed != 3 {
		t.Errorf("expected 3 missed grips, got %d", missed)
	}
	if tr.Len() != 2 {
		t.Fatalf("expected 2 grips left, got %d", tr.Len())
	}
	if tr.Grip(0).Position().Y() != 20 || tr.Grip(1).Position().Y() != 30 {
		t.Errorf("wrong survivors, order must be kept")
	}
}

func TestTrack_UpdateAdvancesPhase(t *testing.T) {
	tr := NewTrack(0, 100)
	slow := tr.Add(spline.Point{}, 0, 1)
	fast := tr.Add(spline.Point{}, 1, 3)

	tr.Update(0, 0.5)

	if slow.T != 0.5 {
		t.Errorf("expected t 0.5, got %v", slow.T)
	}
	if fast.T != 2.5 {
		t.Errorf("expected t 2.5, got %v", fast.T)
	}
}

func TestTrack_FindClosest(t *testing.T) {
	tr := NewTrack(0, 10)
	for _, p := range []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {5, 5, 5}} {
		tr.Add(spline.Point(p), 0, 1)
	}

	g, position, distance, err := tr.FindClosest(mgl64.Vec3{0.1, 0, 0})

	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if g != tr.Grip(0) {
		t.Errorf("expected the grip at the origin")
	}
	if position != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("expected position (0, 0, 0), got %v", position)
	}
	if math.Abs(distance-0.1) > 1e-12 {
		t.Errorf("expected distance 0.1, got %v", distance)
	}
}

func TestTrack_FindClosestScrolled(t *testing.T) {
	tr := NewTrack(4, 10)
	tr.Add(spline.Point{0, 4, 0}, 0, 1)
	tr.Add(spline.Point{0, 0, 0}, 0, 1)

	g, position, _, err := tr.FindClosest(mgl64.Vec3{0, 0, 0})

	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if g != tr.Grip(0) || position != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("expected the first grip scrolled onto the origin, got %v", position)
	}
}

func TestTrack_FindClosestEmpty(t *testing.T) {
	tr := NewTrack(0, 10)

	_, _, _, err := tr.FindClosest(mgl64.Vec3{})

	if !errors.Is(err, ErrEmptyTrack) {
		t.Errorf("expected ErrEmptyTrack, got %v", err)
	}
}

func TestTrack_Draw(t *testing.T) {
	tr := NewTrack(2, 10)
	tr.Add(spline.Point{1, 3, 0}, 0, 1)
	used := tr.Add(spline.Point{0, 0, 0}, 0, 1)
	used.Grab()

	rec := &render.Recorder{}
	tr.Draw(rec, render.Material{Name: "grip"})

	if rec.Count(render.MeshSphere) != 2 {
		t.Fatalf("expected 2 spheres, got %d", rec.Count(render.MeshSphere))
	}
	want := mgl64.Translate3D(1, 1, 0).Mul4(mgl64.Scale3D(DrawRadius, DrawRadius, DrawRadius))
	if !mat4AlmostEqual(rec.Calls[0].Transform, want, 1e-12) {
		t.Errorf("unexpected transform %v", rec.Calls[0].Transform)
	}
	if rec.Calls[1].Material.Color != GrabbedColor {
		t.Errorf("expected the grabbed color")
	}
}
