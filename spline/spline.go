// Package spline provides the parametric curves grips travel along
package spline

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSamples is the resolution of the arc length table
const DefaultSamples = 100

// Curve maps a parameter in [0, 1] to a position
type Curve interface {
	Evaluate(t float64) mgl64.Vec3
	// ArcLength is the length travelled from 0 to t, non decreasing in t
	ArcLength(t float64) float64
}

// Hermite is a piecewise cubic Hermite curve through its control points
type Hermite struct {
	points   []mgl64.Vec3
	tangents []mgl64.Vec3

	samples int
	params  []float64
	lengths []float64
	dirty   bool
}

// NewHermite creates an empty curve whose arc length is sampled at the given
// resolution, DefaultSamples when below 2
func NewHermite(samples int) *Hermite {
	if samples < 2 {
		samples = DefaultSamples
	}
	return &Hermite{samples: samples, dirty: true}
}

// AddControlPoint appends a point and its tangent
func (h *Hermite) AddControlPoint(point, tangent mgl64.Vec3) {
	h.points = append(h.points, point)
	h.tangents = append(h.tangents, tangent)
	h.dirty = true
}

// SetControlPoints replaces every control point. Tangents are half the
// difference with the previous point, the first one is zero.
func (h *Hermite) SetControlPoints(points []mgl64.Vec3) {
	h.points = make([]mgl64.Vec3, len(points))
	h.tangents = make([]mgl64.Vec3, len(points))
	copy(h.points, points)

	for i := range points {
		previous := points[max(i-1, 0)]
		h.tangents[i] = points[i].Sub(previous).Mul(0.5)
	}
	h.dirty = true
}

func (h *Hermite) ChangeControlPoint(i int, point mgl64.Vec3) {
	if i >= 0 && i < len(h.points) {
		h.points[i] = point
		h.dirty = true
	}
}

func (h *Hermite) ChangeTangent(i int, tangent mgl64.Vec3) {
	if i >= 0 && i < len(h.tangents) {
		h.tangents[i] = tangent
		h.dirty = true
	}
}

func (h *Hermite) DeleteControlPoint(i int) {
	if i >= 0 && i < len(h.points) {
		h.points = append(h.points[:i], h.points[i+1:]...)
		h.tangents = append(h.tangents[:i], h.tangents[i+1:]...)
		h.dirty = true
	}
}

func (h *Hermite) Clear() {
	h.points = h.points[:0]
	h.tangents = h.tangents[:0]
	h.dirty = true
}

// Len returns the number of control points
func (h *Hermite) Len() int {
	return len(h.points)
}

// Evaluate returns the origin for fewer than 2 control points or t outside [0, 1]
func (h *Hermite) Evaluate(t float64) mgl64.Vec3 {
	count := len(h.points)
	if count < 2 || t < 0 || t > 1 {
		return mgl64.Vec3{}
	}

	scaled := t * float64(count-1)
	n := min(count-2, int(math.Floor(scaled)))
	local := scaled - float64(n)

	return interpolate(h.points[n], h.points[n+1], h.tangents[n], h.tangents[n+1], local)
}

// interpolate evaluates the cubic Hermite basis on a single segment
func interpolate(p0, p1, m0, m1 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return p0.Mul(h00).Add(m0.Mul(h10)).Add(p1.Mul(h01)).Add(m1.Mul(h11))
}

// ArcLength linearly interpolates a table of chord lengths sampled along the
// curve. The table is rebuilt after any control point change.
func (h *Hermite) ArcLength(t float64) float64 {
	h.sample()

	if t <= 0 {
		return 0
	}
	last := len(h.params) - 1
	if t >= 1 {
		return h.lengths[last]
	}

	i := sort.SearchFloat64s(h.params, t)
	if h.params[i] == t {
		return h.lengths[i]
	}
	ratio := (t - h.params[i-1]) / (h.params[i] - h.params[i-1])
	return h.lengths[i-1] + (h.lengths[i]-h.lengths[i-1])*ratio
}

func (h *Hermite) sample() {
	if !h.dirty {
		return
	}

	h.params = make([]float64, h.samples)
	h.lengths = make([]float64, h.samples)

	previous := h.Evaluate(0)
	for i := 0; i < h.samples; i++ {
		t := float64(i) / float64(h.samples-1)
		current := h.Evaluate(t)

		h.params[i] = t
		if i > 0 {
			h.lengths[i] = h.lengths[i-1] + current.Sub(previous).Len()
		}
		previous = current
	}
	h.dirty = false
}

// Translated offsets another curve
type Translated struct {
	Curve  Curve
	Offset mgl64.Vec3
}

// Translate wraps c so that every position is moved by offset
func Translate(c Curve, offset mgl64.Vec3) Translated {
	return Translated{Curve: c, Offset: offset}
}

func (tc Translated) Evaluate(t float64) mgl64.Vec3 {
	return tc.Curve.Evaluate(t).Add(tc.Offset)
}

func (tc Translated) ArcLength(t float64) float64 {
	return tc.Curve.ArcLength(t)
}

// Point is a curve that never moves
type Point mgl64.Vec3

func (p Point) Evaluate(float64) mgl64.Vec3 {
	return mgl64.Vec3(p)
}

func (p Point) ArcLength(float64) float64 {
	return 0
}
