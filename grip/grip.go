// Package grip manages the climbable anchor points scrolling down the wall
package grip

import (
	"math"

	"github.com/akmonengine/ascent/spline"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	DefaultColor = mgl64.Vec4{0.9, 0.5, 0.9, 1}
	// GrabbedColor is #77DD77
	GrabbedColor = mgl64.Vec4{0x77 / 255.0, 0xDD / 255.0, 0x77 / 255.0, 1}
)

// Grip oscillates along its curve: the curve parameter is (sin(Omega*T)+1)/2.
type Grip struct {
	Curve    spline.Curve
	T        float64
	Omega    float64
	Grabable bool
	Color    mgl64.Vec4
}

// New creates a grabable grip
func New(curve spline.Curve, t, omega float64) *Grip {
	return &Grip{
		Curve:    curve,
		T:        t,
		Omega:    omega,
		Grabable: true,
		Color:    DefaultColor,
	}
}

// Position returns the grip position in wall space, before scrolling
func (g *Grip) Position() mgl64.Vec3 {
	return g.Curve.Evaluate((math.Sin(g.Omega*g.T) + 1) / 2)
}

// Advance moves the phase by dt*Omega
func (g *Grip) Advance(dt float64) {
	g.T += dt * g.Omega
}

// Grab marks the grip as used. It reports false when it already was.
func (g *Grip) Grab() bool {
	if !g.Grabable {
		return false
	}
	g.Grabable = false
	g.Color = GrabbedColor
	return true
}
