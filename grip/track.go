package grip

import (
	"errors"

	"github.com/akmonengine/ascent/render"
	"github.com/akmonengine/ascent/spline"
	"github.com/go-gl/mathgl/mgl64"
)

// DrawRadius is the scale of the sphere mesh drawn for a grip
const DrawRadius = 0.3

var ErrEmptyTrack = errors.New("grip: track is empty")

// Track holds the grips of the wall and the current scroll height
type Track struct {
	// Height is the scroll height, positions are shifted down by it
	Height float64
	// Margin is how far below the scroll height a grip survives
	Margin float64

	grips []*Grip
}

func NewTrack(height, margin float64) *Track {
	return &Track{Height: height, Margin: margin}
}

// Add appends a new grabable grip
func (tr *Track) Add(curve spline.Curve, t, omega float64) *Grip {
	g := New(curve, t, omega)
	tr.grips = append(tr.grips, g)
	return g
}

// Remove removes the grip at index i, out of range indices are ignored
func (tr *Track) Remove(i int) {
	if i >= 0 && i < len(tr.grips) {
		tr.grips = append(tr.grips[:i], tr.grips[i+1:]...)
	}
}

func (tr *Track) Len() int {
	return len(tr.grips)
}

func (tr *Track) Grip(i int) *Grip {
	return tr.grips[i]
}

// Last returns the most recently added grip, nil when empty
func (tr *Track) Last() *Grip {
	if len(tr.grips) == 0 {
		return nil
	}
	return tr.grips[len(tr.grips)-1]
}

// Update scrolls by dh and advances every grip by dt. Grips whose position
// fell below Height - Margin are removed; the number of removed grips that
// were never grabbed is returned.
func (tr *Track) Update(dh, dt float64) int {
	tr.Height += dh
	for _, g := range tr.grips {
		g.Advance(dt)
	}

	missed := 0
	threshold := tr.Height - tr.Margin
	for i := len(tr.grips) - 1; i >= 0; i-- {
		g := tr.grips[i]
		if g.Position().Y() < threshold {
			if g.Grabable {
				missed++
			}
			tr.Remove(i)
		}
	}

	return missed
}

// WorldPosition returns the scrolled position of g
func (tr *Track) WorldPosition(g *Grip) mgl64.Vec3 {
	return g.Position().Sub(mgl64.Vec3{0, tr.Height, 0})
}

// Positions returns the scrolled position of every grip
func (tr *Track) Positions() []mgl64.Vec3 {
	positions := make([]mgl64.Vec3, len(tr.grips))
	for i, g := range tr.grips {
		positions[i] = tr.WorldPosition(g)
	}
	return positions
}

// FindClosest returns the grip nearest to probe, its scrolled position and
// the distance. The first grip wins ties.
func (tr *Track) FindClosest(probe mgl64.Vec3) (*Grip, mgl64.Vec3, float64, error) {
	if len(tr.grips) == 0 {
		return nil, mgl64.Vec3{}, 0, ErrEmptyTrack
	}

	var closest *Grip
	var position mgl64.Vec3
	distance := -1.0
	for _, g := range tr.grips {
		p := tr.WorldPosition(g)
		d := probe.Sub(p).Len()
		if closest == nil || d < distance {
			closest, position, distance = g, p, d
		}
	}

	return closest, position, distance, nil
}

// Draw hands one sphere per grip to the renderer, colored by the grip
func (tr *Track) Draw(r render.Renderer, material render.Material) {
	for _, g := range tr.grips {
		p := tr.WorldPosition(g)
		transform := mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl64.Scale3D(DrawRadius, DrawRadius, DrawRadius))
		r.DrawMesh(render.MeshSphere, transform, material.WithColor(g.Color))
	}
}
