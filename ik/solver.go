// Package ik bends a planar joint chain so that its end effector reaches a
// target, with cyclic coordinate descent.
package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultTolerance is the effector to target distance at which the
	// target counts as reached.
	DefaultTolerance = 1e-4

	// DefaultMaxPasses caps the number of sweeps over the joints in a single
	// Solve call. Reachable targets typically converge in 5-20 passes, so the
	// cap only triggers when the stuck detection fails to.
	DefaultMaxPasses = 64
)

// Chain is the joint chain a Solver drives. Joints are indexed from the one
// nearest to the end effector (0) toward the base. Every joint rotates about
// the solver axis.
type Chain interface {
	JointCount() int
	JointPivot(i int) mgl64.Vec3
	JointDOF(i int) float64
	SetJointDOF(i int, angle float64)
	EndEffector() mgl64.Vec3
}

// Solver holds the convergence policy. The zero value is not usable, start
// from NewSolver.
type Solver struct {
	// Tolerance is the distance under which the loop stops
	Tolerance float64
	// StuckTolerance is the minimal improvement of a full pass. A pass that
	// improves less is the last one.
	StuckTolerance float64
	// MaxPasses bounds the work of a single Solve call
	MaxPasses int
	// Axis is the shared rotation axis, also the reference normal of the
	// angle sign test
	Axis mgl64.Vec3
}

// Result reports how a Solve call ended
type Result struct {
	Passes    int
	Residual  float64
	Converged bool
	// Stuck is set when the loop stopped because a pass made no progress
	Stuck bool
}

// NewSolver returns a solver rotating about z with the default tolerances
func NewSolver() Solver {
	return Solver{
		Tolerance:      DefaultTolerance,
		StuckTolerance: DefaultTolerance,
		MaxPasses:      DefaultMaxPasses,
		Axis:           mgl64.Vec3{0, 0, 1},
	}
}

// Solve runs passes over every joint, effector side first. Each joint turns by
// the signed angle between pivot->effector and pivot->target; its dof
// accumulates the angle. The loop ends when the target is reached, when a
// pass stops improving the distance, or after MaxPasses. An unreachable
// target is not an error: the chain is left in its best effort pose.
func (s Solver) Solve(c Chain, target mgl64.Vec3) Result {
	maxPasses := s.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	residual := c.EndEffector().Sub(target).Len()
	result := Result{}

	for result.Passes < maxPasses && residual > s.Tolerance {
		for i := 0; i < c.JointCount(); i++ {
			angle := SignedAngle(c.EndEffector(), c.JointPivot(i), target, s.Axis)
			c.SetJointDOF(i, c.JointDOF(i)+angle)
		}
		result.Passes++

		next := c.EndEffector().Sub(target).Len()
		improvement := residual - next
		residual = next

		if residual > s.Tolerance && improvement < s.StuckTolerance {
			result.Stuck = true
			break
		}
	}

	result.Residual = residual
	result.Converged = residual <= s.Tolerance

	return result
}

// SignedAngle returns the angle at vertex from the direction of from to the
// direction of to, signed by the rotation sense about normal. Zero length
// arms and collinear arms give 0.
func SignedAngle(from, vertex, to, normal mgl64.Vec3) float64 {
	a := from.Sub(vertex)
	b := to.Sub(vertex)

	magnitude := a.Len() * b.Len()
	if magnitude == 0 {
		return 0
	}

	sign := a.Cross(b).Dot(normal)
	if sign == 0 {
		return 0
	}

	cos := mgl64.Clamp(a.Dot(b)/magnitude, -1, 1)
	angle := math.Acos(cos)
	if sign < 0 {
		return -angle
	}
	return angle
}

// ClampTarget pulls target back toward anchor when it lies farther than the
// effector currently reaches, keeping the ratio reachable/requested.
func ClampTarget(anchor, effector, target mgl64.Vec3) mgl64.Vec3 {
	offset := target.Sub(anchor)
	requested := offset.Len()
	reachable := effector.Sub(anchor).Len()

	if requested == 0 || requested <= reachable {
		return target
	}

	return anchor.Add(offset.Mul(reachable / requested))
}
