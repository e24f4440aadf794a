package chain

import (
	"github.com/akmonengine/ascent/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Node names of the climber body
const (
	LeftHand      = "l_hand"
	LeftLowerArm  = "ll_arm"
	LeftUpperArm  = "lu_arm"
	Torso         = "torso"
	RightUpperArm = "ru_arm"
	RightLowerArm = "rl_arm"
	RightHand     = "r_hand"
)

// TorsoRadius is the radius of the torso sphere, used for obstacle hits
const TorsoRadius = 1.1

var climberAxis = mgl64.Vec3{0, 0, 1}

func box(name string, offset, scale mgl64.Vec3) NodeSpec {
	return NodeSpec{
		Name: name,
		Mesh: render.MeshBox,
		Transform: mgl64.Translate3D(offset.X(), offset.Y(), offset.Z()).
			Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())),
	}
}

func sphere(name string, offset mgl64.Vec3, radius float64) NodeSpec {
	return NodeSpec{
		Name: name,
		Mesh: render.MeshSphere,
		Transform: mgl64.Translate3D(offset.X(), offset.Y(), offset.Z()).
			Mul4(mgl64.Scale3D(radius, radius, radius)),
	}
}

func joint(name string, offset mgl64.Vec3, node NodeSpec) LinkSpec {
	return LinkSpec{
		Name:          name,
		Offset:        offset,
		Axis:          climberAxis,
		AllowRotation: true,
		Node:          node,
	}
}

// NewClimber builds the two armed climber hanging from its left hand at
// base: hand, lower arm, upper arm, torso, upper arm, lower arm, hand. Every
// joint rotates about z.
func NewClimber(base mgl64.Vec3) *Chain {
	c, err := New(base,
		sphere(LeftHand, mgl64.Vec3{}, 0.3),
		joint("l_wrist", mgl64.Vec3{0, -0.3, 0}, box(LeftLowerArm, mgl64.Vec3{0, -0.6, 0}, mgl64.Vec3{0.2, 0.6, 0.2})),
		joint("l_elbow", mgl64.Vec3{0, -1.1, 0}, box(LeftUpperArm, mgl64.Vec3{0.8, 0, 0}, mgl64.Vec3{0.8, 0.2, 0.2})),
		joint("l_shoulder", mgl64.Vec3{1.6, 0, 0}, sphere(Torso, mgl64.Vec3{1, 0, 0}, TorsoRadius)),
		joint("r_shoulder", mgl64.Vec3{2, 0, 0}, box(RightUpperArm, mgl64.Vec3{0.8, 0, 0}, mgl64.Vec3{0.8, 0.2, 0.2})),
		joint("r_elbow", mgl64.Vec3{1.6, 0, 0}, box(RightLowerArm, mgl64.Vec3{0, 0.6, 0}, mgl64.Vec3{0.2, 0.6, 0.2})),
		joint("r_wrist", mgl64.Vec3{0, 1.1, 0}, sphere(RightHand, mgl64.Vec3{0, 0.3, 0}, 0.3)),
	)
	if err != nil {
		// fixed geometry, only a broken edit of the table above gets here
		panic(err)
	}
	return c
}
