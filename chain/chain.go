// Package chain implements a reversible kinematic chain: a simple path of
// rigid nodes connected by arcs (joints), stored in an arena and addressed by
// index. Either end of the chain can be the fixed base.
package chain

import (
	"errors"
	"fmt"

	"github.com/akmonengine/ascent/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Orientation selects which end of the chain is the base
type Orientation int

const (
	// Forward chains start at the root arc and end at the last node
	Forward Orientation = iota
	// Reversed chains start at the tail arc and end at the first node
	Reversed
)

func (o Orientation) Flip() Orientation {
	if o == Forward {
		return Reversed
	}
	return Forward
}

func (o Orientation) String() string {
	if o == Forward {
		return "forward"
	}
	return "reversed"
}

type NodeID int
type ArcID int

const none = -1

var (
	ErrEmptyChain = errors.New("chain: at least one link is required")
	ErrBaseOffset = errors.New("chain: base node transform must not translate")
	ErrZeroAxis   = errors.New("chain: rotating arc needs a non zero axis")
)

// Node is a rigid segment bearing a mesh offset
type Node struct {
	Name      string
	Mesh      render.Mesh
	Transform mgl64.Mat4

	// up and down arcs, per orientation
	up   [2]ArcID
	down [2]ArcID
}

func (n Node) LocalTransform() mgl64.Mat4 {
	return n.Transform
}

func (n Node) MeshID() render.Mesh {
	return n.Mesh
}

// Arc is a joint between two nodes. Location is the fixed offset from the
// upstream node, Articulation the mutable rotation applied after it.
type Arc struct {
	Name             string
	Location         mgl64.Mat4
	Articulation     mgl64.Mat4
	DOF              float64
	Axis             mgl64.Vec3
	AllowRotation    bool
	AllowTranslation bool

	// up and down nodes, per orientation
	up   [2]NodeID
	down [2]NodeID
}

// Chain owns every node and arc. The root arc anchors the first node when
// Forward, the tail arc anchors the last node when Reversed.
// A Chain is not safe for concurrent use: Reverse and any solver
// mutating joint angles must not run at the same time.
type Chain struct {
	nodes       []Node
	arcs        []Arc
	root        ArcID
	tail        ArcID
	orientation Orientation

	// traversal from the active base, refreshed on construction and reversal
	joints []ArcID  // J1..Jn
	path   []NodeID // N0..Nn
	// rotating joints, end effector first
	solverJoints []ArcID
}

// NodeSpec describes a node to create
type NodeSpec struct {
	Name      string
	Mesh      render.Mesh
	Transform mgl64.Mat4
}

// LinkSpec describes an arc followed by the node it leads to.
// Offset is the pure translation of the arc location.
type LinkSpec struct {
	Name             string
	Offset           mgl64.Vec3
	Axis             mgl64.Vec3
	AllowRotation    bool
	AllowTranslation bool
	Node             NodeSpec
}

// New builds a forward chain anchored at base. The base node must be centered
// on the anchor so that the chain can be reversed back onto the same pose.
func New(base mgl64.Vec3, baseNode NodeSpec, links ...LinkSpec) (*Chain, error) {
	if len(links) == 0 {
		return nil, ErrEmptyChain
	}
	if translation(baseNode.Transform).Len() != 0 {
		return nil, fmt.Errorf("%w: %s", ErrBaseOffset, baseNode.Name)
	}

	c := &Chain{
		nodes: make([]Node, 0, len(links)+1),
		arcs:  make([]Arc, 0, len(links)+2),
	}

	c.root = c.addArc(Arc{Name: "root", Location: translate(base)})
	first := c.addNode(baseNode)
	c.link(none, c.root, first)

	previous := first
	for _, spec := range links {
		if spec.AllowRotation && spec.Axis.Len() == 0 {
			return nil, fmt.Errorf("%w: %s", ErrZeroAxis, spec.Name)
		}

		axis := spec.Axis
		if axis.Len() > 0 {
			axis = axis.Normalize()
		}
		arc := c.addArc(Arc{
			Name:             spec.Name,
			Location:         translate(spec.Offset),
			Axis:             axis,
			AllowRotation:    spec.AllowRotation,
			AllowTranslation: spec.AllowTranslation,
		})
		node := c.addNode(spec.Node)
		c.link(previous, arc, node)
		previous = node
	}

	c.tail = c.addArc(Arc{Name: "tail", Location: mgl64.Ident4()})
	c.arcs[c.tail].up = [2]NodeID{none, none}
	c.arcs[c.tail].down = [2]NodeID{none, previous}
	c.nodes[previous].up[Reversed] = c.tail
	c.nodes[previous].down[Forward] = none
	c.nodes[first].down[Reversed] = none

	c.refresh()
	// The tail anchor starts where the forward end effector is
	c.arcs[c.tail].Location = c.effectorFrame()

	return c, nil
}

func (c *Chain) addArc(arc Arc) ArcID {
	arc.Articulation = mgl64.Ident4()
	arc.up = [2]NodeID{none, none}
	arc.down = [2]NodeID{none, none}
	c.arcs = append(c.arcs, arc)
	return ArcID(len(c.arcs) - 1)
}

func (c *Chain) addNode(spec NodeSpec) NodeID {
	c.nodes = append(c.nodes, Node{
		Name:      spec.Name,
		Mesh:      spec.Mesh,
		Transform: spec.Transform,
		up:        [2]ArcID{none, none},
		down:      [2]ArcID{none, none},
	})
	return NodeID(len(c.nodes) - 1)
}

// link wires parent -arc-> child in the forward direction and the mirror
// links for the reversed direction
func (c *Chain) link(parent NodeID, arc ArcID, child NodeID) {
	c.arcs[arc].up[Forward] = parent
	c.arcs[arc].down[Forward] = child
	c.nodes[child].up[Forward] = arc

	if parent != none {
		c.nodes[parent].down[Forward] = arc
		c.nodes[parent].up[Reversed] = arc
		c.arcs[arc].up[Reversed] = child
		c.arcs[arc].down[Reversed] = parent
		c.nodes[child].down[Reversed] = arc
	}
}

// refresh recomputes the traversal from the active base
func (c *Chain) refresh() {
	o := c.orientation
	c.joints = c.joints[:0]
	c.path = c.path[:0]

	node := c.arcs[c.base()].down[o]
	for {
		if node == none {
			panic(fmt.Sprintf("chain: %s traversal reached a missing node", o))
		}
		if len(c.path) > len(c.nodes) {
			panic(fmt.Sprintf("chain: %s traversal contains a cycle", o))
		}
		c.path = append(c.path, node)

		arc := c.nodes[node].down[o]
		if arc == none {
			break
		}
		c.joints = append(c.joints, arc)
		node = c.arcs[arc].down[o]
	}

	c.solverJoints = c.solverJoints[:0]
	for i := len(c.joints) - 1; i >= 0; i-- {
		if c.arcs[c.joints[i]].AllowRotation {
			c.solverJoints = append(c.solverJoints, c.joints[i])
		}
	}
}

func (c *Chain) base() ArcID {
	if c.orientation == Forward {
		return c.root
	}
	return c.tail
}

// Orientation returns which end is currently the base
func (c *Chain) Orientation() Orientation {
	return c.orientation
}

// IsReversed reports whether the tail arc is the active base
func (c *Chain) IsReversed() bool {
	return c.orientation == Reversed
}

// Base returns the active base arc
func (c *Chain) Base() ArcID {
	return c.base()
}

// Root returns the arc anchoring the first node
func (c *Chain) Root() ArcID {
	return c.root
}

// Tail returns the arc anchoring the last node
func (c *Chain) Tail() ArcID {
	return c.tail
}

// Arc returns a copy of the arc
func (c *Chain) Arc(id ArcID) Arc {
	return c.arcs[id]
}

// Node returns a copy of the node
func (c *Chain) Node(id NodeID) Node {
	return c.nodes[id]
}

// ArcByName looks an arc up by name
func (c *Chain) ArcByName(name string) (ArcID, bool) {
	for i := range c.arcs {
		if c.arcs[i].Name == name {
			return ArcID(i), true
		}
	}
	return none, false
}

// NodeByName looks a node up by name
func (c *Chain) NodeByName(name string) (NodeID, bool) {
	for i := range c.nodes {
		if c.nodes[i].Name == name {
			return NodeID(i), true
		}
	}
	return none, false
}

// Joints returns the arcs from the base to the tip, in traversal order
func (c *Chain) Joints() []ArcID {
	out := make([]ArcID, len(c.joints))
	copy(out, c.joints)
	return out
}

// Path returns the nodes from the base to the tip, in traversal order
func (c *Chain) Path() []NodeID {
	out := make([]NodeID, len(c.path))
	copy(out, c.path)
	return out
}

// AbsoluteLocation composes Location * Articulation from the active base down
// to the given arc. Arcs outside the active traversal have no location and
// cause a panic, as does a malformed chain.
func (c *Chain) AbsoluteLocation(id ArcID) mgl64.Mat4 {
	return c.absoluteLocation(id, c.orientation, 0)
}

func (c *Chain) absoluteLocation(id ArcID, o Orientation, depth int) mgl64.Mat4 {
	if depth > len(c.arcs) {
		panic(fmt.Sprintf("chain: cycle above arc %q", c.arcs[id].Name))
	}

	arc := c.arcs[id]
	m := arc.Location.Mul4(arc.Articulation)

	up := arc.up[o]
	if up == none {
		if id != c.base() {
			panic(fmt.Sprintf("chain: arc %q is not reachable from the %s base", arc.Name, o))
		}
		return m
	}

	parent := c.nodes[up].up[o]
	if parent == none {
		panic(fmt.Sprintf("chain: node %q has no %s parent arc", c.nodes[up].Name, o))
	}
	return c.absoluteLocation(parent, o, depth+1).Mul4(m)
}

// PivotPosition returns the world position of a joint pivot
func (c *Chain) PivotPosition(id ArcID) mgl64.Vec3 {
	return translation(c.AbsoluteLocation(id))
}

// NodeFrame returns the world transform a node is drawn with
func (c *Chain) NodeFrame(id NodeID) mgl64.Mat4 {
	up := c.nodes[id].up[c.orientation]
	return c.AbsoluteLocation(up).Mul4(c.nodes[id].Transform)
}

// NodePosition returns the world position of a node center, by name
func (c *Chain) NodePosition(name string) (mgl64.Vec3, bool) {
	id, ok := c.NodeByName(name)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return translation(c.NodeFrame(id)), true
}

// tipArc returns the arc right above the tip node
func (c *Chain) tipArc() ArcID {
	return c.nodes[c.tipNode()].up[c.orientation]
}

func (c *Chain) tipNode() NodeID {
	return c.path[len(c.path)-1]
}

// effectorFrame is the rigid frame of the free tip: the last arc frame moved
// onto the tip node center, without the node scale
func (c *Chain) effectorFrame() mgl64.Mat4 {
	offset := translation(c.nodes[c.tipNode()].Transform)
	return c.AbsoluteLocation(c.tipArc()).Mul4(translate(offset))
}

// EndEffector returns the world position of the free tip
func (c *Chain) EndEffector() mgl64.Vec3 {
	return translation(c.NodeFrame(c.tipNode()))
}

// Anchor returns the world position of the active base
func (c *Chain) Anchor() mgl64.Vec3 {
	return translation(c.AbsoluteLocation(c.base()))
}

// MoveBase translates the active base anchor to position
func (c *Chain) MoveBase(position mgl64.Vec3) {
	c.arcs[c.base()].Location.SetCol(3, position.Vec4(1))
}

// MaxReach is the distance from the anchor to the tip with every joint aligned
func (c *Chain) MaxReach() float64 {
	reach := translation(c.nodes[c.tipNode()].Transform).Len()
	for _, id := range c.joints {
		reach += translation(c.arcs[id].Location).Len()
	}
	return reach
}

// SetDOF sets a rotating arc angle and rebuilds its articulation
func (c *Chain) SetDOF(id ArcID, angle float64) {
	arc := &c.arcs[id]
	arc.DOF = angle
	arc.Articulation = mgl64.HomogRotate3D(angle, arc.Axis)
}

// SetArticulation overrides an arc articulation directly
func (c *Chain) SetArticulation(id ArcID, articulation mgl64.Mat4) {
	c.arcs[id].Articulation = articulation
}

// JointCount, JointPivot, JointDOF and SetJointDOF expose the rotating joints
// from the end effector toward the base.
func (c *Chain) JointCount() int {
	return len(c.solverJoints)
}

func (c *Chain) JointPivot(i int) mgl64.Vec3 {
	return c.PivotPosition(c.solverJoints[i])
}

func (c *Chain) JointDOF(i int) float64 {
	return c.arcs[c.solverJoints[i]].DOF
}

func (c *Chain) SetJointDOF(i int, angle float64) {
	c.SetDOF(c.solverJoints[i], angle)
}

// Clone returns an independent copy of the chain
func (c *Chain) Clone() *Chain {
	next := &Chain{
		nodes:       make([]Node, len(c.nodes)),
		arcs:        make([]Arc, len(c.arcs)),
		root:        c.root,
		tail:        c.tail,
		orientation: c.orientation,
	}
	copy(next.nodes, c.nodes)
	copy(next.arcs, c.arcs)
	next.refresh()

	return next
}

// Reversed returns a copy of the chain re-rooted on its free tip. The world
// pose is unchanged: every pivot and every node keeps its world transform.
//
// With the traversal B, J1..Jn, N0..Nn, tip offset t and Li the location of Ji:
//   - the other base arc is placed on the effector frame
//   - Ji takes inverse(L(i+1)), Jn takes translate(-t)
//   - every articulation is inverted and every DOF negated
//   - Nk is pre-multiplied by inverse(L(k+1)), Nn by translate(-t)
//
// Applying it twice restores the original chain.
func (c *Chain) Reversed() *Chain {
	next := c.Clone()
	n := len(c.joints)
	tipOffset := translation(c.nodes[c.tipNode()].Transform)
	toTip := translate(tipOffset.Mul(-1))

	otherBase := c.root
	if c.orientation == Forward {
		otherBase = c.tail
	}
	next.arcs[otherBase].Location = c.effectorFrame()
	next.arcs[otherBase].Articulation = mgl64.Ident4()

	for i, id := range c.joints {
		location := toTip
		if i < n-1 {
			location = rigidInverse(c.arcs[c.joints[i+1]].Location)
		}
		next.arcs[id].Location = location
		next.arcs[id].Articulation = rigidInverse(c.arcs[id].Articulation)
		next.arcs[id].DOF = -c.arcs[id].DOF
	}

	for k, id := range c.path {
		offset := toTip
		if k < n {
			offset = rigidInverse(c.arcs[c.joints[k]].Location)
		}
		next.nodes[id].Transform = offset.Mul4(c.nodes[id].Transform)
	}

	next.orientation = c.orientation.Flip()
	next.refresh()

	return next
}

// Reverse swaps base and tip in place. The new state is computed on a copy
// first so no partially reversed chain is ever observable.
func (c *Chain) Reverse() {
	*c = *c.Reversed()
}

// Walk visits every node from the active base, depth first, with its world transform
func (c *Chain) Walk(transform mgl64.Mat4, visit func(node Node, world mgl64.Mat4)) {
	c.walk(c.base(), transform, func(node Node, parent mgl64.Mat4) {
		visit(node, parent.Mul4(node.LocalTransform()))
	}, 0)
}

// walk calls visit with each node and the frame of the arc leading to it
func (c *Chain) walk(id ArcID, matrix mgl64.Mat4, visit func(node Node, parent mgl64.Mat4), depth int) {
	if id == none {
		return
	}
	if depth > len(c.arcs) {
		panic("chain: cycle while walking")
	}

	o := c.orientation
	arc := c.arcs[id]
	matrix = matrix.Mul4(arc.Location.Mul4(arc.Articulation))

	node := c.nodes[arc.down[o]]
	visit(node, matrix)

	c.walk(node.down[o], matrix, visit, depth+1)
}

// Draw hands every node to the renderer
func (c *Chain) Draw(r render.Renderer, transform mgl64.Mat4, material render.Material) {
	c.walk(c.base(), transform, func(node Node, parent mgl64.Mat4) {
		render.Draw(r, node, parent, material)
	}, 0)
}

func translate(v mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(v.X(), v.Y(), v.Z())
}

func translation(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// rigidInverse inverts a rotation + translation matrix
func rigidInverse(m mgl64.Mat4) mgl64.Mat4 {
	rt := m.Mat3().Transpose()
	out := rt.Mat4()
	out.SetCol(3, rt.Mul3x1(translation(m)).Mul(-1).Vec4(1))
	return out
}
