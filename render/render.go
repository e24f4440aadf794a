package render

import "github.com/go-gl/mathgl/mgl64"

// Mesh identifies a shared mesh resource owned by the rendering collaborator
type Mesh int

const (
	MeshSphere Mesh = iota
	MeshBox
)

func (m Mesh) String() string {
	switch m {
	case MeshSphere:
		return "sphere"
	case MeshBox:
		return "box"
	}
	return "unknown"
}

// Material describes how a mesh should be shaded. Only the color is
// interpreted by the simulation, the name lets the renderer pick a shader.
type Material struct {
	Name  string
	Color mgl64.Vec4
}

// WithColor returns a copy of the material with another color
func (m Material) WithColor(color mgl64.Vec4) Material {
	m.Color = color
	return m
}

// Drawable is implemented by anything that maps to a mesh with a local transform
type Drawable interface {
	LocalTransform() mgl64.Mat4
	MeshID() Mesh
}

// Renderer receives one call per drawable, with its world transform
type Renderer interface {
	DrawMesh(mesh Mesh, transform mgl64.Mat4, material Material)
}

// Draw hands d to r, its local transform placed in the parent frame
func Draw(r Renderer, d Drawable, parent mgl64.Mat4, material Material) {
	r.DrawMesh(d.MeshID(), parent.Mul4(d.LocalTransform()), material)
}

// DrawCall is a single recorded Renderer call
type DrawCall struct {
	Mesh      Mesh
	Transform mgl64.Mat4
	Material  Material
}

// Recorder is a Renderer storing every call, used by headless runs and tests
type Recorder struct {
	Calls []DrawCall
}

func (r *Recorder) DrawMesh(mesh Mesh, transform mgl64.Mat4, material Material) {
	r.Calls = append(r.Calls, DrawCall{Mesh: mesh, Transform: transform, Material: material})
}

// Reset drops recorded calls, keeping the backing array
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns how many calls used the given mesh
func (r *Recorder) Count(mesh Mesh) int {
	n := 0
	for _, c := range r.Calls {
		if c.Mesh == mesh {
			n++
		}
	}
	return n
}
