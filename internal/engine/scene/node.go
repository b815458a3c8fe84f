// Package scene holds the node hierarchy of a loaded glTF scene and
// propagates local transforms into world space.
package scene

import (
	"github.com/Faultbox/gltfview/pkg/math"
)

// Node is one scene-graph node: its local TRS (or explicit matrix) state,
// a lazily rebuilt local transform and the world-space results of the last
// propagation.
type Node struct {
	Name     string
	Children []int

	// Indices into the asset's meshes, skins and cameras; -1 when absent.
	Mesh   int
	Skin   int
	Camera int

	translation math.Vec3
	rotation    math.Quat
	scale       math.Vec3
	matrix      *math.Mat4

	local math.Mat4
	dirty bool

	WorldTransform        math.Mat4
	InverseWorldTransform math.Mat4
	NormalMatrix          math.Mat4
}

// NewNode creates a node with identity TRS and no attachments.
func NewNode(name string) *Node {
	return &Node{
		Name:                  name,
		Mesh:                  -1,
		Skin:                  -1,
		Camera:                -1,
		rotation:              math.QuatIdentity(),
		scale:                 math.Splat(1),
		local:                 math.Identity(),
		WorldTransform:        math.Identity(),
		InverseWorldTransform: math.Identity(),
		NormalMatrix:          math.Identity(),
		dirty:                 true,
	}
}

// Translation returns the local translation.
func (n *Node) Translation() math.Vec3 { return n.translation }

// Rotation returns the local rotation.
func (n *Node) Rotation() math.Quat { return n.rotation }

// ScaleFactor returns the local scale.
func (n *Node) ScaleFactor() math.Vec3 { return n.scale }

// Matrix returns the explicit local matrix, if one overrides TRS.
func (n *Node) Matrix() (math.Mat4, bool) {
	if n.matrix == nil {
		return math.Mat4{}, false
	}
	return *n.matrix, true
}

// Dirty reports whether the cached local transform is stale.
func (n *Node) Dirty() bool { return n.dirty }

// Translate sets the local translation.
func (n *Node) Translate(t math.Vec3) {
	n.translation = t
	n.matrix = nil
	n.dirty = true
}

// Rotate sets the local rotation.
func (n *Node) Rotate(r math.Quat) {
	n.rotation = r
	n.matrix = nil
	n.dirty = true
}

// Scale sets the local scale.
func (n *Node) Scale(s math.Vec3) {
	n.scale = s
	n.matrix = nil
	n.dirty = true
}

// SetMatrix makes m the local transform. The matrix is also decomposed into
// TRS so it can be inspected; a later TRS setter drops the override and the
// node composes from the decomposed values.
func (n *Node) SetMatrix(m math.Mat4) {
	n.translation, n.rotation, n.scale = m.Decompose()
	n.matrix = &m
	n.dirty = true
}

// LocalTransform returns the explicit matrix if set, else T*R*S. The result
// is cached until the next setter call.
func (n *Node) LocalTransform() math.Mat4 {
	if !n.dirty {
		return n.local
	}
	if n.matrix != nil {
		n.local = *n.matrix
	} else {
		n.local = math.FromTRS(n.translation, n.rotation, n.scale)
	}
	n.dirty = false
	return n.local
}

// setWorld stores the world transform and derives inverse and normal matrices.
// The normal matrix is the inverse-transpose so non-uniform scale bends normals
// correctly.
func (n *Node) setWorld(world math.Mat4) {
	n.WorldTransform = world
	n.InverseWorldTransform = world.Inverse()
	n.NormalMatrix = n.InverseWorldTransform.Transpose()
}
