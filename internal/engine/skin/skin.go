// Package skin computes per-joint skinning matrices from the world transforms
// of a propagated scene graph.
package skin

import (
	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Skin binds a mesh to a set of joint nodes.
type Skin struct {
	Name   string
	Joints []int
	// One matrix per joint; identity when the asset declares none.
	InverseBindMatrices []math.Mat4
	// Skeleton is the optional skeleton root node index, -1 when absent.
	Skeleton int

	JointMatrices       []math.Mat4
	JointNormalMatrices []math.Mat4
}

// New creates a skin with identity inverse bind matrices for every joint.
func New(name string, joints []int) *Skin {
	s := &Skin{
		Name:                name,
		Joints:              joints,
		InverseBindMatrices: make([]math.Mat4, len(joints)),
		Skeleton:            -1,
	}
	for i := range s.InverseBindMatrices {
		s.InverseBindMatrices[i] = math.Identity()
	}
	return s
}

// ComputeJoints fills JointMatrices and JointNormalMatrices from the current
// world transforms in g:
//
//	joint = inverse(root.world) * joint.world * inverseBind
//
// root is normally the node the skinned mesh is attached to. When it is nil
// the skin's skeleton node is used, and identity when that is absent as well.
// It must run after Graph.Propagate on every frame; nothing is cached.
func (s *Skin) ComputeJoints(g *scene.Graph, root *scene.Node) {
	if root == nil {
		root = g.Node(s.Skeleton)
	}
	rootInverse := math.Identity()
	if root != nil {
		rootInverse = root.InverseWorldTransform
	}

	if len(s.JointMatrices) != len(s.Joints) {
		s.JointMatrices = make([]math.Mat4, len(s.Joints))
		s.JointNormalMatrices = make([]math.Mat4, len(s.Joints))
	}

	for i, idx := range s.Joints {
		joint := g.Node(idx)
		if joint == nil {
			s.JointMatrices[i] = math.Identity()
			s.JointNormalMatrices[i] = math.Identity()
			continue
		}

		ibm := math.Identity()
		if i < len(s.InverseBindMatrices) {
			ibm = s.InverseBindMatrices[i]
		}

		jm := rootInverse.Mul(joint.WorldTransform).Mul(ibm)
		s.JointMatrices[i] = jm
		s.JointNormalMatrices[i] = jm.Inverse().Transpose()
	}
}
