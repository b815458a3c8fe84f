// Package bounds computes world-space extents of a scene from the declared
// bounds of its mesh primitives.
package bounds

import (
	gomath "math"

	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/pkg/math"
)

// PrimitiveBounds supplies local-space corner bounds per mesh primitive.
type PrimitiveBounds interface {
	PrimitiveCount(mesh int) int
	PrimitiveBounds(mesh, prim int) (lo, hi math.Vec3, ok bool)
}

// Meshes serves the bounds already stored on scene meshes.
type Meshes []*scene.Mesh

func (m Meshes) PrimitiveCount(mesh int) int {
	if mesh < 0 || mesh >= len(m) || m[mesh] == nil {
		return 0
	}
	return len(m[mesh].Primitives)
}

func (m Meshes) PrimitiveBounds(mesh, prim int) (math.Vec3, math.Vec3, bool) {
	if prim < 0 || prim >= m.PrimitiveCount(mesh) {
		return math.Vec3{}, math.Vec3{}, false
	}
	p := m[mesh].Primitives[prim]
	return p.Min, p.Max, p.HasBounds
}

// Extents is an axis-aligned box. An empty box has Min at +Inf and Max at
// -Inf.
type Extents struct {
	Min, Max math.Vec3
}

// NewExtents returns an empty box.
func NewExtents() Extents {
	inf := float32(gomath.Inf(1))
	return Extents{Min: math.Splat(inf), Max: math.Splat(-inf)}
}

// Empty reports whether nothing has been merged into e.
func (e Extents) Empty() bool {
	return e.Min.X > e.Max.X || e.Min.Y > e.Max.Y || e.Min.Z > e.Max.Z
}

// Center returns the midpoint of the box.
func (e Extents) Center() math.Vec3 {
	return e.Min.Add(e.Max).Scale(0.5)
}

// Size returns the edge lengths of the box.
func (e Extents) Size() math.Vec3 {
	return e.Max.Sub(e.Min)
}

// Merge grows e to contain o.
func (e Extents) Merge(o Extents) Extents {
	return Extents{Min: e.Min.Min(o.Min), Max: e.Max.Max(o.Max)}
}

// Sphere transforms the corners lo and hi by world and returns the box around
// the sphere that circumscribes them. The result contains the transformed box
// under any rotation.
func Sphere(world math.Mat4, lo, hi math.Vec3) Extents {
	a := world.TransformVec3(lo)
	b := world.TransformVec3(hi)
	center := a.Add(b).Scale(0.5)
	radius := math.Splat(b.Sub(center).Length())
	return Extents{Min: center.Sub(radius), Max: center.Add(radius)}
}

// Compute merges the sphere boxes of every primitive attached to a node
// reachable from sc. World transforms must already be propagated.
func Compute(g *scene.Graph, sc *scene.Scene, pb PrimitiveBounds) Extents {
	ext := NewExtents()
	g.Walk(sc, func(_ int, n *scene.Node) {
		if n.Mesh < 0 {
			return
		}
		for p := 0; p < pb.PrimitiveCount(n.Mesh); p++ {
			lo, hi, ok := pb.PrimitiveBounds(n.Mesh, p)
			if !ok {
				continue
			}
			ext = ext.Merge(Sphere(n.WorldTransform, lo, hi))
		}
	})
	return ext
}
