// Package picking casts rays from the viewport into an evaluated scene.
package picking

import (
	gomath "math"

	"github.com/Faultbox/gltfview/internal/engine/bounds"
	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts viewport coordinates to a world-space ray.
// screenX, screenY are measured from the top-left corner; invViewProj is the
// inverse of projection * view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := invViewProj.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// IntersectExtents tests the ray against an axis-aligned box using the slab
// method. It returns the entry distance, or the exit distance when the ray
// starts inside the box.
func (r Ray) IntersectExtents(box bounds.Extents) (float32, bool) {
	if box.Empty() {
		return 0, false
	}

	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is the nearest node whose primitive bounds the ray crossed.
type Hit struct {
	Node      int
	Primitive int
	Distance  float32
}

// Pick returns the closest mesh node reachable from sc that the ray hits. Each
// primitive is tested against the same rotation-safe box used for scene
// extents, so hits are conservative. World transforms must already be
// propagated.
func Pick(g *scene.Graph, sc *scene.Scene, pb bounds.PrimitiveBounds, r Ray) (Hit, bool) {
	best := Hit{Node: -1, Primitive: -1}
	found := false

	g.Walk(sc, func(idx int, n *scene.Node) {
		if n.Mesh < 0 {
			return
		}
		for p := 0; p < pb.PrimitiveCount(n.Mesh); p++ {
			lo, hi, ok := pb.PrimitiveBounds(n.Mesh, p)
			if !ok {
				continue
			}
			t, hit := r.IntersectExtents(bounds.Sphere(n.WorldTransform, lo, hi))
			if hit && (!found || t < best.Distance) {
				best = Hit{Node: idx, Primitive: p, Distance: t}
				found = true
			}
		}
	})
	return best, found
}
