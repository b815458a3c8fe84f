package animation

import (
	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Channel connects one sampler to one node property. Each channel keeps its
// own Interpolator across frames.
type Channel struct {
	Node    int
	Path    Path
	Sampler int

	Interpolator Interpolator
}

// Clip is one glTF animation.
type Clip struct {
	Name     string
	Channels []Channel
	Samplers []Sampler

	maxTime     float32
	maxTimeDone bool
}

// Duration returns the last keyframe time over all samplers. It is computed
// on first use and cached.
func (c *Clip) Duration() float32 {
	if !c.maxTimeDone {
		c.maxTime = 0
		for i := range c.Samplers {
			c.maxTime = max(c.maxTime, c.Samplers[i].LastTime())
		}
		c.maxTimeDone = true
	}
	return c.maxTime
}

// Reset rewinds every channel's interpolator.
func (c *Clip) Reset() {
	for i := range c.Channels {
		c.Channels[i].Interpolator.Reset()
	}
}

// Advance samples every channel at time t, looping over the clip duration, and
// writes the results into the target nodes of g and the morph weights of
// meshes. Channels whose node, sampler or mesh cannot be resolved are skipped.
// Propagate must run afterwards for the new pose to reach world space.
func (c *Clip) Advance(g *scene.Graph, meshes []*scene.Mesh, t float32) {
	if len(c.Channels) == 0 {
		return
	}
	maxTime := c.Duration()

	for i := range c.Channels {
		ch := &c.Channels[i]
		node := g.Node(ch.Node)
		if node == nil || ch.Sampler < 0 || ch.Sampler >= len(c.Samplers) {
			continue
		}

		var mesh *scene.Mesh
		morphTargets := 0
		if ch.Path == PathWeights {
			if node.Mesh < 0 || node.Mesh >= len(meshes) || meshes[node.Mesh] == nil {
				continue
			}
			mesh = meshes[node.Mesh]
			morphTargets = len(mesh.Weights)
		}

		v := ch.Interpolator.Sample(&c.Samplers[ch.Sampler], ch.Path, t, ch.Path.Stride(morphTargets), maxTime)
		if v == nil {
			continue
		}

		switch ch.Path {
		case PathTranslation:
			node.Translate(math.Vec3{X: v[0], Y: v[1], Z: v[2]})
		case PathRotation:
			node.Rotate(math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]})
		case PathScale:
			node.Scale(math.Vec3{X: v[0], Y: v[1], Z: v[2]})
		case PathWeights:
			copy(mesh.Weights, v)
		}
	}
}
