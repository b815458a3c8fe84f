// Package asset loads glTF 2.0 documents into the scene, skin and animation
// types evaluated each frame.
package asset

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/multierr"

	"github.com/Faultbox/gltfview/internal/engine/animation"
	"github.com/Faultbox/gltfview/internal/engine/bounds"
	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/internal/engine/skin"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Asset is a loaded glTF document resolved into evaluation state.
type Asset struct {
	Path string
	Doc  *gltf.Document

	Graph        *scene.Graph
	DefaultScene int
	Meshes       []*scene.Mesh
	Skins        []*skin.Skin
	Clips        []*animation.Clip

	// Warnings collects non-fatal problems: skipped animations and scenes
	// that are not trees. Use multierr.Errors to list them.
	Warnings error
}

// Open reads a .gltf or .glb file.
func Open(path string) (*Asset, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	a, err := FromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	a.Path = path
	return a, nil
}

// FromDocument resolves an already decoded document. Broken nodes, meshes or
// skins fail the load; a broken animation is skipped and reported in
// Warnings.
func FromDocument(doc *gltf.Document) (*Asset, error) {
	a := &Asset{
		Doc:   doc,
		Graph: &scene.Graph{},
	}

	for _, n := range doc.Nodes {
		a.Graph.Nodes = append(a.Graph.Nodes, convertNode(n))
	}
	a.loadScenes()

	for i, m := range doc.Meshes {
		mesh, err := convertMesh(doc, m)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d", i)
		}
		a.Meshes = append(a.Meshes, mesh)
	}

	for i, s := range doc.Skins {
		sk, err := convertSkin(doc, s)
		if err != nil {
			return nil, errors.Wrapf(err, "skin %d", i)
		}
		a.Skins = append(a.Skins, sk)
	}

	for i, anim := range doc.Animations {
		clip, err := convertAnimation(doc, anim)
		if err != nil {
			a.Warnings = multierr.Append(a.Warnings, errors.Wrapf(err, "animation %d (%s) skipped", i, anim.Name))
			continue
		}
		a.Clips = append(a.Clips, clip)
	}

	for i := range a.Graph.Scenes {
		a.Warnings = multierr.Append(a.Warnings, a.Graph.Validate(&a.Graph.Scenes[i]))
	}
	return a, nil
}

// Scene returns scene i, or nil when out of range.
func (a *Asset) Scene(i int) *scene.Scene {
	if i < 0 || i >= len(a.Graph.Scenes) {
		return nil
	}
	return &a.Graph.Scenes[i]
}

// PrimitiveCount implements bounds.PrimitiveBounds.
func (a *Asset) PrimitiveCount(mesh int) int {
	return bounds.Meshes(a.Meshes).PrimitiveCount(mesh)
}

// PrimitiveBounds implements bounds.PrimitiveBounds.
func (a *Asset) PrimitiveBounds(mesh, prim int) (math.Vec3, math.Vec3, bool) {
	return bounds.Meshes(a.Meshes).PrimitiveBounds(mesh, prim)
}

// loadScenes copies the document scenes. A document without scenes gets one
// synthesized scene rooted at every node that has no parent.
func (a *Asset) loadScenes() {
	doc := a.Doc
	for _, s := range doc.Scenes {
		sc := scene.Scene{Name: s.Name}
		for _, n := range s.Nodes {
			sc.Roots = append(sc.Roots, int(n))
		}
		a.Graph.Scenes = append(a.Graph.Scenes, sc)
	}
	if doc.Scene != nil {
		a.DefaultScene = int(*doc.Scene)
	}

	if len(a.Graph.Scenes) > 0 {
		return
	}
	parented := make(map[int]bool)
	for _, n := range a.Graph.Nodes {
		for _, c := range n.Children {
			parented[c] = true
		}
	}
	sc := scene.Scene{Name: "default"}
	for i := range a.Graph.Nodes {
		if !parented[i] {
			sc.Roots = append(sc.Roots, i)
		}
	}
	a.Graph.Scenes = append(a.Graph.Scenes, sc)
	a.DefaultScene = 0
}

func convertNode(n *gltf.Node) *scene.Node {
	node := scene.NewNode(n.Name)
	for _, c := range n.Children {
		node.Children = append(node.Children, int(c))
	}
	if n.Mesh != nil {
		node.Mesh = int(*n.Mesh)
	}
	if n.Skin != nil {
		node.Skin = int(*n.Skin)
	}
	if n.Camera != nil {
		node.Camera = int(*n.Camera)
	}

	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		node.SetMatrix(math.Mat4(m))
		return node
	}

	node.Translate(math.Vec3FromArray(n.Translation))
	node.Rotate(math.QuatFromArray(n.RotationOrDefault()))
	node.Scale(math.Vec3FromArray(n.Scale))
	return node
}

func convertMesh(doc *gltf.Document, m *gltf.Mesh) (*scene.Mesh, error) {
	mesh := &scene.Mesh{Name: m.Name}

	targets := 0
	for i, p := range m.Primitives {
		prim, err := primitiveBounds(doc, p)
		if err != nil {
			return nil, errors.Wrapf(err, "primitive %d", i)
		}
		mesh.Primitives = append(mesh.Primitives, prim)
		targets = max(targets, len(p.Targets))
	}

	if len(m.Weights) > 0 {
		mesh.Weights = append([]float32(nil), m.Weights...)
	} else {
		mesh.Weights = make([]float32, targets)
	}
	return mesh, nil
}

// primitiveBounds takes the POSITION accessor's declared min/max, or scans the
// positions when the accessor does not declare them.
func primitiveBounds(doc *gltf.Document, p *gltf.Primitive) (scene.Primitive, error) {
	idx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return scene.Primitive{}, nil
	}
	if int(idx) >= len(doc.Accessors) {
		return scene.Primitive{}, errors.Errorf("POSITION accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]

	if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
		return scene.Primitive{
			Min:       math.Vec3{X: float32(acc.Min[0]), Y: float32(acc.Min[1]), Z: float32(acc.Min[2])},
			Max:       math.Vec3{X: float32(acc.Max[0]), Y: float32(acc.Max[1]), Z: float32(acc.Max[2])},
			HasBounds: true,
		}, nil
	}

	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return scene.Primitive{}, errors.Wrap(err, "read POSITION")
	}
	if len(positions) == 0 {
		return scene.Primitive{}, nil
	}
	prim := scene.Primitive{
		Min:       math.Vec3FromArray(positions[0]),
		Max:       math.Vec3FromArray(positions[0]),
		HasBounds: true,
	}
	for _, p := range positions[1:] {
		v := math.Vec3FromArray(p)
		prim.Min = prim.Min.Min(v)
		prim.Max = prim.Max.Max(v)
	}
	return prim, nil
}

func convertSkin(doc *gltf.Document, s *gltf.Skin) (*skin.Skin, error) {
	joints := make([]int, len(s.Joints))
	for i, j := range s.Joints {
		joints[i] = int(j)
	}
	sk := skin.New(s.Name, joints)
	if s.Skeleton != nil {
		sk.Skeleton = int(*s.Skeleton)
	}

	if s.InverseBindMatrices == nil {
		return sk, nil
	}
	data, err := readFloats(doc, int(*s.InverseBindMatrices))
	if err != nil {
		return nil, errors.Wrap(err, "inverse bind matrices")
	}
	if len(data) < len(joints)*16 {
		return nil, errors.Errorf("inverse bind matrices: %d values for %d joints", len(data), len(joints))
	}
	for i := range joints {
		copy(sk.InverseBindMatrices[i][:], data[i*16:(i+1)*16])
	}
	return sk, nil
}

func convertAnimation(doc *gltf.Document, anim *gltf.Animation) (*animation.Clip, error) {
	clip := &animation.Clip{Name: anim.Name}

	for i, s := range anim.Samplers {
		sampler, err := convertSampler(doc, s)
		if err != nil {
			return nil, errors.Wrapf(err, "sampler %d", i)
		}
		clip.Samplers = append(clip.Samplers, sampler)
	}

	for i, ch := range anim.Channels {
		if ch.Sampler == nil || ch.Target.Node == nil {
			// Targets defined by extensions only.
			continue
		}
		path, err := animation.ParsePath(ch.Target.Path.String())
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d", i)
		}
		c := animation.Channel{
			Node:    int(*ch.Target.Node),
			Path:    path,
			Sampler: int(*ch.Sampler),
		}
		if c.Sampler >= len(clip.Samplers) {
			return nil, errors.Errorf("channel %d: sampler %d out of range", i, c.Sampler)
		}
		if c.Node >= len(doc.Nodes) {
			return nil, errors.Errorf("channel %d: node %d out of range", i, c.Node)
		}
		if err := checkOutput(&clip.Samplers[c.Sampler], path); err != nil {
			return nil, errors.Wrapf(err, "channel %d", i)
		}
		clip.Channels = append(clip.Channels, c)
	}
	return clip, nil
}

func convertSampler(doc *gltf.Document, s *gltf.AnimationSampler) (animation.Sampler, error) {
	var out animation.Sampler
	if s.Input == nil || s.Output == nil {
		return out, errors.New("missing input or output accessor")
	}

	var err error
	if out.Input, err = readFloats(doc, int(*s.Input)); err != nil {
		return out, errors.Wrap(err, "input")
	}
	if len(out.Input) == 0 {
		return out, errors.New("no keyframes")
	}
	if out.Output, err = readFloats(doc, int(*s.Output)); err != nil {
		return out, errors.Wrap(err, "output")
	}

	if out.Interpolation, err = animation.ParseInterpolation(s.Interpolation.String()); err != nil {
		return out, err
	}
	return out, nil
}

// checkOutput verifies the output holds a whole value group per keyframe. For
// weights the group size depends on the target mesh and is checked at
// evaluation time.
func checkOutput(s *animation.Sampler, path animation.Path) error {
	if path == animation.PathWeights {
		return nil
	}
	per := path.Stride(0)
	if s.Interpolation == animation.CubicSpline {
		per *= 3
	}
	if want := s.Keyframes() * per; len(s.Output) < want {
		return errors.Errorf("%s output has %d values, want %d", path, len(s.Output), want)
	}
	return nil
}
