package asset

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"go.uber.org/multierr"

	"github.com/Faultbox/gltfview/internal/engine/animation"
	"github.com/Faultbox/gltfview/internal/engine/bounds"
	"github.com/Faultbox/gltfview/pkg/math"
)

// fixtureBuffer lays out, in order: keyframe times, knee translations, face
// weights, inverse bind matrices, positions, and normalized byte weights.
func fixtureBuffer() []byte {
	floats := []float32{
		0, 1, 2, // times @0
		0, 0, 0, 0, 2, 0, 0, 4, 0, // translations @12
		0, 0, 1, 0, 0, 1, // weights @48
	}
	ibm0 := math.Identity()
	ibm1 := math.Translate(0, -1, 0)
	floats = append(floats, ibm0[:]...) // @72
	floats = append(floats, ibm1[:]...)
	floats = append(floats, -1, 0, 0, 1, 2, 0, 0, 0, 3) // positions @200

	buf := make([]byte, 0, 242)
	for _, f := range floats {
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(f))
	}
	return append(buf, 0, 0, 255, 0, 0, 255) // @236
}

func fixtureJSON() string {
	buf := fixtureBuffer()
	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "main", "nodes": [0, 4]}],
  "nodes": [
    {"name": "root", "children": [1, 3], "matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 10,0,0,1]},
    {"name": "hip", "children": [2]},
    {"name": "knee", "translation": [0, 1, 0]},
    {"name": "body", "mesh": 0, "skin": 0},
    {"name": "morph", "mesh": 1, "scale": [2, 2, 2]}
  ],
  "meshes": [
    {"name": "body", "primitives": [{"attributes": {"POSITION": 4}}]},
    {"name": "face", "primitives": [{"attributes": {"POSITION": 5}, "targets": [{"POSITION": 5}, {"POSITION": 5}]}]}
  ],
  "skins": [{"name": "rig", "joints": [1, 2], "inverseBindMatrices": 3, "skeleton": 1}],
  "animations": [
    {"name": "walk",
     "samplers": [{"input": 0, "output": 1}, {"input": 0, "output": 2, "interpolation": "STEP"}],
     "channels": [
       {"sampler": 0, "target": {"node": 2, "path": "translation"}},
       {"sampler": 1, "target": {"node": 4, "path": "weights"}}
     ]},
    {"name": "broken",
     "samplers": [{"input": 0, "output": 9}],
     "channels": [{"sampler": 0, "target": {"node": 1, "path": "scale"}}]},
    {"name": "blink",
     "samplers": [{"input": 0, "output": 6}],
     "channels": [{"sampler": 0, "target": {"node": 4, "path": "weights"}}]}
  ],
  "accessors": [
    {"bufferView": 0, "byteOffset": 0, "componentType": 5126, "count": 3, "type": "SCALAR", "min": [0], "max": [2]},
    {"bufferView": 0, "byteOffset": 12, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 0, "byteOffset": 48, "componentType": 5126, "count": 6, "type": "SCALAR"},
    {"bufferView": 0, "byteOffset": 72, "componentType": 5126, "count": 2, "type": "MAT4"},
    {"bufferView": 0, "byteOffset": 200, "componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, 0, 0], "max": [1, 2, 3]},
    {"bufferView": 0, "byteOffset": 200, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 0, "byteOffset": 236, "componentType": 5121, "normalized": true, "count": 6, "type": "SCALAR"}
  ],
  "bufferViews": [{"buffer": 0, "byteLength": %d}],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}]
}`, len(buf), len(buf), base64.StdEncoding.EncodeToString(buf))
}

func loadFixture(t *testing.T) *Asset {
	t.Helper()
	var doc gltf.Document
	if err := gltf.NewDecoder(strings.NewReader(fixtureJSON())).Decode(&doc); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	a, err := FromDocument(&doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	return a
}

func TestFromDocumentCounts(t *testing.T) {
	a := loadFixture(t)

	if len(a.Graph.Nodes) != 5 || len(a.Graph.Scenes) != 1 || len(a.Meshes) != 2 || len(a.Skins) != 1 {
		t.Fatalf("nodes=%d scenes=%d meshes=%d skins=%d",
			len(a.Graph.Nodes), len(a.Graph.Scenes), len(a.Meshes), len(a.Skins))
	}
	if a.DefaultScene != 0 || a.Scene(0).Name != "main" || a.Scene(3) != nil {
		t.Errorf("default scene %d, scene(0) %+v", a.DefaultScene, a.Scene(0))
	}

	var names []string
	for _, c := range a.Clips {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "walk,blink" {
		t.Errorf("clips = %v, want walk and blink", names)
	}

	warnings := multierr.Errors(a.Warnings)
	if len(warnings) != 1 || !strings.Contains(warnings[0].Error(), "animation 1") {
		t.Errorf("warnings = %v, want only the broken animation", warnings)
	}
}

func TestNodes(t *testing.T) {
	a := loadFixture(t)
	nodes := a.Graph.Nodes

	if _, ok := nodes[0].Matrix(); !ok {
		t.Error("root should keep its explicit matrix")
	}
	if nodes[0].Translation() != (math.Vec3{X: 10}) {
		t.Errorf("root translation = %v, want (10,0,0)", nodes[0].Translation())
	}
	if nodes[2].Translation() != (math.Vec3{Y: 1}) {
		t.Errorf("knee translation = %v", nodes[2].Translation())
	}
	if nodes[1].Rotation() != math.QuatIdentity() || nodes[1].ScaleFactor() != math.Splat(1) {
		t.Errorf("hip defaults: rotation %v scale %v", nodes[1].Rotation(), nodes[1].ScaleFactor())
	}
	if nodes[4].ScaleFactor() != math.Splat(2) {
		t.Errorf("morph scale = %v", nodes[4].ScaleFactor())
	}
	if nodes[3].Mesh != 0 || nodes[3].Skin != 0 || nodes[3].Camera != -1 {
		t.Errorf("body attachments: mesh %d skin %d camera %d", nodes[3].Mesh, nodes[3].Skin, nodes[3].Camera)
	}
	if fmt.Sprint(nodes[0].Children) != "[1 3]" {
		t.Errorf("root children = %v", nodes[0].Children)
	}
}

func TestMeshes(t *testing.T) {
	a := loadFixture(t)

	if len(a.Meshes[0].Weights) != 0 {
		t.Errorf("body weights = %v, want none", a.Meshes[0].Weights)
	}
	if w := a.Meshes[1].Weights; len(w) != 2 || w[0] != 0 || w[1] != 0 {
		t.Errorf("face weights = %v, want two zeros", w)
	}

	var pb bounds.PrimitiveBounds = a
	want := [2]math.Vec3{{X: -1}, {X: 1, Y: 2, Z: 3}}
	for mesh := 0; mesh < 2; mesh++ {
		if pb.PrimitiveCount(mesh) != 1 {
			t.Fatalf("mesh %d primitives = %d", mesh, pb.PrimitiveCount(mesh))
		}
		lo, hi, ok := pb.PrimitiveBounds(mesh, 0)
		if !ok || lo != want[0] || hi != want[1] {
			t.Errorf("mesh %d bounds = %v %v %v, want %v", mesh, lo, hi, ok, want)
		}
	}
}

func TestSkin(t *testing.T) {
	a := loadFixture(t)
	s := a.Skins[0]

	if s.Name != "rig" || s.Skeleton != 1 || len(s.Joints) != 2 || s.Joints[1] != 2 {
		t.Fatalf("skin = %+v", s)
	}
	if s.InverseBindMatrices[0] != math.Identity() {
		t.Errorf("IBM[0] = %v", s.InverseBindMatrices[0])
	}
	if s.InverseBindMatrices[1] != math.Translate(0, -1, 0) {
		t.Errorf("IBM[1] = %v", s.InverseBindMatrices[1])
	}

	// The inverse bind matrices undo the joints' bind pose relative to the
	// skinned body, so the bind pose skins to identity.
	g := a.Graph
	g.Propagate(a.Scene(a.DefaultScene), math.Identity())
	s.ComputeJoints(g, g.Nodes[3])
	for i, jm := range s.JointMatrices {
		if !jm.NearlyEqual(math.Identity(), 1e-6) {
			t.Errorf("bind pose joint %d = %v, want identity", i, jm)
		}
	}
}

func TestClips(t *testing.T) {
	a := loadFixture(t)
	walk, blink := a.Clips[0], a.Clips[1]

	if walk.Duration() != 2 {
		t.Errorf("walk duration = %v", walk.Duration())
	}
	if len(walk.Channels) != 2 || walk.Channels[1].Path != animation.PathWeights {
		t.Fatalf("walk channels = %+v", walk.Channels)
	}
	if walk.Samplers[1].Interpolation != animation.Step {
		t.Errorf("walk sampler 1 = %v, want STEP", walk.Samplers[1].Interpolation)
	}

	walk.Advance(a.Graph, a.Meshes, 0.5)
	if got := a.Graph.Nodes[2].Translation(); got != (math.Vec3{Y: 1}) {
		t.Errorf("knee at 0.5 = %v, want (0,1,0)", got)
	}

	blink.Advance(a.Graph, a.Meshes, 1)
	if w := a.Meshes[1].Weights; w[0] != 1 || w[1] != 0 {
		t.Errorf("dequantized weights at 1 = %v, want [1 0]", w)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.gltf")
	if err := os.WriteFile(path, []byte(fixtureJSON()), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Path != path || len(a.Clips) != 2 {
		t.Errorf("Open: path %q clips %d", a.Path, len(a.Clips))
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.gltf")); err == nil {
		t.Error("Open should fail for a missing file")
	}
}

func TestConvertNode(t *testing.T) {
	const nodes = `{"asset": {"version": "2.0"}, "nodes": [
  {"name": "plain"},
  {"name": "hidden", "scale": [0, 0, 0]},
  {"name": "identity", "matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1], "translation": [1, 2, 3]},
  {"name": "placed", "matrix": [2,0,0,0, 0,2,0,0, 0,0,2,0, 0,5,0,1]}
]}`
	var doc gltf.Document
	if err := gltf.NewDecoder(strings.NewReader(nodes)).Decode(&doc); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		hasMatrix bool
		local     math.Mat4
	}{
		{"plain", false, math.Identity()},
		{"hidden", false, math.Scale(0, 0, 0)},
		{"identity", false, math.Translate(1, 2, 3)},
		{"placed", true, math.Translate(0, 5, 0).Mul(math.Scale(2, 2, 2))},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := convertNode(doc.Nodes[i])
			if _, ok := n.Matrix(); ok != tt.hasMatrix {
				t.Errorf("explicit matrix = %v, want %v", ok, tt.hasMatrix)
			}
			if got := n.LocalTransform(); !got.NearlyEqual(tt.local, 1e-6) {
				t.Errorf("local = %v, want %v", got, tt.local)
			}
		})
	}
}

func TestUnknownInterpolationRejected(t *testing.T) {
	a := loadFixture(t)
	s := &gltf.AnimationSampler{
		Input:         gltf.Index(0),
		Output:        gltf.Index(1),
		Interpolation: gltf.Interpolation(9),
	}
	if _, err := convertSampler(a.Doc, s); err == nil {
		t.Error("convertSampler should reject an unknown interpolation")
	}

	s.Interpolation = gltf.InterpolationCubicSpline
	out, err := convertSampler(a.Doc, s)
	if err != nil {
		t.Fatal(err)
	}
	if out.Interpolation != animation.CubicSpline {
		t.Errorf("interpolation = %v, want CUBICSPLINE", out.Interpolation)
	}
}

func TestFromDocumentWithoutScenes(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{{Name: "a"}, {Name: "b"}}}
	doc.Nodes[0].Children = append(doc.Nodes[0].Children, 1)

	a, err := FromDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Graph.Scenes) != 1 || fmt.Sprint(a.Graph.Scenes[0].Roots) != "[0]" {
		t.Errorf("synthesized scenes = %+v", a.Graph.Scenes)
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		normalized bool
		want       []float32
	}{
		{"scalar", []float32{1, 2}, false, []float32{1, 2}},
		{"vec3", [][3]float32{{1, 2, 3}, {4, 5, 6}}, false, []float32{1, 2, 3, 4, 5, 6}},
		{"mat4 rows", [][4][4]float32{{{1, 0, 0, 7}, {0, 1, 0, 8}, {0, 0, 1, 9}, {0, 0, 0, 1}}}, false,
			[]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 7, 8, 9, 1}},
		{"ubyte", []uint8{0, 255}, true, []float32{0, 1}},
		{"ubyte raw", []uint8{0, 255}, false, []float32{0, 255}},
		{"short quat", [][4]int16{{32767, -32768, 0, 32767}}, true, []float32{1, -1, 0, 1}},
		{"ushort", []uint16{65535}, true, []float32{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := flatten(tt.data, tt.normalized)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("flatten = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("flatten = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if _, err := flatten([]string{"x"}, false); err == nil {
		t.Error("flatten should reject unknown layouts")
	}
}
