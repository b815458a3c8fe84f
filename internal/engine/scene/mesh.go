package scene

import "github.com/Faultbox/gltfview/pkg/math"

// Primitive carries the local-space corner bounds of one mesh primitive, as
// declared by its POSITION accessor.
type Primitive struct {
	Min, Max  math.Vec3
	HasBounds bool
}

// Mesh is the part of a glTF mesh the evaluator touches: its primitives'
// bounds and the morph target weights animated by weights channels. The
// length of Weights is fixed at load time.
type Mesh struct {
	Name       string
	Primitives []Primitive
	Weights    []float32
}
