// Package animation samples glTF keyframe data and writes the results into
// scene nodes and mesh morph weights.
package animation

import "fmt"

// Path is the node property a channel animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
	PathWeights
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	case PathWeights:
		return "weights"
	}
	return fmt.Sprintf("Path(%d)", int(p))
}

// Stride returns the number of components per keyframe value. Weights
// channels carry one component per morph target.
func (p Path) Stride(morphTargets int) int {
	switch p {
	case PathTranslation, PathScale:
		return 3
	case PathRotation:
		return 4
	case PathWeights:
		return morphTargets
	}
	return 0
}

// ParsePath maps a glTF channel target path to a Path.
func ParsePath(s string) (Path, error) {
	switch s {
	case "translation":
		return PathTranslation, nil
	case "rotation":
		return PathRotation, nil
	case "scale":
		return PathScale, nil
	case "weights":
		return PathWeights, nil
	}
	return 0, fmt.Errorf("unknown animation path %q", s)
}

// Interpolation is a sampler's keyframe blending mode. The zero value is
// Linear, the glTF default.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "LINEAR"
	case Step:
		return "STEP"
	case CubicSpline:
		return "CUBICSPLINE"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation maps a glTF sampler interpolation name. An empty string
// yields Linear.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "LINEAR":
		return Linear, nil
	case "STEP":
		return Step, nil
	case "CUBICSPLINE":
		return CubicSpline, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", s)
}

// Sampler pairs keyframe times with flattened output values. For CubicSpline
// every keyframe holds three stride-sized groups: in-tangent, value,
// out-tangent.
type Sampler struct {
	Input         []float32
	Output        []float32
	Interpolation Interpolation
}

// Keyframes returns the number of keyframes.
func (s *Sampler) Keyframes() int { return len(s.Input) }

// LastTime returns the time of the final keyframe, or 0 when there are none.
func (s *Sampler) LastTime() float32 {
	if len(s.Input) == 0 {
		return 0
	}
	return s.Input[len(s.Input)-1]
}

// fits reports whether Output holds enough values for stride components per
// keyframe.
func (s *Sampler) fits(stride int) bool {
	if len(s.Input) == 0 || stride <= 0 {
		return false
	}
	per := stride
	if s.Interpolation == CubicSpline {
		per *= 3
	}
	return len(s.Output) >= len(s.Input)*per
}
