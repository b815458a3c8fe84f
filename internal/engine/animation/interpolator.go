package animation

import (
	gomath "math"

	"github.com/Faultbox/gltfview/pkg/math"
)

// Interpolator is the per-channel sampling state. PrevKey is where the next
// keyframe scan starts; it only moves forward until time goes backwards.
type Interpolator struct {
	PrevKey int
	PrevT   float32

	out []float32
}

// Reset rewinds the scan state.
func (ip *Interpolator) Reset() {
	ip.PrevKey = 0
	ip.PrevT = 0
}

// Sample evaluates s at time t. t is wrapped by maxTime (when positive) and
// clamped to the sampler's keyframe range. The returned slice holds stride
// values, is owned by the interpolator and is overwritten by the next call.
// It returns nil when the sampler has no usable data for stride.
func (ip *Interpolator) Sample(s *Sampler, path Path, t float32, stride int, maxTime float32) []float32 {
	if !s.fits(stride) {
		return nil
	}
	if cap(ip.out) < stride {
		ip.out = make([]float32, stride)
	}
	out := ip.out[:stride]

	if len(s.Input) == 1 {
		copy(out, keyValue(s, 0, stride))
		return out
	}

	if maxTime > 0 {
		t = float32(gomath.Mod(float64(t), float64(maxTime)))
	}
	last := len(s.Input) - 1
	t = clamp(t, s.Input[0], s.Input[last])

	if t < ip.PrevT {
		ip.PrevKey = 0
	}
	ip.PrevT = t

	k := ip.PrevKey
	for k < last && s.Input[k] < t {
		k++
	}
	next := min(max(k, 1), last)
	prev := min(max(next-1, 0), next)
	ip.PrevKey = prev

	keyDelta := s.Input[next] - s.Input[prev]
	var tn float32
	if keyDelta != 0 {
		tn = (t - s.Input[prev]) / keyDelta
	}

	switch s.Interpolation {
	case Step:
		copy(out, keyValue(s, prev, stride))

	case CubicSpline:
		hermite(out, s, prev, next, tn, keyDelta, stride)
		if path == PathRotation && stride == 4 {
			q := math.Quat{X: out[0], Y: out[1], Z: out[2], W: out[3]}.Normalize()
			out[0], out[1], out[2], out[3] = q.X, q.Y, q.Z, q.W
		}

	default:
		v0 := keyValue(s, prev, stride)
		v1 := keyValue(s, next, stride)
		if path == PathRotation && stride == 4 {
			q0 := math.Quat{X: v0[0], Y: v0[1], Z: v0[2], W: v0[3]}
			q1 := math.Quat{X: v1[0], Y: v1[1], Z: v1[2], W: v1[3]}
			q := q0.Slerp(q1, tn)
			out[0], out[1], out[2], out[3] = q.X, q.Y, q.Z, q.W
			break
		}
		for i := range out {
			out[i] = v0[i]*(1-tn) + v1[i]*tn
		}
	}
	return out
}

// keyValue returns the value group of keyframe k, skipping the tangents of
// cubic spline samplers.
func keyValue(s *Sampler, k, stride int) []float32 {
	if s.Interpolation == CubicSpline {
		off := (k*3 + 1) * stride
		return s.Output[off : off+stride]
	}
	off := k * stride
	return s.Output[off : off+stride]
}

// hermite evaluates the cubic Hermite spline between keyframes prev and next.
// Tangents are stored per unit of keyframe time and scaled by keyDelta.
func hermite(out []float32, s *Sampler, prev, next int, t, keyDelta float32, stride int) {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	v0 := s.Output[(prev*3+1)*stride:]
	b0 := s.Output[(prev*3+2)*stride:]
	a1 := s.Output[(next*3)*stride:]
	v1 := s.Output[(next*3+1)*stride:]

	for i := 0; i < stride; i++ {
		out[i] = h00*v0[i] + h10*keyDelta*b0[i] + h01*v1[i] + h11*keyDelta*a1[i]
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
