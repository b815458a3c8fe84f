package math

import "math"

// slerpEpsilon is the 1-cos(angle) threshold below which Slerp falls back to
// a linear blend.
const slerpEpsilon = 1e-6

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromArray builds a quaternion from glTF (x, y, z, w) order.
func QuatFromArray(a [4]float32) Quat {
	return Quat{a[0], a[1], a[2], a[3]}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromMat3 extracts a rotation from a pure 3x3 rotation matrix given as
// column-major [9]float32, using Shoemake's trace method. The result is
// renormalized.
func QuatFromMat3(m [9]float32) Quat {
	// m[col*3+row]
	m00, m11, m22 := m[0], m[4], m[8]
	trace := m00 + m11 + m22

	var q Quat
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q.W = 0.25 * s
		q.X = (m[5] - m[7]) / s
		q.Y = (m[6] - m[2]) / s
		q.Z = (m[1] - m[3]) / s
	case m00 > m11 && m00 > m22:
		s := float32(math.Sqrt(float64(1+m00-m11-m22))) * 2
		q.W = (m[5] - m[7]) / s
		q.X = 0.25 * s
		q.Y = (m[3] + m[1]) / s
		q.Z = (m[6] + m[2]) / s
	case m11 > m22:
		s := float32(math.Sqrt(float64(1+m11-m00-m22))) * 2
		q.W = (m[6] - m[2]) / s
		q.X = (m[3] + m[1]) / s
		q.Y = 0.25 * s
		q.Z = (m[7] + m[5]) / s
	default:
		s := float32(math.Sqrt(float64(1+m22-m00-m11))) * 2
		q.W = (m[1] - m[3]) / s
		q.X = (m[6] + m[2]) / s
		q.Y = (m[7] + m[5]) / s
		q.Z = 0.25 * s
	}
	return q.Normalize()
}

// Array returns the quaternion in glTF (x, y, z, w) order.
func (q Quat) Array() [4]float32 {
	return [4]float32{q.X, q.Y, q.Z, q.W}
}

// Length returns the quaternion norm.
func (q Quat) Length() float32 {
	return float32(math.Sqrt(float64(q.Dot(q))))
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := q.Length()
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Negate returns -q, which encodes the same rotation.
func (q Quat) Negate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Slerp performs spherical linear interpolation between two quaternions
// along the shorter arc. t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	cosom := q.Dot(other)
	if cosom < 0 {
		cosom = -cosom
		other = other.Negate()
	}

	// Near-parallel: sin(omega) is ~0, blend linearly with the same weights.
	scale0 := 1 - t
	scale1 := t
	if 1-cosom > slerpEpsilon {
		omega := math.Acos(float64(cosom))
		sinom := math.Sin(omega)
		scale0 = float32(math.Sin(float64(1-t)*omega) / sinom)
		scale1 = float32(math.Sin(float64(t)*omega) / sinom)
	}

	return Quat{
		X: scale0*q.X + scale1*other.X,
		Y: scale0*q.Y + scale1*other.Y,
		Z: scale0*q.Z + scale1*other.Z,
		W: scale0*q.W + scale1*other.W,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	// Normalize first
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}
