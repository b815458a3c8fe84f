package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	if math.Abs(float64(n.Length()-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", n.Length())
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	if got := q1.Slerp(q2, 0); !quatNear(got, q1, 1e-6) {
		t.Errorf("Slerp at t=0 = %v, want %v", got, q1)
	}
	if got := q1.Slerp(q2, 1); !quatNear(got, q2, 1e-6) {
		t.Errorf("Slerp at t=1 = %v, want %v", got, q2)
	}

	// For 90 degree rotation, halfway should be 45 degrees
	result5 := q1.Slerp(q2, 0.5)
	expectedW := float32(math.Cos(float64(math.Pi / 8)))
	if math.Abs(float64(result5.W-expectedW)) > 0.0001 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, result5.W)
	}
}

func TestQuatSlerpUnitLength(t *testing.T) {
	q1 := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, 0.3)
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 0.6, Z: 0.8}, 2.5)

	for i := 0; i <= 20; i++ {
		tt := float32(i) / 20
		got := q1.Slerp(q2, tt)
		if math.Abs(float64(got.Length()-1)) > 1e-5 {
			t.Errorf("|Slerp(%v)| = %v, want 1", tt, got.Length())
		}
	}
}

func TestQuatSlerpShorterArc(t *testing.T) {
	q1 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.2)
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.6)

	// -q2 is the same rotation; the result must not swing the long way.
	a := q1.Slerp(q2, 0.5)
	b := q1.Slerp(q2.Negate(), 0.5)
	if !quatNear(a, b, 1e-6) {
		t.Errorf("Slerp through negated target = %v, want %v", b, a)
	}
}

func TestQuatSlerpNearParallel(t *testing.T) {
	q1 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.001)
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.0011)

	got := q1.Slerp(q2, 0.5)
	if math.IsNaN(float64(got.W)) {
		t.Fatal("Slerp of near-parallel quaternions produced NaN")
	}
	if math.Abs(float64(got.Length()-1)) > 1e-5 {
		t.Errorf("|Slerp| = %v, want ~1", got.Length())
	}
}

func TestQuatSlerpMatchesMathgl(t *testing.T) {
	q1 := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, 0.4)
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 1}, 1.2)

	m1 := mgl32.Quat{W: q1.W, V: mgl32.Vec3{q1.X, q1.Y, q1.Z}}
	m2 := mgl32.Quat{W: q2.W, V: mgl32.Vec3{q2.X, q2.Y, q2.Z}}

	for _, tt := range []float32{0.25, 0.5, 0.75} {
		got := q1.Slerp(q2, tt)
		want := mgl32.QuatSlerp(m1, m2, tt)
		if !quatNear(got, Quat{want.V[0], want.V[1], want.V[2], want.W}, 1e-4) {
			t.Errorf("Slerp(%v) = %v, mathgl %v", tt, got, want)
		}
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	q := QuatIdentity()
	m := q.ToMat4()

	if !m.NearlyEqual(Identity(), 0.0001) {
		t.Errorf("Identity quat should produce identity matrix, got %v", m)
	}

	q = QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))
	if !q.ToMat4().NearlyEqual(RotateY(float32(math.Pi/2)), 1e-5) {
		t.Errorf("quat Y rotation = %v, want %v", q.ToMat4(), RotateY(float32(math.Pi/2)))
	}
}

func TestQuatFromMat3RoundTrip(t *testing.T) {
	axes := []Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		Vec3{X: 1, Y: 1, Z: 1}.Normalize(),
	}
	angles := []float32{0.1, 1.5, 3.0}

	for _, axis := range axes {
		for _, angle := range angles {
			q := QuatFromAxisAngle(axis, angle)
			got := QuatFromMat3(q.ToMat4().Mat3x3())
			if !quatNear(got, q, 1e-4) && !quatNear(got, q.Negate(), 1e-4) {
				t.Errorf("QuatFromMat3(axis=%v angle=%v) = %v, want ±%v", axis, angle, got, q)
			}
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func quatNear(a, b Quat, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps && abs(a.W-b.W) <= eps
}
