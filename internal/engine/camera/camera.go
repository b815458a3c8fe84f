// Package camera frames loaded content and drives an orbiting view around it.
package camera

import (
	gomath "math"

	"github.com/Faultbox/gltfview/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	YFov  float32 // radians
	ZNear float32
	ZFar  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
	PanSpeed        float32
}

// NewOrbitCamera creates an orbit camera looking at the origin from +Z.
func NewOrbitCamera(yfov float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        3,
		YFov:            yfov,
		ZNear:           0.01,
		ZFar:            100,
		MinDistance:     0.001,
		MaxDistance:     1e6,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSpeed:        0.001,
	}
}

// Apply moves the camera onto a fitted framing. Orientation is reset to look
// down -Z; the distance limits are widened around the new zoom.
func (c *OrbitCamera) Apply(f Fit) {
	c.Center = f.Target
	c.Distance = f.Zoom
	c.RotationX = 0
	c.RotationY = 0
	c.ZNear = f.ZNear
	c.ZFar = f.ZFar
	c.PanSpeed = f.PanSpeed
	c.MinDistance = f.Zoom / 1000
	c.MaxDistance = f.Zoom * 1000
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for the given
// width/height ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.YFov, aspect, c.ZNear, c.ZFar)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandlePan moves the center in the view plane. Deltas are in pixels and
// scaled by PanSpeed.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	forward := c.Center.Sub(c.Position()).Normalize()
	right := forward.Cross(math.Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)

	c.Center = c.Center.
		Add(right.Scale(-deltaX * c.PanSpeed)).
		Add(up.Scale(deltaY * c.PanSpeed))
}
