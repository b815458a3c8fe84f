package camera

import (
	gomath "math"

	"github.com/Faultbox/gltfview/pkg/math"
)

// Fit is a camera framing for a bounding box.
type Fit struct {
	Target   math.Vec3
	Zoom     float32 // distance from Target along the view axis
	ZNear    float32
	ZFar     float32
	PanSpeed float32
}

// FitToExtents frames the box [lo, hi] so that its larger X/Y extent fills the
// matching field of view. yfov is in radians; the horizontal field of view is
// approximated as yfov*aspect. The near plane is kept within 1/10000 of the far
// plane.
func FitToExtents(lo, hi math.Vec3, yfov, aspect float32) Fit {
	target := lo.Add(hi).Scale(0.5)
	axisLength := float64(max(hi.X-lo.X, hi.Y-lo.Y))
	xfov := float64(yfov * aspect)

	zoom := float32(max(
		axisLength/2/gomath.Tan(float64(yfov)/2),
		axisLength/2/gomath.Tan(xfov/2),
	))

	diag := lo.Distance(hi)
	longest := 10 * diag
	zFar := zoom + 0.6*longest
	zNear := max(zoom-0.6*longest, zFar/10000)

	return Fit{
		Target:   target,
		Zoom:     zoom,
		ZNear:    zNear,
		ZFar:     zFar,
		PanSpeed: diag / 1200,
	}
}
