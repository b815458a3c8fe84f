// Package viewer runs the per-frame evaluation of a loaded asset: animation,
// transform propagation, skinning and camera framing.
package viewer

import (
	"fmt"
	gomath "math"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/asset"
	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/engine/animation"
	"github.com/Faultbox/gltfview/internal/engine/bounds"
	"github.com/Faultbox/gltfview/internal/engine/camera"
	"github.com/Faultbox/gltfview/internal/engine/clock"
	"github.com/Faultbox/gltfview/internal/engine/picking"
	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/pkg/math"
)

// Animation selectors accepted by SetAnimation besides a clip index.
const (
	AllAnimations = -1
	NoAnimation   = -2
)

// Viewer owns the evaluation state for one asset.
type Viewer struct {
	Clock  *clock.Clock
	Camera *camera.OrbitCamera

	asset  *asset.Asset
	cfg    *config.Config
	log    *zap.Logger
	scene  int
	active []*animation.Clip
	anim   int
}

// New prepares a viewer for a, selects the configured scene and animation,
// starts the clock at the configured start time and evaluates that frame.
func New(a *asset.Asset, cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	for _, w := range multierr.Errors(a.Warnings) {
		log.Warn("asset warning", zap.Error(w))
	}

	v := &Viewer{
		Clock:  clock.New(),
		Camera: camera.NewOrbitCamera(radians(cfg.Camera.YFov)),
		asset:  a,
		cfg:    cfg,
		log:    log,
	}
	v.Clock.Speed = cfg.Playback.Speed
	v.Clock.Start()
	v.Camera.DragSensitivity = cfg.Camera.DragSensitivity
	v.Camera.ZoomSensitivity = cfg.Camera.ZoomSensitivity

	sc := cfg.Viewer.Scene
	if sc < 0 {
		sc = a.DefaultScene
	}
	if err := v.SetScene(sc); err != nil {
		return nil, err
	}

	anim, err := ResolveAnimation(a, cfg.Viewer.Animation)
	if err != nil {
		return nil, err
	}
	if err := v.SetAnimation(anim); err != nil {
		return nil, err
	}

	v.Clock.Seek(cfg.Playback.StartTime)
	v.TickAt(cfg.Playback.StartTime)
	if cfg.Camera.AutoFit {
		v.FitCamera()
	}
	return v, nil
}

// Asset returns the asset being viewed.
func (v *Viewer) Asset() *asset.Asset { return v.asset }

// Scene returns the active scene index.
func (v *Viewer) Scene() int { return v.scene }

// Animation returns the active selector: a clip index, AllAnimations or
// NoAnimation.
func (v *Viewer) Animation() int { return v.anim }

// SetScene switches the evaluated scene.
func (v *Viewer) SetScene(i int) error {
	sc := v.asset.Scene(i)
	if sc == nil {
		return fmt.Errorf("scene %d out of range (%d scenes)", i, len(v.asset.Graph.Scenes))
	}
	v.scene = i
	v.log.Info("scene selected", zap.Int("index", i), zap.String("name", sc.Name), zap.Int("roots", len(sc.Roots)))
	return nil
}

// SetAnimation selects which clips advance on each tick and rewinds them.
func (v *Viewer) SetAnimation(i int) error {
	clips := v.asset.Clips
	switch {
	case i == AllAnimations:
		v.active = append(v.active[:0], clips...)
	case i == NoAnimation:
		v.active = v.active[:0]
	case i >= 0 && i < len(clips):
		v.active = append(v.active[:0], clips[i])
	default:
		return fmt.Errorf("animation %d out of range (%d clips)", i, len(clips))
	}
	v.anim = i

	for _, c := range v.active {
		c.Reset()
	}
	v.Clock.Reset()
	v.log.Info("animation selected", zap.Int("selector", i), zap.Int("clips", len(v.active)), zap.Float32("duration", v.Duration()))
	return nil
}

// Duration returns the longest duration among the active clips.
func (v *Viewer) Duration() float32 {
	var d float32
	for _, c := range v.active {
		d = max(d, c.Duration())
	}
	return d
}

// Tick evaluates the frame at the clock's current time and returns that time.
func (v *Viewer) Tick() float32 {
	t := v.Clock.Elapsed()
	v.TickAt(t)
	return t
}

// TickAt evaluates one frame at time t: every active clip writes its channels,
// world transforms are propagated and joint matrices are recomputed for each
// skinned node in the scene.
func (v *Viewer) TickAt(t float32) {
	g := v.asset.Graph
	sc := v.asset.Scene(v.scene)

	for _, c := range v.active {
		c.Advance(g, v.asset.Meshes, t)
	}

	g.Propagate(sc, math.Identity())

	g.Walk(sc, func(_ int, n *scene.Node) {
		if n.Skin < 0 || n.Skin >= len(v.asset.Skins) {
			return
		}
		v.asset.Skins[n.Skin].ComputeJoints(g, n)
	})
}

// Extents returns the world-space bounds of the active scene as of the last
// tick.
func (v *Viewer) Extents() bounds.Extents {
	return bounds.Compute(v.asset.Graph, v.asset.Scene(v.scene), v.asset)
}

// FitCamera frames the active scene. It reports false and leaves the camera
// untouched when the scene has no bounded geometry.
func (v *Viewer) FitCamera() (camera.Fit, bool) {
	ext := v.Extents()
	if ext.Empty() {
		v.log.Warn("nothing to frame", zap.Int("scene", v.scene))
		return camera.Fit{}, false
	}

	fit := camera.FitToExtents(ext.Min, ext.Max, v.Camera.YFov, v.cfg.Camera.Aspect)
	v.Camera.Apply(fit)
	v.log.Debug("camera fitted",
		zap.Float32s("target", []float32{fit.Target.X, fit.Target.Y, fit.Target.Z}),
		zap.Float32("zoom", fit.Zoom),
		zap.Float32("znear", fit.ZNear),
		zap.Float32("zfar", fit.ZFar))
	return fit, true
}

// Pick casts a ray through the viewport point (x, y), given as fractions of
// the viewport with (0, 0) at the top-left, and returns the nearest mesh node
// it hits.
func (v *Viewer) Pick(x, y float32) (picking.Hit, bool) {
	viewProj := v.Camera.ProjectionMatrix(v.cfg.Camera.Aspect).Mul(v.Camera.ViewMatrix())
	inv, ok := viewProj.Invert()
	if !ok {
		return picking.Hit{Node: -1, Primitive: -1}, false
	}

	ray := picking.ScreenToRay(x, y, 1, 1, inv)
	hit, found := picking.Pick(v.asset.Graph, v.asset.Scene(v.scene), v.asset, ray)
	if found {
		v.log.Debug("picked", zap.Int("node", hit.Node), zap.Int("primitive", hit.Primitive), zap.Float32("distance", hit.Distance))
	}
	return hit, found
}

// ResolveAnimation turns a config selector into a SetAnimation argument:
// "all" (or empty), "none", a clip index or a clip name.
func ResolveAnimation(a *asset.Asset, sel string) (int, error) {
	switch sel {
	case "", "all":
		return AllAnimations, nil
	case "none":
		return NoAnimation, nil
	}
	if i, err := strconv.Atoi(sel); err == nil {
		if i < 0 || i >= len(a.Clips) {
			return 0, fmt.Errorf("animation %d out of range (%d clips)", i, len(a.Clips))
		}
		return i, nil
	}
	for i, c := range a.Clips {
		if c.Name == sel {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no animation named %q", sel)
}

func radians(deg float32) float32 {
	return deg * gomath.Pi / 180
}
