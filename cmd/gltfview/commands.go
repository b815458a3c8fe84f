package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/multierr"

	"github.com/Faultbox/gltfview/internal/asset"
	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/engine/clock"
	"github.com/Faultbox/gltfview/internal/engine/scene"
	"github.com/Faultbox/gltfview/internal/viewer"
	"github.com/Faultbox/gltfview/pkg/math"
)

func cmdInfo(w io.Writer, a *asset.Asset) {
	fmt.Fprintf(w, "Model:      %s\n", a.Path)
	fmt.Fprintf(w, "Scenes:     %d (default %d)\n", len(a.Graph.Scenes), a.DefaultScene)
	fmt.Fprintf(w, "Nodes:      %d\n", len(a.Graph.Nodes))
	fmt.Fprintf(w, "Meshes:     %d\n", len(a.Meshes))
	fmt.Fprintf(w, "Skins:      %d\n", len(a.Skins))
	fmt.Fprintf(w, "Animations: %d\n", len(a.Clips))

	if len(a.Graph.Scenes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Scenes:")
		for i := range a.Graph.Scenes {
			sc := &a.Graph.Scenes[i]
			count := 0
			a.Graph.Walk(sc, func(int, *scene.Node) { count++ })
			fmt.Fprintf(w, "  [%d] %-24q roots %-3d nodes %d\n", i, sc.Name, len(sc.Roots), count)
		}
	}

	if len(a.Skins) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skins:")
		for i, s := range a.Skins {
			fmt.Fprintf(w, "  [%d] %-24q joints %d\n", i, s.Name, len(s.Joints))
		}
	}

	if len(a.Clips) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Animations:")
		for i, c := range a.Clips {
			fmt.Fprintf(w, "  [%d] %-24q channels %-4d duration %.3fs\n", i, c.Name, len(c.Channels), c.Duration())
		}
	}

	if warnings := multierr.Errors(a.Warnings); len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, err := range warnings {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}
}

func cmdBounds(w io.Writer, v *viewer.Viewer) error {
	ext := v.Extents()
	if ext.Empty() {
		return fmt.Errorf("scene %d has no bounded geometry", v.Scene())
	}
	fit, _ := v.FitCamera()

	fmt.Fprintf(w, "Scene:    %d\n", v.Scene())
	fmt.Fprintf(w, "Min:      %s\n", vec(ext.Min))
	fmt.Fprintf(w, "Max:      %s\n", vec(ext.Max))
	fmt.Fprintf(w, "Size:     %s\n", vec(ext.Size()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Target:   %s\n", vec(fit.Target))
	fmt.Fprintf(w, "Zoom:     %.4f\n", fit.Zoom)
	fmt.Fprintf(w, "Near/Far: %.4f / %.4f\n", fit.ZNear, fit.ZFar)
	fmt.Fprintf(w, "PanSpeed: %.6f\n", fit.PanSpeed)
	return nil
}

// cmdPlay steps the viewer's clock by one frame interval per frame, so
// playback runs through Tick without waiting on wall time.
func cmdPlay(w io.Writer, v *viewer.Viewer, p config.PlaybackConfig) error {
	frame := time.Second / time.Duration(p.FPS)
	now := time.Unix(0, 0)
	c := clock.NewWithSource(func() time.Time { return now })
	c.Speed = p.Speed
	c.Start()
	c.Seek(p.StartTime)
	v.Clock = c

	fmt.Fprintf(w, "Playing %d frames at %d fps (duration %.3fs, speed %.2f)\n", p.Frames, p.FPS, v.Duration(), p.Speed)

	for i := 0; i < p.Frames; i++ {
		t := v.Tick()
		now = now.Add(frame)

		ext := v.Extents()
		if ext.Empty() {
			fmt.Fprintf(w, "%5d  t=%8.3f\n", i, t)
			continue
		}
		fmt.Fprintf(w, "%5d  t=%8.3f  center %s  size %s\n", i, t, vec(ext.Center()), vec(ext.Size()))
	}
	return nil
}

func cmdConfig(w io.Writer, cfg *config.Config, args []string) error {
	path := filepath.Join(config.ConfigDir(), "config.yaml")
	save := cfg.Save
	if len(args) > 0 {
		path = args[0]
		save = func() error { return cfg.SaveTo(path) }
	}
	if err := save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(w, "Config written to %s\n", path)
	return nil
}

func cmdPick(w io.Writer, v *viewer.Viewer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: gltfview pick <file> <x> <y>")
	}
	var xy [2]float32
	for i := range xy {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", args[i], err)
		}
		xy[i] = float32(f)
	}

	hit, ok := v.Pick(xy[0], xy[1])
	if !ok {
		fmt.Fprintln(w, "No hit")
		return nil
	}
	n := v.Asset().Graph.Nodes[hit.Node]
	fmt.Fprintf(w, "Node:      [%d] %s\n", hit.Node, n.Name)
	fmt.Fprintf(w, "Primitive: %d\n", hit.Primitive)
	fmt.Fprintf(w, "Distance:  %.4f\n", hit.Distance)
	return nil
}

// nodeState is the evaluated view of one node printed by dump.
type nodeState struct {
	Index                 int
	Name                  string
	Translation           math.Vec3
	Rotation              math.Quat
	Scale                 math.Vec3
	WorldTransform        math.Mat4
	InverseWorldTransform math.Mat4
	NormalMatrix          math.Mat4
	MorphWeights          []float32
	JointMatrices         []math.Mat4
	JointNormalMatrices   []math.Mat4
}

func cmdDump(w io.Writer, v *viewer.Viewer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: gltfview dump <file> <node> [time]")
	}
	a := v.Asset()

	idx, err := findNode(a.Graph, args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		t, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return fmt.Errorf("time %q: %w", args[1], err)
		}
		v.TickAt(float32(t))
	}

	n := a.Graph.Nodes[idx]
	st := nodeState{
		Index:                 idx,
		Name:                  n.Name,
		Translation:           n.Translation(),
		Rotation:              n.Rotation(),
		Scale:                 n.ScaleFactor(),
		WorldTransform:        n.WorldTransform,
		NormalMatrix:          n.NormalMatrix,
		InverseWorldTransform: n.InverseWorldTransform,
	}
	if n.Mesh >= 0 && n.Mesh < len(a.Meshes) {
		st.MorphWeights = a.Meshes[n.Mesh].Weights
	}
	if n.Skin >= 0 && n.Skin < len(a.Skins) {
		st.JointMatrices = a.Skins[n.Skin].JointMatrices
		st.JointNormalMatrices = a.Skins[n.Skin].JointNormalMatrices
	}

	cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cs.Fdump(w, st)
	return nil
}

// findNode resolves a node index or name.
func findNode(g *scene.Graph, ref string) (int, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		if g.Node(i) == nil {
			return 0, fmt.Errorf("node %d out of range (%d nodes)", i, len(g.Nodes))
		}
		return i, nil
	}
	for i, n := range g.Nodes {
		if n.Name == ref {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no node named %q", ref)
}

func vec(v math.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
