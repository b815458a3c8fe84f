package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagModel     = flag.String("model", "", "Path to a .gltf or .glb file")
	flagScene     = flag.Int("scene", -1, "Scene index (-1 = document default)")
	flagAnimation = flag.String("animation", "", `Animation to play: "all", "none", an index or a name`)
	flagSpeed     = flag.Float64("speed", 0, "Playback speed multiplier")
	flagFPS       = flag.Int("fps", 0, "Frames per second for headless playback")
	flagFrames    = flag.Int("frames", 0, "Number of frames for headless playback")
	flagYFov      = flag.Float64("yfov", 0, "Vertical field of view in degrees")
	flagAspect    = flag.Float64("aspect", 0, "Viewport width/height ratio")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Viewer.Model = *flagModel
	}
	if *flagScene >= 0 {
		cfg.Viewer.Scene = *flagScene
	}
	if *flagAnimation != "" {
		cfg.Viewer.Animation = *flagAnimation
	}
	if *flagSpeed > 0 {
		cfg.Playback.Speed = float32(*flagSpeed)
	}
	if *flagFPS > 0 {
		cfg.Playback.FPS = *flagFPS
	}
	if *flagFrames > 0 {
		cfg.Playback.Frames = *flagFrames
	}
	if *flagYFov > 0 {
		cfg.Camera.YFov = float32(*flagYFov)
	}
	if *flagAspect > 0 {
		cfg.Camera.Aspect = float32(*flagAspect)
	}
}
