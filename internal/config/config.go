// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Viewer   ViewerConfig   `yaml:"viewer"`
	Camera   CameraConfig   `yaml:"camera"`
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ViewerConfig selects what is loaded and evaluated.
type ViewerConfig struct {
	Model     string `yaml:"model"`
	Scene     int    `yaml:"scene"`     // -1 uses the document's default scene
	Animation string `yaml:"animation"` // "all", "none", a clip index or a clip name
}

// CameraConfig holds framing and interaction settings.
type CameraConfig struct {
	YFov            float32 `yaml:"yfov"` // degrees
	Aspect          float32 `yaml:"aspect"`
	AutoFit         bool    `yaml:"auto_fit"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// PlaybackConfig holds animation clock settings.
type PlaybackConfig struct {
	Speed     float32 `yaml:"speed"`
	FPS       int     `yaml:"fps"`
	Frames    int     `yaml:"frames"` // frames evaluated by headless playback
	StartTime float32 `yaml:"start_time"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Scene:     -1,
			Animation: "all",
		},
		Camera: CameraConfig{
			YFov:            45,
			Aspect:          16.0 / 9.0,
			AutoFit:         true,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
		},
		Playback: PlaybackConfig{
			Speed:  1,
			FPS:    60,
			Frames: 120,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
