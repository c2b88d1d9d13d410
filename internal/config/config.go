// Package config handles editor and viewer configuration.
package config

import "time"

// Config holds all settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Editor  EditorConfig  `yaml:"editor"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds window and rendering settings.
type ViewerConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Background [3]float32 `yaml:"background"` // RGB clear colour, 0..1

	SunAzimuth   float64 `yaml:"sun_azimuth"`   // degrees around Y
	SunElevation float64 `yaml:"sun_elevation"` // degrees above the horizon

	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or webp
}

// EditorConfig holds model loading and export settings.
type EditorConfig struct {
	DefaultModel   string        `yaml:"default_model"`   // loaded on start when set
	DefaultTexture string        `yaml:"default_texture"` // overrides the model's texture reference
	PrettyExport   bool          `yaml:"pretty_export"`
	StrictFlatten  bool          `yaml:"strict_flatten"`   // fail export on unnamed pivots
	AtlasFromImage bool          `yaml:"atlas_from_image"` // normalise UVs by the loaded image size
	EmbedTexture   bool          `yaml:"embed_texture"`    // write the texture as a data URI on export
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

// WatchConfig holds live reload settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
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
			Width:      1280,
			Height:     720,
			VSync:      true,
			Background: [3]float32{0.12, 0.12, 0.14},

			SunAzimuth:   30,
			SunElevation: 55,

			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Editor: EditorConfig{
			PrettyExport: true,
			EmbedTexture: true,
			FetchTimeout: 15 * time.Second,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
