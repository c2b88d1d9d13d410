package config

import "flag"

// Flags holds the command-line overrides registered on a FlagSet.
type Flags struct {
	config     *string
	debug      *bool
	model      *string
	texture    *string
	windowed   *bool
	fullscreen *bool
	width      *int
	height     *int
	pretty     *bool
	strict     *bool
	watch      *bool
}

// RegisterFlags defines the override flags on fs. Pass flag.CommandLine in
// main.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:     fs.String("config", "", "Path to config file"),
		debug:      fs.Bool("debug", false, "Enable debug logging"),
		model:      fs.String("model", "", "Model document to load (path, URL or data URI)"),
		texture:    fs.String("texture", "", "Texture to use instead of the model's reference"),
		windowed:   fs.Bool("windowed", false, "Run in windowed mode"),
		fullscreen: fs.Bool("fullscreen", false, "Run in fullscreen mode"),
		width:      fs.Int("width", 0, "Window width"),
		height:     fs.Int("height", 0, "Window height"),
		pretty:     fs.Bool("pretty", false, "Indent exported JSON"),
		strict:     fs.Bool("strict", false, "Fail export when a pivot has lost its name"),
		watch:      fs.Bool("watch", false, "Reload when the model or texture changes on disk"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.model != "" {
		cfg.Editor.DefaultModel = *f.model
	}
	if *f.texture != "" {
		cfg.Editor.DefaultTexture = *f.texture
	}
	if *f.windowed {
		cfg.Viewer.Fullscreen = false
	}
	if *f.fullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *f.width > 0 {
		cfg.Viewer.Width = *f.width
	}
	if *f.height > 0 {
		cfg.Viewer.Height = *f.height
	}
	if *f.pretty {
		cfg.Editor.PrettyExport = true
	}
	if *f.strict {
		cfg.Editor.StrictFlatten = true
	}
	if *f.watch {
		cfg.Watch.Enabled = true
	}
}
