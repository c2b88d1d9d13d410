package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1280, cfg.Viewer.Width)
	assert.Equal(t, 720, cfg.Viewer.Height)
	assert.False(t, cfg.Viewer.Fullscreen)
	assert.True(t, cfg.Viewer.VSync)

	assert.True(t, cfg.Editor.PrettyExport)
	assert.True(t, cfg.Editor.EmbedTexture)
	assert.False(t, cfg.Editor.StrictFlatten)
	assert.False(t, cfg.Editor.AtlasFromImage)
	assert.Equal(t, 15*time.Second, cfg.Editor.FetchTimeout)

	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
viewer:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  background: [0, 0, 0.5]
  screenshot_format: webp

editor:
  default_model: "models/creeper.json"
  default_texture: "models/creeper.png"
  pretty_export: false
  strict_flatten: true
  atlas_from_image: true
  embed_texture: false
  fetch_timeout: 3s

watch:
  enabled: true
  debounce: 50ms

logging:
  level: "debug"
  log_file: "boxedit.log"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, ViewerConfig{
		Width:      1920,
		Height:     1080,
		Fullscreen: true,
		VSync:      false,
		Background: [3]float32{0, 0, 0.5},

		SunAzimuth:   30,
		SunElevation: 55,

		ScreenshotDir:    "screenshots",
		ScreenshotFormat: "webp",
	}, cfg.Viewer)
	assert.Equal(t, EditorConfig{
		DefaultModel:   "models/creeper.json",
		DefaultTexture: "models/creeper.png",
		PrettyExport:   false,
		StrictFlatten:  true,
		AtlasFromImage: true,
		EmbedTexture:   false,
		FetchTimeout:   3 * time.Second,
	}, cfg.Editor)
	assert.Equal(t, WatchConfig{Enabled: true, Debounce: 50 * time.Millisecond}, cfg.Watch)
	assert.Equal(t, LoggingConfig{Level: "debug", LogFile: "boxedit.log"}, cfg.Logging)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("editor:\n  strict_flatten: true\n"), 0644))

	cfg, err := LoadFile(configPath)
	require.NoError(t, err)
	assert.True(t, cfg.Editor.StrictFlatten)
	assert.True(t, cfg.Editor.EmbedTexture)
	assert.Equal(t, 1280, cfg.Viewer.Width)
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
viewer:
  width: not a number
  invalid syntax here
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidYAML), 0644))

	assert.Error(t, loadFromFile(Default(), configPath))
	_, err := LoadFile(configPath)
	assert.Error(t, err)
}

func TestLoadFromFileMissing(t *testing.T) {
	assert.Error(t, loadFromFile(Default(), "/nonexistent/path/config.yaml"))
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir), "ConfigDir should return absolute path, got %s", dir)
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	assert.Empty(t, findConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("viewer:\n  width: 800\n"), 0644))
	assert.NotEmpty(t, findConfigFile())
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "debug",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "model and texture",
			args: []string{"-model", "a.json", "-texture", "a.png"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "a.json", cfg.Editor.DefaultModel)
				assert.Equal(t, "a.png", cfg.Editor.DefaultTexture)
			},
		},
		{
			name: "windowed",
			args: []string{"-windowed"},
			verify: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Viewer.Fullscreen)
			},
		},
		{
			name: "fullscreen",
			args: []string{"-fullscreen"},
			verify: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Viewer.Fullscreen)
			},
		},
		{
			name: "size",
			args: []string{"-width", "2560", "-height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2560, cfg.Viewer.Width)
				assert.Equal(t, 1440, cfg.Viewer.Height)
			},
		},
		{
			name: "export switches",
			args: []string{"-strict", "-watch"},
			verify: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Editor.StrictFlatten)
				assert.True(t, cfg.Watch.Enabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			flags := RegisterFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg := Default()
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestNilFlags(t *testing.T) {
	var flags *Flags
	assert.Empty(t, flags.ConfigPath())

	cfg := Default()
	flags.apply(cfg)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("viewer:\n  width: 1600\n  height: 900\n"), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", configPath, "-width", "1920"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Viewer.Width, "flag wins over file")
	assert.Equal(t, 900, cfg.Viewer.Height, "file wins over default")
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Editor.DefaultModel = "m.json"
	cfg.Watch.Debounce = time.Second

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Viewer.Width = 0
	cfg.Viewer.Background[1] = 2
	cfg.Viewer.ScreenshotFormat = "bmp"
	cfg.Watch.Debounce = -time.Second

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "viewer size 0x")
	assert.Contains(t, err.Error(), "background[1]")
	assert.Contains(t, err.Error(), `"bmp"`)
	assert.Contains(t, err.Error(), "watch.debounce")
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("viewer:\n  screenshot_format: tiff\n"), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", configPath}))

	_, err := Load(flags)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
