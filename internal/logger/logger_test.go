package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultIsNop(t *testing.T) {
	Set(nil)
	assert.NotPanics(t, func() {
		Debug("before init")
		Warn("before init", zap.String("k", "v"))
		Sugar.Infof("before init %d", 1)
		Named("scene").Info("before init")
	})
}

func TestNamedCarriesComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	defer Set(nil)

	Named("editor").Warn("pivot dropped", zap.String("path", "body/leg"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "editor", entries[0].LoggerName)
	assert.Equal(t, "pivot dropped", entries[0].Message)
	assert.Equal(t, "body/leg", entries[0].ContextMap()["path"])
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "boxedit.log")

	// 1MB is the smallest size lumberjack rotates at.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	require.NoError(t, InitWithFileConfig("debug", cfg, false))
	defer Set(nil)

	line := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("entry %d: %s", i, line)
	}
	Sync()

	_, err := os.Stat(logFile)
	require.NoError(t, err)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)

	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name == "boxedit.log" || !strings.HasPrefix(name, "boxedit") {
			continue
		}
		rotated++
		assert.Contains(t, name, "-20", "rotated file %s lacks a timestamp", name)
	}
	assert.Positive(t, rotated)
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()
	defer Set(nil)

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			require.NoError(t, InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, false))

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			for _, want := range tt.expected {
				assert.Contains(t, string(content), want)
			}
			for _, not := range tt.excluded {
				assert.NotContains(t, string(content), not)
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/boxedit.log")
	assert.Equal(t, FileConfig{
		Path:       "/tmp/boxedit.log",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}, cfg)
}
