package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks values that would otherwise fail much later, at window
// creation or on the first reload.
func (c *Config) Validate() error {
	var problems []string
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		problems = append(problems, fmt.Sprintf("viewer size %dx%d must be positive", c.Viewer.Width, c.Viewer.Height))
	}
	for i, v := range c.Viewer.Background {
		if v < 0 || v > 1 {
			problems = append(problems, fmt.Sprintf("viewer.background[%d] = %g is outside 0..1", i, v))
		}
	}
	switch strings.ToLower(c.Viewer.ScreenshotFormat) {
	case "", "png", "webp":
	default:
		problems = append(problems, fmt.Sprintf("viewer.screenshot_format %q is not png or webp", c.Viewer.ScreenshotFormat))
	}
	if c.Editor.FetchTimeout < 0 {
		problems = append(problems, "editor.fetch_timeout must not be negative")
	}
	if c.Watch.Debounce < 0 {
		problems = append(problems, "watch.debounce must not be negative")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
