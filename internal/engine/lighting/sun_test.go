package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/boxedit/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float64
		want               math.Vec3
	}{
		{"zenith", 0, 90, math.Vec3{Y: 1}},
		{"front horizon", 0, 0, math.Vec3{Z: 1}},
		{"right horizon", 90, 0, math.Vec3{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			assert.True(t, got.ApproxEqual(tt.want, 1e-12), "got %v", got)
			assert.InDelta(t, 1, got.Length(), 1e-12)
		})
	}
}

func TestLightDirectionPointsDown(t *testing.T) {
	d := LightDirection(30, 60)
	assert.Less(t, d[1], float32(0))
}
