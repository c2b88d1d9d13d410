package camera

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/boxedit/pkg/math"
)

func TestOrbitCamera_PositionKeepsDistance(t *testing.T) {
	c := NewOrbitCamera()
	for _, yaw := range []float64{0, 1, 2.5, -3} {
		c.Yaw = yaw
		assert.InDelta(t, c.Distance, c.Position().Distance(c.Center), 1e-9)
	}
}

func TestOrbitCamera_DragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.Pitch)
	c.HandleDrag(0, -1e6)
	assert.Equal(t, c.MinPitch, c.Pitch)
}

func TestOrbitCamera_ZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	before := c.Distance
	c.HandleZoom(1)
	assert.Less(t, c.Distance, before)
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestOrbitCamera_FitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(math.Vec3{X: -4, Y: 0, Z: -2}, math.Vec3{X: 4, Y: 32, Z: 2})
	assert.True(t, c.Center.ApproxEqual(math.Vec3{Y: 16}, 1e-9))
	radius := math.Vec3{X: 8, Y: 32, Z: 4}.Length() / 2
	assert.InDelta(t, radius/gomath.Sin(c.FovY/2), c.Distance, 1e-9)
}
