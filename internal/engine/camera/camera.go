// Package camera provides the viewer's orbit camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/boxedit/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float64
	Pitch    float64 // radians
	Yaw      float64 // radians

	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	DragSensitivity float64
	ZoomSensitivity float64

	FovY float64 // radians
	Near float64
	Far  float64
}

// NewOrbitCamera creates an orbit camera framing a humanoid-sized model
// standing on the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Center:          math.Vec3{Y: 16},
		Distance:        64,
		Pitch:           0.35,
		Yaw:             0.6,
		MinDistance:     4,
		MaxDistance:     1024,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.01,
		ZoomSensitivity: 0.1,
		FovY:            gomath.Pi / 4,
		Near:            0.1,
		Far:             4096,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := gomath.Cos(c.Pitch)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * gomath.Sin(c.Yaw),
		Y: c.Distance * gomath.Sin(c.Pitch),
		Z: c.Distance * cp * gomath.Cos(c.Yaw),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for the given
// viewport aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float64) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = gomath.Max(c.MinPitch, gomath.Min(c.MaxPitch, c.Pitch))
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = gomath.Max(c.MinDistance, gomath.Min(c.MaxDistance, c.Distance))
}

// HandlePan moves the center point in the camera's screen plane.
func (c *OrbitCamera) HandlePan(right, up float64) {
	speed := c.Distance * 0.002
	rightDir := math.Vec3{X: gomath.Cos(c.Yaw), Z: -gomath.Sin(c.Yaw)}
	c.Center = c.Center.Add(rightDir.Scale(-right * speed))
	c.Center.Y += up * speed
}

// FitToBounds centers the camera on a box and backs off far enough to
// see all of it.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Add(max).Scale(0.5)
	radius := max.Sub(min).Length() / 2
	if radius <= 0 {
		return
	}
	c.Distance = radius / gomath.Sin(c.FovY/2)
	c.Distance = gomath.Max(c.MinDistance, gomath.Min(c.MaxDistance, c.Distance))
}
