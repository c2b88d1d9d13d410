// Package lighting describes the directional light of the viewer.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/boxedit/pkg/math"
)

// SunDirection converts an azimuth (degrees around Y, 0 along +Z) and an
// elevation (degrees above the horizon) to a unit vector pointing towards
// the sun.
func SunDirection(azimuth, elevation float64) math.Vec3 {
	az := azimuth * gomath.Pi / 180
	el := elevation * gomath.Pi / 180
	return math.Vec3{
		X: gomath.Cos(el) * gomath.Sin(az),
		Y: gomath.Sin(el),
		Z: gomath.Cos(el) * gomath.Cos(az),
	}
}

// LightDirection is the direction the light travels, the opposite of
// SunDirection, as a shader uniform.
func LightDirection(azimuth, elevation float64) [3]float32 {
	return SunDirection(azimuth, elevation).Scale(-1).Float32()
}
