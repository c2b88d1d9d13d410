package model

import (
	gomath "math"
)

// BuildSphereMesh creates a UV sphere centred on the origin. segments
// divides the equator and rings divides a meridian; values below 3 and 2
// are raised to those minimums.
func BuildSphereMesh(radius float64, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, (segments+1)*(rings+1)),
		Indices:  make([]uint32, 0, segments*rings*6),
		Bounds:   EmptyBounds(),
	}

	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		theta := v * gomath.Pi
		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			phi := u * 2 * gomath.Pi

			n := [3]float64{
				-gomath.Cos(phi) * gomath.Sin(theta),
				gomath.Cos(theta),
				gomath.Sin(phi) * gomath.Sin(theta),
			}
			pos := [3]float32{float32(n[0] * radius), float32(n[1] * radius), float32(n[2] * radius)}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   [3]float32{float32(n[0]), float32(n[1]), float32(n[2])},
				TexCoord: [2]float32{float32(u), float32(1 - v)},
			})
			mesh.Bounds.Extend(pos)
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			// degenerate triangles at the poles are skipped
			if r != 0 {
				mesh.Indices = append(mesh.Indices, a, b, a+1)
			}
			if r != rings-1 {
				mesh.Indices = append(mesh.Indices, b, b+1, a+1)
			}
		}
	}
	return mesh
}
