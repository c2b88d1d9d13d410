package model

import (
	"github.com/Faultbox/boxedit/pkg/math"
)

// boxPlane describes one side of a centred box: which axes span it, their
// directions, and which axis its normal lies on.
type boxPlane struct {
	u, v, w    int // axis indices 0=x 1=y 2=z
	udir, vdir float64
	sign       float64 // +1 for the positive side of w
}

// Sides in mesh order +X, -X, +Y, -Y, +Z, -Z.
var boxPlanes = [FaceCount]boxPlane{
	{u: 2, v: 1, w: 0, udir: -1, vdir: -1, sign: 1},
	{u: 2, v: 1, w: 0, udir: 1, vdir: -1, sign: -1},
	{u: 0, v: 2, w: 1, udir: 1, vdir: 1, sign: 1},
	{u: 0, v: 2, w: 1, udir: 1, vdir: -1, sign: -1},
	{u: 0, v: 1, w: 2, udir: 1, vdir: -1, sign: 1},
	{u: 0, v: 1, w: 2, udir: -1, vdir: -1, sign: -1},
}

// BuildBoxMesh creates a box of the given size centred on the origin. Each
// side is two triangles whose texture coordinates come from uvs (see
// BoxTriangleUVs). Vertices are not shared between triangles.
func BuildBoxMesh(size math.Vec3, uvs [2 * FaceCount][3]math.Vec2) *Mesh {
	dims := [3]float64{size.X, size.Y, size.Z}
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, 36),
		Indices:  make([]uint32, 0, 36),
		Bounds:   EmptyBounds(),
	}

	for side, p := range boxPlanes {
		uw, vh := dims[p.u], dims[p.v]

		// Grid corners: a top-left, b bottom-left, c bottom-right, d top-right.
		corner := func(ix, iy float64) [3]float32 {
			var pos [3]float64
			pos[p.u] = (ix*uw - uw/2) * p.udir
			pos[p.v] = (iy*vh - vh/2) * p.vdir
			pos[p.w] = dims[p.w] / 2 * p.sign
			return [3]float32{float32(pos[0]), float32(pos[1]), float32(pos[2])}
		}
		a, b, c, d := corner(0, 0), corner(0, 1), corner(1, 1), corner(1, 0)

		var normal [3]float32
		normal[p.w] = float32(p.sign)

		tris := [2][3][3]float32{{a, b, d}, {b, c, d}}
		for t, tri := range tris {
			uv := uvs[side*2+t]
			for k, pos := range tri {
				mesh.Indices = append(mesh.Indices, uint32(len(mesh.Vertices)))
				mesh.Vertices = append(mesh.Vertices, Vertex{
					Position: pos,
					Normal:   normal,
					TexCoord: [2]float32{float32(uv[k].X), float32(uv[k].Y)},
				})
				mesh.Bounds.Extend(pos)
			}
		}
	}
	return mesh
}
