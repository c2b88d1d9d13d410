package model

import (
	"github.com/Faultbox/boxedit/pkg/math"
)

// Face identifies one side of a cuboid in the atlas layout order.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceLeft
	FaceFront
	FaceRight
	FaceBack
)

// FaceCount is the number of faces of a cuboid.
const FaceCount = 6

var faceNames = [FaceCount]string{"top", "bottom", "left", "front", "right", "back"}

func (f Face) String() string {
	if f < 0 || int(f) >= FaceCount {
		return "unknown"
	}
	return faceNames[f]
}

// FaceUV holds the four texture corners of a face in the order
// bottom-left, bottom-right, top-right, top-left.
type FaceUV [4]math.Vec2

// PixelRect is a face rectangle in atlas pixels. Y grows downwards.
type PixelRect struct {
	X1, Y1, X2, Y2 float64
}

// Width returns the horizontal size of the rectangle.
func (r PixelRect) Width() float64 { return r.X2 - r.X1 }

// Height returns the vertical size of the rectangle.
func (r PixelRect) Height() float64 { return r.Y2 - r.Y1 }

// FaceRects lays out the six faces of a width x height x depth cuboid whose
// unwrap starts at (u, v). The result is indexed by Face.
func FaceRects(u, v, width, height, depth float64) [FaceCount]PixelRect {
	w, h, d := width, height, depth
	return [FaceCount]PixelRect{
		FaceTop:    {u + d, v, u + w + d, v + d},
		FaceBottom: {u + w + d, v, u + 2*w + d, v + d},
		FaceLeft:   {u, v + d, u + d, v + d + h},
		FaceFront:  {u + d, v + d, u + w + d, v + d + h},
		FaceRight:  {u + w + d, v + d, u + w + 2*d, v + h + d},
		FaceBack:   {u + w + 2*d, v + d, u + 2*w + 2*d, v + h + d},
	}
}

// ComputeFaceUVs returns the normalised corners of each face of a cuboid,
// indexed by Face. V is flipped so that 1 is the top row of the atlas.
// Offsets and sizes are in atlas pixels.
func ComputeFaceUVs(offsetX, offsetY int, width, height, depth float64, atlasWidth, atlasHeight int) [FaceCount]FaceUV {
	var out [FaceCount]FaceUV
	if atlasWidth <= 0 || atlasHeight <= 0 {
		return out
	}

	aw, ah := float64(atlasWidth), float64(atlasHeight)
	rects := FaceRects(float64(offsetX), float64(offsetY), width, height, depth)
	for i, r := range rects {
		x1, x2 := r.X1/aw, r.X2/aw
		top, bottom := 1-r.Y1/ah, 1-r.Y2/ah
		out[i] = FaceUV{
			{X: x1, Y: bottom},
			{X: x2, Y: bottom},
			{X: x2, Y: top},
			{X: x1, Y: top},
		}
	}
	return out
}

// boxFaceOrder is the order in which a box mesh emits its sides:
// +X, -X, +Y, -Y, +Z, -Z.
var boxFaceOrder = [FaceCount]Face{FaceRight, FaceLeft, FaceTop, FaceBottom, FaceFront, FaceBack}

// triangleCorners picks the FaceUV corners of the two triangles of each box
// side. The bottom face is split along the other diagonal.
var triangleCorners = [FaceCount][2][3]int{
	FaceTop:    {{3, 0, 2}, {0, 1, 2}},
	FaceBottom: {{0, 3, 1}, {3, 2, 1}},
	FaceLeft:   {{3, 0, 2}, {0, 1, 2}},
	FaceFront:  {{3, 0, 2}, {0, 1, 2}},
	FaceRight:  {{3, 0, 2}, {0, 1, 2}},
	FaceBack:   {{3, 0, 2}, {0, 1, 2}},
}

// BoxTriangleUVs expands face corners into per-triangle UVs in box mesh
// order: two triangles for each of +X, -X, +Y, -Y, +Z, -Z.
func BoxTriangleUVs(faces [FaceCount]FaceUV) [2 * FaceCount][3]math.Vec2 {
	var out [2 * FaceCount][3]math.Vec2
	for side, face := range boxFaceOrder {
		corners := faces[face]
		for tri, idx := range triangleCorners[face] {
			out[side*2+tri] = [3]math.Vec2{corners[idx[0]], corners[idx[1]], corners[idx[2]]}
		}
	}
	return out
}
