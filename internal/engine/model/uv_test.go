package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/boxedit/pkg/math"
)

func TestComputeFaceUVs_UnitCube(t *testing.T) {
	faces := ComputeFaceUVs(0, 0, 1, 1, 1, 64, 64)
	rects := FaceRects(0, 0, 1, 1, 1)

	for i, face := range faces {
		t.Run(Face(i).String(), func(t *testing.T) {
			seen := map[math.Vec2]bool{}
			for _, c := range face {
				assert.GreaterOrEqual(t, c.X, 0.0)
				assert.LessOrEqual(t, c.X, 1.0)
				assert.GreaterOrEqual(t, c.Y, 0.0)
				assert.LessOrEqual(t, c.Y, 1.0)
				seen[c] = true
			}
			assert.Len(t, seen, 4, "corners must be distinct")

			r := rects[i]
			assert.Equal(t, 1-r.Y2/64, face[0].Y)
			assert.Equal(t, 1-r.Y1/64, face[3].Y)
			assert.Equal(t, r.X1/64, face[0].X)
			assert.Equal(t, r.X2/64, face[1].X)
		})
	}
}

func TestFaceRects_Layout(t *testing.T) {
	// 8x12x4 body at (16, 16).
	rects := FaceRects(16, 16, 8, 12, 4)
	assert.Equal(t, PixelRect{20, 16, 28, 20}, rects[FaceTop])
	assert.Equal(t, PixelRect{28, 16, 36, 20}, rects[FaceBottom])
	assert.Equal(t, PixelRect{16, 20, 20, 32}, rects[FaceLeft])
	assert.Equal(t, PixelRect{20, 20, 28, 32}, rects[FaceFront])
	assert.Equal(t, PixelRect{28, 20, 32, 32}, rects[FaceRight])
	assert.Equal(t, PixelRect{32, 20, 40, 32}, rects[FaceBack])

	assert.Equal(t, 8.0, rects[FaceFront].Width())
	assert.Equal(t, 12.0, rects[FaceFront].Height())
}

func TestComputeFaceUVs_ZeroAtlas(t *testing.T) {
	assert.Equal(t, [FaceCount]FaceUV{}, ComputeFaceUVs(0, 0, 1, 1, 1, 0, 64))
}

func TestBoxTriangleUVs(t *testing.T) {
	faces := ComputeFaceUVs(0, 0, 8, 8, 8, 64, 32)
	tris := BoxTriangleUVs(faces)

	// +X side is the right face.
	right := faces[FaceRight]
	assert.Equal(t, [3]math.Vec2{right[3], right[0], right[2]}, tris[0])
	assert.Equal(t, [3]math.Vec2{right[0], right[1], right[2]}, tris[1])

	// -Y side is the bottom face with the other diagonal.
	bottom := faces[FaceBottom]
	assert.Equal(t, [3]math.Vec2{bottom[0], bottom[3], bottom[1]}, tris[6])
	assert.Equal(t, [3]math.Vec2{bottom[3], bottom[2], bottom[1]}, tris[7])

	// -Z side is the back face.
	back := faces[FaceBack]
	require.Len(t, tris, 12)
	assert.Equal(t, [3]math.Vec2{back[3], back[0], back[2]}, tris[10])
}

func TestFaceString(t *testing.T) {
	assert.Equal(t, "front", FaceFront.String())
	assert.Equal(t, "unknown", Face(9).String())
}
