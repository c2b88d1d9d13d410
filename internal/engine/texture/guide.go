package texture

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Faultbox/boxedit/internal/engine/model"
	"github.com/Faultbox/boxedit/pkg/formats"
)

// FaceColors tints each face rectangle of the guide, indexed by model.Face.
var FaceColors = [model.FaceCount]color.NRGBA{
	model.FaceTop:    {R: 0x4c, G: 0xaf, B: 0x50, A: 0x80},
	model.FaceBottom: {R: 0x8b, G: 0xc3, B: 0x4a, A: 0x80},
	model.FaceLeft:   {R: 0x21, G: 0x96, B: 0xf3, A: 0x80},
	model.FaceFront:  {R: 0xf4, G: 0x43, B: 0x36, A: 0x80},
	model.FaceRight:  {R: 0x03, G: 0xa9, B: 0xf4, A: 0x80},
	model.FaceBack:   {R: 0xff, G: 0x98, B: 0x00, A: 0x80},
}

var outline = color.NRGBA{A: 0xff}

// GuideOptions controls DrawUVGuide.
type GuideOptions struct {
	// Scale enlarges every atlas pixel to Scale x Scale output pixels.
	Scale int
}

// AtlasSize returns the largest texture size declared by any cube, or
// 64x32 for a model without cubes.
func AtlasSize(m *formats.Model) (int, int) {
	w, h := 0, 0
	m.Walk(func(r *formats.ModelRenderer, _ []string) bool {
		for _, c := range r.Cubes {
			w = max(w, c.Texture.Width)
			h = max(h, c.Texture.Height)
		}
		return true
	})
	if w == 0 || h == 0 {
		return 64, 32
	}
	return w, h
}

// DrawUVGuide paints the six face rectangles of every cube over base. A nil
// base draws on a transparent atlas sized by AtlasSize; otherwise the guide
// uses the size of base.
func DrawUVGuide(m *formats.Model, base image.Image, opts GuideOptions) *image.NRGBA {
	scale := max(opts.Scale, 1)

	var aw, ah int
	if base != nil {
		aw, ah = base.Bounds().Dx(), base.Bounds().Dy()
	} else {
		aw, ah = AtlasSize(m)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, aw*scale, ah*scale))
	if base != nil {
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
	}

	m.Walk(func(r *formats.ModelRenderer, _ []string) bool {
		for _, c := range r.Cubes {
			rects := model.FaceRects(float64(c.Texture.OffsetX), float64(c.Texture.OffsetY),
				c.Dimensions.X, c.Dimensions.Y, c.Dimensions.Z)
			for face, pr := range rects {
				rect := image.Rect(
					int(pr.X1*float64(scale)), int(pr.Y1*float64(scale)),
					int(pr.X2*float64(scale)), int(pr.Y2*float64(scale)),
				).Intersect(dst.Bounds())
				if rect.Empty() {
					continue
				}
				draw.Draw(dst, rect, image.NewUniform(FaceColors[face]), image.Point{}, draw.Over)
				strokeRect(dst, rect, outline)
			}
		}
		return true
	})
	return dst
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}
