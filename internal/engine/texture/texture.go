// Package texture decodes model atlas images and encodes them for export.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when no decoder recognises the data.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// Texture is a decoded atlas image.
type Texture struct {
	Ref    string // where it was loaded from
	Format string // png, jpeg, gif, bmp, webp, tga, or "image" for in-memory sources
	Image  *image.NRGBA
}

// Width returns the atlas width in pixels.
func (t *Texture) Width() int { return t.Image.Bounds().Dx() }

// Height returns the atlas height in pixels.
func (t *Texture) Height() int { return t.Image.Bounds().Dy() }

type decoder struct {
	name  string
	magic func([]byte) bool
	fn    func(io.Reader) (image.Image, error)
}

// Decoders are picked by signature. TGA has none and is tried last.
var decoders = []decoder{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"gif", prefix("GIF8"), gif.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"webp", func(b []byte) bool {
		return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
	}, webp.Decode},
}

func prefix(sig string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(sig)) }
}

// Decode reads an image in any supported format and converts it to NRGBA.
func Decode(ref string, data []byte) (*Texture, error) {
	for _, d := range decoders {
		if !d.magic(data) {
			continue
		}
		img, err := d.fn(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("texture: decode %s %s: %w", d.name, ref, err)
		}
		return &Texture{Ref: ref, Format: d.name, Image: ToNRGBA(img)}, nil
	}

	img, err := tga.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", ref, ErrUnsupportedFormat)
	}
	return &Texture{Ref: ref, Format: "tga", Image: ToNRGBA(img)}, nil
}

// FromImage wraps an in-memory image.
func FromImage(ref string, img image.Image) *Texture {
	return &Texture{Ref: ref, Format: "image", Image: ToNRGBA(img)}
}

// ToNRGBA converts any image to NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// DataURI encodes the texture as a base64 PNG data URI.
func (t *Texture) DataURI() (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, t.Image); err != nil {
		return "", err
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("texture: encode png: %w", err)
	}
	return nil
}

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("texture: encode webp: %w", err)
	}
	return nil
}

// Blank returns a transparent atlas of the given size.
func Blank(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{}), image.Point{}, draw.Src)
	return img
}
