// Package debug provides viewer diagnostics.
package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Faultbox/boxedit/internal/engine/texture"
)

// Screenshots writes framebuffer captures to a directory.
type Screenshots struct {
	dir    string
	prefix string
	format string // "png" or "webp"
	now    func() time.Time
}

// NewScreenshots creates a capture handler. format selects the encoder and
// defaults to png.
func NewScreenshots(dir, prefix, format string) *Screenshots {
	format = strings.ToLower(format)
	if format != "webp" {
		format = "png"
	}
	return &Screenshots{dir: dir, prefix: prefix, format: format, now: time.Now}
}

// FromPixels turns a bottom-up RGBA framebuffer read into an image.
func FromPixels(pixels []byte, width, height int) (*image.NRGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Save encodes img into a new timestamped file and returns its path.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := s.Filename()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if s.format == "webp" {
		err = texture.EncodeWebP(f, img)
	} else {
		err = texture.EncodePNG(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// SavePixels is FromPixels followed by Save.
func (s *Screenshots) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.Save(img)
}

// Filename returns the path the next Save would write.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.%s", s.prefix, s.now().Format("2006-01-02_15-04-05.000"), s.format)
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}
