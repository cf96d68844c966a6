// Package texture decodes images and keeps them in GPU texture arrays
// grouped by size.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Decode decodes PNG, JPEG, BMP, WebP or TGA data into RGBA. The name is only
// used to detect TGA files, which carry no magic number.
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img as a tightly packed RGBA image with its origin at (0,0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == b.Dx()*4 && len(rgba.Pix) == b.Dx()*b.Dy()*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// LoadImage adds a decoded image to the atlas.
func (m *Manager) LoadImage(img image.Image) (ID, error) {
	rgba := ToRGBA(img)
	b := rgba.Bounds()
	return m.Load(rgba.Pix, b.Dx(), b.Dy())
}
