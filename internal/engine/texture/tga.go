package texture

import (
	"errors"
	"fmt"
	"image"
)

const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed (type 2) or RLE (type 10) true-color TGA
// with 24 or 32 bits per pixel. TGA has no magic number, so it is not
// registered with the image package and callers pick it by file extension.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, errors.New("tga: header truncated")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	switch {
	case colorMapType != 0:
		return nil, errors.New("tga: color-mapped images are not supported")
	case imageType != 2 && imageType != 10:
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errors.New("tga: id field truncated")
	}

	r := &tgaReader{
		src: data[offset:],
		bpp: bpp / 8,
		rle: imageType == 10,
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		dy := y
		if !topToBottom {
			dy = height - 1 - y
		}
		row := img.Pix[dy*img.Stride : dy*img.Stride+width*4]
		for x := 0; x < width; x++ {
			if err := r.next(row[x*4 : x*4+4]); err != nil {
				return nil, fmt.Errorf("tga: pixel (%d,%d): %w", x, y, err)
			}
		}
	}
	return img, nil
}

var errTGATruncated = errors.New("pixel data truncated")

// tgaReader yields BGR(A) pixels as RGBA, expanding RLE packets.
type tgaReader struct {
	src []byte
	bpp int
	rle bool

	// Current RLE packet.
	remaining int
	repeat    bool
	value     [4]byte
}

func (r *tgaReader) next(dst []byte) error {
	if !r.rle {
		return r.read(dst)
	}

	if r.remaining == 0 {
		if len(r.src) == 0 {
			return errTGATruncated
		}
		header := r.src[0]
		r.src = r.src[1:]
		r.remaining = int(header&0x7F) + 1
		r.repeat = header&0x80 != 0
		if r.repeat {
			if err := r.read(r.value[:]); err != nil {
				return err
			}
		}
	}
	r.remaining--

	if r.repeat {
		copy(dst, r.value[:])
		return nil
	}
	return r.read(dst)
}

func (r *tgaReader) read(dst []byte) error {
	if len(r.src) < r.bpp {
		return errTGATruncated
	}
	dst[0], dst[1], dst[2], dst[3] = r.src[2], r.src[1], r.src[0], 255
	if r.bpp == 4 {
		dst[3] = r.src[3]
	}
	r.src = r.src[r.bpp:]
	return nil
}
