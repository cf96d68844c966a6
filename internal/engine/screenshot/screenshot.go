// Package screenshot saves backbuffer captures as PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Writer names and writes screenshot files into a directory.
type Writer struct {
	dir    string
	prefix string
	now    func() time.Time

	last time.Time
	seq  int
}

// NewWriter creates a writer. The directory is created on the first write.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix, now: time.Now}
}

// WriteBottomUp writes RGBA rows stored bottom row first, as read back from
// OpenGL.
func (w *Writer) WriteBottomUp(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return w.Write(img)
}

// Write encodes img as PNG and returns the file path.
func (w *Writer) Write(img image.Image) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("creating screenshot dir: %w", err)
	}

	path := filepath.Join(w.dir, w.nextName())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// nextName returns prefix_timestamp.png, adding a counter for several
// captures within the same second.
func (w *Writer) nextName() string {
	now := w.now().Truncate(time.Second)
	if now.Equal(w.last) {
		w.seq++
	} else {
		w.last, w.seq = now, 0
	}

	stamp := now.Format("2006-01-02_15-04-05")
	if w.seq == 0 {
		return fmt.Sprintf("%s_%s.png", w.prefix, stamp)
	}
	return fmt.Sprintf("%s_%s_%d.png", w.prefix, stamp, w.seq)
}
