// Package capture converts framebuffer readbacks into PNG files.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
)

// IOError reports a failed export write. No partial file exists on disk
// when an IOError is returned.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FromPixels builds an image from a raw RGBA readback. GL readbacks are
// bottom-up, so rows are flipped while copying.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d bytes, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcY := height - 1 - y
		src := pixels[srcY*rowSize : srcY*rowSize+rowSize]
		dst := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		copy(dst, src)
	}
	return img, nil
}

// WriteFile encodes img as PNG and writes it to path. Encoding happens
// fully in memory first, so a failure never leaves a partial PNG behind.
func WriteFile(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
