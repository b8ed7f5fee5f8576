package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ToImage wraps tightly packed RGBA bytes from a readback. The slice is copied.
func ToImage(pixels []byte, width, height uint32) (*image.NRGBA, error) {
	want := int(width) * int(height) * bytesPerPixel
	if len(pixels) != want {
		return nil, fmt.Errorf("ToImage - got %d bytes, want %d for %dx%d", len(pixels), want, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	copy(img.Pix, pixels)
	return img, nil
}

// SaveImage encodes img by the extension of path: .png, .bmp, .tif or .tiff.
func SaveImage(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".bmp", ".tif", ".tiff":
	default:
		return fmt.Errorf("SaveImage - unsupported image extension %q", ext)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("SaveImage - %s: %w", path, err)
	}
	return nil
}
