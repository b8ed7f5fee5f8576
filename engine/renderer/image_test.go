package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestPaddedBytesPerRow(t *testing.T) {
	assert.Equal(t, uint32(256), paddedBytesPerRow(1))
	assert.Equal(t, uint32(256), paddedBytesPerRow(64))
	assert.Equal(t, uint32(512), paddedBytesPerRow(65))
	assert.Equal(t, uint32(3328), paddedBytesPerRow(800))
}

func TestUnpadRows(t *testing.T) {
	const width, height, pitch = 2, 3, 16
	src := make([]byte, pitch*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width*bytesPerPixel; x++ {
			src[y*pitch+x] = byte(y*10 + x)
		}
		for x := width * bytesPerPixel; x < pitch; x++ {
			src[y*pitch+x] = 0xFF
		}
	}
	out := unpadRows(src, width, height, pitch)
	require.Len(t, out, width*height*bytesPerPixel)
	assert.Equal(t, byte(0), out[0])
	assert.Equal(t, byte(7), out[7])
	assert.Equal(t, byte(10), out[8])
	assert.Equal(t, byte(27), out[23])
	assert.NotContains(t, out, byte(0xFF))
}

func testPixels() []byte {
	return []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
}

func TestToImage(t *testing.T) {
	pixels := testPixels()
	img, err := ToImage(pixels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 255, A: 255}, img.NRGBAAt(0, 1))

	pixels[0] = 7
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).R)

	_, err = ToImage(pixels[:12], 2, 2)
	assert.Error(t, err)
}

func TestSaveImageFormats(t *testing.T) {
	img, err := ToImage(testPixels(), 2, 2)
	require.NoError(t, err)
	dir := t.TempDir()

	decoders := map[string]func(f *os.File) (image.Image, error){
		"out.png":        func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"out.bmp":        func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"nested/out.tif": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"out.TIFF":       func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveImage(path, img))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			got, err := decode(f)
			require.NoError(t, err)

			assert.Equal(t, img.Bounds(), got.Bounds())
			r, g, b, _ := got.At(1, 0).RGBA()
			assert.Equal(t, []uint32{0, 0xFFFF, 0}, []uint32{r, g, b})
			r, g, b, _ = got.At(1, 1).RGBA()
			assert.Equal(t, []uint32{0xFFFF, 0xFFFF, 0xFFFF}, []uint32{r, g, b})
		})
	}
}

func TestSaveImageRejectsUnknownExtension(t *testing.T) {
	img, err := ToImage(testPixels(), 2, 2)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.jpg")
	assert.Error(t, SaveImage(path, img))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
