package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessPreservesFormat(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestJPEG(100, 100)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", result.MIME)
	assert.NotEmpty(t, result.Data)

	result, err = Process(bytes.NewReader(createTestPNG(100, 100)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.MIME)

	// The output must still decode as PNG.
	_, err = png.Decode(bytes.NewReader(result.Data))
	assert.NoError(t, err)
}

func TestProcessDownscales(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestPNG(2048, 1024)))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, img.Bounds().Dx())
	assert.Equal(t, MaxDimension/2, img.Bounds().Dy())
}

func TestProcessKeepsSmallImages(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestPNG(64, 32)))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}
