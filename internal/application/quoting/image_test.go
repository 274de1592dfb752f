package quoting

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

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestNormalizeImage(t *testing.T) {
	t.Run("wide image is scaled to the bound", func(t *testing.T) {
		out, err := normalizeImage(encodePNG(t, 1600, 400))
		require.NoError(t, err)
		got := decodeJPEG(t, out)
		assert.Equal(t, 800, got.Bounds().Dx())
		assert.Equal(t, 200, got.Bounds().Dy())
	})

	t.Run("tall image is scaled to the bound", func(t *testing.T) {
		out, err := normalizeImage(encodePNG(t, 300, 1200))
		require.NoError(t, err)
		got := decodeJPEG(t, out)
		assert.Equal(t, 200, got.Bounds().Dx())
		assert.Equal(t, 800, got.Bounds().Dy())
	})

	t.Run("small image keeps its dimensions", func(t *testing.T) {
		out, err := normalizeImage(encodePNG(t, 320, 240))
		require.NoError(t, err)
		got := decodeJPEG(t, out)
		assert.Equal(t, 320, got.Bounds().Dx())
		assert.Equal(t, 240, got.Bounds().Dy())
	})

	t.Run("output is always JPEG", func(t *testing.T) {
		out, err := normalizeImage(encodePNG(t, 10, 10))
		require.NoError(t, err)
		_, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("garbage input is rejected", func(t *testing.T) {
		_, err := normalizeImage([]byte("not an image"))
		assert.Error(t, err)
	})

	t.Run("extreme aspect ratio never collapses to zero", func(t *testing.T) {
		out, err := normalizeImage(encodePNG(t, 4000, 2))
		require.NoError(t, err)
		got := decodeJPEG(t, out)
		assert.GreaterOrEqual(t, got.Bounds().Dy(), 1)
	})
}
