package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageGenerator_IsPreviewable(t *testing.T) {
	g := NewImageGenerator()

	assert.True(t, g.IsPreviewable("image/jpeg"))
	assert.True(t, g.IsPreviewable("image/png"))
	assert.True(t, g.IsPreviewable("image/gif"))
	assert.False(t, g.IsPreviewable("application/pdf"))
	assert.False(t, g.IsPreviewable("image/webp"))
	assert.False(t, g.IsPreviewable(""))
}

func TestImageGenerator_Generate(t *testing.T) {
	g := NewImageGenerator()

	t.Run("large image is downscaled to a jpeg thumbnail", func(t *testing.T) {
		out := g.Generate(encodePNG(t, 800, 600))

		assert.NotNil(t, out)
		thumb, err := jpeg.Decode(bytes.NewReader(out))
		assert.NoError(t, err)
		assert.Equal(t, 320, thumb.Bounds().Dx())
		assert.Equal(t, 240, thumb.Bounds().Dy())
	})

	t.Run("portrait orientation caps the height", func(t *testing.T) {
		out := g.Generate(encodePNG(t, 400, 1000))

		assert.NotNil(t, out)
		thumb, err := jpeg.Decode(bytes.NewReader(out))
		assert.NoError(t, err)
		assert.Equal(t, 128, thumb.Bounds().Dx())
		assert.Equal(t, 320, thumb.Bounds().Dy())
	})

	t.Run("small image keeps its dimensions", func(t *testing.T) {
		out := g.Generate(encodePNG(t, 64, 48))

		assert.NotNil(t, out)
		thumb, err := jpeg.Decode(bytes.NewReader(out))
		assert.NoError(t, err)
		assert.Equal(t, 64, thumb.Bounds().Dx())
		assert.Equal(t, 48, thumb.Bounds().Dy())
	})

	t.Run("corrupt data yields nil", func(t *testing.T) {
		assert.Nil(t, g.Generate([]byte("not an image")))
	})

	t.Run("empty data yields nil", func(t *testing.T) {
		assert.Nil(t, g.Generate(nil))
	})
}
