// Package preview generates best-effort image thumbnails. A nil result means
// "no preview"; generation never reports an error to the caller.
package preview

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// Generator produces thumbnails from raw upload bytes.
type Generator interface {
	// IsPreviewable reports whether a MIME type is worth attempting.
	IsPreviewable(mimeType string) bool
	// Generate returns thumbnail bytes, or nil when no preview could be made.
	Generate(data []byte) []byte
}

var previewableMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ImageGenerator renders JPEG thumbnails capped at MaxDim on the longest side.
type ImageGenerator struct {
	MaxDim  int
	Quality int
}

// NewImageGenerator returns a generator with 320px / quality-80 defaults.
func NewImageGenerator() *ImageGenerator {
	return &ImageGenerator{MaxDim: 320, Quality: 80}
}

func (g *ImageGenerator) IsPreviewable(mimeType string) bool {
	return previewableMIMETypes[mimeType]
}

// Generate decodes, downscales and re-encodes the image. Unsupported formats,
// corrupt data and encode failures all yield nil.
func (g *ImageGenerator) Generate(data []byte) []byte {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	thumb := scaleDown(src, g.MaxDim)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, thumb, &jpeg.Options{Quality: g.Quality}); err != nil {
		return nil
	}
	return out.Bytes()
}

// scaleDown returns a nearest-neighbour downscale of src so that its longest
// side is at most maxDim. Images already within bounds are returned as-is.
func scaleDown(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	tw, th := maxDim, maxDim
	if w > h {
		th = h * maxDim / w
	} else {
		tw = w * maxDim / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	for y := 0; y < th; y++ {
		sy := b.Min.Y + y*h/th
		for x := 0; x < tw; x++ {
			sx := b.Min.X + x*w/tw
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}
