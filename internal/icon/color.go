// Package icon derives a dominant colour and a blurhash preview from
// remote icon images.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultSaturation is the saturation multiplier applied before colour
// extraction.
const DefaultSaturation = 1.75

// sampleEdge bounds the image used for colour averaging.
const sampleEdge = 64

// Decode decodes PNG, JPEG, GIF or WebP bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// DominantColour boosts saturation by multiplier and averages the
// remaining pixels, skipping pure black and fully transparent ones. It
// reports false when no pixel qualifies.
func DominantColour(img image.Image, multiplier float64) (color.RGBA, bool) {
	sample := imaging.Fit(img, sampleEdge, sampleEdge, imaging.Box)
	sample = imaging.AdjustSaturation(sample, saturationPercent(multiplier))

	var r, g, b, n uint64
	bounds := sample.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := sample.NRGBAAt(x, y)
			if c.A == 0 || (c.R == 0 && c.G == 0 && c.B == 0) {
				continue
			}
			r += uint64(c.R)
			g += uint64(c.G)
			b += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 0xff}, true
}

// saturationPercent converts a multiplier (1.75) to the percentage imaging
// expects (75), clamped to its accepted range.
func saturationPercent(multiplier float64) float64 {
	p := (multiplier - 1) * 100
	if p < -100 {
		p = -100
	}
	if p > 100 {
		p = 100
	}
	return p
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Brightness returns the YIQ perceived brightness of c in 0..255.
func Brightness(c color.RGBA) float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

// IsDark reports whether c reads as a dark colour.
func IsDark(c color.RGBA) bool {
	return Brightness(c) < 128
}
