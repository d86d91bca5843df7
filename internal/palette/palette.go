// Package palette picks the colours overlays are drawn with. Zone colours are
// derived from the zone's name so a zone keeps its colour across runs.
package palette

import (
	"image/color"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the fixed colours of an overlay.
type Palette struct {
	Background color.RGBA // canvas
	Outline    color.RGBA // zone borders
	Miss       color.RGBA // detections outside every zone
}

// Default keeps the background plain white so zone fills read clearly.
var Default = Palette{
	Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Outline:    color.RGBA{R: 40, G: 40, B: 40, A: 255},
	Miss:       color.RGBA{R: 160, G: 160, B: 160, A: 255},
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hsb converts hue/saturation/brightness in the 0-100 range to RGBA.
func hsb(h, s, b float64) color.RGBA {
	// Convert from 0-100 range to 0-360 for hue, 0-1 for saturation and brightness.
	hue := h * 3.6
	sat := clamp(s/100.0, 0, 1)
	bright := clamp(b/100.0, 0, 1)

	c := colorful.Hsv(hue, sat, bright)
	red, green, blue := c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

// ForZone returns the colour of the named zone. Saturation and brightness stay
// in the middle of the range so fills never wash out or go black.
func ForZone(name string) color.RGBA {
	r := rand.New(rand.NewSource(int64(xxhash.Sum64String(name))))
	return hsb(r.Float64()*100, r.Float64()*50+40, r.Float64()*30+55)
}

// WithAlpha returns c at the given opacity, premultiplied as image.RGBA
// expects.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(alpha) / 255) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: alpha}
}

// Darken lowers the brightness of c by the given fraction of the full range.
func Darken(c color.RGBA, by float64) color.RGBA {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, v := cf.Hsv()
	red, green, blue := colorful.Hsv(h, s, clamp(v-by, 0, 1)).RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: c.A}
}
