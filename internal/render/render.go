// Package render draws zones and the detections matched against them into an
// image, for eyeballing a zone file against real detector output.
//
// Zones are triangulated with earcut and filled translucently in their own
// colour. Detection boxes are outlined in the colour of the first zone they
// hit, or grey when they hit none.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/irfansharif/roicheck/internal/geom"
	"github.com/irfansharif/roicheck/internal/log"
	"github.com/irfansharif/roicheck/internal/palette"
	"github.com/irfansharif/roicheck/internal/roi"
)

const zoneFillAlpha = 96

// MaxCanvasPixels caps the size of a rendered overlay, about 256MiB of RGBA.
const MaxCanvasPixels = 1 << 26

var ErrCanvasTooLarge = errors.New("canvas too large")

var logger = log.Named("render")

// Renderer draws overlays with a fixed palette.
type Renderer struct {
	palette palette.Palette
	stats   Stats
}

// Stats tracks rendering metrics.
type Stats struct {
	Triangles      int     // triangles filled in the last Draw
	LastDrawTimeMs float64 // time spent in last Draw() call in milliseconds
}

func NewRenderer(p palette.Palette) *Renderer {
	return &Renderer{palette: p}
}

// Stats returns the metrics of the last Draw call.
func (r *Renderer) Stats() Stats { return r.stats }

// Draw renders the zones and matched detections over canvas, a box in frame
// coordinates that maps to the returned image's pixels.
func (r *Renderer) Draw(canvas geom.Box, zones []*roi.Zone, matches []roi.Match) (*image.RGBA, error) {
	startTime := time.Now()

	w, h := canvas.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("cannot render: invalid canvas %v", canvas)
	}
	if w*h > MaxCanvasPixels {
		return nil, fmt.Errorf("cannot render %v: %w (%dx%d)", canvas, ErrCanvasTooLarge, w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.palette.Background}, image.Point{}, draw.Src)

	triangles := 0
	for _, zone := range zones {
		n, err := r.fillZone(img, canvas, zone)
		if err != nil {
			// A bad zone shouldn't blank the whole overlay.
			logger.Warn("cannot fill zone", zap.String("zone", zone.Name), zap.Error(err))
		}
		triangles += n
		outline(img, canvas, zone.Points, r.palette.Outline)
	}

	for _, match := range matches {
		c := r.palette.Miss
		if match.Hit() {
			c = palette.Darken(palette.ForZone(match.Zones[0].Name), 0.25)
		}
		outline(img, canvas, match.Detection.Box.Canon().Polygon(), c)
	}

	r.stats = Stats{
		Triangles:      triangles,
		LastDrawTimeMs: float64(time.Since(startTime).Microseconds()) / 1000.0,
	}
	return img, nil
}

// fillZone blends the zone's colour over every pixel inside it and returns the
// number of triangles drawn.
func (r *Renderer) fillZone(img *image.RGBA, canvas geom.Box, zone *roi.Zone) (int, error) {
	triangles, err := Triangulate(zone.Points)
	if err != nil {
		return 0, err
	}

	bounds := img.Bounds()
	mask := image.NewAlpha(bounds)
	area := geom.MakeBox(canvas.Min, geom.MakePoint(canvas.Max.X-1, canvas.Max.Y-1))
	for _, t := range triangles {
		tb := triangleBounds(t, area)
		for y := tb.Min.Y; y <= tb.Max.Y; y++ {
			for x := tb.Min.X; x <= tb.Max.X; x++ {
				if inTriangle(t, geom.MakePoint(x, y)) {
					mask.SetAlpha(int(int64(x)-int64(canvas.Min.X)), int(int64(y)-int64(canvas.Min.Y)), color.Alpha{A: 255})
				}
			}
		}
	}

	fill := &image.Uniform{C: palette.WithAlpha(palette.ForZone(zone.Name), zoneFillAlpha)}
	draw.DrawMask(img, bounds, fill, image.Point{}, mask, bounds.Min, draw.Over)
	return len(triangles), nil
}

// inTriangle reports whether p lies inside or on the triangle, whatever its
// winding.
func inTriangle(t [3]geom.Point, p geom.Point) bool {
	var pos, neg bool
	for i := 0; i < 3; i++ {
		c := geom.Cross(t[(i+1)%3].Sub(t[i]), p.Sub(t[i]))
		pos = pos || c > 0
		neg = neg || c < 0
	}
	return !(pos && neg)
}

// outline strokes the closed polygon one pixel wide.
func outline(img *image.RGBA, canvas geom.Box, p geom.Polygon, c color.RGBA) {
	for i := range p {
		line(img, canvas, p[i], p[(i+1)%len(p)], c)
	}
}

// line draws from a to b with Bresenham's algorithm. The segment is clipped to
// the image first, so far off-canvas shapes cost nothing to walk.
func line(img *image.RGBA, canvas geom.Box, a, b geom.Point, c color.RGBA) {
	bounds := img.Bounds()
	x0, y0, x1, y1, ok := clip(
		float64(int64(a.X)-int64(canvas.Min.X)), float64(int64(a.Y)-int64(canvas.Min.Y)),
		float64(int64(b.X)-int64(canvas.Min.X)), float64(int64(b.Y)-int64(canvas.Min.Y)),
		float64(bounds.Dx()-1), float64(bounds.Dy()-1))
	if !ok {
		return
	}

	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := -(y1 - y0), 1
	if y1 < y0 {
		dy, sy = y1-y0, -1
	}
	for e := dx + dy; ; {
		if (image.Point{X: x0, Y: y0}).In(bounds) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clip trims the segment to [0, maxX] x [0, maxY] (Liang-Barsky) and rounds
// the ends to pixels. It reports false when nothing of the segment is left.
func clip(x0, y0, x1, y1, maxX, maxY float64) (int, int, int, int, bool) {
	dx, dy := x1-x0, y1-y0
	lo, hi := 0.0, 1.0
	for _, edge := range [4][2]float64{{-dx, x0}, {dx, maxX - x0}, {-dy, y0}, {dy, maxY - y0}} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > hi {
				return 0, 0, 0, 0, false
			}
			lo = max(lo, r)
		} else {
			if r < lo {
				return 0, 0, 0, 0, false
			}
			hi = min(hi, r)
		}
	}
	return int(math.Round(x0 + lo*dx)), int(math.Round(y0 + lo*dy)),
		int(math.Round(x0 + hi*dx)), int(math.Round(y0 + hi*dy)), true
}
