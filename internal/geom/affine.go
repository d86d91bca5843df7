package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when inverting a transform whose determinant is
// (close to) zero.
var ErrSingular = errors.New("affine transform is not invertible")

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// Identity leaves every point where it is.
var Identity = MakeAffine(1, 0, 0, 0, 1, 0)

func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }
func Translate(dx, dy float64) Affine            { return MakeAffine(1, 0, dx, 0, 1, dy) }
func Scale(sx, sy float64) Affine                { return MakeAffine(sx, 0, 0, 0, sy, 0) }

// MulPoint applies the transform to a point and rounds the result back onto
// the integer grid (half away from zero). Results beyond int32 saturate, so
// they stay out of range instead of wrapping back into it.
func (t Affine) MulPoint(p Point) Point {
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: toGrid(t.A*x + t.B*y + t.C),
		Y: toGrid(t.D*x + t.E*y + t.F),
	}
}

func toGrid(v float64) int32 {
	switch v = math.Round(v); {
	case math.IsNaN(v):
		return math.MaxInt32
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

// MulPolygon applies the transform to every vertex.
func (t Affine) MulPolygon(p Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = t.MulPoint(pt)
	}
	return out
}

// Mul composes two affine transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Inv returns the inverse of the affine transform.
func (t Affine) Inv() (Affine, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-10 {
		return Affine{}, fmt.Errorf("%w (determinant %g)", ErrSingular, det)
	}
	return MakeAffine(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}

// FitBox returns the transform mapping box src onto box dst. With stretch
// set, each axis scales independently so src covers dst exactly; otherwise
// the smaller of the two ratios is used on both axes and the result is
// centred in dst.
func FitBox(src, dst Box, stretch bool) (Affine, error) {
	sw, sh := src.Size()
	dw, dh := dst.Size()
	if sw <= 0 || sh <= 0 {
		return Affine{}, fmt.Errorf("source box %v must have positive width and height", src)
	}
	if dw <= 0 || dh <= 0 {
		return Affine{}, fmt.Errorf("destination box %v must have positive width and height", dst)
	}

	sx := float64(dw) / float64(sw)
	sy := float64(dh) / float64(sh)
	if !stretch {
		sx = math.Min(sx, sy)
		sy = sx
	}
	centerDst := Translate(float64(dst.Min.X)+0.5*float64(dw), float64(dst.Min.Y)+0.5*float64(dh))
	centerSrc := Translate(-(float64(src.Min.X) + 0.5*float64(sw)), -(float64(src.Min.Y) + 0.5*float64(sh)))
	return centerDst.Mul(Scale(sx, sy)).Mul(centerSrc), nil
}
