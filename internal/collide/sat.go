package collide

import (
	"math"

	"github.com/irfansharif/roicheck/internal/geom"
)

// interval is the [lo, hi] range of a shape's vertices projected onto an axis.
type interval struct{ lo, hi int64 }

// disjoint is strict: intervals sharing an endpoint overlap.
func (iv interval) disjoint(o interval) bool { return iv.hi < o.lo || iv.lo > o.hi }

// project returns the extent of the polygon along axis. Each vertex is taken
// as the vector from the origin, so the values are only meaningful relative to
// other projections onto the same axis.
func project(p geom.Polygon, axis geom.Vector) interval {
	iv := interval{lo: math.MaxInt64, hi: math.MinInt64}
	for _, pt := range p {
		d := geom.Dot(axis, pt.Vec())
		iv.lo = min(iv.lo, d)
		iv.hi = max(iv.hi, d)
	}
	return iv
}

// prefilter reports whether the ROI's bounding box and the rectangle are
// disjoint, in which case the full test would find a separating axis too.
// rect must be in canonical form.
func prefilter(roi geom.Polygon, rect geom.Rect) bool {
	bounds := roi.Bounds()
	return rect.Left > bounds.Max.X || rect.Right() < bounds.Min.X ||
		rect.Top > bounds.Max.Y || rect.Bottom() < bounds.Min.Y
}

// separatingAxis tests the n edge normals of roi followed by the normals of
// the rectangle's first two edges (top, then right). It returns the index of
// the first axis that separates the two shapes, or -1 if none does.
func separatingAxis(roi, rect geom.Polygon) int {
	n := len(roi)
	for i := 0; i < n+rectAxes; i++ {
		var edge geom.Vector
		if i < n {
			edge = roi.Edge(i)
		} else {
			edge = rect.Edge(i - n)
		}

		normal := geom.Normal(edge)
		if project(rect, normal).disjoint(project(roi, normal)) {
			return i
		}
	}
	return -1
}

// Polygons reports whether two convex polygons overlap or touch, testing the
// normals of every edge of both. Polygons with fewer than 3 vertices never
// intersect anything.
func Polygons(a, b geom.Polygon) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	if a.Bounds().Disjoint(b.Bounds()) {
		return false
	}
	for _, p := range [2]geom.Polygon{a, b} {
		for i := range p {
			normal := geom.Normal(p.Edge(i))
			if project(a, normal).disjoint(project(b, normal)) {
				return false
			}
		}
	}
	return true
}
