// Package geom provides 2D integer geometric primitives:
// - Points and vectors on the pixel grid
// - Axis-aligned rectangles and bounding boxes
// - Convex polygons and convexity analysis
// - Affine transforms for rescaling shapes between frames
package geom

import "fmt"

// MaxCoord bounds the magnitude of any coordinate fed to projection code.
// Within [-MaxCoord, MaxCoord] edge vectors and normals have components up to
// 2^31, so they are held as int64, and a dot product of a vertex with a normal
// stays below 2^62 in magnitude.
const MaxCoord = 1 << 30

// Point is a vertex on the integer grid. Y grows downwards, as in image space.
type Point struct {
	X int32
	Y int32
}

// Vector is a displacement between two points. Components are widened so that
// the difference of any two points is representable.
type Vector struct {
	X int64
	Y int64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner, as
// produced by object detectors.
type Rect struct {
	Left   int32
	Top    int32
	Width  int32
	Height int32
}

// Box is an axis-aligned bounding box. Both corners are inclusive.
type Box struct {
	Min Point
	Max Point
}

// Polygon is a closed sequence of vertices; the last vertex connects back to
// the first. Code in this module that projects polygons assumes they are
// convex, simple and consistently wound. That is not checked at runtime; see
// AnalyzeConvexity.
type Polygon []Point

func MakePoint(x, y int32) Point     { return Point{X: x, Y: y} }
func MakeVector(x, y int64) Vector   { return Vector{X: x, Y: y} }
func MakeRect(l, t, w, h int32) Rect { return Rect{Left: l, Top: t, Width: w, Height: h} }
func MakeBox(minPt, maxPt Point) Box { return Box{Min: minPt, Max: maxPt} }
func (p Point) String() string       { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }
func (p Point) Sub(q Point) Vector   { return Vector{int64(p.X) - int64(q.X), int64(p.Y) - int64(q.Y)} }
func (p Point) Vec() Vector          { return Vector{int64(p.X), int64(p.Y)} }
func (r Rect) Right() int32          { return r.Left + r.Width }
func (r Rect) Bottom() int32         { return r.Top + r.Height }
func (r Rect) String() string        { return fmt.Sprintf("[%d,%d %dx%d]", r.Left, r.Top, r.Width, r.Height) }
func (b Box) String() string         { return fmt.Sprintf("%v-%v", b.Min, b.Max) }
func (b Box) Size() (w, h int64)     { return int64(b.Max.X) - int64(b.Min.X), int64(b.Max.Y) - int64(b.Min.Y) }

// Dot returns the scalar product a·b. The result is signed.
func Dot(a, b Vector) int64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the z component of a×b.
func Cross(a, b Vector) int64 { return a.X*b.Y - a.Y*b.X }

// Normal returns the right perpendicular (v.Y, -v.X). It is not normalized:
// projections onto it are only ever compared with each other.
func Normal(v Vector) Vector { return Vector{v.Y, -v.X} }

// Canon returns the rectangle covering the same extent with a non-negative
// width and height.
func (r Rect) Canon() Rect {
	if r.Width < 0 {
		r.Left, r.Width = r.Left+r.Width, -r.Width
	}
	if r.Height < 0 {
		r.Top, r.Height = r.Top+r.Height, -r.Height
	}
	return r
}

// Box returns the rectangle's extent as a bounding box.
func (r Rect) Box() Box {
	r = r.Canon()
	return MakeBox(MakePoint(r.Left, r.Top), MakePoint(r.Right(), r.Bottom()))
}

// Polygon converts the rectangle into its four corners: top-left, top-right,
// bottom-right, bottom-left. With Y growing downwards that is clockwise on
// screen.
func (r Rect) Polygon() Polygon {
	return Polygon{
		{r.Left, r.Top},
		{r.Right(), r.Top},
		{r.Right(), r.Bottom()},
		{r.Left, r.Bottom()},
	}
}

// Disjoint reports whether b and o share no point. Boxes that touch along an
// edge or a corner are not disjoint.
func (b Box) Disjoint(o Box) bool {
	return b.Min.X > o.Max.X || b.Max.X < o.Min.X ||
		b.Min.Y > o.Max.Y || b.Max.Y < o.Min.Y
}

// Union returns the smallest box enclosing both b and o.
func (b Box) Union(o Box) Box {
	return MakeBox(
		MakePoint(min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y)),
		MakePoint(max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y)),
	)
}

// Bounds returns the polygon's bounding box. An empty polygon yields the zero
// Box.
func (p Polygon) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	b := MakeBox(p[0], p[0])
	for _, pt := range p[1:] {
		b.Min.X = min(b.Min.X, pt.X)
		b.Min.Y = min(b.Min.Y, pt.Y)
		b.Max.X = max(b.Max.X, pt.X)
		b.Max.Y = max(b.Max.Y, pt.Y)
	}
	return b
}

// Edge returns the vector from vertex i to vertex i+1, wrapping around at the
// end.
func (p Polygon) Edge(i int) Vector {
	return p[(i+1)%len(p)].Sub(p[i])
}

// InRange reports whether every vertex lies within [-MaxCoord, MaxCoord].
func (p Polygon) InRange() bool {
	for _, pt := range p {
		if !inRange(int64(pt.X)) || !inRange(int64(pt.Y)) {
			return false
		}
	}
	return true
}

// InRange reports whether all four corners lie within [-MaxCoord, MaxCoord].
func (r Rect) InRange() bool {
	right := int64(r.Left) + int64(r.Width)
	bottom := int64(r.Top) + int64(r.Height)
	return inRange(int64(r.Left)) && inRange(right) && inRange(int64(r.Top)) && inRange(bottom)
}

func inRange(c int64) bool { return c >= -MaxCoord && c <= MaxCoord }
