package geom

// Winding is the turning direction of a polygon's vertex sequence, measured in
// image space (Y down).
type Winding int

const (
	Degenerate       Winding = 0
	Clockwise        Winding = 1
	CounterClockwise Winding = -1
)

func (w Winding) String() string {
	switch w {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter-clockwise"
	default:
		return "degenerate"
	}
}

// Convexity describes the shape of a vertex sequence.
type Convexity struct {
	Convex  bool    // every turn goes the same way
	Winding Winding // direction of the turns, Degenerate if there are none
	Points  int     // number of vertices analysed
}

// AnalyzeConvexity checks that every pair of consecutive edges turns the same
// way. Collinear edges are allowed. Fewer than 3 vertices, or vertices that
// are all collinear, are degenerate and not convex.
//
// A sequence that winds around more than once (a pentagram, say) also turns
// consistently, so this does not rule out self-intersection on its own.
func AnalyzeConvexity(p Polygon) Convexity {
	n := len(p)
	result := Convexity{Points: n}
	if n < 3 {
		return result
	}

	var cw, ccw int
	for i := 0; i < n; i++ {
		// With Y pointing down a positive cross product is a clockwise turn.
		switch c := Cross(p.Edge(i), p.Edge((i+1)%n)); {
		case c > 0:
			cw++
		case c < 0:
			ccw++
		}
	}

	switch {
	case cw == 0 && ccw == 0, cw > 0 && ccw > 0:
		return result
	case cw > 0:
		result.Winding = Clockwise
	default:
		result.Winding = CounterClockwise
	}
	result.Convex = true
	return result
}
