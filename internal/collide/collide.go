// Package collide decides whether a detection rectangle overlaps a convex
// region of interest. It runs a cheap bounding-box rejection first and falls
// back to the separating axis theorem:
//
//   - Two convex shapes are disjoint iff some axis perpendicular to one of
//     their edges separates their projections.
//   - Every ROI edge contributes an axis. The rectangle contributes only two,
//     since its opposite edges are parallel and a normal's sign doesn't change
//     whether two intervals overlap.
//   - Projections use unnormalized normals. Only their relative order along
//     one axis matters, so normalizing would add cost and change nothing.
//   - Intervals that merely touch overlap, so shapes sharing an edge or a
//     single point collide.
//
// Polygons handed to this package must be convex, simple and consistently
// wound. None of that is checked here.
package collide

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/irfansharif/roicheck/internal/geom"
	"github.com/irfansharif/roicheck/internal/log"
)

// ErrDegenerateROI is returned for ROIs with fewer than 3 vertices.
var ErrDegenerateROI = errors.New("roi needs at least 3 points")

var logger = log.Named("collide")

// rectAxes is the number of rectangle edges that contribute an axis.
const rectAxes = 2

// Stage identifies which step of the evaluation produced a result.
type Stage int

const (
	StageInvalid   Stage = iota // rejected as invalid input
	StagePrefilter              // bounding boxes are disjoint
	StageSeparated              // a separating axis was found
	StageOverlap                // no axis separates the shapes
)

func (s Stage) String() string {
	switch s {
	case StageInvalid:
		return "invalid"
	case StagePrefilter:
		return "prefilter"
	case StageSeparated:
		return "separated"
	case StageOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// Result is the outcome of testing one ROI against one rectangle.
type Result struct {
	Hit   bool
	Stage Stage
	// Axis is the index of the separating axis when Stage is StageSeparated:
	// 0..n-1 for the ROI's edges, n and n+1 for the rectangle's first two
	// edges. It is -1 otherwise.
	Axis int
}

// Intersects reports whether rect overlaps or touches roi. An roi with fewer
// than 3 points is logged and reported as not intersecting.
func Intersects(roi geom.Polygon, rect geom.Rect) bool {
	hit, err := Check(roi, rect)
	if err != nil {
		logger.Warn("invalid roi", zap.Error(err), zap.Stringer("rect", rect))
		return false
	}
	return hit
}

// Check is like Intersects but returns invalid input as an error instead of
// logging it.
func Check(roi geom.Polygon, rect geom.Rect) (bool, error) {
	res, err := evaluate(roi, rect)
	return res.Hit, err
}

// Explain evaluates roi against rect and reports which stage decided the
// outcome. Invalid input yields StageInvalid and is not logged.
func Explain(roi geom.Polygon, rect geom.Rect) Result {
	res, _ := evaluate(roi, rect)
	return res
}

func evaluate(roi geom.Polygon, rect geom.Rect) (Result, error) {
	if len(roi) < 3 {
		return Result{Stage: StageInvalid, Axis: -1},
			fmt.Errorf("%w, got %d", ErrDegenerateROI, len(roi))
	}

	rect = rect.Canon()
	if prefilter(roi, rect) {
		return Result{Stage: StagePrefilter, Axis: -1}, nil
	}

	if axis := separatingAxis(roi, rect.Polygon()); axis >= 0 {
		return Result{Stage: StageSeparated, Axis: axis}, nil
	}
	return Result{Hit: true, Stage: StageOverlap, Axis: -1}, nil
}
