package collide

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/irfansharif/roicheck/internal/gen"
	"github.com/irfansharif/roicheck/internal/geom"
)

// triangle covers x <= 200, y <= 200, x+y >= 200.
var triangle = geom.Polygon{{X: 200, Y: 0}, {X: 200, Y: 200}, {X: 0, Y: 200}}

func TestTriangleScenarios(t *testing.T) {
	testCases := []struct {
		desc  string
		rect  geom.Rect
		hit   bool
		stage Stage
	}{
		{
			desc:  "far corner on hypotenuse",
			rect:  geom.MakeRect(0, 0, 100, 100),
			hit:   true,
			stage: StageOverlap,
		},
		{
			desc:  "inside bounding box but short of hypotenuse",
			rect:  geom.MakeRect(50, 50, 40, 40),
			hit:   false,
			stage: StageSeparated,
		},
		{
			desc:  "right of bounding box",
			rect:  geom.MakeRect(201, 101, 50, 50),
			hit:   false,
			stage: StagePrefilter,
		},
		{
			desc:  "corner inside region",
			rect:  geom.MakeRect(180, 100, 50, 50),
			hit:   true,
			stage: StageOverlap,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.hit, Intersects(triangle, tc.rect))

			res := Explain(triangle, tc.rect)
			require.Equal(t, tc.hit, res.Hit)
			require.Equal(t, tc.stage, res.Stage)
		})
	}
}

func TestSeparatingAxisIndex(t *testing.T) {
	// The hypotenuse is the triangle's third edge.
	res := Explain(triangle, geom.MakeRect(50, 50, 40, 40))
	require.Equal(t, StageSeparated, res.Stage)
	require.Equal(t, 2, res.Axis)

	// The diamond's second edge runs from (200,100) to (100,200).
	diamond := geom.Polygon{{X: 100, Y: 0}, {X: 200, Y: 100}, {X: 100, Y: 200}, {X: 0, Y: 100}}
	res = Explain(diamond, geom.MakeRect(0, 0, 20, 20))
	require.Equal(t, StageSeparated, res.Stage)
	require.Equal(t, 1, res.Axis)
}

func TestRectangleAxes(t *testing.T) {
	// The rectangle's axes coincide with the bounding-box test, so the
	// prefilter always gets there first. Call the axis search directly.
	diamond := geom.Polygon{{X: 100, Y: 0}, {X: 200, Y: 100}, {X: 100, Y: 200}, {X: 0, Y: 100}}
	n := len(diamond)

	below := geom.MakeRect(-1000, 300, 2000, 10)
	require.Equal(t, n, separatingAxis(diamond, below.Polygon()))

	right := geom.MakeRect(300, -1000, 10, 2000)
	require.Equal(t, n+1, separatingAxis(diamond, right.Polygon()))

	require.Equal(t, -1, separatingAxis(diamond, geom.MakeRect(90, 90, 20, 20).Polygon()))
}

func TestTouching(t *testing.T) {
	square := geom.MakeRect(0, 0, 100, 100).Polygon()
	testCases := []struct {
		desc string
		rect geom.Rect
	}{
		{desc: "shared right edge", rect: geom.MakeRect(100, 20, 50, 50)},
		{desc: "shared bottom edge", rect: geom.MakeRect(10, 100, 50, 50)},
		{desc: "shared corner", rect: geom.MakeRect(100, 100, 10, 10)},
		{desc: "shared top-left corner", rect: geom.MakeRect(-10, -10, 10, 10)},
		{desc: "zero-area point on edge", rect: geom.MakeRect(50, 0, 0, 0)},
		{desc: "zero-width segment on edge", rect: geom.MakeRect(100, 10, 0, 80)},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.True(t, Intersects(square, tc.rect))
		})
	}

	require.False(t, Intersects(square, geom.MakeRect(101, 0, 10, 10)))
	require.False(t, Intersects(square, geom.MakeRect(0, -11, 10, 10)))
}

func TestContainment(t *testing.T) {
	hexagon := geom.Polygon{{X: 50, Y: 0}, {X: 150, Y: 0}, {X: 200, Y: 100}, {X: 150, Y: 200}, {X: 50, Y: 200}, {X: 0, Y: 100}}

	// Rectangle fully inside the ROI.
	require.True(t, Intersects(hexagon, geom.MakeRect(60, 60, 20, 20)))
	// ROI fully inside the rectangle.
	require.True(t, Intersects(hexagon, geom.MakeRect(-10, -10, 300, 300)))
	// Inside the bounding box, outside a cut corner.
	require.False(t, Intersects(hexagon, geom.MakeRect(0, 0, 10, 10)))
}

func TestDegenerateROI(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer func(prev *zap.Logger) { logger = prev }(logger)
	logger = zap.New(core)

	rect := geom.MakeRect(0, 0, 10, 10)
	for _, roi := range []geom.Polygon{nil, {}, {{X: 0, Y: 0}}, {{X: 0, Y: 0}, {X: 10, Y: 10}}} {
		require.False(t, Intersects(roi, rect))

		_, err := Check(roi, rect)
		require.ErrorIs(t, err, ErrDegenerateROI)

		res := Explain(roi, rect)
		require.Equal(t, StageInvalid, res.Stage)
		require.Equal(t, -1, res.Axis)
	}

	// Only Intersects logs.
	require.Equal(t, 4, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "invalid roi", entry.Message)
	require.Contains(t, entry.ContextMap(), "error")
}

func TestNegativeSize(t *testing.T) {
	// {left:300, top:300, width:-100, height:-100} covers (200,200)-(300,300),
	// touching the triangle's bottom-right corner.
	require.True(t, Intersects(triangle, geom.MakeRect(300, 300, -100, -100)))
	require.Equal(t,
		Intersects(triangle, geom.MakeRect(90, 90, -40, -40)),
		Intersects(triangle, geom.MakeRect(50, 50, 40, 40)),
	)
}

func TestWindingIndependent(t *testing.T) {
	reversed := geom.Polygon{{X: 0, Y: 200}, {X: 200, Y: 200}, {X: 200, Y: 0}}
	for _, rect := range []geom.Rect{
		geom.MakeRect(0, 0, 100, 100),
		geom.MakeRect(50, 50, 40, 40),
		geom.MakeRect(201, 101, 50, 50),
		geom.MakeRect(180, 100, 50, 50),
	} {
		require.Equal(t, Intersects(triangle, rect), Intersects(reversed, rect), "rect %v", rect)
	}
}

func TestLargeCoordinates(t *testing.T) {
	const c = geom.MaxCoord
	roi := geom.Polygon{{X: -c, Y: -c}, {X: c, Y: -c}, {X: c, Y: c}, {X: -c, Y: c}}
	require.True(t, Intersects(roi, geom.MakeRect(c-1, c-1, 1, 1)))
	require.True(t, Intersects(roi, geom.MakeRect(-c, -c, 0, 0)))

	wedge := geom.Polygon{{X: c, Y: -c}, {X: c, Y: c}, {X: -c, Y: c}}
	require.False(t, Intersects(wedge, geom.MakeRect(-c, -c, 10, 10)))
}

// bruteForce samples lattice points of the rectangle and checks whether any
// lies inside or on the convex roi. Only valid when a shared lattice point
// exists whenever the shapes overlap, which holds for the axis-aligned and 45°
// shapes generated below.
func bruteForce(roi geom.Polygon, rect geom.Rect) bool {
	for x := rect.Left; x <= rect.Right(); x++ {
		for y := rect.Top; y <= rect.Bottom(); y++ {
			if contains(roi, geom.MakePoint(x, y)) {
				return true
			}
		}
	}
	return false
}

func TestAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rois := []geom.Polygon{
		triangle,
		{{X: 10, Y: 0}, {X: 20, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 10}},
		{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 30}, {X: 0, Y: 30}},
		{{X: 5, Y: 0}, {X: 15, Y: 0}, {X: 20, Y: 5}, {X: 20, Y: 15}, {X: 15, Y: 20}, {X: 5, Y: 20}, {X: 0, Y: 15}, {X: 0, Y: 5}},
	}
	for _, roi := range rois {
		bounds := roi.Bounds()
		w, h := bounds.Size()
		for i := 0; i < 200; i++ {
			rect := geom.MakeRect(
				bounds.Min.X-10+int32(rng.Int63n(w+20)),
				bounds.Min.Y-10+int32(rng.Int63n(h+20)),
				int32(rng.Intn(15)),
				int32(rng.Intn(15)),
			)
			assert.Equal(t, bruteForce(roi, rect), Intersects(roi, rect), "roi %v rect %v", roi, rect)
		}
	}
}

func TestPrefilterAgreesWithSAT(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		rect := geom.MakeRect(int32(rng.Intn(600)-200), int32(rng.Intn(600)-200), int32(rng.Intn(100)), int32(rng.Intn(100)))
		if !prefilter(triangle, rect) {
			continue
		}
		require.GreaterOrEqual(t, separatingAxis(triangle, rect.Polygon()), 0, "rect %v", rect)
	}
}

func TestIdempotent(t *testing.T) {
	rect := geom.MakeRect(0, 0, 100, 100)
	first := Explain(triangle, rect)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Explain(triangle, rect))
	}
}

func TestPolygons(t *testing.T) {
	square := geom.MakeRect(0, 0, 10, 10).Polygon()
	testCases := []struct {
		desc     string
		a, b     geom.Polygon
		expected bool
	}{
		{desc: "overlapping squares", a: square, b: geom.MakeRect(5, 5, 10, 10).Polygon(), expected: true},
		{desc: "touching squares", a: square, b: geom.MakeRect(10, 0, 10, 10).Polygon(), expected: true},
		{desc: "disjoint squares", a: square, b: geom.MakeRect(11, 0, 10, 10).Polygon(), expected: false},
		{desc: "triangle and square across hypotenuse", a: triangle, b: geom.MakeRect(50, 50, 40, 40).Polygon(), expected: false},
		{desc: "overlapping triangles", a: triangle, b: geom.Polygon{{X: 150, Y: 0}, {X: 250, Y: 0}, {X: 150, Y: 100}}, expected: true},
		{desc: "degenerate input", a: square, b: geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, Polygons(tc.a, tc.b))
			require.Equal(t, tc.expected, Polygons(tc.b, tc.a))
		})
	}
}

// contains reports whether pt lies inside or on the convex polygon p.
func contains(p geom.Polygon, pt geom.Point) bool {
	winding := geom.AnalyzeConvexity(p).Winding
	for i := range p {
		c := geom.Cross(p.Edge(i), pt.Sub(p[i]))
		if (winding == geom.Clockwise && c < 0) || (winding == geom.CounterClockwise && c > 0) {
			return false
		}
	}
	return true
}

func TestGeneratedScenes(t *testing.T) {
	g := gen.NewGenerator(gen.DefaultFeatures)
	for seed := int64(0); seed < 5; seed++ {
		scene := g.Generate(seed)
		require.NotEmpty(t, scene.Zones)
		for _, roi := range scene.Zones {
			for _, rect := range scene.Detections {
				hit := Intersects(roi, rect)
				require.Equal(t, Polygons(roi, rect.Polygon()), hit, "roi %v rect %v", roi, rect)
				if hit {
					continue
				}
				for _, corner := range rect.Polygon() {
					require.False(t, contains(roi, corner), "corner %v of %v inside %v", corner, rect, roi)
				}
				require.False(t, contains(rect.Polygon(), roi[0]), "vertex %v of %v inside %v", roi[0], roi, rect)
			}
		}
	}
}

func BenchmarkIntersects(b *testing.B) {
	rect := geom.MakeRect(180, 100, 50, 50)
	for i := 0; i < b.N; i++ {
		Intersects(triangle, rect)
	}
}
