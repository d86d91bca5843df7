// Package gen produces seeded synthetic scenes: convex zones scattered over a
// frame plus detection boxes, for load-testing the matcher and for randomized
// checks of the intersection test.
//
// Zones are built by sampling angles around a centre, sorting them and placing
// a vertex on an ellipse at each one. Integer rounding can make nearly
// collinear vertices fold inwards, so every zone is checked for convexity and
// regenerated if needed.
package gen

import (
	"math"
	"math/rand"
	"sort"

	"github.com/irfansharif/roicheck/internal/geom"
)

const maxGenerationAttempts = 10 // attempts per zone before giving up on it

// Features represents the configuration for the generator.
type Features struct {
	Frame       geom.Rect // area zones and detections are placed in
	Zones       int
	Detections  int
	MinVertices int
	MaxVertices int
	MinRadius   int32 // zone radius range, in pixels
	MaxRadius   int32
	MaxBoxSide  int32 // largest detection width or height
}

// DefaultFeatures describes a 1080p frame with a handful of zones and a
// few hundred detections.
var DefaultFeatures = Features{
	Frame:       geom.MakeRect(0, 0, 1920, 1080),
	Zones:       8,
	Detections:  400,
	MinVertices: 3,
	MaxVertices: 10,
	MinRadius:   40,
	MaxRadius:   300,
	MaxBoxSide:  200,
}

// Scene carries the generated zones and detection boxes.
type Scene struct {
	Zones      []geom.Polygon
	Detections []geom.Rect
}

// Generator builds scenes from a fixed set of features.
type Generator struct {
	Features Features
}

func NewGenerator(f Features) *Generator {
	return &Generator{Features: f}
}

// Generate creates a scene. The same seed always yields the same scene.
func (g *Generator) Generate(seed int64) Scene {
	rng := rand.New(rand.NewSource(seed))

	var scene Scene
	for i := 0; i < g.Features.Zones; i++ {
		for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
			if zone := g.zone(rng); geom.AnalyzeConvexity(zone).Convex {
				scene.Zones = append(scene.Zones, zone)
				break
			}
		}
	}
	for i := 0; i < g.Features.Detections; i++ {
		scene.Detections = append(scene.Detections, g.box(rng))
	}
	return scene
}

func (g *Generator) zone(rng *rand.Rand) geom.Polygon {
	f := g.Features
	n := f.MinVertices
	if f.MaxVertices > f.MinVertices {
		n += rng.Intn(f.MaxVertices - f.MinVertices + 1)
	}

	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	sort.Float64s(angles)

	rx := float64(between(rng, f.MinRadius, f.MaxRadius))
	ry := float64(between(rng, f.MinRadius, f.MaxRadius))
	cx := float64(between(rng, f.Frame.Left, f.Frame.Right()))
	cy := float64(between(rng, f.Frame.Top, f.Frame.Bottom()))

	zone := make(geom.Polygon, 0, n)
	for _, a := range angles {
		p := geom.MakePoint(int32(math.Round(cx+rx*math.Cos(a))), int32(math.Round(cy+ry*math.Sin(a))))
		if len(zone) > 0 && zone[len(zone)-1] == p {
			continue
		}
		zone = append(zone, p)
	}
	if len(zone) > 1 && zone[0] == zone[len(zone)-1] {
		zone = zone[:len(zone)-1]
	}
	return zone
}

func (g *Generator) box(rng *rand.Rand) geom.Rect {
	f := g.Features
	w := between(rng, 1, f.MaxBoxSide)
	h := between(rng, 1, f.MaxBoxSide)
	return geom.MakeRect(
		between(rng, f.Frame.Left, f.Frame.Right()-w),
		between(rng, f.Frame.Top, f.Frame.Bottom()-h),
		w, h)
}

// between returns a value in [lo, hi], or lo when the range is empty.
func between(rng *rand.Rand, lo, hi int32) int32 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int31n(hi-lo+1)
}
