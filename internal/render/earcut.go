package render

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/roicheck/internal/geom"
)

// Triangulate splits a polygon into triangles using the earcut algorithm.
// Either winding works. Each triangle reuses the polygon's own vertices.
func Triangulate(polygonPoints geom.Polygon) ([][3]geom.Point, error) {
	if len(polygonPoints) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(polygonPoints))
	}

	// Convert polygon points to flat coordinate array required by earcut.
	// Format: [x0, y0, x1, y1, ..., xn, yn]
	vertexCoords := make([]float64, len(polygonPoints)*2)
	for i, point := range polygonPoints {
		vertexCoords[i*2] = float64(point.X)
		vertexCoords[i*2+1] = float64(point.Y)
	}

	triangleIndices, err := earcut.Earcut(vertexCoords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(polygonPoints), err)
	}
	if len(triangleIndices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle count (indices: %d, not divisible by 3)", len(triangleIndices))
	}

	triangles := make([][3]geom.Point, len(triangleIndices)/3)
	for i := range triangles {
		base := i * 3
		triangles[i] = [3]geom.Point{
			polygonPoints[triangleIndices[base]],
			polygonPoints[triangleIndices[base+1]],
			polygonPoints[triangleIndices[base+2]],
		}
	}
	return triangles, nil
}

// Area returns the area enclosed by the polygon, in square pixels.
func Area(p geom.Polygon) (float64, error) {
	triangles, err := Triangulate(p)
	if err != nil {
		return 0, err
	}
	var twice int64
	for _, t := range triangles {
		twice += abs(geom.Cross(t[1].Sub(t[0]), t[2].Sub(t[0])))
	}
	return float64(twice) / 2, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// triangleBounds returns the pixel-aligned box around a triangle, clipped to
// clip.
func triangleBounds(t [3]geom.Point, clip geom.Box) geom.Box {
	b := geom.Polygon(t[:]).Bounds()
	b.Min.X = max(b.Min.X, clip.Min.X)
	b.Min.Y = max(b.Min.Y, clip.Min.Y)
	b.Max.X = min(b.Max.X, clip.Max.X)
	b.Max.Y = min(b.Max.Y, clip.Max.Y)
	return b
}
