// Package roi manages regions of interest and matches object detections
// against them:
// - Zones are loaded from YAML and rescaled to the frame they apply to
// - A registry keeps zones in a stable order and finds overlapping ones
// - A matcher tests batches of detections against every zone in parallel
package roi

import (
	"github.com/irfansharif/roicheck/internal/geom"
)

// ZoneID uniquely identifies a zone within a registry.
type ZoneID int

// Zone is a named convex region of interest in frame coordinates.
type Zone struct {
	ID     ZoneID       // assigned by the registry
	Name   string       // unique, human-readable
	Points geom.Polygon // convex, consistently wound
}

// Bounds returns the zone's bounding box.
func (z *Zone) Bounds() geom.Box { return z.Points.Bounds() }

// Detection is an object detector's bounding box.
type Detection struct {
	ID    string
	Label string
	Box   geom.Rect
}
