package roi

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/irfansharif/roicheck/internal/geom"
)

// rawDetection mirrors the on-disk form, with the box as [left, top, width,
// height].
type rawDetection struct {
	ID    string  `yaml:"id"`
	Label string  `yaml:"label,omitempty"`
	Box   []int32 `yaml:"box"`
}

// LoadDetections decodes a list of detections from YAML of the form
//
//	detections:
//	  - id: d1
//	    label: person
//	    box: [left, top, width, height]
//
// Boxes with a negative width or height are kept as given; the intersection
// test normalizes them.
func LoadDetections(r io.Reader) ([]Detection, error) {
	var doc struct {
		Detections []rawDetection `yaml:"detections"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding detections: %w", err)
	}

	dets := make([]Detection, len(doc.Detections))
	for i, raw := range doc.Detections {
		if len(raw.Box) != 4 {
			return nil, fmt.Errorf("detection %d (%q): box must be [left, top, width, height], got %d values", i, raw.ID, len(raw.Box))
		}
		if raw.ID == "" {
			raw.ID = fmt.Sprintf("#%d", i)
		}
		dets[i] = Detection{
			ID:    raw.ID,
			Label: raw.Label,
			Box:   geom.MakeRect(raw.Box[0], raw.Box[1], raw.Box[2], raw.Box[3]),
		}
		if !dets[i].Box.InRange() {
			return nil, fmt.Errorf("detection %q: %w (max %d)", raw.ID, ErrOutOfRange, geom.MaxCoord)
		}
	}
	return dets, nil
}

// LoadDetectionsFile reads and decodes a detections file.
func LoadDetectionsFile(path string) ([]Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDetections(f)
}
