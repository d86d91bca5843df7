package roi

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/irfansharif/roicheck/internal/geom"
	"github.com/irfansharif/roicheck/internal/log"
)

var logger = log.Named("roi")

var (
	ErrTooFewPoints  = errors.New("zone needs at least 3 points")
	ErrDuplicateZone = errors.New("duplicate zone name")
	ErrOutOfRange    = errors.New("coordinate out of range")
	ErrMissingFrame  = errors.New("zone has a reference frame but no frame is configured")
	ErrBadPoint      = errors.New("point must have exactly 2 coordinates")
)

// Frame is the size of the image zones and detections are expressed in.
type Frame struct {
	Width  int32 `yaml:"width"`
	Height int32 `yaml:"height"`
}

// IsZero reports whether the frame is unset.
func (f Frame) IsZero() bool { return f.Width == 0 && f.Height == 0 }

func (f Frame) inRange() bool {
	return f.Width >= 0 && f.Height >= 0 && f.Width <= geom.MaxCoord && f.Height <= geom.MaxCoord
}

// Box returns the frame as a bounding box anchored at the origin.
func (f Frame) Box() geom.Box {
	return geom.MakeBox(geom.MakePoint(0, 0), geom.MakePoint(f.Width, f.Height))
}

// ZoneConfig describes one zone. Points are [x, y] pairs. When Reference is set
// the points were authored against a frame of that size and get rescaled to
// the configured frame.
type ZoneConfig struct {
	Name      string    `yaml:"name"`
	Points    [][]int32 `yaml:"points"`
	Reference *Frame    `yaml:"reference,omitempty"`
}

// Config is the top-level zone file.
type Config struct {
	Frame Frame        `yaml:"frame"`
	Zones []ZoneConfig `yaml:"zones"`
}

// LoadConfig decodes a zone file from YAML.
func LoadConfig(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding zones: %w", err)
	}
	return &c, nil
}

// LoadConfigFile reads and decodes a zone file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks every zone, returning the first error found. Zones that
// aren't convex are logged but accepted; the intersection test requires
// convexity and will give wrong answers for them.
func (c *Config) Validate() error {
	if !c.Frame.inRange() {
		return fmt.Errorf("frame %dx%d: %w (max %d)", c.Frame.Width, c.Frame.Height, ErrOutOfRange, geom.MaxCoord)
	}
	seen := make(map[string]bool, len(c.Zones))
	for i := range c.Zones {
		zc := &c.Zones[i]
		if seen[zc.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateZone, zc.Name)
		}
		seen[zc.Name] = true

		poly, err := zc.polygon()
		if err != nil {
			return fmt.Errorf("zone %q: %w", zc.Name, err)
		}
		if len(poly) < 3 {
			return fmt.Errorf("zone %q: %w, got %d", zc.Name, ErrTooFewPoints, len(poly))
		}
		if !poly.InRange() {
			return fmt.Errorf("zone %q: %w (max %d)", zc.Name, ErrOutOfRange, geom.MaxCoord)
		}
		if zc.Reference != nil && c.Frame.IsZero() {
			return fmt.Errorf("zone %q: %w", zc.Name, ErrMissingFrame)
		}

		if conv := geom.AnalyzeConvexity(poly); !conv.Convex {
			logger.Warn("zone is not convex, results will be unreliable",
				zap.String("zone", zc.Name), zap.Int("points", conv.Points))
		}
	}
	return nil
}

// Build validates the config and converts it into zones in frame
// coordinates, in file order.
func (c *Config) Build() ([]Zone, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	zones := make([]Zone, 0, len(c.Zones))
	for _, zc := range c.Zones {
		poly, _ := zc.polygon()
		if zc.Reference != nil && *zc.Reference != c.Frame {
			t, err := geom.FitBox(zc.Reference.Box(), c.Frame.Box(), true /* stretch */)
			if err != nil {
				return nil, fmt.Errorf("zone %q: %w", zc.Name, err)
			}
			poly = t.MulPolygon(poly)
			if !poly.InRange() {
				return nil, fmt.Errorf("zone %q: rescaled %w (max %d)", zc.Name, ErrOutOfRange, geom.MaxCoord)
			}
			if conv := geom.AnalyzeConvexity(poly); !conv.Convex {
				logger.Warn("rescaled zone is not convex, results will be unreliable",
					zap.String("zone", zc.Name), zap.Int("points", conv.Points))
			}
			logger.Debug("rescaled zone",
				zap.String("zone", zc.Name), zap.Stringer("bounds", poly.Bounds()))
		}
		zones = append(zones, Zone{Name: zc.Name, Points: poly})
	}
	return zones, nil
}

func (zc *ZoneConfig) polygon() (geom.Polygon, error) {
	poly := make(geom.Polygon, len(zc.Points))
	for i, pt := range zc.Points {
		if len(pt) != 2 {
			return nil, fmt.Errorf("point %d: %w, got %d", i, ErrBadPoint, len(pt))
		}
		poly[i] = geom.MakePoint(pt[0], pt[1])
	}
	return poly, nil
}
