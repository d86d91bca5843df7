package roi

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/irfansharif/roicheck/internal/collide"
)

// Match lists the zones a detection overlaps.
type Match struct {
	Detection Detection
	Zones     []*Zone // in ID order
}

// Hit reports whether the detection overlaps any zone.
func (m Match) Hit() bool { return len(m.Zones) > 0 }

// Stats counts zone/detection evaluations by the stage that decided them.
type Stats struct {
	Evaluations int64
	Invalid     int64
	Prefiltered int64
	Separated   int64
	Overlapping int64
	LastMatchUs float64 // wall time of the last Match call in microseconds
}

// Matcher tests detections against every zone of a registry. It is safe for
// concurrent use as long as the registry isn't modified while Match runs.
type Matcher struct {
	registry *Registry
	workers  int

	evaluations atomic.Int64
	byStage     [collide.StageOverlap + 1]atomic.Int64
	lastMatchNs atomic.Int64
}

// NewMatcher creates a matcher over reg that evaluates up to workers
// detections at once. A non-positive workers uses GOMAXPROCS.
func NewMatcher(reg *Registry, workers int) *Matcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Matcher{registry: reg, workers: workers}
}

// Match evaluates every detection against every zone. The result has one
// entry per detection, in input order. It stops early and returns the
// context's error if ctx is cancelled.
func (m *Matcher) Match(ctx context.Context, dets []Detection) ([]Match, error) {
	start := time.Now()
	zones := m.registry.Zones()
	matches := make([]Match, len(dets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range dets {
		i := i
		if gctx.Err() != nil {
			break // no point queueing more work
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches[i] = m.matchOne(dets[i], zones)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Tasks that never got to run don't report the cancellation.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.lastMatchNs.Store(int64(time.Since(start)))
	logger.Debug("matched detections",
		zap.Int("detections", len(dets)),
		zap.Int("zones", len(zones)),
		zap.Duration("took", time.Since(start)))
	return matches, nil
}

func (m *Matcher) matchOne(det Detection, zones []*Zone) Match {
	match := Match{Detection: det}
	for _, zone := range zones {
		res := collide.Explain(zone.Points, det.Box)
		m.evaluations.Add(1)
		m.byStage[res.Stage].Add(1)
		if res.Stage == collide.StageInvalid {
			logger.Warn("skipping invalid zone",
				zap.String("zone", zone.Name), zap.Int("points", len(zone.Points)))
			continue
		}
		if res.Hit {
			match.Zones = append(match.Zones, zone)
		}
	}
	return match
}

// Stats returns a snapshot of the matcher's counters.
func (m *Matcher) Stats() Stats {
	return Stats{
		Evaluations: m.evaluations.Load(),
		Invalid:     m.byStage[collide.StageInvalid].Load(),
		Prefiltered: m.byStage[collide.StagePrefilter].Load(),
		Separated:   m.byStage[collide.StageSeparated].Load(),
		Overlapping: m.byStage[collide.StageOverlap].Load(),
		LastMatchUs: float64(m.lastMatchNs.Load()) / 1000.0,
	}
}
