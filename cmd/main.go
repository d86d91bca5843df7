package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/irfansharif/roicheck/internal/gen"
	"github.com/irfansharif/roicheck/internal/geom"
	"github.com/irfansharif/roicheck/internal/log"
	"github.com/irfansharif/roicheck/internal/palette"
	"github.com/irfansharif/roicheck/internal/render"
	"github.com/irfansharif/roicheck/internal/roi"
)

var (
	zonesPath      = flag.String("zones", "", "YAML file describing the zones (required)")
	detectionsPath = flag.String("detections", "", "YAML file listing detection boxes (required)")
	renderPath     = flag.String("render", "", "write a PNG overlay of zones and detections to this path")
	workers        = flag.Int("workers", 0, "detections evaluated in parallel (0 = GOMAXPROCS)")
	showOverlaps   = flag.Bool("overlaps", false, "also list zones that overlap each other")
	synthetic      = flag.Int64("synthetic", -1, "ignore -zones and -detections and match a generated scene with this seed")
)

var logger = log.Named("main")

func main() {
	flag.Parse()
	defer log.Sync()

	var (
		frame    roi.Frame
		registry *roi.Registry
		dets     []roi.Detection
		err      error
	)
	switch {
	case *synthetic >= 0:
		frame, registry, dets, err = generate(*synthetic)
	case *zonesPath != "" && *detectionsPath != "":
		frame, registry, dets, err = load(*zonesPath, *detectionsPath)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("cannot set up scene", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	matcher := roi.NewMatcher(registry, *workers)
	matches, err := matcher.Match(ctx, dets)
	if err != nil {
		logger.Fatal("matching interrupted", zap.Error(err))
	}

	printZones(os.Stdout, registry)
	if *showOverlaps {
		printOverlaps(os.Stdout, registry)
	}
	printMatches(os.Stdout, matches)
	printStats(os.Stdout, matcher.Stats())

	if *renderPath != "" {
		if err := writeOverlay(*renderPath, canvasFor(frame, registry, dets), registry, matches); err != nil {
			logger.Fatal("cannot render overlay", zap.String("path", *renderPath), zap.Error(err))
		}
	}
}

func load(zonesPath, detectionsPath string) (roi.Frame, *roi.Registry, []roi.Detection, error) {
	cfg, err := roi.LoadConfigFile(zonesPath)
	if err != nil {
		return roi.Frame{}, nil, nil, fmt.Errorf("%s: %w", zonesPath, err)
	}
	registry, err := roi.NewRegistryFromConfig(cfg)
	if err != nil {
		return roi.Frame{}, nil, nil, fmt.Errorf("%s: %w", zonesPath, err)
	}
	dets, err := roi.LoadDetectionsFile(detectionsPath)
	if err != nil {
		return roi.Frame{}, nil, nil, fmt.Errorf("%s: %w", detectionsPath, err)
	}
	return cfg.Frame, registry, dets, nil
}

func generate(seed int64) (roi.Frame, *roi.Registry, []roi.Detection, error) {
	features := gen.DefaultFeatures
	scene := gen.NewGenerator(features).Generate(seed)

	registry := roi.NewRegistry()
	for i, zone := range scene.Zones {
		if _, err := registry.Add(fmt.Sprintf("zone-%d", i), zone); err != nil {
			return roi.Frame{}, nil, nil, err
		}
	}
	dets := make([]roi.Detection, len(scene.Detections))
	for i, box := range scene.Detections {
		dets[i] = roi.Detection{ID: fmt.Sprintf("#%d", i), Box: box}
	}
	logger.Info("generated scene",
		zap.Int64("seed", seed),
		zap.Int("zones", registry.Len()),
		zap.Int("detections", len(dets)))

	frame := roi.Frame{Width: features.Frame.Width, Height: features.Frame.Height}
	return frame, registry, dets, nil
}

// canvasFor picks the area to render: the configured frame, or else the
// smallest box around every zone and detection.
func canvasFor(frame roi.Frame, registry *roi.Registry, dets []roi.Detection) geom.Box {
	if !frame.IsZero() {
		return frame.Box()
	}
	var canvas geom.Box
	first := true
	extend := func(b geom.Box) {
		if first {
			canvas, first = b, false
			return
		}
		canvas = canvas.Union(b)
	}
	for _, zone := range registry.Zones() {
		extend(zone.Bounds())
	}
	for _, det := range dets {
		extend(det.Box.Box())
	}
	// Leave room for outlines on the far edges.
	canvas.Max = geom.MakePoint(canvas.Max.X+1, canvas.Max.Y+1)
	return canvas
}

func writeOverlay(path string, canvas geom.Box, registry *roi.Registry, matches []roi.Match) error {
	r := render.NewRenderer(palette.Default)
	img, err := r.Draw(canvas, registry.Zones(), matches)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	stats := r.Stats()
	logger.Info("wrote overlay",
		zap.String("path", path),
		zap.Stringer("canvas", canvas),
		zap.Int("triangles", stats.Triangles),
		zap.Float64("ms", stats.LastDrawTimeMs))
	return nil
}
