package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/irfansharif/roicheck/internal/geom"
	"github.com/irfansharif/roicheck/internal/render"
	"github.com/irfansharif/roicheck/internal/roi"
)

func printZones(w io.Writer, registry *roi.Registry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ZONE\tPOINTS\tBOUNDS\tAREA\tSHAPE")
	for _, zone := range registry.Zones() {
		area := "-"
		if a, err := render.Area(zone.Points); err == nil {
			area = fmt.Sprintf("%.1f", a)
		}
		shape := "convex"
		if c := geom.AnalyzeConvexity(zone.Points); !c.Convex {
			shape = "NOT CONVEX"
		} else {
			shape += ", " + c.Winding.String()
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%s\t%s\n", zone.Name, len(zone.Points), zone.Bounds(), area, shape)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printOverlaps(w io.Writer, registry *roi.Registry) {
	pairs := registry.Overlaps()
	if len(pairs) == 0 {
		fmt.Fprintf(w, "no overlapping zones\n\n")
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "zones %q and %q overlap\n", p.A.Name, p.B.Name)
	}
	fmt.Fprintln(w)
}

func printMatches(w io.Writer, matches []roi.Match) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DETECTION\tLABEL\tBOX\tZONES")
	for _, m := range matches {
		zones := "-"
		if m.Hit() {
			names := make([]string, len(m.Zones))
			for i, z := range m.Zones {
				names[i] = z.Name
			}
			zones = strings.Join(names, ",")
		}
		label := m.Detection.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", m.Detection.ID, label, m.Detection.Box, zones)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printStats(w io.Writer, stats roi.Stats) {
	fmt.Fprintf(w, "%d evaluations: %d overlapping, %d separated, %d rejected by bounding box, %d invalid (%.1fµs)\n",
		stats.Evaluations, stats.Overlapping, stats.Separated, stats.Prefiltered, stats.Invalid, stats.LastMatchUs)
}
