package report

import (
	"fmt"

	"github.com/user/eclab_import_go/internal/analysis"
	"github.com/user/eclab_import_go/internal/importer"
	"github.com/user/eclab_import_go/internal/parser"
)

// Chart kinds.
const (
	KindLine    = "line"
	KindHeatmap = "heatmap"
)

// ChartSpec selects the columns of one chart.
type ChartSpec struct {
	Key     string
	Kind    string
	Title   string
	Caption string
	X, Y    string // line charts
	Value   string // heatmaps
}

// Chart is a rendered chart.
type Chart struct {
	Key     string
	Title   string
	Caption string
	PNG     []byte
}

// DefaultCharts returns the charts drawn for an import.
func DefaultCharts(res *importer.Result) []ChartSpec {
	switch res.Header.Layout {
	case parser.CVLayout:
		density := "<I>_per_surf/mA/" + res.Header.SurfaceUnit
		return []ChartSpec{
			{
				Key: "voltammogram", Kind: KindLine, Title: "Voltammogram",
				Caption: "Current against working electrode potential",
				X:       "Ewe/V", Y: analysis.ColumnCurrent,
			},
			{
				Key: "current_density", Kind: KindLine, Title: "Current density",
				Caption: "Current per electrode surface against working electrode potential",
				X:       "Ewe/V", Y: density,
			},
		}
	case parser.GCLayout:
		perMass := "Capacity_per_mass/mA.h/" + res.Header.MassUnit
		return []ChartSpec{
			{
				Key: "potential", Kind: KindLine, Title: "Potential profile",
				Caption: "Working electrode potential against time",
				X:       "time/s", Y: "Ewe/V",
			},
			{
				Key: "capacity", Kind: KindLine, Title: "Capacity",
				Caption: "Working electrode potential against specific capacity",
				X:       perMass, Y: "Ewe/V",
			},
			{
				Key: "capacity_heatmap", Kind: KindHeatmap, Title: "Maximum specific capacity",
				Caption: "Maximum specific capacity per segment",
				Value:   perMass,
			},
		}
	}
	return nil
}

// RenderCharts renders specs over the segments of res. A chart whose columns
// are absent from the import is skipped and reported in the returned list.
func RenderCharts(res *importer.Result, specs []ChartSpec, width, height float64) ([]Chart, []error) {
	var (
		charts  []Chart
		skipped []error
	)
	for _, spec := range specs {
		var (
			png []byte
			err error
		)
		switch spec.Kind {
		case KindLine:
			png, err = CreateSegmentPlot(res.Segments, spec.X, spec.Y, spec.Title, width, height)
		case KindHeatmap:
			png, err = CreateSegmentHeatmap(res.Segments, spec.Value, spec.Title, width, height)
		default:
			err = fmt.Errorf("unknown chart kind %q", spec.Kind)
		}
		if err != nil {
			skipped = append(skipped, fmt.Errorf("chart %s: %w", spec.Key, err))
			continue
		}
		charts = append(charts, Chart{Key: spec.Key, Title: spec.Title, Caption: spec.Caption, PNG: png})
	}
	return charts, skipped
}
