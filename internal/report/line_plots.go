package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/eclab_import_go/internal/analysis"
)

var plotColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, // Blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, // Orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}, // Green
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}, // Red
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 255}, // Purple
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 255}, // Brown
}

// maxLegendEntries caps the legend; charts of long cycling runs would
// otherwise be covered by it.
const maxLegendEntries = 12

// CreateSegmentPlot draws yColumn against xColumn with one line per segment
// and returns the chart as PNG. Columns are looked up by their file names.
// Non-finite points are skipped.
func CreateSegmentPlot(segments []analysis.Segment, xColumn, yColumn, title string, width, height float64) ([]byte, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xColumn
	p.Y.Label.Text = yColumn
	p.Add(plotter.NewGrid())

	linesPlotted := 0
	for i, seg := range segments {
		xs, err := seg.Matrix.Column(xColumn)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", SegmentLabel(seg), err)
		}
		ys, err := seg.Matrix.Column(yColumn)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", SegmentLabel(seg), err)
		}

		pts := make(plotter.XYs, 0, len(xs))
		for r := range xs {
			if isFinite(xs[r]) && isFinite(ys[r]) {
				pts = append(pts, plotter.XY{X: xs[r], Y: ys[r]})
			}
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for segment %s: %v", SegmentLabel(seg), err)
		}
		line.Color = plotColors[i%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		if linesPlotted < maxLegendEntries && len(segments) > 1 {
			p.Legend.Add(SegmentLabel(seg), line)
		}
		linesPlotted++
	}
	if linesPlotted == 0 {
		return nil, fmt.Errorf("no finite points for %q against %q", yColumn, xColumn)
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p, width, height)
}

// SegmentLabel names a segment by its id path, "all" for an unsplit matrix.
func SegmentLabel(seg analysis.Segment) string {
	if len(seg.IDs) == 0 {
		return "all"
	}
	parts := make([]string, len(seg.IDs))
	for i, id := range seg.IDs {
		parts[i] = "(" + strconv.Itoa(id) + ")"
	}
	return strings.Join(parts, " ")
}

func renderPNG(p *plot.Plot, width, height float64) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(width), vg.Points(height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
