package report

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/user/eclab_import_go/internal/analysis"
)

// segmentGrid lays segment values out on a grid: the last id of a segment
// picks the column, the id before it (if any) picks the row. Cells without
// a segment hold NaN.
type segmentGrid struct {
	cols, rows []int
	z          [][]float64 // [row][col]
}

func (g *segmentGrid) Dims() (c, r int)   { return len(g.cols), len(g.rows) }
func (g *segmentGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g *segmentGrid) X(c int) float64    { return float64(c) }
func (g *segmentGrid) Y(r int) float64    { return float64(r) }

// newSegmentGrid builds the grid of the per-segment maximum of column.
func newSegmentGrid(segments []analysis.Segment, column string) (*segmentGrid, []float64, error) {
	type cell struct{ row, col int }
	values := make(map[cell]float64)
	colSet := make(map[int]bool)
	rowSet := make(map[int]bool)

	var valid []float64
	for _, seg := range segments {
		vals, err := seg.Matrix.Column(column)
		if err != nil {
			return nil, nil, fmt.Errorf("segment %s: %w", SegmentLabel(seg), err)
		}
		finite := vals[:0]
		for _, v := range vals {
			if isFinite(v) {
				finite = append(finite, v)
			}
		}
		if len(finite) == 0 {
			continue
		}

		k := cell{}
		if n := len(seg.IDs); n > 0 {
			k.col = seg.IDs[n-1]
			if n > 1 {
				k.row = seg.IDs[n-2]
			}
		}
		v := floats.Max(finite)
		// a broken id sequence can map two segments to one cell
		if prev, ok := values[k]; ok {
			v = math.Max(prev, v)
		}
		values[k] = v
		colSet[k.col] = true
		rowSet[k.row] = true
		valid = append(valid, v)
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no finite values in %q", column)
	}

	g := &segmentGrid{cols: sortedKeys(colSet), rows: sortedKeys(rowSet)}
	colIdx := indexOf(g.cols)
	rowIdx := indexOf(g.rows)
	g.z = make([][]float64, len(g.rows))
	for r := range g.z {
		g.z[r] = make([]float64, len(g.cols))
		for c := range g.z[r] {
			g.z[r][c] = math.NaN()
		}
	}
	for k, v := range values {
		g.z[rowIdx[k.row]][colIdx[k.col]] = v
	}
	return g, valid, nil
}

// CreateSegmentHeatmap renders the maximum of column in every segment as a
// heatmap over the segment id path and returns it as PNG.
func CreateSegmentHeatmap(segments []analysis.Segment, column, title string, width, height float64) ([]byte, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments to plot heatmap")
	}
	grid, valid, err := newSegmentGrid(segments, column)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Segment"
	p.Y.Label.Text = "Parent segment"

	p.X.Tick.Marker = plot.ConstantTicks(idTicks(grid.cols))
	p.Y.Tick.Marker = plot.ConstantTicks(idTicks(grid.rows))
	p.X.Min = -0.5
	p.X.Max = float64(len(grid.cols)) - 0.5
	p.Y.Min = -0.5
	p.Y.Max = float64(len(grid.rows)) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = floats.Min(valid)
	hm.Max = floats.Max(valid)
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	return renderPNG(p, width, height)
}

func idTicks(ids []int) []plot.Tick {
	ticks := make([]plot.Tick, len(ids))
	for i, id := range ids {
		ticks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(id)}
	}
	return ticks
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func indexOf(ids []int) map[int]int {
	out := make(map[int]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}
