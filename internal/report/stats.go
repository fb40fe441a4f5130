package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/eclab_import_go/internal/analysis"
)

// ColumnStat summarizes one column of a segment. Non-finite values are left
// out; a column without finite values has Count 0 and NaN statistics.
type ColumnStat struct {
	Column string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// ColumnStats summarizes every column of seg, in column order.
func ColumnStats(seg analysis.Segment) []ColumnStat {
	m := seg.Matrix
	out := make([]ColumnStat, 0, m.Width())
	for i, label := range m.Columns {
		var finite []float64
		for _, v := range m.ColumnAt(i) {
			if isFinite(v) {
				finite = append(finite, v)
			}
		}

		s := ColumnStat{Column: label, Count: len(finite)}
		switch len(finite) {
		case 0:
			s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		case 1:
			s.Min, s.Max, s.Mean, s.StdDev = finite[0], finite[0], finite[0], 0
		default:
			s.Min = floats.Min(finite)
			s.Max = floats.Max(finite)
			s.Mean, s.StdDev = stat.MeanStdDev(finite, nil)
		}
		out = append(out, s)
	}
	return out
}
