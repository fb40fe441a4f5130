package analysis

import "github.com/user/eclab_import_go/internal/parser"

// NamedSeries is one output dataset: a column of a segment, or a scalar
// header parameter (Scalar set, exactly one value).
type NamedSeries struct {
	Name   string
	Values []float64
	Scalar bool
}

// NewScalar returns a single-value series.
func NewScalar(name string, value float64) NamedSeries {
	return NamedSeries{Name: name, Values: []float64{value}, Scalar: true}
}

// Segment is a run of consecutive rows sharing a split-column value.
//
// IDs holds one id per split applied, outermost first; it is empty for a
// matrix that was not split.
type Segment struct {
	IDs    []int
	Matrix *parser.DataMatrix
}

// Series returns one series per column of the segment, labelled with the
// segment's column labels.
func (s Segment) Series() []NamedSeries {
	out := make([]NamedSeries, 0, s.Matrix.Width())
	for i, label := range s.Matrix.Columns {
		out = append(out, NamedSeries{Name: label, Values: s.Matrix.ColumnAt(i)})
	}
	return out
}

// Rule derives a column by dividing an existing column by a constant.
type Rule struct {
	Label   string
	Source  string
	Divisor float64
}

// Derivation returns the derived columns and scalar series a technique adds
// for a given header.
type Derivation func(h *parser.HeaderModel) ([]Rule, []NamedSeries)
