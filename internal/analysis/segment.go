package analysis

import (
	"strconv"

	"github.com/user/eclab_import_go/internal/parser"
)

// Split columns.
const (
	ColumnCycle     = "cycle number"
	ColumnHalfCycle = "half cycle"
)

// Split partitions m into runs of consecutive rows on the integer value of
// column. When disabled, m is returned as the only segment.
//
// The first segment takes the id read on the first row. Every change of
// value closes the current segment and opens the next one with the id
// incremented by one, whatever the new raw value is. Column labels of each
// segment get the " (<id>)" suffix. Rows are copied.
func Split(m *parser.DataMatrix, column string, enabled bool) ([]Segment, error) {
	return splitSegment(Segment{Matrix: m}, column, enabled)
}

// SplitAll applies Split to every segment and flattens the result in order.
func SplitAll(segments []Segment, column string, enabled bool) ([]Segment, error) {
	if !enabled {
		return segments, nil
	}
	var out []Segment
	for _, seg := range segments {
		parts, err := splitSegment(seg, column, enabled)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

func splitSegment(parent Segment, column string, enabled bool) ([]Segment, error) {
	m := parent.Matrix
	if !enabled || m.Len() == 0 {
		return []Segment{parent}, nil
	}
	idx, err := m.Index(column)
	if err != nil {
		return nil, err
	}

	id := int(m.Rows[0][idx])
	var (
		segments []Segment
		rows     [][]float64
	)
	closeSegment := func() {
		segments = append(segments, newSegment(parent, id, rows))
	}
	for _, row := range m.Rows {
		if int(row[idx]) != id {
			closeSegment()
			rows = nil
			id++
		}
		rows = append(rows, append([]float64(nil), row...))
	}
	closeSegment()
	return segments, nil
}

func newSegment(parent Segment, id int, rows [][]float64) Segment {
	m := parent.Matrix
	suffix := " (" + strconv.Itoa(id) + ")"
	labels := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		labels[i] = c + suffix
	}
	ids := make([]int, len(parent.IDs), len(parent.IDs)+1)
	copy(ids, parent.IDs)

	return Segment{
		IDs: append(ids, id),
		Matrix: &parser.DataMatrix{
			Columns: labels,
			Keys:    append([]string(nil), m.Keys...),
			Rows:    rows,
		},
	}
}
