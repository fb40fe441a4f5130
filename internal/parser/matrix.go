package parser

import (
	"strconv"
	"strings"
)

// BuildMatrix converts data lines into a DataMatrix. The first line holds
// the tab-separated column names and ends with a delimiter, so its last token
// is dropped. Every following line is a row of numbers using either a comma
// or a dot as decimal separator. With trimTrailing set, a final empty token
// left by a trailing delimiter is dropped from each row before conversion.
func BuildMatrix(lines []string, trimTrailing bool) (*DataMatrix, error) {
	if len(lines) == 0 {
		return nil, &ConversionError{Reason: "no column names line"}
	}

	names := strings.Split(lines[0], "\t")
	names = names[:len(names)-1]

	m := &DataMatrix{
		Columns: names,
		Keys:    append([]string(nil), names...),
		Rows:    make([][]float64, 0, len(lines)-1),
	}

	for i, line := range lines[1:] {
		lineNo := i + 2
		line = strings.TrimRight(line, "\r\n")
		tokens := strings.Split(strings.ReplaceAll(line, ",", "."), "\t")
		if n := len(tokens); trimTrailing && n > 0 && strings.TrimSpace(tokens[n-1]) == "" {
			tokens = tokens[:n-1]
		}
		if len(tokens) != len(names) {
			return nil, &ConversionError{
				Line:   lineNo,
				Reason: "row has " + strconv.Itoa(len(tokens)) + " fields, expected " + strconv.Itoa(len(names)),
			}
		}

		row := make([]float64, len(tokens))
		for j, tok := range tokens {
			v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if err != nil {
				return nil, &ConversionError{Line: lineNo, Token: tok, Reason: "invalid number", Err: err}
			}
			row[j] = v
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

// Len returns the number of rows.
func (m *DataMatrix) Len() int { return len(m.Rows) }

// Width returns the number of columns.
func (m *DataMatrix) Width() int { return len(m.Columns) }

// Index returns the position of the column whose key is name.
func (m *DataMatrix) Index(name string) (int, error) {
	for i, k := range m.Keys {
		if k == name {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Column: name}
}

// Column returns a copy of the values of the column whose key is name.
func (m *DataMatrix) Column(name string) ([]float64, error) {
	idx, err := m.Index(name)
	if err != nil {
		return nil, err
	}
	return m.ColumnAt(idx), nil
}

// ColumnAt returns a copy of the values of the column at idx.
func (m *DataMatrix) ColumnAt(idx int) []float64 {
	out := make([]float64, len(m.Rows))
	for r, row := range m.Rows {
		out[r] = row[idx]
	}
	return out
}

// AppendColumn adds a column at the right edge. The label doubles as its key.
func (m *DataMatrix) AppendColumn(label string, values []float64) error {
	if len(values) != len(m.Rows) {
		return &ConversionError{
			Token:  label,
			Reason: "column length " + strconv.Itoa(len(values)) + " does not match row count " + strconv.Itoa(len(m.Rows)),
		}
	}
	m.Columns = append(m.Columns, label)
	m.Keys = append(m.Keys, label)
	for r := range m.Rows {
		m.Rows[r] = append(m.Rows[r], values[r])
	}
	return nil
}

// Prune removes the named columns. Every name must be present; the matrix is
// left untouched when one is not.
func (m *DataMatrix) Prune(names ...string) error {
	drop := make(map[int]bool, len(names))
	for _, name := range names {
		idx, err := m.Index(name)
		if err != nil {
			return err
		}
		drop[idx] = true
	}
	if len(drop) == 0 {
		return nil
	}

	keep := make([]int, 0, m.Width()-len(drop))
	for i := range m.Keys {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	columns := make([]string, len(keep))
	keys := make([]string, len(keep))
	for j, i := range keep {
		columns[j] = m.Columns[i]
		keys[j] = m.Keys[i]
	}
	for r, row := range m.Rows {
		pruned := make([]float64, len(keep))
		for j, i := range keep {
			pruned[j] = row[i]
		}
		m.Rows[r] = pruned
	}
	m.Columns, m.Keys = columns, keys
	return nil
}
