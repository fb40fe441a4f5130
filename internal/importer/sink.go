package importer

import (
	"fmt"

	"github.com/user/eclab_import_go/internal/analysis"
)

// Sink receives the series of an import, in order.
type Sink interface {
	Add(series analysis.NamedSeries) error
}

// Emit pushes every series of r into sink, stopping at the first error.
func Emit(r *Result, sink Sink) error {
	for _, s := range r.Series {
		if err := sink.Add(s); err != nil {
			return fmt.Errorf("emitting %q: %w", s.Name, err)
		}
	}
	return nil
}

// MemorySink collects series in memory.
type MemorySink struct {
	Series []analysis.NamedSeries
}

// Add appends a series.
func (m *MemorySink) Add(s analysis.NamedSeries) error {
	m.Series = append(m.Series, s)
	return nil
}

// Get returns the series named name.
func (m *MemorySink) Get(name string) (analysis.NamedSeries, bool) {
	for _, s := range m.Series {
		if s.Name == name {
			return s, true
		}
	}
	return analysis.NamedSeries{}, false
}
