package importer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/user/eclab_import_go/internal/analysis"
	"github.com/user/eclab_import_go/internal/logging"
	"github.com/user/eclab_import_go/internal/parser"
)

// PreviewUnavailable is the preview text of an export that cannot be parsed.
const PreviewUnavailable = "File cannot be displayed"

const defaultPreviewRows = 20

// Result is the outcome of one import.
type Result struct {
	ID        string
	Path      string
	Technique *Technique
	Header    *parser.HeaderModel
	// Matrix is the full table, derived columns included, before segmentation.
	Matrix   *parser.DataMatrix
	Segments []analysis.Segment
	Scalars  []analysis.NamedSeries
	// Series lists every column of every segment, followed by the scalars.
	Series []analysis.NamedSeries
}

// Importer runs the import pipeline. It holds no per-import state, so one
// Importer may serve concurrent imports.
type Importer struct {
	registry *Registry
	logger   *slog.Logger
}

// New returns an importer. A nil registry means NewRegistry, a nil logger
// discards records.
func New(registry *Registry, logger *slog.Logger) *Importer {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Importer{registry: registry, logger: logger}
}

// Registry returns the techniques known to the importer.
func (im *Importer) Registry() *Registry { return im.registry }

// Import reads the export at path and imports it.
func (im *Importer) Import(path string, opts Options) (*Result, error) {
	lines, err := parser.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := im.registry.Resolve(opts.Technique, lines)
	if err != nil {
		return nil, err
	}
	res, err := im.ImportLines(t, lines, opts)
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// ImportLines imports the lines of an export with technique t.
func (im *Importer) ImportLines(t *Technique, lines []string, opts Options) (*Result, error) {
	id := uuid.NewString()
	log := im.logger.With(slog.String("import_id", id), slog.String("technique", t.Key))

	header, m, err := im.load(log, t, lines, opts)
	if err != nil {
		return nil, err
	}

	scalars, err := analysis.Derive(m, header, t.Derivation)
	if err != nil {
		return nil, err
	}
	log.Debug("derived columns", slog.Int("columns", m.Width()), slog.Int("scalars", len(scalars)))

	segments := []analysis.Segment{{Matrix: m}}
	for _, axis := range t.Axes(opts) {
		segments, err = analysis.SplitAll(segments, axis.Column, axis.Enabled)
		if err != nil {
			return nil, fmt.Errorf("splitting on %q: %w", axis.Column, err)
		}
	}
	log.Debug("segmented", slog.Int("segments", len(segments)))

	var series []analysis.NamedSeries
	for _, seg := range segments {
		series = append(series, seg.Series()...)
	}
	series = append(series, scalars...)

	return &Result{
		ID:        id,
		Technique: t,
		Header:    header,
		Matrix:    m,
		Segments:  segments,
		Scalars:   scalars,
		Series:    series,
	}, nil
}

// load splits the export, builds the header model and the pruned matrix.
func (im *Importer) load(log *slog.Logger, t *Technique, lines []string, opts Options) (*parser.HeaderModel, *parser.DataMatrix, error) {
	block, data, err := parser.SplitFile(lines, t.Descriptor, t.Title)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("split file", slog.Int("header_lines", len(block)), slog.Int("data_lines", len(data)))

	header, err := parser.ParseHeader(block, t.Layout)
	if err != nil {
		return nil, nil, err
	}

	m, err := parser.BuildMatrix(data, t.TrimTrailingField)
	if err != nil {
		return nil, nil, err
	}
	if pruned := t.Pruned(opts); len(pruned) > 0 {
		if err := m.Prune(pruned...); err != nil {
			return nil, nil, err
		}
	}
	log.Debug("built matrix", slog.Int("rows", m.Len()), slog.Int("columns", m.Width()))
	return header, m, nil
}

// Preview renders the header text, the column names and the first rows of
// the pruned matrix. It returns PreviewUnavailable and false when the export
// cannot be parsed.
func (im *Importer) Preview(t *Technique, lines []string, opts Options) (string, bool) {
	log := im.logger.With(slog.String("technique", t.Key))
	header, m, err := im.load(log, t, lines, opts)
	if err != nil {
		log.Debug("preview failed", slog.String("error", err.Error()))
		return PreviewUnavailable, false
	}

	limit := opts.PreviewRows
	if limit <= 0 {
		limit = defaultPreviewRows
	}
	if limit > m.Len() {
		limit = m.Len()
	}

	var b strings.Builder
	b.WriteString(header.Block.String())
	b.WriteString(strings.Join(m.Columns, "\t"))
	b.WriteString("\n")
	for _, row := range m.Rows[:limit] {
		for _, v := range row {
			fmt.Fprintf(&b, "%.4e\t", v)
		}
		b.WriteString("\n")
	}
	return b.String(), true
}

// PreviewFile reads the export at path and previews it.
func (im *Importer) PreviewFile(path string, opts Options) (string, bool) {
	lines, err := parser.ReadFile(path)
	if err != nil {
		return PreviewUnavailable, false
	}
	t, err := im.registry.Resolve(opts.Technique, lines)
	if err != nil {
		return PreviewUnavailable, false
	}
	return im.Preview(t, lines, opts)
}
