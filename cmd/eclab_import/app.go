package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/user/eclab_import_go/internal/config"
	"github.com/user/eclab_import_go/internal/importer"
	"github.com/user/eclab_import_go/internal/logging"
	"github.com/user/eclab_import_go/internal/report"
)

// App wires configuration, logging and the importer behind the commands.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	closer   io.Closer
	importer *importer.Importer
	out      io.Writer
}

// NewApp creates the App for cfg, printing command output to out.
func NewApp(cfg *config.Config, out io.Writer) (*App, error) {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		closer:   closer,
		importer: importer.New(importer.NewRegistry(), logger),
		out:      out,
	}, nil
}

// Close releases the log file, if any.
func (a *App) Close() error {
	return a.closer.Close()
}

func (a *App) sendStatus(message string, args ...any) {
	a.logger.Info(message, args...)
}

// warnExtensions logs the paths no technique claims by extension. They are
// still imported; the descriptor line decides.
func (a *App) warnExtensions(paths []string) {
	for _, p := range paths {
		if !a.importer.Registry().Accepts(p) {
			a.logger.Warn("unexpected file extension", slog.String("path", p))
		}
	}
}

func (a *App) options() importer.Options {
	return importer.Options{
		Technique:       a.cfg.Import.Technique,
		SplitCycles:     a.cfg.Import.SplitCycles,
		SplitHalfCycles: a.cfg.Import.SplitHalfCycles,
		IncludeAll:      a.cfg.Import.IncludeAll,
		PreviewRows:     a.cfg.Import.PreviewRows,
	}
}

type seriesListing struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	Scalar bool   `json:"scalar,omitempty"`
}

type importListing struct {
	ID        string          `json:"id"`
	Path      string          `json:"path"`
	Technique string          `json:"technique"`
	Segments  int             `json:"segments"`
	Series    []seriesListing `json:"series"`
}

// RunImport imports paths and prints the resulting series.
func (a *App) RunImport(ctx context.Context, paths []string, asJSON bool) error {
	a.sendStatus("importing files", slog.Int("files", len(paths)), slog.Int("workers", a.cfg.Import.Workers))
	a.warnExtensions(paths)
	results, err := a.importer.ImportAll(ctx, paths, a.options(), a.cfg.Import.Workers)
	if err != nil {
		return err
	}

	listings := make([]importListing, 0, len(results))
	for _, res := range results {
		sink := &importer.MemorySink{}
		if err := importer.Emit(res, sink); err != nil {
			return err
		}
		l := importListing{
			ID:        res.ID,
			Path:      res.Path,
			Technique: res.Technique.Name,
			Segments:  len(res.Segments),
		}
		for _, s := range sink.Series {
			l.Series = append(l.Series, seriesListing{Name: s.Name, Length: len(s.Values), Scalar: s.Scalar})
		}
		listings = append(listings, l)
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, l := range listings {
		fmt.Fprintf(w, "# %s (%s, %d segments)\n", l.Path, l.Technique, l.Segments)
		for _, s := range l.Series {
			kind := "column"
			if s.Scalar {
				kind = "scalar"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, kind, s.Length)
		}
	}
	return w.Flush()
}

// RunPreview prints the preview of the export at path. An export that cannot
// be parsed prints the placeholder text and is reported as an error.
func (a *App) RunPreview(path string, rows int) error {
	opts := a.options()
	if rows > 0 {
		opts.PreviewRows = rows
	}
	text, ok := a.importer.PreviewFile(path, opts)
	fmt.Fprint(a.out, text)
	if !ok {
		fmt.Fprintln(a.out)
		return fmt.Errorf("%s: cannot be previewed", path)
	}
	return nil
}

// RunReport imports paths and writes their charts and PDF reports.
func (a *App) RunReport(ctx context.Context, paths []string) error {
	a.warnExtensions(paths)
	results, err := a.importer.ImportAll(ctx, paths, a.options(), a.cfg.Import.Workers)
	if err != nil {
		return err
	}
	for _, res := range results {
		a.sendStatus("generating report", slog.String("path", res.Path), slog.String("import_id", res.ID))
		out, err := report.Generate(res, a.cfg.Report, a.logger)
		if err != nil {
			return fmt.Errorf("%s: %w", res.Path, err)
		}
		for _, chart := range out.Charts {
			fmt.Fprintln(a.out, chart)
		}
		if out.PDF != "" {
			fmt.Fprintln(a.out, out.PDF)
		}
	}
	return nil
}

// ListTechniques prints the registered techniques.
func (a *App) ListTechniques() {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, t := range a.importer.Registry().All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Key, t.Name, t.Description)
	}
	w.Flush()
}
