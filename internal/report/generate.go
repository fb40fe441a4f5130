package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/eclab_import_go/internal/config"
	"github.com/user/eclab_import_go/internal/importer"
)

// Output lists the files Generate wrote.
type Output struct {
	Charts []string
	PDF    string
}

// Generate renders the default charts of res into cfg.OutputDir as PNG files,
// followed by the PDF report when cfg.PDF is set. Files are named after the
// imported file, or after the import id for an in-memory import.
func Generate(res *importer.Result, cfg config.ReportConfig, logger *slog.Logger) (*Output, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	base := res.ID
	if res.Path != "" {
		base = strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
	}

	charts, skipped := RenderCharts(res, DefaultCharts(res), cfg.Width, cfg.Height)
	for _, err := range skipped {
		logger.Warn("chart skipped", slog.String("import_id", res.ID), slog.String("error", err.Error()))
	}

	out := &Output{}
	for _, chart := range charts {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.png", base, chart.Key))
		if err := writeFile(path, chart.PNG); err != nil {
			return nil, err
		}
		out.Charts = append(out.Charts, path)
		logger.Debug("chart written", slog.String("path", path))
	}

	if cfg.PDF {
		path := filepath.Join(cfg.OutputDir, base+"_report.pdf")
		if err := BuildPDFReport(path, res, charts, cfg.Height/cfg.Width); err != nil {
			return nil, err
		}
		out.PDF = path
		logger.Debug("report written", slog.String("path", path))
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
