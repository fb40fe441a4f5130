package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/eclab_import_go/internal/config"
)

// flags holds the command line overrides of the configuration.
type flags struct {
	configPath      string
	logLevel        string
	technique       string
	splitCycles     bool
	splitHalfCycles bool
	includeAll      bool
	workers         int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		f   flags
		app *App
	)

	rootCmd := &cobra.Command{
		Use:           "eclab_import",
		Short:         "Import EC-Lab ASCII exports into named data series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &f, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			app, err = NewApp(cfg, cmd.OutOrStdout())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML configuration file (overrides "+config.EnvPrefix+"_CONFIG)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&f.technique, "technique", "", "Technique key or name (auto, cv, gc)")
	pf.BoolVar(&f.splitCycles, "split-cycles", false, "Split into per-cycle series")
	pf.BoolVar(&f.splitHalfCycles, "split-half-cycles", false, "Split into per-half-cycle series (GC only)")
	pf.BoolVar(&f.includeAll, "include-all", false, "Include non-quantitative columns")
	pf.IntVar(&f.workers, "workers", 0, "Number of files imported concurrently")

	current := func() *App { return app }
	rootCmd.AddCommand(
		newImportCmd(current),
		newPreviewCmd(current),
		newReportCmd(current),
		newTechniquesCmd(current),
	)
	return rootCmd
}

// applyFlags copies the flags set on the command line over cfg.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("technique") {
		cfg.Import.Technique = f.technique
	}
	if changed("split-cycles") {
		cfg.Import.SplitCycles = f.splitCycles
	}
	if changed("split-half-cycles") {
		cfg.Import.SplitHalfCycles = f.splitHalfCycles
	}
	if changed("include-all") {
		cfg.Import.IncludeAll = f.includeAll
	}
	if changed("workers") {
		cfg.Import.Workers = f.workers
	}
}

func newImportCmd(app func() *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import exports and list the resulting series",
		Long: `Import one or more EC-Lab exports and list every resulting series with
its length. Files are imported concurrently; the first failure aborts the batch.

Example: eclab_import import run01.mpt run02.mpt --split-cycles --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().RunImport(cmd.Context(), args, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	return cmd
}

func newPreviewCmd(app func() *App) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print the header and the first rows of an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().RunPreview(args[0], rows)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "Number of rows to show (default from configuration)")
	return cmd
}

func newReportCmd(app func() *App) *cobra.Command {
	var (
		outDir string
		noPDF  bool
	)

	cmd := &cobra.Command{
		Use:   "report <files...>",
		Short: "Render charts and a PDF summary for each export",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if cmd.Flags().Changed("out") {
				a.cfg.Report.OutputDir = outDir
			}
			if noPDF {
				a.cfg.Report.PDF = false
			}
			return a.RunReport(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from configuration)")
	cmd.Flags().BoolVar(&noPDF, "no-pdf", false, "Only write the PNG charts")
	return cmd
}

func newTechniquesCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "techniques",
		Short: "List the supported techniques",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app().ListTechniques()
			return nil
		},
	}
}
