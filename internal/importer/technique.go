package importer

import (
	"github.com/user/eclab_import_go/internal/analysis"
	"github.com/user/eclab_import_go/internal/parser"
)

// Options are the per-import toggles.
type Options struct {
	// Technique is a technique key or name; empty or "auto" detects it
	// from the descriptor line.
	Technique string
	// SplitCycles emits one series per column per cycle.
	SplitCycles bool
	// SplitHalfCycles emits one series per column per half cycle. Only
	// techniques with a half-cycle axis honour it.
	SplitHalfCycles bool
	// IncludeAll keeps the mode, range and counter columns.
	IncludeAll bool
	// PreviewRows bounds the rows shown by Preview; 0 means 20.
	PreviewRows int
}

// Axis is one segmentation step: the split column and whether it is on.
type Axis struct {
	Column  string
	Enabled bool
}

// Technique describes how one kind of export is imported.
type Technique struct {
	// Key is the short name used on the command line and in config files.
	Key         string
	Name        string
	Description string
	// Title is the technique as named in error messages.
	Title      string
	Descriptor string
	Extensions []string
	Layout     parser.HeaderLayout
	// TrimTrailingField drops the empty token a trailing tab leaves on
	// every data row.
	TrimTrailingField bool
	Derivation        analysis.Derivation

	// misc lists the non-quantitative columns dropped unless IncludeAll is set.
	misc func(Options) []string
	axes func(Options) []Axis
}

// Pruned returns the columns removed for the given options.
func (t *Technique) Pruned(opts Options) []string {
	if opts.IncludeAll || t.misc == nil {
		return nil
	}
	return t.misc(opts)
}

// Axes returns the segmentation steps for the given options, outermost first.
func (t *Technique) Axes(opts Options) []Axis {
	if t.axes == nil {
		return nil
	}
	return t.axes(opts)
}

var mptExtensions = []string{".mpt", ".MPT"}

// CyclicVoltammetry returns the technique of CV exports.
func CyclicVoltammetry() *Technique {
	return &Technique{
		Key:               "cv",
		Name:              "EC-LAB CV",
		Description:       "Imports cyclic voltammetry measurements from EC-LAB files.",
		Title:             "Cyclic Voltammetry",
		Descriptor:        parser.DescriptorCV,
		Extensions:        append([]string(nil), mptExtensions...),
		Layout:            parser.CVLayout,
		TrimTrailingField: true,
		Derivation:        analysis.CyclicVoltammetry,
		misc: func(Options) []string {
			return []string{"mode", "ox/red", "error", "control changes", "counter inc.", "I Range"}
		},
		axes: func(opts Options) []Axis {
			return []Axis{{Column: analysis.ColumnCycle, Enabled: opts.SplitCycles}}
		},
	}
}

// GalvanostaticCycling returns the technique of GCPL exports.
func GalvanostaticCycling() *Technique {
	return &Technique{
		Key:               "gc",
		Name:              "EC-LAB GC",
		Description:       "Imports galvanostatic cycling measurements from EC-LAB files.",
		Title:             "Galvanostatic Cycling",
		Descriptor:        parser.DescriptorGC,
		Extensions:        append([]string(nil), mptExtensions...),
		Layout:            parser.GCLayout,
		TrimTrailingField: true,
		Derivation:        analysis.GalvanostaticCycling,
		misc: func(opts Options) []string {
			cols := []string{
				"mode", "ox/red", "error", "control changes", "Ns changes", "Ns",
				"counter inc.", "I Range", "dq/mA.h", "control/V/mA", "control/V", "control/mA",
			}
			if !opts.SplitHalfCycles {
				cols = append(cols, analysis.ColumnHalfCycle)
			}
			return cols
		},
		axes: func(opts Options) []Axis {
			return []Axis{
				{Column: analysis.ColumnHalfCycle, Enabled: opts.SplitHalfCycles},
				{Column: analysis.ColumnCycle, Enabled: opts.SplitCycles},
			}
		},
	}
}
