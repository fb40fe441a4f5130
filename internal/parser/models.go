package parser

import "strings"

// Signature is the first line of every EC-Lab ASCII export.
const Signature = "EC-Lab ASCII FILE\n"

// HeaderLengthMarker tags the line declaring the number of header lines.
const HeaderLengthMarker = "Nb header lines"

// Technique descriptor lines, as written on the fourth line of an export.
const (
	DescriptorCV = "Cyclic Voltammetry\n"
	DescriptorGC = "Galvanostatic Cycling with Potential Limitation\n"
)

// HeaderBlock holds the metadata lines of an export, terminators included.
// The first line is always the technique descriptor.
type HeaderBlock []string

// String joins the header lines back into the text read from the file.
func (b HeaderBlock) String() string {
	return strings.Join(b, "")
}

// DataMatrix is a rectangular numeric table with named columns.
//
// Columns holds the labels emitted to the caller; segmentation suffixes them
// with the segment id. Keys holds the names read from the file (or given to
// derived columns) and is what lookups match against, so a split column can
// still be found after its labels have been suffixed.
type DataMatrix struct {
	Columns []string
	Keys    []string
	Rows    [][]float64
}

// HeaderLayout selects the set of header parameters a technique declares.
type HeaderLayout int

const (
	CVLayout HeaderLayout = iota
	GCLayout
)

func (l HeaderLayout) String() string {
	switch l {
	case CVLayout:
		return "cv"
	case GCLayout:
		return "gc"
	}
	return "unknown"
}

// HeaderModel is the typed view of the instrument parameters found in a
// header block. Only the fields of the layout it was built for are set.
type HeaderModel struct {
	Layout HeaderLayout
	Block  HeaderBlock

	ReferenceElectrode string
	OffsetVoltageVsSHE float64
	Surface            float64
	SurfaceUnit        string
	Mass               float64
	MassUnit           string

	// Cyclic voltammetry.
	ScanRate     float64
	ScanRateUnit string

	// Galvanostatic cycling. The three lists are independent and may differ in length.
	Currents          []float64
	CurrentsUnits     []string
	ThresholdVoltages []float64
}
