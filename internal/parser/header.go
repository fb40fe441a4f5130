package parser

import (
	"strconv"
	"strings"
)

// Header markers shared by every layout.
const (
	MarkerReferenceElectrode = "Reference electrode :"
	MarkerSurface            = "Electrode surface area :"
	MarkerMass               = "Characteristic mass :"
)

// Cyclic voltammetry markers.
const (
	MarkerScanRate     = "dE/dt"
	MarkerScanRateUnit = "dE/dt unit"
)

// Galvanostatic cycling markers.
const (
	MarkerCurrents          = "Is"
	MarkerCurrentsUnits     = "unit Is"
	MarkerThresholdVoltages = "EM (V)"
)

// Markers returns the header markers a layout requires, in lookup order.
func (l HeaderLayout) Markers() []string {
	common := []string{MarkerReferenceElectrode, MarkerSurface, MarkerMass}
	switch l {
	case CVLayout:
		return append(common, MarkerScanRate, MarkerScanRateUnit)
	case GCLayout:
		return append(common, MarkerCurrents, MarkerCurrentsUnits, MarkerThresholdVoltages)
	}
	return common
}

// Extract returns the text following the last occurrence of marker on the
// first line containing it, with trailing whitespace removed.
func Extract(lines []string, marker string) (string, error) {
	for _, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		trimmed := strings.TrimRight(line, " \t\r\n")
		idx := strings.LastIndex(trimmed, marker)
		if idx < 0 {
			// the marker ended in whitespace that was trimmed away
			return "", nil
		}
		return trimmed[idx+len(marker):], nil
	}
	return "", &MissingFieldError{Marker: marker}
}

// ParseHeader builds the header model of a layout. Every marker of the layout
// must be present.
func ParseHeader(block HeaderBlock, layout HeaderLayout) (*HeaderModel, error) {
	values := make(map[string]string)
	for _, marker := range layout.Markers() {
		v, err := Extract(block, marker)
		if err != nil {
			return nil, err
		}
		values[marker] = strings.TrimSpace(v)
	}

	h := &HeaderModel{Layout: layout, Block: block}
	var err error
	if h.ReferenceElectrode, h.OffsetVoltageVsSHE, err = parseReferenceElectrode(values[MarkerReferenceElectrode]); err != nil {
		return nil, err
	}
	if h.Surface, h.SurfaceUnit, err = parseQuantity(values[MarkerSurface]); err != nil {
		return nil, err
	}
	if h.Mass, h.MassUnit, err = parseQuantity(values[MarkerMass]); err != nil {
		return nil, err
	}

	switch layout {
	case CVLayout:
		if h.ScanRate, err = ParseDecimal(values[MarkerScanRate]); err != nil {
			return nil, &ConversionError{Token: values[MarkerScanRate], Reason: "invalid scan rate", Err: err}
		}
		h.ScanRateUnit = values[MarkerScanRateUnit]
	case GCLayout:
		if h.Currents, err = parseDecimalList(values[MarkerCurrents]); err != nil {
			return nil, err
		}
		h.CurrentsUnits = strings.Fields(values[MarkerCurrentsUnits])
		if h.ThresholdVoltages, err = parseDecimalList(values[MarkerThresholdVoltages]); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Params returns the header as a mapping from parameter name to value, with
// the parameter names of the model's layout.
func (h *HeaderModel) Params() map[string]any {
	params := map[string]any{
		"reference_electrode":   h.ReferenceElectrode,
		"offset_voltage_vs_SHE": h.OffsetVoltageVsSHE,
		"surface":               h.Surface,
		"surface_unit":          h.SurfaceUnit,
		"mass":                  h.Mass,
		"mass_unit":             h.MassUnit,
	}
	switch h.Layout {
	case CVLayout:
		params["scan_rate"] = h.ScanRate
		params["scan_rate_unit"] = h.ScanRateUnit
	case GCLayout:
		params["currents"] = h.Currents
		params["currents_units"] = h.CurrentsUnits
		params["threshold_voltages"] = h.ThresholdVoltages
	}
	return params
}

// ParseDecimal parses a number that may use a comma as decimal separator.
func ParseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
}

// parseReferenceElectrode splits "Ag/AgCl (0,197 V)" into the electrode name
// and its offset against the standard hydrogen electrode. The offset is read
// from the last parenthesis group, without its closing unit character and
// parenthesis.
func parseReferenceElectrode(s string) (string, float64, error) {
	open := strings.LastIndex(s, "(")
	if open < 0 || open+1 > len(s)-2 {
		return "", 0, &ConversionError{Token: s, Reason: "malformed reference electrode"}
	}
	name := ""
	if open > 0 {
		name = s[:open-1]
	}
	offset, err := ParseDecimal(s[open+1 : len(s)-2])
	if err != nil {
		return "", 0, &ConversionError{Token: s, Reason: "invalid reference electrode offset", Err: err}
	}
	return name, offset, nil
}

// parseQuantity splits a "value unit" pair separated by a single space.
func parseQuantity(s string) (float64, string, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 {
		return 0, "", &ConversionError{Token: s, Reason: "expected value and unit"}
	}
	v, err := ParseDecimal(parts[0])
	if err != nil {
		return 0, "", &ConversionError{Token: s, Reason: "invalid quantity", Err: err}
	}
	return v, parts[1], nil
}

func parseDecimalList(s string) ([]float64, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", "."))
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &ConversionError{Token: f, Reason: "invalid number", Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}
