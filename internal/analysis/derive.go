package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/user/eclab_import_go/internal/parser"
)

// Column names read from the exports.
const (
	ColumnCurrent  = "<I>/mA"
	ColumnCharge   = "(Q-Qo)/C"
	ColumnCapacity = "Capacity/mA.h"
)

// coulombsPerMilliampHour converts C to mA.h.
const coulombsPerMilliampHour = 3.6

// CyclicVoltammetry derives current density and charge per mass, and exposes
// mass, surface, scan rate and reference offset as scalars.
func CyclicVoltammetry(h *parser.HeaderModel) ([]Rule, []NamedSeries) {
	chargePerMass := "(Q-Qo)_per_mass/C/" + h.MassUnit
	rules := []Rule{
		{Label: "<I>_per_surf/mA/" + h.SurfaceUnit, Source: ColumnCurrent, Divisor: h.Surface},
		{Label: chargePerMass, Source: ColumnCharge, Divisor: h.Mass},
		{Label: "(Q-Qo)/mA.h", Source: ColumnCharge, Divisor: coulombsPerMilliampHour},
		// reads the column derived two rules above
		{Label: "(Q-Qo)_per_mass/mA.h/" + h.MassUnit, Source: chargePerMass, Divisor: coulombsPerMilliampHour},
	}
	scalars := []NamedSeries{
		NewScalar("mass/"+h.MassUnit, h.Mass),
		NewScalar("surface/"+h.SurfaceUnit, h.Surface),
		NewScalar("scan_rate/"+h.ScanRateUnit, h.ScanRate),
		NewScalar("offset_voltage/VvsNHE", h.OffsetVoltageVsSHE),
	}
	return rules, scalars
}

// GalvanostaticCycling derives capacity per mass, and exposes mass, surface
// and reference offset as scalars.
func GalvanostaticCycling(h *parser.HeaderModel) ([]Rule, []NamedSeries) {
	rules := []Rule{
		{Label: "Capacity_per_mass/mA.h/" + h.MassUnit, Source: ColumnCapacity, Divisor: h.Mass},
	}
	scalars := []NamedSeries{
		NewScalar("mass/"+h.MassUnit, h.Mass),
		NewScalar("surface/"+h.SurfaceUnit, h.Surface),
		NewScalar("offset_voltage/VvsNHE", h.OffsetVoltageVsSHE),
	}
	return rules, scalars
}

// Derive appends the derived columns of d to m, in rule order, and returns
// the scalar series. A rule may read a column appended by an earlier rule.
func Derive(m *parser.DataMatrix, h *parser.HeaderModel, d Derivation) ([]NamedSeries, error) {
	rules, scalars := d(h)
	for _, rule := range rules {
		src, err := m.Column(rule.Source)
		if err != nil {
			return nil, fmt.Errorf("deriving %q: %w", rule.Label, err)
		}
		divisors := make([]float64, len(src))
		floats.AddConst(rule.Divisor, divisors)
		derived := make([]float64, len(src))
		floats.DivTo(derived, src, divisors)
		if err := m.AppendColumn(rule.Label, derived); err != nil {
			return nil, err
		}
	}
	return scalars, nil
}
