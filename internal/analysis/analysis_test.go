package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/eclab_import_go/internal/parser"
)

func matrix(columns []string, rows ...[]float64) *parser.DataMatrix {
	return &parser.DataMatrix{
		Columns: append([]string(nil), columns...),
		Keys:    append([]string(nil), columns...),
		Rows:    rows,
	}
}

func TestSplitDisabledReturnsInput(t *testing.T) {
	m := matrix([]string{ColumnCycle, "Ewe/V"}, []float64{1, 0.1}, []float64{2, 0.2})

	segs, err := Split(m, ColumnCycle, false)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Same(t, m, segs[0].Matrix)
	assert.Empty(t, segs[0].IDs)
}

func TestSplitByCycle(t *testing.T) {
	m := matrix([]string{ColumnCycle, "Ewe/V"},
		[]float64{1, 0.1}, []float64{1, 0.2},
		[]float64{2, 0.3}, []float64{2, 0.4},
	)

	segs, err := Split(m, ColumnCycle, true)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, []int{1}, segs[0].IDs)
	assert.Equal(t, []string{"cycle number (1)", "Ewe/V (1)"}, segs[0].Matrix.Columns)
	assert.Equal(t, [][]float64{{1, 0.1}, {1, 0.2}}, segs[0].Matrix.Rows)

	assert.Equal(t, []int{2}, segs[1].IDs)
	assert.Equal(t, []string{"cycle number (2)", "Ewe/V (2)"}, segs[1].Matrix.Columns)
	assert.Equal(t, [][]float64{{2, 0.3}, {2, 0.4}}, segs[1].Matrix.Rows)

	assert.Equal(t, []string{ColumnCycle, "Ewe/V"}, segs[1].Matrix.Keys, "keys keep the file names")
}

func TestSplitIncrementsIDByOne(t *testing.T) {
	// Cycle 2 is missing from the raw data: the id still only moves by one
	// per boundary, so the second run of 3s no longer matches its id.
	m := matrix([]string{ColumnCycle}, []float64{1}, []float64{1.9}, []float64{3}, []float64{3})

	segs, err := Split(m, ColumnCycle, true)
	require.NoError(t, err)

	var (
		ids   []int
		sizes []int
	)
	total := 0
	for _, s := range segs {
		ids = append(ids, s.IDs[0])
		sizes = append(sizes, s.Matrix.Len())
		total += s.Matrix.Len()
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
	assert.Equal(t, []int{2, 1, 1}, sizes, "1.9 truncates to 1")
	assert.Equal(t, m.Len(), total)
	assert.Equal(t, []string{"cycle number (3)"}, segs[2].Matrix.Columns)
}

func TestSplitCopiesRows(t *testing.T) {
	m := matrix([]string{ColumnCycle, "x"}, []float64{1, 10})
	segs, err := Split(m, ColumnCycle, true)
	require.NoError(t, err)

	segs[0].Matrix.Rows[0][1] = 99
	assert.Equal(t, 10.0, m.Rows[0][1])
}

func TestSplitErrors(t *testing.T) {
	m := matrix([]string{"x"}, []float64{1})
	_, err := Split(m, ColumnCycle, true)
	assert.ErrorIs(t, err, parser.ErrColumnNotFound)

	empty := matrix([]string{ColumnCycle})
	segs, err := Split(empty, ColumnCycle, true)
	require.NoError(t, err)
	assert.Len(t, segs, 1)
}

func TestSplitAllChainsAxes(t *testing.T) {
	m := matrix([]string{ColumnCycle, ColumnHalfCycle, "Ewe/V"},
		[]float64{1, 0, 3.0}, []float64{1, 0, 3.1},
		[]float64{1, 1, 3.2},
		[]float64{2, 2, 3.3}, []float64{2, 2, 3.4},
	)

	halves, err := Split(m, ColumnHalfCycle, true)
	require.NoError(t, err)
	require.Len(t, halves, 3)

	segs, err := SplitAll(halves, ColumnCycle, true)
	require.NoError(t, err)
	require.Len(t, segs, 3)

	assert.Equal(t, []int{0, 1}, segs[0].IDs)
	assert.Equal(t, []int{1, 1}, segs[1].IDs)
	assert.Equal(t, []int{2, 2}, segs[2].IDs)
	assert.Equal(t, "Ewe/V (2) (2)", segs[2].Matrix.Columns[2])

	unchanged, err := SplitAll(halves, ColumnCycle, false)
	require.NoError(t, err)
	assert.Equal(t, halves, unchanged)
}

func TestSplitAllFlattensInOrder(t *testing.T) {
	m := matrix([]string{ColumnCycle, ColumnHalfCycle},
		[]float64{1, 0}, []float64{2, 0},
		[]float64{2, 1}, []float64{3, 1},
	)
	halves, err := Split(m, ColumnHalfCycle, true)
	require.NoError(t, err)

	segs, err := SplitAll(halves, ColumnCycle, true)
	require.NoError(t, err)
	require.Len(t, segs, 4)
	for i, want := range [][]int{{0, 1}, {0, 2}, {1, 2}, {1, 3}} {
		assert.Equal(t, want, segs[i].IDs)
	}
}

func cvHeader() *parser.HeaderModel {
	return &parser.HeaderModel{
		Layout:             parser.CVLayout,
		ReferenceElectrode: "Ag/AgCl",
		OffsetVoltageVsSHE: 0.197,
		Surface:            2,
		SurfaceUnit:        "cm²",
		Mass:               1.5,
		MassUnit:           "mg",
		ScanRate:           20,
		ScanRateUnit:       "mV/s",
	}
}

func TestDeriveCyclicVoltammetry(t *testing.T) {
	m := matrix([]string{ColumnCycle, ColumnCurrent, ColumnCharge}, []float64{1, 5, 10}, []float64{1, 6, 12})
	h := cvHeader()

	scalars, err := Derive(m, h, CyclicVoltammetry)
	require.NoError(t, err)

	assert.Equal(t, []string{
		ColumnCycle, ColumnCurrent, ColumnCharge,
		"<I>_per_surf/mA/cm²",
		"(Q-Qo)_per_mass/C/mg",
		"(Q-Qo)/mA.h",
		"(Q-Qo)_per_mass/mA.h/mg",
	}, m.Columns)
	for _, row := range m.Rows {
		assert.Len(t, row, m.Width())
	}

	density, err := m.Column("<I>_per_surf/mA/cm²")
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 3.0}, density)

	perMass, err := m.Column("(Q-Qo)_per_mass/C/mg")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{6.667, 8.0}, perMass, 1e-3)

	current, _ := m.Column(ColumnCurrent)
	charge, _ := m.Column(ColumnCharge)
	for i := range current {
		assert.InDelta(t, current[i], density[i]*h.Surface, 1e-12)
		assert.InDelta(t, charge[i], perMass[i]*h.Mass, 1e-12)
	}

	mah, _ := m.Column("(Q-Qo)/mA.h")
	assert.InDeltaSlice(t, []float64{10 / 3.6, 12 / 3.6}, mah, 1e-12)
	perMassMah, _ := m.Column("(Q-Qo)_per_mass/mA.h/mg")
	assert.InDeltaSlice(t, []float64{10 / 1.5 / 3.6, 12 / 1.5 / 3.6}, perMassMah, 1e-12)

	assert.Equal(t, []NamedSeries{
		NewScalar("mass/mg", 1.5),
		NewScalar("surface/cm²", 2),
		NewScalar("scan_rate/mV/s", 20),
		NewScalar("offset_voltage/VvsNHE", 0.197),
	}, scalars)
}

func TestDeriveGalvanostaticCycling(t *testing.T) {
	m := matrix([]string{ColumnCapacity}, []float64{0.5}, []float64{1.2})
	h := &parser.HeaderModel{Layout: parser.GCLayout, Mass: 2, MassUnit: "mg", Surface: 1, SurfaceUnit: "cm²"}

	scalars, err := Derive(m, h, GalvanostaticCycling)
	require.NoError(t, err)

	col, err := m.Column("Capacity_per_mass/mA.h/mg")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.6}, col)
	assert.Len(t, scalars, 3)
}

func TestDeriveMissingColumn(t *testing.T) {
	m := matrix([]string{ColumnCurrent}, []float64{1})
	_, err := Derive(m, cvHeader(), CyclicVoltammetry)
	assert.ErrorIs(t, err, parser.ErrColumnNotFound)
}

func TestSegmentSeries(t *testing.T) {
	m := matrix([]string{"a (1)", "b (1)"}, []float64{1, 2}, []float64{3, 4})
	series := Segment{Matrix: m}.Series()
	assert.Equal(t, []NamedSeries{
		{Name: "a (1)", Values: []float64{1, 3}},
		{Name: "b (1)", Values: []float64{2, 4}},
	}, series)
}
