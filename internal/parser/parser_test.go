package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cvExport = "EC-Lab ASCII FILE\n" +
	"Nb header lines : 10\n" +
	"\n" +
	"Cyclic Voltammetry\n" +
	"Reference electrode : Ag/AgCl (0,197 V)\n" +
	"Electrode surface area : 2,00 cm²\n" +
	"Characteristic mass : 1,50 mg\n" +
	"dE/dt               20,000\n" +
	"dE/dt unit          mV/s\n" +
	"cycle number\t<I>/mA\t(Q-Qo)/C\t\n" +
	"1\t5,0\t10,0\t\n" +
	"1\t6,0\t12,0\t\n" +
	"\n"

const gcHeader = "EC-Lab ASCII FILE\n" +
	"Nb header lines : 12\n" +
	"\n" +
	"Galvanostatic Cycling with Potential Limitation\n" +
	"Run on channel : 1\n" +
	"Reference electrode : Li/Li+ (3.5 M) (-3,04 V)\n" +
	"Electrode surface area : 1,131 cm²\n" +
	"Characteristic mass : 2,4 mg\n" +
	"Is                  0,100               -0,100\n" +
	"unit Is             mA                  mA                  mA\n" +
	"EM (V)              4,200\n"

func lines(t *testing.T, s string) []string {
	t.Helper()
	out, err := ReadLines(strings.NewReader(s))
	require.NoError(t, err)
	return out
}

func TestSplitFile(t *testing.T) {
	header, data, err := SplitFile(lines(t, cvExport), DescriptorCV, "Cyclic Voltammetry")
	require.NoError(t, err)

	assert.Equal(t, HeaderBlock{
		"Cyclic Voltammetry\n",
		"Reference electrode : Ag/AgCl (0,197 V)\n",
		"Electrode surface area : 2,00 cm²\n",
		"Characteristic mass : 1,50 mg\n",
		"dE/dt               20,000\n",
		"dE/dt unit          mV/s\n",
	}, header)
	assert.Equal(t, []string{
		"cycle number\t<I>/mA\t(Q-Qo)/C\t\n",
		"1\t5,0\t10,0\t\n",
		"1\t6,0\t12,0\t\n",
	}, data)
}

func TestSplitFileIsIdempotent(t *testing.T) {
	in := lines(t, cvExport)
	h1, d1, err := SplitFile(in, DescriptorCV, "Cyclic Voltammetry")
	require.NoError(t, err)
	h2, d2, err := SplitFile(in, DescriptorCV, "Cyclic Voltammetry")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, d1, d2)
}

func TestSplitFileKeepsLastRowWithoutBlankLine(t *testing.T) {
	_, data, err := SplitFile(lines(t, strings.TrimSuffix(cvExport, "\n")), DescriptorCV, "Cyclic Voltammetry")
	require.NoError(t, err)
	assert.Len(t, data, 3)
}

func TestSplitFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		target  error
		message string
	}{
		{"bad signature", strings.Replace(cvExport, "EC-Lab ASCII FILE", "BioLogic", 1), ErrFormat, "not a EC-LAB file"},
		{"wrong technique", strings.Replace(cvExport, "Cyclic Voltammetry\n", "Chronoamperometry\n", 1), ErrFormat, "not a Cyclic Voltammetry file"},
		{"no header length", strings.Replace(cvExport, "Nb header lines : 10", "Header lines : 10", 1), ErrMissingField, "Nb header lines"},
		{"bad header length", strings.Replace(cvExport, ": 10", ": ten", 1), ErrConversion, "invalid header length"},
		{"empty", "", ErrFormat, "not a EC-LAB file"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := SplitFile(lines(t, tc.input), DescriptorCV, "Cyclic Voltammetry")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestDescriptorLine(t *testing.T) {
	desc, err := DescriptorLine(lines(t, gcHeader))
	require.NoError(t, err)
	assert.Equal(t, DescriptorGC, desc)
}

func TestReadLinesNormalizesEncodingAndTerminators(t *testing.T) {
	raw := "EC-Lab ASCII FILE\r\nElectrode surface area : 2,00 cm\xb2\r\n"
	got, err := ReadLines(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"EC-Lab ASCII FILE\n", "Electrode surface area : 2,00 cm²\n"}, got)

	bom := "\xef\xbb\xbfEC-Lab ASCII FILE\n"
	got, err = ReadLines(strings.NewReader(bom))
	require.NoError(t, err)
	assert.Equal(t, []string{"EC-Lab ASCII FILE\n"}, got)
}

func TestExtract(t *testing.T) {
	block := []string{
		"Cyclic Voltammetry\n",
		"dE/dt               20,000   \n",
		"dE/dt unit          mV/s\n",
		"a : b : c\n",
	}

	v, err := Extract(block, "dE/dt")
	require.NoError(t, err)
	assert.Equal(t, "20,000", strings.TrimSpace(v), "first matching line wins")
	assert.False(t, strings.HasSuffix(v, " "), "trailing whitespace is stripped")

	v, err = Extract(block, "dE/dt unit")
	require.NoError(t, err)
	assert.Equal(t, "mV/s", strings.TrimSpace(v))

	v, err = Extract(block, " : ")
	require.NoError(t, err)
	assert.Equal(t, "c", v, "text after the last occurrence")

	_, err = Extract(block, "Characteristic mass :")
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Characteristic mass :", missing.Marker)
}

func TestParseHeaderCV(t *testing.T) {
	header, _, err := SplitFile(lines(t, cvExport), DescriptorCV, "Cyclic Voltammetry")
	require.NoError(t, err)

	h, err := ParseHeader(header, CVLayout)
	require.NoError(t, err)
	assert.Equal(t, "Ag/AgCl", h.ReferenceElectrode)
	assert.InDelta(t, 0.197, h.OffsetVoltageVsSHE, 1e-12)
	assert.Equal(t, 2.0, h.Surface)
	assert.Equal(t, "cm²", h.SurfaceUnit)
	assert.Equal(t, 1.5, h.Mass)
	assert.Equal(t, "mg", h.MassUnit)
	assert.Equal(t, 20.0, h.ScanRate)
	assert.Equal(t, "mV/s", h.ScanRateUnit)

	params := h.Params()
	assert.Len(t, params, 8)
	assert.Equal(t, "mV/s", params["scan_rate_unit"])
}

func TestParseHeaderGC(t *testing.T) {
	header, _, err := SplitFile(lines(t, gcHeader), DescriptorGC, "Galvanostatic Cycling")
	require.NoError(t, err)

	h, err := ParseHeader(header, GCLayout)
	require.NoError(t, err)
	assert.Equal(t, "Li/Li+ (3.5 M)", h.ReferenceElectrode, "offset is read from the last parenthesis")
	assert.InDelta(t, -3.04, h.OffsetVoltageVsSHE, 1e-12)
	assert.InDelta(t, 1.131, h.Surface, 1e-12)
	assert.Equal(t, 2.4, h.Mass)
	assert.Equal(t, []float64{0.1, -0.1}, h.Currents)
	assert.Equal(t, []string{"mA", "mA", "mA"}, h.CurrentsUnits)
	assert.Equal(t, []float64{4.2}, h.ThresholdVoltages)
	assert.Len(t, h.Params(), 9)
}

func TestParseHeaderErrors(t *testing.T) {
	base := HeaderBlock{
		"Cyclic Voltammetry\n",
		"Reference electrode : Ag/AgCl (0,197 V)\n",
		"Electrode surface area : 2,00 cm²\n",
		"Characteristic mass : 1,50 mg\n",
		"dE/dt               20,000\n",
		"dE/dt unit          mV/s\n",
	}
	replace := func(i int, line string) HeaderBlock {
		b := append(HeaderBlock(nil), base...)
		b[i] = line
		return b
	}

	tests := []struct {
		name   string
		block  HeaderBlock
		target error
	}{
		{"missing mass", replace(3, "Mass : 1 mg\n"), ErrMissingField},
		{"no parenthesis", replace(1, "Reference electrode : Ag/AgCl\n"), ErrConversion},
		{"bad offset", replace(1, "Reference electrode : Ag/AgCl (abc V)\n"), ErrConversion},
		{"surface without unit", replace(2, "Electrode surface area : 2,00\n"), ErrConversion},
		{"bad scan rate", replace(4, "dE/dt               fast\n"), ErrConversion},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHeader(tc.block, CVLayout)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	for _, s := range []string{"1,23", "1.23", " 1,23 "} {
		v, err := ParseDecimal(s)
		require.NoError(t, err)
		assert.Equal(t, 1.23, v, s)
	}
	_, err := ParseDecimal("1,2,3")
	assert.Error(t, err)
}

func TestBuildMatrix(t *testing.T) {
	_, data, err := SplitFile(lines(t, cvExport), DescriptorCV, "Cyclic Voltammetry")
	require.NoError(t, err)

	m, err := BuildMatrix(data, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"cycle number", "<I>/mA", "(Q-Qo)/C"}, m.Columns)
	assert.Equal(t, m.Columns, m.Keys)
	assert.Equal(t, [][]float64{{1, 5, 10}, {1, 6, 12}}, m.Rows)
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Len())

	col, err := m.Column("<I>/mA")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, col)
}

func TestBuildMatrixErrors(t *testing.T) {
	names := "a\tb\t\n"
	tests := []struct {
		name         string
		lines        []string
		trimTrailing bool
		target       error
	}{
		{"ragged row", []string{names, "1\t2\t3\t\n"}, true, ErrConversion},
		{"not a number", []string{names, "1\tx\t\n"}, true, ErrConversion},
		{"trailing field kept", []string{names, "1\t2\t\n"}, false, ErrConversion},
		{"no names", nil, true, ErrConversion},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildMatrix(tc.lines, tc.trimTrailing)
			assert.ErrorIs(t, err, tc.target)
		})
	}

	m, err := BuildMatrix([]string{names, "1\t2\n"}, false)
	require.NoError(t, err, "rows without a trailing delimiter convert when trimming is off")
	assert.Equal(t, [][]float64{{1, 2}}, m.Rows)
}

func TestPrune(t *testing.T) {
	m, err := BuildMatrix([]string{"mode\tEwe/V\tI Range\t<I>/mA\t\n", "1\t0,5\t41\t2,0\t\n"}, true)
	require.NoError(t, err)

	require.NoError(t, m.Prune("mode", "I Range"))
	assert.Equal(t, []string{"Ewe/V", "<I>/mA"}, m.Columns)
	assert.Equal(t, [][]float64{{0.5, 2}}, m.Rows)
	assert.Equal(t, m.Width(), len(m.Rows[0]))

	err = m.Prune("Ewe/V", "ox/red")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.Equal(t, []string{"Ewe/V", "<I>/mA"}, m.Columns, "failed prune leaves the matrix untouched")
}

func TestAppendColumn(t *testing.T) {
	m := &DataMatrix{Columns: []string{"a"}, Keys: []string{"a"}, Rows: [][]float64{{1}, {2}}}
	require.NoError(t, m.AppendColumn("b", []float64{3, 4}))
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, m.Rows)
	assert.ErrorIs(t, m.AppendColumn("c", []float64{1}), ErrConversion)
	assert.Equal(t, 2, m.Width())
}
