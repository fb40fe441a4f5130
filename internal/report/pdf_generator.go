package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/eclab_import_go/internal/importer"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	tr          func(string) string
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // To manually track Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf: pdf,
		// core fonts are cp1252; units such as cm² and µg need translating
		tr:          pdf.UnicodeTranslatorFromDescriptor(""),
		styles:      make(map[string]func()),
		lineHeight:  6,
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(s.tr(text)), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, s.tr(text), "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.currentY += height
	if s.currentY > s.pageHeight {
		s.newPage()
	}
}

// addTable draws a header row and the rows below it, repeating the header
// after a page break.
func (s *pdfStyler) addTable(headers []string, widthsRel []float64, rows [][]string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}
	drawHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, header := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, s.tr(header), "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	drawHeader()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			drawHeader()
		}
		s.applyStyle("tableCell")
		x := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, s.tr(cell), "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string, styleName string) {
	// The name is the key gofpdf refers to the image data by.
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin+(pdfContentWidth-width)/2, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, styleName, "C")
	}
	s.addSpacer(2)
}

// WritePDFReport renders the import summary of res and its charts to w: the
// header parameters, per-segment column statistics, then one chart per page.
func WritePDFReport(w io.Writer, res *importer.Result, charts []Chart, chartAspect float64) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(res.Technique.Name+" import report", true)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	source := res.Path
	if source == "" {
		source = "(in memory)"
	} else {
		source = filepath.Base(source)
	}
	styler.writeParagraph(fmt.Sprintf("%s Import Report", res.Technique.Title), "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("File: %s", source), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Import ID: %s", res.ID), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Segments: %d   Series: %d", len(res.Segments), len(res.Series)), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Header Parameters", "h2", "L")
	params := res.Header.Params()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paramRows := make([][]string, 0, len(keys))
	for _, k := range keys {
		paramRows = append(paramRows, []string{k, formatParam(params[k])})
	}
	styler.addTable([]string{"Parameter", "Value"}, []float64{0.4, 0.6}, paramRows)
	styler.addSpacer(5)

	styler.writeParagraph("Column Statistics", "h2", "L")
	var statRows [][]string
	for _, seg := range res.Segments {
		label := SegmentLabel(seg)
		for _, st := range ColumnStats(seg) {
			statRows = append(statRows, []string{
				label,
				st.Column,
				fmt.Sprintf("%d", st.Count),
				formatStat(st.Min),
				formatStat(st.Max),
				formatStat(st.Mean),
				formatStat(st.StdDev),
			})
		}
	}
	styler.addTable(
		[]string{"Segment", "Column", "Points", "Min", "Max", "Mean", "Std Dev"},
		[]float64{0.1, 0.3, 0.08, 0.13, 0.13, 0.13, 0.13},
		statRows,
	)

	imgWidth := pdfContentWidth * 0.9
	imgHeight := imgWidth * chartAspect
	for _, chart := range charts {
		styler.newPage()
		styler.writeParagraph(chart.Title, "h2", "L")
		if len(chart.PNG) == 0 {
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", chart.Title), "normal", "L")
			continue
		}
		styler.addImage(chart.PNG, chart.Key, imgWidth, imgHeight, chart.Caption, "normal")
	}

	return pdf.Output(w)
}

// BuildPDFReport writes the report of res to filepath.
func BuildPDFReport(path string, res *importer.Result, charts []Chart, chartAspect float64) error {
	var buf bytes.Buffer
	if err := WritePDFReport(&buf, res, charts, chartAspect); err != nil {
		return fmt.Errorf("failed to build PDF report: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

func formatParam(v any) string {
	switch v := v.(type) {
	case float64:
		return fmt.Sprintf("%g", v)
	case []float64:
		return fmt.Sprintf("%g", v)
	case []string:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprint(v)
	}
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}
