package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	inchToMM        = 25.4
	pdfPageWidth    = 8.5 * inchToMM // Letter portrait
	pdfPageHeight   = 11 * inchToMM
	pdfMargin       = 0.5 * inchToMM
	pdfContentWidth = pdfPageWidth - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and flowing-layout state for the PDF
// report.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	styles     map[string]func()
	lineHeight float64
	currentY   float64
	pageHeight float64
	contentTop float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:        pdf,
		styles:     make(map[string]func()),
		lineHeight: 6,
		pageHeight: pdfPageHeight - (2 * pdfMargin),
		contentTop: pdfMargin,
	}
	s.currentY = s.contentTop
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 13)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(220, 220, 220)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["pass"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 140, 0)
	}
	s.styles["fail"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
	s.styles["na"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(120, 120, 120)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.contentTop
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// tableRow writes one row of cells with the given relative widths. Styles
// may name a per-cell style; an empty entry falls back to tableCell.
func (s *pdfStyler) tableRow(cells []string, widthsRel []float64, cellStyles []string, fill bool) {
	s.checkAddPage(s.lineHeight)
	x := pdfMargin
	for i, cell := range cells {
		style := "tableCell"
		if cellStyles != nil && cellStyles[i] != "" {
			style = cellStyles[i]
		}
		s.applyStyle(style)
		s.pdf.SetXY(x, s.currentY)
		w := widthsRel[i] * pdfContentWidth
		s.pdf.CellFormat(w, s.lineHeight, cell, "1", 0, "C", fill, 0, "")
		x += w
	}
	s.currentY += s.lineHeight
}

func (s *pdfStyler) tableHeaderRow(headers []string, widthsRel []float64) {
	styles := make([]string, len(headers))
	for i := range styles {
		styles[i] = "tableHeader"
	}
	s.tableRow(headers, widthsRel, styles, true)
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))
	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}
	s.checkAddPage(height)
	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height
	s.addSpacer(2)
}

// gaugeBar draws the energy gauge: a filled bar at the energy percent with
// red marks at the min/max threshold positions.
func (s *pdfStyler) gaugeBar(scale EnergyScale) {
	barHeight := 6.0
	s.checkAddPage(barHeight + 2)
	y := s.currentY

	s.pdf.SetFillColor(225, 225, 225)
	s.pdf.Rect(pdfMargin, y, pdfContentWidth, barHeight, "F")

	fill := scale.EnergyPercent / 100 * pdfContentWidth
	if fill < 0 {
		fill = 0
	}
	if fill > pdfContentWidth {
		fill = pdfContentWidth
	}
	s.pdf.SetFillColor(31, 111, 235)
	s.pdf.Rect(pdfMargin, y, fill, barHeight, "F")

	s.pdf.SetDrawColor(200, 0, 0)
	for _, pct := range []float64{scale.MinPercent, scale.MaxPercent} {
		if pct < 0 || pct > 100 {
			continue
		}
		x := pdfMargin + pct/100*pdfContentWidth
		s.pdf.Line(x, y, x, y+barHeight)
	}
	s.pdf.SetDrawColor(0, 0, 0)
	s.currentY = y + barHeight + 2
}

// verdictStyle maps a tri-state verdict to a cell style name.
func verdictStyle(v *bool) string {
	switch {
	case v == nil:
		return "na"
	case *v:
		return "pass"
	default:
		return "fail"
	}
}

// verdictText maps a tri-state verdict to its display label.
func verdictText(v *bool) string {
	switch {
	case v == nil:
		return "N/A"
	case *v:
		return "PASS"
	default:
		return "FAIL"
	}
}

// boundText formats an optional threshold bound.
func boundText(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// PDFRenderer writes the printable report document. It holds only static
// layout configuration and is safe for concurrent use.
type PDFRenderer struct{}

// NewPDFRenderer returns the PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render writes the report document for ctx to w. Charts are rasterized
// first so a plot failure aborts before any PDF bytes are produced.
func (r *PDFRenderer) Render(w io.Writer, ctx *Context) error {
	posPlot, err := ForcePositionPlot(ctx)
	if err != nil {
		return fmt.Errorf("failed to render position chart: %w", err)
	}
	timePlot, err := ForceTimePlot(ctx)
	if err != nil {
		return fmt.Errorf("failed to render time chart: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()
	styler := newPDFStyler(pdf)

	styler.writeParagraph(ctx.Title, "h1", "C")
	styler.writeParagraph(fmt.Sprintf("%s, Serial %s", ctx.DeviceName, ctx.SerialNumber), "normal", "C")
	styler.addSpacer(3)

	styler.writeParagraph(fmt.Sprintf("%s: %s", verdictText(ctx.OverallPass), ctx.Reason), verdictStyle(ctx.OverallPass), "C")
	styler.addSpacer(3)

	metaWidths := []float64{0.25, 0.25, 0.25, 0.25}
	styler.tableHeaderRow([]string{"Job Number", "Op Number", "Firmware", "App Version"}, metaWidths)
	styler.tableRow([]string{ctx.JobNumber, ctx.OpNumber, ctx.FirmwareVersion, ctx.AppVersion}, metaWidths, nil, false)
	styler.tableHeaderRow([]string{"Force Mode", "Date", "Time", "Duration"}, metaWidths)
	styler.tableRow([]string{ctx.ForceMode, ctx.Date, ctx.Time, ctx.Duration}, metaWidths, nil, false)
	styler.addSpacer(4)

	styler.writeParagraph("Thresholds", "h2", "L")
	thWidths := []float64{0.28, 0.18, 0.18, 0.18, 0.18}
	styler.tableHeaderRow([]string{"Criterion", "Measured", "Min", "Max", "Result"}, thWidths)
	styler.tableRow([]string{"Force (kg)", fmt.Sprintf("%.2f", ctx.PeakForce),
		boundText(ctx.Thresholds.ForceMin), boundText(ctx.Thresholds.ForceMax), verdictText(ctx.ForcePass)},
		thWidths, []string{"", "", "", "", verdictStyle(ctx.ForcePass)}, false)
	styler.tableRow([]string{"Endpoint (mm)", fmt.Sprintf("%.2f", ctx.Endpoint),
		boundText(ctx.Thresholds.EndpointMin), boundText(ctx.Thresholds.EndpointMax), verdictText(ctx.EndpointPass)},
		thWidths, []string{"", "", "", "", verdictStyle(ctx.EndpointPass)}, false)
	styler.tableRow([]string{"Energy (J)", fmt.Sprintf("%.2f", ctx.Energy),
		boundText(ctx.Thresholds.EnergyMin), boundText(ctx.Thresholds.EnergyMax), verdictText(ctx.EnergyPass)},
		thWidths, []string{"", "", "", "", verdictStyle(ctx.EnergyPass)}, false)
	styler.addSpacer(4)

	styler.writeParagraph("Cycle Summary", "h2", "L")
	sumWidths := []float64{0.34, 0.33, 0.33}
	styler.tableHeaderRow([]string{"Peak Force Position (mm)", "Start Position (mm)", "Data Points"}, sumWidths)
	styler.tableRow([]string{fmt.Sprintf("%.2f", ctx.PeakForcePosition),
		fmt.Sprintf("%.2f", ctx.StartPosition), strconv.Itoa(ctx.DataPoints)}, sumWidths, nil, false)
	styler.tableHeaderRow([]string{"Press Startpoint (mm)", "Press Threshold (kg)", "Energy Source"}, sumWidths)
	energySource := "integrated from force"
	if ctx.HasEnergyData {
		energySource = "logged channel"
	}
	styler.tableRow([]string{boundText(ctx.Thresholds.PressStartpoint),
		boundText(ctx.Thresholds.PressThreshold), energySource}, sumWidths, nil, false)
	styler.addSpacer(4)

	styler.writeParagraph(fmt.Sprintf("Energy: %.2f J", ctx.Energy), "h2", "L")
	styler.gaugeBar(ctx.Gauge)
	styler.addSpacer(4)

	imgWidth := pdfContentWidth
	imgHeight := imgWidth * (400.0 / 800.0)
	styler.addImage(posPlot, "force_position", imgWidth, imgHeight)
	styler.addImage(timePlot, "force_time", imgWidth, imgHeight)

	styler.pdf.AddPage()
	styler.currentY = styler.contentTop
	styler.writeParagraph("Raw Data", "h2", "L")
	rawWidths := []float64{0.25, 0.25, 0.25, 0.25}
	styler.tableHeaderRow([]string{"Time (s)", "Position (mm)", "Force (kg)", "Energy (J)"}, rawWidths)
	for _, sample := range ctx.RawData {
		styler.tableRow([]string{
			fmt.Sprintf("%.3f", sample.ElapsedS),
			fmt.Sprintf("%.3f", sample.PositionMM),
			fmt.Sprintf("%.3f", sample.ForceKG),
			fmt.Sprintf("%.3f", sample.EnergyJ),
		}, rawWidths, nil, false)
	}

	styler.addSpacer(2)
	styler.writeParagraph(fmt.Sprintf("Generated %s", ctx.GeneratedAt), "na", "L")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}
