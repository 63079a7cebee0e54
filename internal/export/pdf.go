package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/StripCut/internal/model"
)

// partColor represents an RGB color for an allocation segment.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	stripTop     = marginTop + headerHeight + 14.0
	stripHeight  = 35.0
	drawWidth    = pageWidth - marginLeft - marginRight
)

// ExportPDF generates a PDF document with one page per pattern, showing the
// sheet as a strip with every unit drawn to scale, followed by a summary page.
func ExportPDF(path string, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, p := range report.Patterns {
		pdf.AddPage()
		renderPatternPage(pdf, report, p, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report)

	return pdf.OutputFileAndClose(path)
}

// renderPatternPage draws a single pattern on the current PDF page.
func renderPatternPage(pdf *fpdf.Fpdf, report Report, p model.Pattern, rank int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Pattern %d: %s", rank, p.Layout())
	pdf.CellFormat(drawWidth, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sheet: %.0f mm (raw %.0f, trim %.1f) | Cut margin: %.1f mm | Used: %.1f mm | Waste: %.1f mm | Utilization: %.2f%% | Priority score: %d",
		p.SheetWidth, report.Settings.RawSheetWidth, report.Settings.EdgeTrim, p.CutMargin,
		p.UsedSpace, p.Waste, p.UtilizationPct, p.PriorityScore)
	pdf.CellFormat(drawWidth, 5, stats, "", 0, "L", false, 0, "")

	drawStrip(pdf, report.Settings, p)
	drawAllocationTable(pdf, p, stripTop+stripHeight+14)
}

// drawStrip renders the raw sheet width as a horizontal strip: units from the
// left, cut margins in grey, waste hatched and the edge trim at the far end.
func drawStrip(pdf *fpdf.Fpdf, settings model.Settings, p model.Pattern) {
	raw := settings.RawSheetWidth
	if raw < p.SheetWidth {
		raw = p.SheetWidth
	}
	scale := drawWidth / raw
	x0 := marginLeft

	pdf.SetFillColor(220, 220, 220)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(x0, stripTop, raw*scale, stripHeight, "FD")

	offsets := p.Offsets()
	for i, a := range p.Allocations {
		col := partColors[i%len(partColors)]
		unit := a.Part.UnrolledLength * scale
		gap := p.CutMargin * scale

		for u := 0; u < a.Quantity; u++ {
			ux := x0 + (offsets[i]+float64(u)*(a.Part.UnrolledLength+p.CutMargin))*scale

			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.2)
			pdf.Rect(ux, stripTop, unit, stripHeight, "FD")

			if gap > 0 {
				pdf.SetFillColor(120, 120, 120)
				pdf.Rect(ux+unit, stripTop, gap, stripHeight, "F")
			}

			if unit > 8 {
				pdf.SetFont("Helvetica", "", labelFontSize(unit))
				pdf.SetTextColor(0, 0, 0)
				w := pdf.GetStringWidth(a.Part.ItemCode)
				if w < unit-1 {
					pdf.SetXY(ux+(unit-w)/2, stripTop+stripHeight/2-2)
					pdf.CellFormat(w, 4, a.Part.ItemCode, "", 0, "C", false, 0, "")
				}
			}
		}
	}

	if p.Waste > 0 {
		wx := x0 + p.UsedSpace*scale
		ww := p.Waste * scale
		pdf.SetFillColor(255, 230, 230)
		pdf.SetDrawColor(200, 0, 0)
		pdf.Rect(wx, stripTop, ww, stripHeight, "FD")
		drawHatchPattern(pdf, wx, stripTop, ww, stripHeight, 200, 0, 0)
	}

	if trim := raw - p.SheetWidth; trim > 0 {
		tx := x0 + p.SheetWidth*scale
		pdf.SetFillColor(230, 230, 230)
		pdf.SetDrawColor(90, 90, 90)
		pdf.Rect(tx, stripTop, trim*scale, stripHeight, "FD")
		drawHatchPattern(pdf, tx, stripTop, trim*scale, stripHeight, 90, 90, 90)
	}

	drawDimensionAnnotations(pdf, raw, p, scale)
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64, r, g, b int) {
	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + max(0, d-h)
		y1 := y + min(h, d)
		x2 := x + min(w, d)
		y2 := y + max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the usable width below the strip and the
// waste above it.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, raw float64, p model.Pattern, scale float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	usable := fmt.Sprintf("usable %.1f mm", p.SheetWidth)
	w := pdf.GetStringWidth(usable)
	pdf.SetXY(marginLeft+(p.SheetWidth*scale-w)/2, stripTop+stripHeight+1)
	pdf.CellFormat(w, 4, usable, "", 0, "C", false, 0, "")

	rawLabel := fmt.Sprintf("raw %.0f mm", raw)
	w = pdf.GetStringWidth(rawLabel)
	pdf.SetXY(marginLeft+raw*scale-w, stripTop+stripHeight+5)
	pdf.CellFormat(w, 4, rawLabel, "", 0, "R", false, 0, "")

	if p.Waste > 0 {
		pdf.SetTextColor(180, 0, 0)
		waste := fmt.Sprintf("waste %.1f mm", p.Waste)
		w = pdf.GetStringWidth(waste)
		pdf.SetXY(marginLeft+p.UsedSpace*scale, stripTop-5)
		pdf.CellFormat(w, 4, waste, "", 0, "L", false, 0, "")
	}
}

// drawAllocationTable lists the allocations of a pattern below the strip.
func drawAllocationTable(pdf *fpdf.Fpdf, p model.Pattern, y float64) {
	colWidths := []float64{12, 35, 80, 20, 30, 30, 30, 30}
	headers := []string{"", "Item", "Name", "Qty", "Unit (mm)", "Total (mm)", "Offset (mm)", "Priority"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	offsets := p.Offsets()
	for i, a := range p.Allocations {
		col := partColors[i%len(partColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(marginLeft+4, y+1.5, 4, 3, "F")

		row := []string{
			"",
			a.Part.ItemCode,
			a.Part.Name,
			fmt.Sprintf("%d", a.Quantity),
			fmt.Sprintf("%.1f", a.Part.UnrolledLength),
			fmt.Sprintf("%.1f", a.Length(p.CutMargin)),
			fmt.Sprintf("%.1f", offsets[i]),
			priorityLabel(a.Part),
		}
		x = marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", false, 0, "")
			x += colWidths[j]
		}
		y += 6
	}
}

// renderSummaryPage draws the final page: settings, ranked pattern table and
// reusable remnants.
func renderSummaryPage(pdf *fpdf.Fpdf, report Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(drawWidth, 10, report.Title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 16
	settingsItems := []struct {
		label string
		value string
	}{
		{"Thickness", fmt.Sprintf("%.2f mm", report.Group.Thickness)},
		{"Raw Width", fmt.Sprintf("%.1f mm", report.Settings.RawSheetWidth)},
		{"Edge Trim", fmt.Sprintf("%.1f mm", report.Settings.EdgeTrim)},
		{"Usable Width", fmt.Sprintf("%.1f mm", report.Settings.UsableWidth())},
		{"Cut Margin", fmt.Sprintf("%.1f mm", report.Settings.CutMargin)},
	}
	if report.ItemCode != "" {
		settingsItems = append([]struct {
			label string
			value string
		}{{"Selected Item", report.ItemCode}}, settingsItems...)
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(40, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(40, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		y += 5
	}
	y += 4

	colWidths := []float64{14, 110, 30, 28, 28, 27, 30}
	headers := []string{"#", "Layout", "Strategy", "Used (mm)", "Waste (mm)", "Util. %", "Priority"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	for i, p := range report.Patterns {
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			p.Layout(),
			p.Strategy,
			fmt.Sprintf("%.1f", p.UsedSpace),
			fmt.Sprintf("%.1f", p.Waste),
			fmt.Sprintf("%.2f", p.UtilizationPct),
			fmt.Sprintf("%d", p.PriorityScore),
		}
		x = marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 5, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 5
	}

	remnants := model.DetectAllRemnants(report.Patterns, model.MinRemnantWidth)
	if len(remnants) > 0 && y < pageHeight-marginBottom-20 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 6, fmt.Sprintf("Reusable remnants (>= %.0f mm)", model.MinRemnantWidth), "", 0, "L", false, 0, "")
		y += 7
		pdf.SetFont("Helvetica", "", 9)
		for _, r := range remnants {
			if y > pageHeight-marginBottom-8 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- Pattern %d: %.1f mm from %.1f mm", r.PatternIndex+1, r.Length, r.Offset), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := "Generated by StripCut"
	if !report.GeneratedAt.IsZero() {
		footer += " on " + report.GeneratedAt.Format("2006-01-02 15:04")
	}
	pdf.CellFormat(drawWidth, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns a font size that fits a segment of width w.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 9
	case w > 20:
		return 7
	default:
		return 5
	}
}

func priorityLabel(p model.Part) string {
	if p.Priority() == model.PriorityHigh {
		return "urgent"
	}
	return "restock"
}
