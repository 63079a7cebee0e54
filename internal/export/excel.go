package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

const (
	patternsSheet    = "Patterns"
	allocationsSheet = "Allocations"
)

// ExportExcel writes the report to a workbook with a "Patterns" sheet (one row
// per pattern) and an "Allocations" sheet (one row per allocation).
func ExportExcel(path string, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), patternsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(allocationsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	patternRows := [][]interface{}{
		{"Rank", "Layout", "Strategy", "Sheet Width (mm)", "Cut Margin (mm)", "Used (mm)", "Waste (mm)", "Utilization %", "Priority Score", "Units"},
	}
	allocRows := [][]interface{}{
		{"Rank", "Item Code", "Name", "Thickness (mm)", "Quantity", "Unit Length (mm)", "Total Length (mm)", "Offset (mm)", "Priority"},
	}

	for i, p := range report.Patterns {
		patternRows = append(patternRows, []interface{}{
			i + 1, p.Layout(), p.Strategy, p.SheetWidth, p.CutMargin,
			round(p.UsedSpace), round(p.Waste), round(p.UtilizationPct), p.PriorityScore, p.PartCount(),
		})
		offsets := p.Offsets()
		for j, a := range p.Allocations {
			allocRows = append(allocRows, []interface{}{
				i + 1, a.Part.ItemCode, a.Part.Name, a.Part.Thickness, a.Quantity,
				a.Part.UnrolledLength, round(a.Length(p.CutMargin)), round(offsets[j]), a.Part.Priority(),
			})
		}
	}

	if err := writeRows(f, patternsSheet, patternRows, header); err != nil {
		return err
	}
	if err := writeRows(f, allocationsSheet, allocRows, header); err != nil {
		return err
	}
	if err := f.SetColWidth(patternsSheet, "B", "B", 40); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

// round keeps three decimals so spreadsheets do not show float noise.
func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
