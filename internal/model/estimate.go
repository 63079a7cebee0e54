package model

import "math"

// SheetEstimate holds the result of a sheet requirement calculation for a group.
type SheetEstimate struct {
	TotalLength       float64 `json:"total_length"`        // mm of sheet needed for every shortfall unit, margins included
	ShortfallUnits    int     `json:"shortfall_units"`     // units that must be produced
	UsableWidth       float64 `json:"usable_width"`        // mm per sheet
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // fractional sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // ceiling of exact
	SheetsWithWaste   int     `json:"sheets_with_waste"`   // including the waste factor
	WastePercent      float64 `json:"waste_percent"`       // e.g. 10 for 10%
	CutMargin         float64 `json:"cut_margin"`
}

// EstimateSheets computes how many sheets are needed to cover the shortfall of
// every part, accounting for the per-unit cut margin and a waste factor.
func EstimateSheets(parts []Part, usableWidth, cutMargin, wastePercent float64) SheetEstimate {
	var totalLength float64
	units := 0
	for _, p := range parts {
		n := p.Shortfall()
		units += n
		totalLength += float64(n) * (p.UnrolledLength + cutMargin)
	}

	if usableWidth <= 0 {
		return SheetEstimate{
			TotalLength:    totalLength,
			ShortfallUnits: units,
			WastePercent:   wastePercent,
			CutMargin:      cutMargin,
		}
	}

	exact := totalLength / usableWidth
	minSheets := int(math.Ceil(exact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minSheets {
		withWaste = minSheets
	}

	return SheetEstimate{
		TotalLength:       totalLength,
		ShortfallUnits:    units,
		UsableWidth:       usableWidth,
		SheetsNeededExact: exact,
		SheetsNeededMin:   minSheets,
		SheetsWithWaste:   withWaste,
		WastePercent:      wastePercent,
		CutMargin:         cutMargin,
	}
}
