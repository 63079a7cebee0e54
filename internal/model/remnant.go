package model

import "sort"

// MinRemnantWidth is the minimum leftover length (in mm) for the waste strip of
// a pattern to be kept as reusable stock. Anything shorter is scrap.
const MinRemnantWidth = 100.0

// Remnant is the usable strip left at the end of a sheet after a pattern is cut.
type Remnant struct {
	PatternIndex int     `json:"pattern_index"`
	Offset       float64 `json:"offset"` // mm from the start of the usable width
	Length       float64 `json:"length"` // mm
}

// DetectRemnant returns the waste strip of a pattern when it is at least
// minLength long. Parts are laid out from the start of the sheet, so the
// remnant always sits at the far end.
func DetectRemnant(p Pattern, patternIndex int, minLength float64) (Remnant, bool) {
	if p.Waste < minLength || p.Waste <= 0 {
		return Remnant{}, false
	}
	return Remnant{
		PatternIndex: patternIndex,
		Offset:       p.UsedSpace,
		Length:       p.Waste,
	}, true
}

// DetectAllRemnants finds the reusable remnants across a ranked pattern list,
// longest first.
func DetectAllRemnants(patterns []Pattern, minLength float64) []Remnant {
	var all []Remnant
	for i, p := range patterns {
		if r, ok := DetectRemnant(p, i, minLength); ok {
			all = append(all, r)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Length > all[j].Length
	})
	return all
}

// TotalRemnantLength returns the summed length of all remnants in mm.
func TotalRemnantLength(remnants []Remnant) float64 {
	var total float64
	for _, r := range remnants {
		total += r.Length
	}
	return total
}
