package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// tolerance absorbs floating point noise when comparing lengths in mm.
const tolerance = 1e-9

// wasteScale sets the resolution waste is rounded to (1e-6 mm). Layouts that
// leave the same waste then compare equal regardless of summation order.
const wasteScale = 1e6

// Allocation is one part placed on a sheet a number of times.
type Allocation struct {
	Part     Part `json:"part"`
	Quantity int  `json:"quantity"`
}

// Length returns the sheet length consumed by this allocation.
func (a Allocation) Length(cutMargin float64) float64 {
	return float64(a.Quantity) * (a.Part.UnrolledLength + cutMargin)
}

// Pattern is one proposed layout of parts across a single sheet.
// Patterns are built once by NewPattern and never modified afterwards.
type Pattern struct {
	Allocations    []Allocation `json:"allocations"`
	SheetWidth     float64      `json:"sheet_width"` // usable width the pattern was computed against
	CutMargin      float64      `json:"cut_margin"`  // added to every unit
	UsedSpace      float64      `json:"used_space"`
	Waste          float64      `json:"waste"`
	UtilizationPct float64      `json:"utilization_pct"`
	PriorityScore  int          `json:"priority_score"`
	Strategy       string       `json:"strategy"` // builder that produced the pattern
}

// NewPattern computes the derived metrics for a layout. It returns false when
// the layout is empty, holds a non-positive quantity, repeats a part, or does
// not fit on the sheet.
func NewPattern(allocs []Allocation, sheetWidth, cutMargin float64, strategy string) (Pattern, bool) {
	if len(allocs) == 0 || sheetWidth <= 0 {
		return Pattern{}, false
	}

	seen := make(map[string]bool, len(allocs))
	var used float64
	score := 0
	for _, a := range allocs {
		if a.Quantity <= 0 || seen[a.Part.ItemCode] {
			return Pattern{}, false
		}
		seen[a.Part.ItemCode] = true
		used += a.Length(cutMargin)
		score += a.Quantity * a.Part.Priority()
	}

	waste := sheetWidth - used
	if waste < -tolerance {
		return Pattern{}, false
	}
	waste = math.Max(math.Round(waste*wasteScale)/wasteScale, 0)

	copied := make([]Allocation, len(allocs))
	copy(copied, allocs)

	return Pattern{
		Allocations:    copied,
		SheetWidth:     sheetWidth,
		CutMargin:      cutMargin,
		UsedSpace:      sheetWidth - waste,
		Waste:          waste,
		UtilizationPct: (sheetWidth - waste) / sheetWidth * 100.0,
		PriorityScore:  score,
		Strategy:       strategy,
	}, true
}

// Signature returns a key that is equal for two patterns holding the same
// parts in the same quantities, regardless of allocation order.
func (p Pattern) Signature() string {
	pairs := make([]string, len(p.Allocations))
	for i, a := range p.Allocations {
		pairs[i] = a.Part.ItemCode + "\x00" + strconv.Itoa(a.Quantity)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x01")
}

// Contains reports whether the pattern places the given item.
func (p Pattern) Contains(itemCode string) bool {
	for _, a := range p.Allocations {
		if a.Part.ItemCode == itemCode {
			return true
		}
	}
	return false
}

// QuantityOf returns how many units of the item the pattern places.
func (p Pattern) QuantityOf(itemCode string) int {
	for _, a := range p.Allocations {
		if a.Part.ItemCode == itemCode {
			return a.Quantity
		}
	}
	return 0
}

// PartCount returns the total number of units on the sheet.
func (p Pattern) PartCount() int {
	n := 0
	for _, a := range p.Allocations {
		n += a.Quantity
	}
	return n
}

// Offsets returns the start position of each allocation along the sheet,
// in allocation order.
func (p Pattern) Offsets() []float64 {
	offsets := make([]float64, len(p.Allocations))
	var pos float64
	for i, a := range p.Allocations {
		offsets[i] = pos
		pos += a.Length(p.CutMargin)
	}
	return offsets
}

// Layout describes the pattern as "A1 x4 + B2 x2".
func (p Pattern) Layout() string {
	parts := make([]string, len(p.Allocations))
	for i, a := range p.Allocations {
		parts[i] = fmt.Sprintf("%s x%d", a.Part.ItemCode, a.Quantity)
	}
	return strings.Join(parts, " + ")
}
