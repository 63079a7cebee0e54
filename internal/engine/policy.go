package engine

import (
	"math"

	"github.com/piwi3910/StripCut/internal/model"
)

// Per-strategy exploration bounds on the quantity of a single part.
const (
	greedyQuantityCap  = 50
	bestFitQuantityCap = 30
	singleQuantityCap  = 19
	pairQuantityCap    = 14
	tripleQuantityCap  = 7

	exhaustiveSubsetSize = 8
	exhaustiveResultCap  = 100
)

// fitTolerance keeps float noise from dropping a unit that fits exactly.
const fitTolerance = 1e-9

// unitSize returns the sheet length one unit of the part consumes.
func unitSize(p model.Part, cutMargin float64) float64 {
	return p.UnrolledLength + cutMargin
}

// fitCount returns how many units of the given size fit into space.
func fitCount(space, unit float64) int {
	if unit <= 0 || space <= 0 {
		return 0
	}
	return int(math.Floor(space/unit + fitTolerance))
}

// quantityFor applies the quantity policy: physical fit, then the part's
// allowed quantity, then the strategy bound. It returns 0 when nothing fits.
func quantityFor(p model.Part, space, cutMargin float64, bound int) int {
	q := fitCount(space, unitSize(p, cutMargin))
	if allowed := p.AllowedQuantity(); allowed < q {
		q = allowed
	}
	if bound < q {
		q = bound
	}
	if q < 0 {
		return 0
	}
	return q
}

// feasibleParts drops parts that can never be placed: non-positive length,
// nothing left to produce, or a single unit longer than the sheet.
func feasibleParts(parts []model.Part, sheetWidth, cutMargin float64) []model.Part {
	out := make([]model.Part, 0, len(parts))
	for _, p := range parts {
		if p.UnrolledLength <= 0 || p.AllowedQuantity() <= 0 {
			continue
		}
		if fitCount(sheetWidth, unitSize(p, cutMargin)) < 1 {
			continue
		}
		out = append(out, p)
	}
	return out
}
