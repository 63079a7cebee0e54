package engine

import (
	"sort"

	"github.com/piwi3910/StripCut/internal/model"
)

// dedupe keeps the first pattern for every signature, preserving order.
func dedupe(patterns []model.Pattern) []model.Pattern {
	seen := make(map[string]bool, len(patterns))
	unique := make([]model.Pattern, 0, len(patterns))
	for _, p := range patterns {
		sig := p.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		unique = append(unique, p)
	}
	return unique
}

// rank orders patterns by waste ascending, then priority score descending.
// The sort is stable so equal patterns keep their pooled order and any
// prefix of the result is the same for every truncation length.
func rank(patterns []model.Pattern) []model.Pattern {
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Waste != patterns[j].Waste {
			return patterns[i].Waste < patterns[j].Waste
		}
		return patterns[i].PriorityScore > patterns[j].PriorityScore
	})
	return patterns
}
