package engine

import (
	"context"
	"math"
	"sort"

	"github.com/piwi3910/StripCut/internal/model"
)

// Strategy names recorded on every pattern a builder produces.
const (
	StrategyGreedySize     = "greedy-size"
	StrategyGreedyPriority = "greedy-priority"
	StrategyBestFit        = "best-fit"
	StrategyExhaustive     = "exhaustive"
)

// builder is one pattern generation strategy.
type builder struct {
	name  string
	build func(ctx context.Context, parts []model.Part) []model.Pattern
}

// builders returns the strategies in the order their output is pooled.
// Deduplication keeps the first pattern per signature, so order matters.
func (o *Optimizer) builders() []builder {
	return []builder{
		{name: StrategyGreedySize, build: o.buildGreedyBySize},
		{name: StrategyGreedyPriority, build: o.buildGreedyByPriority},
		{name: StrategyBestFit, build: o.buildBestFit},
		{name: StrategyExhaustive, build: o.buildExhaustive},
	}
}

// buildGreedyBySize packs parts longest first (first-fit decreasing).
func (o *Optimizer) buildGreedyBySize(_ context.Context, parts []model.Part) []model.Pattern {
	ordered := make([]model.Part, len(parts))
	copy(ordered, parts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UnrolledLength > ordered[j].UnrolledLength
	})
	return o.greedy(ordered, StrategyGreedySize)
}

// buildGreedyByPriority packs parts under unmet demand first, longest first
// within the same priority.
func (o *Optimizer) buildGreedyByPriority(_ context.Context, parts []model.Part) []model.Pattern {
	ordered := make([]model.Part, len(parts))
	copy(ordered, parts)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i].Priority(), ordered[j].Priority()
		if pi != pj {
			return pi > pj
		}
		return ordered[i].UnrolledLength > ordered[j].UnrolledLength
	})
	return o.greedy(ordered, StrategyGreedyPriority)
}

// greedy walks the parts once, packing as many units of each as the
// quantity policy allows into the space that is left.
func (o *Optimizer) greedy(ordered []model.Part, strategy string) []model.Pattern {
	width, margin := o.sheetWidth, o.Settings.CutMargin
	remaining := width

	var allocs []model.Allocation
	for _, p := range ordered {
		qty := quantityFor(p, remaining, margin, greedyQuantityCap)
		if qty <= 0 {
			continue
		}
		allocs = append(allocs, model.Allocation{Part: p, Quantity: qty})
		remaining -= float64(qty) * unitSize(p, margin)
	}

	if pattern, ok := model.NewPattern(allocs, width, margin, strategy); ok {
		return []model.Pattern{pattern}
	}
	return nil
}

// buildBestFit repeatedly picks the (part, quantity) pair leaving the least
// space, using each part at most once. The first minimal pair found while
// scanning parts, then quantities, in catalog order wins ties.
func (o *Optimizer) buildBestFit(_ context.Context, parts []model.Part) []model.Pattern {
	width, margin := o.sheetWidth, o.Settings.CutMargin
	remaining := width

	pool := make([]model.Part, len(parts))
	copy(pool, parts)

	var allocs []model.Allocation
	for len(pool) > 0 && remaining > 0 {
		bestIdx, bestQty := -1, 0
		bestWaste := math.Inf(1)

		for i, p := range pool {
			limit := quantityFor(p, remaining, margin, bestFitQuantityCap)
			unit := unitSize(p, margin)
			for qty := 1; qty <= limit; qty++ {
				waste := remaining - float64(qty)*unit
				if waste < bestWaste {
					bestWaste = waste
					bestIdx = i
					bestQty = qty
				}
			}
		}

		if bestIdx < 0 {
			break
		}

		chosen := pool[bestIdx]
		allocs = append(allocs, model.Allocation{Part: chosen, Quantity: bestQty})
		remaining -= float64(bestQty) * unitSize(chosen, margin)
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}

	if pattern, ok := model.NewPattern(allocs, width, margin, StrategyBestFit); ok {
		return []model.Pattern{pattern}
	}
	return nil
}

// buildExhaustive enumerates one-, two- and three-part combinations over the
// first parts of the catalog.
func (o *Optimizer) buildExhaustive(ctx context.Context, parts []model.Part) []model.Pattern {
	subset := parts
	if len(subset) > exhaustiveSubsetSize {
		subset = subset[:exhaustiveSubsetSize]
	}

	s := &exhaustiveSearch{
		ctx:       ctx,
		width:     o.sheetWidth,
		margin:    o.Settings.CutMargin,
		nodeLimit: o.Settings.ExhaustiveNodeLimit,
	}

	for i, p := range subset {
		s.singles(p)
		for j, other := range subset {
			if i != j && other.ItemCode != p.ItemCode {
				s.pairs(p, other)
			}
		}
	}
	for i := 0; i < len(subset); i++ {
		for j := i + 1; j < len(subset); j++ {
			for k := j + 1; k < len(subset); k++ {
				s.triples(subset[i], subset[j], subset[k])
			}
		}
	}

	if s.stopped && len(s.out) < exhaustiveResultCap {
		o.logger.Debug("exhaustive search cut short", "nodes", s.nodes, "patterns", len(s.out))
	}
	return s.out
}

// exhaustiveSearch carries the bounds of one exhaustive enumeration. The
// search stops once it holds exhaustiveResultCap patterns, after nodeLimit
// combinations, or when the context is done.
type exhaustiveSearch struct {
	ctx       context.Context
	width     float64
	margin    float64
	nodeLimit int

	nodes   int
	stopped bool
	out     []model.Pattern
}

// visit counts one evaluated combination and reports whether to go on.
func (s *exhaustiveSearch) visit() bool {
	if s.stopped {
		return false
	}
	s.nodes++
	if s.nodeLimit > 0 && s.nodes > s.nodeLimit {
		s.stopped = true
	} else if s.nodes&1023 == 0 && s.ctx.Err() != nil {
		s.stopped = true
	}
	return !s.stopped
}

func (s *exhaustiveSearch) add(allocs ...model.Allocation) {
	pattern, ok := model.NewPattern(allocs, s.width, s.margin, StrategyExhaustive)
	if !ok {
		return
	}
	s.out = append(s.out, pattern)
	if len(s.out) >= exhaustiveResultCap {
		s.stopped = true
	}
}

// fills reports whether used leaves no room for another part.
func (s *exhaustiveSearch) fills(used float64) bool {
	return used >= s.width-fitTolerance
}

func (s *exhaustiveSearch) singles(p model.Part) {
	limit := quantityFor(p, s.width, s.margin, singleQuantityCap)
	for qty := 1; qty <= limit && s.visit(); qty++ {
		s.add(model.Allocation{Part: p, Quantity: qty})
	}
}

func (s *exhaustiveSearch) pairs(a, b model.Part) {
	ua := unitSize(a, s.margin)
	limitA := minInt(pairQuantityCap, a.AllowedQuantity())

	for qa := 1; qa <= limitA && !s.stopped; qa++ {
		used := float64(qa) * ua
		if s.fills(used) {
			break
		}
		limitB := quantityFor(b, s.width-used, s.margin, pairQuantityCap)
		for qb := 1; qb <= limitB && s.visit(); qb++ {
			s.add(
				model.Allocation{Part: a, Quantity: qa},
				model.Allocation{Part: b, Quantity: qb},
			)
		}
	}
}

func (s *exhaustiveSearch) triples(a, b, c model.Part) {
	ua, ub := unitSize(a, s.margin), unitSize(b, s.margin)
	limitA := minInt(tripleQuantityCap, a.AllowedQuantity())
	limitB := minInt(tripleQuantityCap, b.AllowedQuantity())

	for qa := 1; qa <= limitA && !s.stopped; qa++ {
		usedA := float64(qa) * ua
		if s.fills(usedA) {
			break
		}
		for qb := 1; qb <= limitB && !s.stopped; qb++ {
			usedB := usedA + float64(qb)*ub
			if s.fills(usedB) {
				break
			}
			limitC := quantityFor(c, s.width-usedB, s.margin, tripleQuantityCap)
			for qc := 1; qc <= limitC && s.visit(); qc++ {
				s.add(
					model.Allocation{Part: a, Quantity: qa},
					model.Allocation{Part: b, Quantity: qb},
					model.Allocation{Part: c, Quantity: qc},
				)
			}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
