package engine

import (
	"context"
	"math"
	"testing"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// urgent returns a part whose demand exceeds stock, allowing demand units.
func urgent(code string, length float64, demand int) model.Part {
	return model.Part{ItemCode: code, Name: code, UnrolledLength: length, Demand: demand}
}

// restock returns a part with no demand that may be produced up to maxStock.
func restock(code string, length float64, maxStock int) model.Part {
	return model.Part{ItemCode: code, Name: code, UnrolledLength: length, MaxStock: maxStock}
}

func testSettings(width float64) model.Settings {
	s := model.DefaultSettings()
	s.RawSheetWidth = width
	return s
}

func newTestOptimizer(t *testing.T, s model.Settings) *Optimizer {
	t.Helper()
	opt, err := New(s)
	require.NoError(t, err)
	return opt
}

func mixedCatalog() []model.Part {
	return []model.Part{
		urgent("A", 100, 20),
		restock("B", 150, 20),
		urgent("C", 230, 4),
		restock("D", 410, 3),
		{ItemCode: "E", UnrolledLength: 75, CurrentStock: 2, Demand: 5, MaxStock: 12},
	}
}

func TestNew_RejectsNonPositiveUsableWidth(t *testing.T) {
	s := testSettings(100)
	s.EdgeTrim = 100

	_, err := New(s)
	require.ErrorIs(t, err, ErrInvalidSheetWidth)
}

func TestNew_RejectsNegativeCutMargin(t *testing.T) {
	s := testSettings(1000)
	s.CutMargin = -1

	_, err := New(s)
	require.ErrorIs(t, err, ErrInvalidCutMargin)
}

func TestNew_RejectsNonFiniteSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.Settings)
		err    error
	}{
		{"infinite width", func(s *model.Settings) { s.RawSheetWidth = math.Inf(1) }, ErrInvalidSheetWidth},
		{"NaN width", func(s *model.Settings) { s.RawSheetWidth = math.NaN() }, ErrInvalidSheetWidth},
		{"NaN trim", func(s *model.Settings) { s.EdgeTrim = math.NaN() }, ErrInvalidSheetWidth},
		{"NaN margin", func(s *model.Settings) { s.CutMargin = math.NaN() }, ErrInvalidCutMargin},
		{"infinite margin", func(s *model.Settings) { s.CutMargin = math.Inf(1) }, ErrInvalidCutMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings(1000)
			tt.modify(&s)

			_, err := New(s)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNew_UsableWidthSubtractsTrim(t *testing.T) {
	s := testSettings(1220)
	s.EdgeTrim = 20

	opt := newTestOptimizer(t, s)
	assert.Equal(t, 1200.0, opt.SheetWidth())
}

func TestGenerate_EmptyCatalog(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))

	patterns := opt.Generate(context.Background(), nil, 10)
	assert.NotNil(t, patterns)
	assert.Empty(t, patterns)
}

func TestGenerate_NonPositiveTopN(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))

	assert.Empty(t, opt.Generate(context.Background(), mixedCatalog(), 0))
	assert.Empty(t, opt.Generate(context.Background(), mixedCatalog(), -3))
}

func TestGenerate_SingleExactFit(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(500))

	patterns := opt.Generate(context.Background(), []model.Part{urgent("A", 500, 1)}, 10)

	require.Len(t, patterns, 1)
	assert.Equal(t, 0.0, patterns[0].Waste)
	assert.Equal(t, 100.0, patterns[0].UtilizationPct)
	assert.Equal(t, 1, patterns[0].QuantityOf("A"))
}

func TestGenerate_PrefersUrgentPartOnEqualWaste(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{urgent("A", 100, 20), restock("B", 150, 20)}

	patterns := opt.Generate(context.Background(), parts, 10)

	require.NotEmpty(t, patterns)
	best := patterns[0]
	assert.Equal(t, 0.0, best.Waste)
	assert.Equal(t, 10, best.QuantityOf("A"))
	assert.Equal(t, 0, best.QuantityOf("B"))
	assert.Equal(t, 100, best.PriorityScore)
	assert.Equal(t, StrategyGreedyPriority, best.Strategy)

	// Mixed exact fits also exist and rank after it.
	var mixed bool
	for _, p := range patterns {
		if p.Waste == 0 && p.QuantityOf("A") == 4 && p.QuantityOf("B") == 4 {
			mixed = true
			assert.Equal(t, 44, p.PriorityScore)
		}
	}
	assert.True(t, mixed, "expected the 4xA + 4xB exact fit")
}

func TestGenerate_PrefersUrgentPartOnEqualFractionalWaste(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{urgent("A", 99.99, 20), restock("B", 333.3, 3)}

	patterns := opt.Generate(context.Background(), parts, 10)

	require.GreaterOrEqual(t, len(patterns), 2)
	first, second := patterns[0], patterns[1]
	assert.Equal(t, first.Waste, second.Waste)
	assert.InDelta(t, 0.1, first.Waste, 1e-9)
	assert.Equal(t, 10, first.QuantityOf("A"))
	assert.Equal(t, 100, first.PriorityScore)
	assert.Equal(t, 3, second.QuantityOf("B"))
	assert.Equal(t, 3, second.PriorityScore)
}

func TestGenerate_Invariants(t *testing.T) {
	s := testSettings(1220)
	s.EdgeTrim = 15
	s.CutMargin = 3
	opt := newTestOptimizer(t, s)
	parts := append(mixedCatalog(), restock("F", 33.33, 6), urgent("G", 66.67, 3))

	patterns := opt.Generate(context.Background(), parts, 100)
	require.NotEmpty(t, patterns)
	assert.LessOrEqual(t, len(patterns), 100)

	seen := make(map[string]bool)
	for i, p := range patterns {
		assert.GreaterOrEqual(t, p.Waste, 0.0)
		assert.Equal(t, opt.SheetWidth(), p.SheetWidth)
		assert.InDelta(t, (p.SheetWidth-p.Waste)/p.SheetWidth*100, p.UtilizationPct, 1e-9)

		var used float64
		score := 0
		for _, a := range p.Allocations {
			assert.Positive(t, a.Quantity)
			assert.LessOrEqual(t, a.Quantity, a.Part.AllowedQuantity(), "allowed quantity exceeded for %s", a.Part.ItemCode)
			used += float64(a.Quantity) * (a.Part.UnrolledLength + s.CutMargin)
			score += a.Quantity * a.Part.Priority()
		}
		assert.InDelta(t, p.SheetWidth-used, p.Waste, 1e-6)
		assert.Equal(t, score, p.PriorityScore)

		sig := p.Signature()
		assert.False(t, seen[sig], "duplicate pattern %q", sig)
		seen[sig] = true

		if i > 0 {
			prev := patterns[i-1]
			assert.True(t, prev.Waste < p.Waste || (prev.Waste == p.Waste && prev.PriorityScore >= p.PriorityScore),
				"pattern %d is out of order", i)
		}
	}
}

func TestGenerate_TopNIsPrefix(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := mixedCatalog()

	ten := opt.Generate(context.Background(), parts, 10)
	three := opt.Generate(context.Background(), parts, 3)

	require.Len(t, ten, 10)
	assert.Equal(t, ten[:3], three)
}

func TestGenerate_RespectsAllowedQuantity(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{
		{ItemCode: "A", UnrolledLength: 100, CurrentStock: 1, Demand: 2, MaxStock: 3},
	}

	patterns := opt.Generate(context.Background(), parts, 10)

	require.Len(t, patterns, 2)
	for _, p := range patterns {
		assert.LessOrEqual(t, p.QuantityOf("A"), 2)
	}
	assert.Equal(t, 800.0, patterns[0].Waste)
}

func TestGenerate_SkipsInfeasibleParts(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{
		urgent("TOO-LONG", 1200, 5),
		urgent("ZERO", 0, 5),
		{ItemCode: "FULL", UnrolledLength: 100, CurrentStock: 10, Demand: 2, MaxStock: 10},
	}

	assert.Empty(t, opt.Generate(context.Background(), parts, 10))

	parts = append(parts, urgent("OK", 250, 4))
	patterns := opt.Generate(context.Background(), parts, 10)
	require.NotEmpty(t, patterns)
	for _, p := range patterns {
		for _, a := range p.Allocations {
			assert.Equal(t, "OK", a.Part.ItemCode)
		}
	}
}

func TestGenerate_CutMarginAddsToEveryUnit(t *testing.T) {
	s := testSettings(1000)
	s.CutMargin = 5
	opt := newTestOptimizer(t, s)

	patterns := opt.Generate(context.Background(), []model.Part{urgent("A", 95, 20)}, 10)

	require.NotEmpty(t, patterns)
	assert.Equal(t, 10, patterns[0].QuantityOf("A"))
	assert.InDelta(t, 0.0, patterns[0].Waste, 1e-9)
	assert.InDelta(t, 1000.0, patterns[0].UsedSpace, 1e-9)
}

func TestGenerate_ParallelMatchesSequential(t *testing.T) {
	s := testSettings(1220)
	s.CutMargin = 2
	sequential := newTestOptimizer(t, s)
	s.Parallel = true
	parallel := newTestOptimizer(t, s)

	parts := mixedCatalog()
	assert.Equal(t,
		sequential.Generate(context.Background(), parts, 50),
		parallel.Generate(context.Background(), parts, 50))
}

func TestGenerate_CancelledContextStillReturnsValidPatterns(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	patterns := opt.Generate(ctx, mixedCatalog(), 10)

	require.NotEmpty(t, patterns)
	for _, p := range patterns {
		assert.GreaterOrEqual(t, p.Waste, 0.0)
	}
}
