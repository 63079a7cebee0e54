package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyBySize_LongestFirst(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{urgent("A", 100, 20), restock("B", 150, 20)}

	patterns := opt.buildGreedyBySize(context.Background(), parts)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, "B", p.Allocations[0].Part.ItemCode)
	assert.Equal(t, 6, p.QuantityOf("B"))
	assert.Equal(t, 1, p.QuantityOf("A"))
	assert.Equal(t, 0.0, p.Waste)
	assert.Equal(t, StrategyGreedySize, p.Strategy)
}

func TestGreedyByPriority_UrgentFirst(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{restock("B", 150, 20), urgent("A", 100, 20)}

	patterns := opt.buildGreedyByPriority(context.Background(), parts)

	require.Len(t, patterns, 1)
	assert.Equal(t, "A", patterns[0].Allocations[0].Part.ItemCode)
	assert.Equal(t, 10, patterns[0].QuantityOf("A"))
}

func TestGreedy_NothingPlacedYieldsNoPattern(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	full := model.Part{ItemCode: "F", UnrolledLength: 100, CurrentStock: 5, MaxStock: 5}

	assert.Empty(t, opt.buildGreedyBySize(context.Background(), []model.Part{full}))
}

func TestBestFit_FirstMinimalWins(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(600))
	parts := []model.Part{urgent("X", 300, 2), urgent("Y", 300, 2)}

	patterns := opt.buildBestFit(context.Background(), parts)

	require.Len(t, patterns, 1)
	p := patterns[0]
	require.Len(t, p.Allocations, 1)
	assert.Equal(t, "X", p.Allocations[0].Part.ItemCode)
	assert.Equal(t, 2, p.Allocations[0].Quantity)
	assert.Equal(t, 0.0, p.Waste)
}

func TestBestFit_UsesEachPartOnce(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{urgent("A", 400, 1), urgent("B", 350, 5)}

	patterns := opt.buildBestFit(context.Background(), parts)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, 2, p.QuantityOf("B"))
	assert.Equal(t, 0, p.QuantityOf("A"))
	assert.Equal(t, 300.0, p.Waste)
}

func TestExhaustive_ResultCap(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	var parts []model.Part
	for i := 0; i < 8; i++ {
		parts = append(parts, urgent(fmt.Sprintf("P%d", i), 10, 50))
	}

	patterns := opt.buildExhaustive(context.Background(), parts)
	assert.Len(t, patterns, exhaustiveResultCap)
}

func TestExhaustive_OnlyFirstEightParts(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	var parts []model.Part
	for i := 0; i < 9; i++ {
		parts = append(parts, urgent(fmt.Sprintf("P%d", i), 900, 1))
	}

	patterns := opt.buildExhaustive(context.Background(), parts)

	require.Len(t, patterns, 8)
	for _, p := range patterns {
		assert.False(t, p.Contains("P8"))
	}
}

func TestExhaustive_NodeLimit(t *testing.T) {
	s := testSettings(1000)
	s.ExhaustiveNodeLimit = 1
	opt := newTestOptimizer(t, s)

	patterns := opt.buildExhaustive(context.Background(), mixedCatalog())
	assert.Len(t, patterns, 1)
}

func TestExhaustive_PairsAndTriples(t *testing.T) {
	opt := newTestOptimizer(t, testSettings(1000))
	parts := []model.Part{urgent("A", 500, 1), urgent("B", 300, 1), urgent("C", 200, 1)}

	patterns := opt.buildExhaustive(context.Background(), parts)

	sigs := make(map[string]bool)
	for _, p := range patterns {
		sigs[p.Signature()] = true
		assert.LessOrEqual(t, p.UsedSpace, 1000.0)
	}
	// Ordered pairs produce both A+B and B+A; the signatures collapse later.
	assert.Len(t, patterns, 3+6+1)
	assert.Len(t, sigs, 3+3+1)

	var triple bool
	for _, p := range patterns {
		if len(p.Allocations) == 3 {
			triple = true
			assert.Equal(t, 0.0, p.Waste)
		}
	}
	assert.True(t, triple)
}
