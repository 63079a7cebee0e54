package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios_OnlyCurrentWhenNothingToVary(t *testing.T) {
	scenarios := BuildDefaultScenarios(testSettings(1220))

	require.Len(t, scenarios, 1)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
}

func TestBuildDefaultScenarios_VariesMarginAndTrim(t *testing.T) {
	base := testSettings(1220)
	base.CutMargin = 5
	base.EdgeTrim = 10

	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 4)
	assert.Equal(t, 0.0, scenarios[1].Settings.CutMargin)
	assert.Equal(t, 2.5, scenarios[2].Settings.CutMargin)
	assert.Equal(t, 0.0, scenarios[3].Settings.EdgeTrim)
	assert.Equal(t, 5.0, scenarios[3].Settings.CutMargin)
}

func TestCompareScenarios(t *testing.T) {
	good := testSettings(1000)
	bad := testSettings(1000)
	bad.EdgeTrim = 1000

	results := CompareScenarios(context.Background(), []ComparisonScenario{
		{Name: "good", Settings: good},
		{Name: "bad", Settings: bad},
	}, mixedCatalog(), 5)

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NotEmpty(t, results[0].Patterns)
	assert.Equal(t, results[0].Patterns[0].Waste, results[0].BestWaste)
	assert.Equal(t, 1000.0, results[0].UsableWidth)

	assert.ErrorIs(t, results[1].Err, ErrInvalidSheetWidth)
	assert.Empty(t, results[1].Patterns)
}
