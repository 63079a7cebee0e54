package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/StripCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the ranked patterns and summary figures for a
// single scenario. Err is set when the scenario settings are invalid.
type ComparisonResult struct {
	Scenario          ComparisonScenario
	Patterns          []model.Pattern
	UsableWidth       float64
	BestWaste         float64
	BestUtilization   float64
	BestPriorityScore int
	Err               error
}

// CompareScenarios generates patterns for each scenario and returns the
// results in scenario order, so different cut margins or trims can be
// compared side by side.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, parts []model.Part, topN int, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res := ComparisonResult{Scenario: scenario, UsableWidth: scenario.Settings.UsableWidth()}

		opt, err := New(scenario.Settings, opts...)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		res.Patterns = opt.Generate(ctx, parts, topN)
		if len(res.Patterns) > 0 {
			best := res.Patterns[0]
			res.BestWaste = best.Waste
			res.BestUtilization = best.UtilizationPct
			res.BestPriorityScore = best.PriorityScore
		}
		results = append(results, res)
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on the
// current settings, varying the margin and trim to show what-if alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	if base.CutMargin > 0 {
		noMargin := base
		noMargin.CutMargin = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Cut Margin",
			Settings: noMargin,
		})

		halfMargin := base
		halfMargin.CutMargin = base.CutMargin * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Cut Margin %.1fmm (half)", halfMargin.CutMargin),
			Settings: halfMargin,
		})
	}

	if base.EdgeTrim > 0 {
		noTrim := base
		noTrim.EdgeTrim = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Edge Trim",
			Settings: noTrim,
		})
	}

	return scenarios
}
