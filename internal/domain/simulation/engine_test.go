package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_ScenarioOrdering(t *testing.T) {
	projections := Project(100000, 24, 42)

	assert.Less(t, projections.Conservative.ExpectedValue, projections.Moderate.ExpectedValue)
	assert.Less(t, projections.Moderate.ExpectedValue, projections.Aggressive.ExpectedValue)

	for name, scenario := range map[string]Scenario{
		"conservative": projections.Conservative,
		"moderate":     projections.Moderate,
		"aggressive":   projections.Aggressive,
	} {
		assert.LessOrEqual(t, scenario.LowEstimate, scenario.HighEstimate, name)
		assert.Greater(t, scenario.ExpectedValue, 100000.0, name)
		assert.InDelta(t, scenario.ExpectedValue-100000, scenario.TotalReturn, 0.011, name)
	}
}

func TestProject_CompoundGrowth(t *testing.T) {
	projections := Project(100000, 12, 7)

	// 5% nominal compounded monthly over a year.
	assert.InDelta(t, 105116.19, projections.Conservative.ExpectedValue, 0.5)
	// 12% nominal compounded monthly over a year.
	assert.InDelta(t, 112682.50, projections.Aggressive.ExpectedValue, 0.5)
}

func TestProject_SameSeedReproduces(t *testing.T) {
	first := Project(50000, 36, 99)
	second := Project(50000, 36, 99)
	assert.Equal(t, first, second)

	different := Project(50000, 36, 100)
	assert.NotEqual(t, first.Conservative.LowEstimate, different.Conservative.LowEstimate)
}

func TestProject_LongerHorizonGrowsMore(t *testing.T) {
	short := Project(100000, 12, 1)
	long := Project(100000, 120, 1)

	assert.Greater(t, long.Moderate.ExpectedValue, short.Moderate.ExpectedValue)
}

func TestFeasibilityScore(t *testing.T) {
	tests := []struct {
		name          string
		surplus       float64
		amount        float64
		horizonMonths int
		expected      float64
	}{
		{"surplus covers required saving", 10000, 120000, 12, 1},
		{"half covered", 5000, 120000, 12, 0.5},
		{"negative surplus", -2000, 120000, 12, 0},
		{"zero horizon", 10000, 120000, 0, 0},
		{"zero amount", 10000, 0, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FeasibilityScore(tt.surplus, tt.amount, tt.horizonMonths)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}
