package simulation

import (
	"math"
	"math/rand"
	"sort"
)

// Project compounds the amount monthly at each scenario's nominal rate and
// runs TrialCount randomized variance trials per scenario to produce a
// confidence spread. The generator is seeded per request, so a fixed seed
// reproduces the spread exactly.
func Project(amount float64, horizonMonths int, seed int64) Projections {
	rng := rand.New(rand.NewSource(seed))
	return Projections{
		Conservative: projectScenario(rng, amount, horizonMonths, RateConservative),
		Moderate:     projectScenario(rng, amount, horizonMonths, RateModerate),
		Aggressive:   projectScenario(rng, amount, horizonMonths, RateAggressive),
	}
}

func projectScenario(rng *rand.Rand, amount float64, horizonMonths int, annualRate float64) Scenario {
	expected := compound(amount, annualRate, horizonMonths)

	// Trial noise: gaussian around the nominal monthly rate, sigma at a
	// quarter of the rate, floored so a trial never drops below -90%
	// annualized.
	monthlyRate := annualRate / 12
	sigma := monthlyRate * 0.25
	floor := -0.9 / 12

	outcomes := make([]float64, TrialCount)
	for i := 0; i < TrialCount; i++ {
		value := amount
		for m := 0; m < horizonMonths; m++ {
			r := monthlyRate + rng.NormFloat64()*sigma
			if r < floor {
				r = floor
			}
			value *= 1 + r
		}
		outcomes[i] = value
	}
	sort.Float64s(outcomes)

	return Scenario{
		AnnualRate:    annualRate,
		ExpectedValue: round2(expected),
		LowEstimate:   round2(percentile(outcomes, 0.10)),
		HighEstimate:  round2(percentile(outcomes, 0.90)),
		TotalReturn:   round2(expected - amount),
	}
}

func compound(amount, annualRate float64, months int) float64 {
	return amount * math.Pow(1+annualRate/12, float64(months))
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// FeasibilityScore relates trailing monthly surplus to the monthly saving
// the amount implies over the horizon, clamped to [0,1].
func FeasibilityScore(avgMonthlySurplus, amount float64, horizonMonths int) float64 {
	if horizonMonths <= 0 || amount <= 0 {
		return 0
	}
	required := amount / float64(horizonMonths)
	if required <= 0 {
		return 0
	}
	score := avgMonthlySurplus / required
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return round4(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
