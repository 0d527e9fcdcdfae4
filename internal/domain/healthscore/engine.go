package healthscore

import (
	"math"
	"sort"
	"time"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/finance"
)

// Inputs is the ledger snapshot a score is computed from. Compute is a pure
// function of these values: identical inputs yield bit-identical output.
type Inputs struct {
	Budgets      []finance.Budget
	Transactions []finance.Transaction
	Goals        []finance.Goal
}

// neutralComponent is used when a dimension has no data to judge: neither
// rewarded nor penalized.
const neutralComponent = 0.5

// Compute derives the four component scores from the period's ledger data.
func Compute(in Inputs) (Components, map[string]float64) {
	factors := make(map[string]float64)

	adherence := budgetAdherence(in.Budgets, factors)
	savings := savingsRate(in.Transactions, factors)
	consistency := spendingConsistency(in.Transactions, factors)
	progress := goalProgress(in.Goals, factors)

	return Components{
		BudgetAdherence:     adherence,
		SavingsRate:         savings,
		SpendingConsistency: consistency,
		GoalProgress:        progress,
	}, factors
}

// budgetAdherence inverts the average spend/limit ratio across budgets.
func budgetAdherence(budgets []finance.Budget, factors map[string]float64) float64 {
	if len(budgets) == 0 {
		return neutralComponent
	}

	var ratioSum float64
	var counted int
	for _, b := range budgets {
		limit, _ := b.Limit.Float64()
		if limit <= 0 {
			continue
		}
		spent, _ := b.Spent.Float64()
		ratioSum += spent / limit
		counted++
	}
	if counted == 0 {
		return neutralComponent
	}

	avgRatio := ratioSum / float64(counted)
	factors["avg_budget_utilization"] = round4(avgRatio)
	return clamp01(1 - avgRatio)
}

// savingsRate computes (income − expense) / income, floored at −1 for
// negative savings; the component clamps to [0,1] while the raw rate is
// reported in factors.
func savingsRate(transactions []finance.Transaction, factors map[string]float64) float64 {
	var income, expense float64
	for _, t := range transactions {
		amount, _ := t.Amount.Float64()
		switch t.Type {
		case finance.TransactionIncome:
			income += amount
		case finance.TransactionExpense:
			expense += amount
		}
	}
	if income <= 0 {
		return 0
	}

	rate := (income - expense) / income
	if rate < -1 {
		rate = -1
	}
	factors["savings_rate"] = round4(rate)
	factors["total_income"] = round4(income)
	factors["total_expense"] = round4(expense)
	return clamp01(rate)
}

// spendingConsistency is the normalized inverse of daily-spend dispersion:
// 1/(1+cv) where cv is the coefficient of variation of daily spend.
func spendingConsistency(transactions []finance.Transaction, factors map[string]float64) float64 {
	daily := make(map[string]float64)
	for _, t := range transactions {
		if t.Type != finance.TransactionExpense {
			continue
		}
		amount, _ := t.Amount.Float64()
		daily[t.OccurredAt.Format(time.DateOnly)] += amount
	}
	if len(daily) < 2 {
		return neutralComponent
	}

	days := make([]float64, 0, len(daily))
	for _, v := range daily {
		days = append(days, v)
	}
	sort.Float64s(days)

	var sum float64
	for _, v := range days {
		sum += v
	}
	mean := sum / float64(len(days))
	if mean <= 0 {
		return neutralComponent
	}

	var variance float64
	for _, v := range days {
		variance += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(variance / float64(len(days)))
	cv := stddev / mean

	factors["daily_spend_stddev"] = round4(stddev)
	factors["daily_spend_mean"] = round4(mean)
	return clamp01(1 / (1 + cv))
}

// goalProgress averages completion fractions across active goals.
func goalProgress(goals []finance.Goal, factors map[string]float64) float64 {
	var sum float64
	var counted int
	for _, g := range goals {
		if !g.IsActive {
			continue
		}
		target, _ := g.TargetAmount.Float64()
		if target <= 0 {
			continue
		}
		saved, _ := g.SavedAmount.Float64()
		sum += clamp01(saved / target)
		counted++
	}
	if counted == 0 {
		return neutralComponent
	}

	progress := sum / float64(counted)
	factors["active_goals"] = float64(counted)
	return progress
}

// Recommendations generates advice strings keyed off the weak components.
func Recommendations(c Components) []string {
	var recs []string
	if c.BudgetAdherence < 0.5 {
		recs = append(recs, "Spending is running close to or past your budget limits. Review your highest categories and trim where possible.")
	}
	if c.SavingsRate < 0.2 {
		recs = append(recs, "Your savings rate is low this period. Aim to set aside at least 10-20% of income before discretionary spending.")
	}
	if c.SpendingConsistency < 0.5 {
		recs = append(recs, "Daily spending varies a lot. Spreading large purchases across the month makes budgets easier to hold.")
	}
	if c.GoalProgress < 0.3 {
		recs = append(recs, "Savings goals are behind. Consider automatic transfers toward your goals right after income arrives.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Your finances look healthy this period. Keep the current habits going.")
	}
	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
