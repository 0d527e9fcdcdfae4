package healthscore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/finance"
)

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCompute_NeutralOnEmptyInputs(t *testing.T) {
	components, factors := Compute(Inputs{})

	assert.Equal(t, neutralComponent, components.BudgetAdherence)
	assert.Equal(t, neutralComponent, components.SpendingConsistency)
	assert.Equal(t, neutralComponent, components.GoalProgress)
	assert.Zero(t, components.SavingsRate, "no income means no savings to reward")
	assert.Empty(t, factors)
}

func TestCompute_BudgetAdherence(t *testing.T) {
	tests := []struct {
		name     string
		budgets  []finance.Budget
		expected float64
	}{
		{
			name: "half spent",
			budgets: []finance.Budget{
				{Category: "Food", Limit: money(1000), Spent: money(500)},
			},
			expected: 0.5,
		},
		{
			name: "fully overspent clamps to zero",
			budgets: []finance.Budget{
				{Category: "Food", Limit: money(1000), Spent: money(2500)},
			},
			expected: 0,
		},
		{
			name: "zero limit budgets are ignored",
			budgets: []finance.Budget{
				{Category: "Food", Limit: money(0), Spent: money(500)},
			},
			expected: neutralComponent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components, _ := Compute(Inputs{Budgets: tt.budgets})
			assert.InDelta(t, tt.expected, components.BudgetAdherence, 1e-9)
		})
	}
}

func TestCompute_SavingsRate(t *testing.T) {
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []finance.Transaction{
		{Type: finance.TransactionIncome, Amount: money(100000), OccurredAt: day},
		{Type: finance.TransactionExpense, Amount: money(70000), OccurredAt: day},
	}

	components, factors := Compute(Inputs{Transactions: transactions})

	assert.InDelta(t, 0.3, components.SavingsRate, 1e-9)
	assert.InDelta(t, 0.3, factors["savings_rate"], 1e-9)
	assert.InDelta(t, 100000, factors["total_income"], 1e-9)
	assert.InDelta(t, 70000, factors["total_expense"], 1e-9)
}

func TestCompute_SavingsRateNegativeClampsComponent(t *testing.T) {
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []finance.Transaction{
		{Type: finance.TransactionIncome, Amount: money(10000), OccurredAt: day},
		{Type: finance.TransactionExpense, Amount: money(25000), OccurredAt: day},
	}

	components, factors := Compute(Inputs{Transactions: transactions})

	assert.Zero(t, components.SavingsRate)
	assert.InDelta(t, -1, factors["savings_rate"], 1e-9, "raw rate floors at -1")
}

func TestCompute_SpendingConsistency(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	steady := make([]finance.Transaction, 0, 10)
	for i := 0; i < 10; i++ {
		steady = append(steady, finance.Transaction{
			Type: finance.TransactionExpense, Amount: money(500),
			OccurredAt: base.AddDate(0, 0, i),
		})
	}
	erratic := []finance.Transaction{
		{Type: finance.TransactionExpense, Amount: money(100), OccurredAt: base},
		{Type: finance.TransactionExpense, Amount: money(9000), OccurredAt: base.AddDate(0, 0, 1)},
	}

	steadyComponents, _ := Compute(Inputs{Transactions: steady})
	erraticComponents, _ := Compute(Inputs{Transactions: erratic})

	assert.InDelta(t, 1.0, steadyComponents.SpendingConsistency, 1e-9)
	assert.Greater(t, steadyComponents.SpendingConsistency, erraticComponents.SpendingConsistency)

	singleDay, _ := Compute(Inputs{Transactions: steady[:1]})
	assert.Equal(t, neutralComponent, singleDay.SpendingConsistency, "fewer than two spend days is neutral")
}

func TestCompute_GoalProgress(t *testing.T) {
	goals := []finance.Goal{
		{Name: "Laptop", TargetAmount: money(200000), SavedAmount: money(100000), IsActive: true},
		{Name: "Trip", TargetAmount: money(50000), SavedAmount: money(50000), IsActive: true},
		{Name: "Closed", TargetAmount: money(10000), SavedAmount: money(0), IsActive: false},
	}

	components, factors := Compute(Inputs{Goals: goals})

	assert.InDelta(t, 0.75, components.GoalProgress, 1e-9)
	assert.InDelta(t, 2, factors["active_goals"], 1e-9)
}

func TestCompute_Deterministic(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	inputs := Inputs{
		Budgets: []finance.Budget{{Category: "Food", Limit: money(20000), Spent: money(12000)}},
		Transactions: []finance.Transaction{
			{Type: finance.TransactionIncome, Amount: money(90000), OccurredAt: day},
			{Type: finance.TransactionExpense, Amount: money(4000), OccurredAt: day},
			{Type: finance.TransactionExpense, Amount: money(6000), OccurredAt: day.AddDate(0, 0, 3)},
		},
		Goals: []finance.Goal{{Name: "Fund", TargetAmount: money(100000), SavedAmount: money(30000), IsActive: true}},
	}

	first, firstFactors := Compute(inputs)
	second, secondFactors := Compute(inputs)

	assert.Equal(t, first, second)
	assert.Equal(t, firstFactors, secondFactors)
}

func TestComponents_Overall(t *testing.T) {
	perfect := Components{BudgetAdherence: 1, SavingsRate: 1, SpendingConsistency: 1, GoalProgress: 1}
	assert.Equal(t, 100, perfect.Overall())

	zero := Components{}
	assert.Equal(t, 0, zero.Overall())

	mixed := Components{BudgetAdherence: 0.5, SavingsRate: 0.5, SpendingConsistency: 0.5, GoalProgress: 0.5}
	assert.Equal(t, 50, mixed.Overall())
}

func TestGrade(t *testing.T) {
	tests := []struct {
		overall int
		grade   string
	}{
		{100, "A"}, {85, "A"},
		{84, "B"}, {70, "B"},
		{69, "C"}, {55, "C"},
		{54, "D"}, {40, "D"},
		{39, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, Grade(tt.overall), "overall %d", tt.overall)
	}
}

func TestRecommendations(t *testing.T) {
	healthy := Recommendations(Components{BudgetAdherence: 0.9, SavingsRate: 0.4, SpendingConsistency: 0.8, GoalProgress: 0.6})
	require.Len(t, healthy, 1)
	assert.Contains(t, healthy[0], "healthy")

	struggling := Recommendations(Components{BudgetAdherence: 0.1, SavingsRate: 0.05, SpendingConsistency: 0.2, GoalProgress: 0.1})
	assert.Len(t, struggling, 4)
}
