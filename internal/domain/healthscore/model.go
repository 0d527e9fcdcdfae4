// Package healthscore computes deterministic financial-health scores from a
// period's ledger data.
package healthscore

import (
	"context"
	"time"
)

// Component weights. They sum to 1 so the overall score stays in [0,100].
const (
	WeightBudgetAdherence     = 0.4
	WeightSavingsRate         = 0.3
	WeightSpendingConsistency = 0.2
	WeightGoalProgress        = 0.1
)

// Score is the stored result, unique per (user, month, year). Recomputation
// overwrites the row, never duplicates it.
type Score struct {
	ID     uint   `json:"-"`
	UserID string `json:"user_id"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`

	OverallScore int `json:"overall_score"`

	BudgetAdherence     float64 `json:"budget_adherence"`
	SavingsRate         float64 `json:"savings_rate"`
	SpendingConsistency float64 `json:"spending_consistency"`
	GoalProgress        float64 `json:"goal_progress"`

	Factors         map[string]float64 `json:"factors"`
	Recommendations []string           `json:"recommendations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Components bundles the four weighted sub-scores, each in [0,1].
type Components struct {
	BudgetAdherence     float64
	SavingsRate         float64
	SpendingConsistency float64
	GoalProgress        float64
}

// Overall folds the weighted components into the 0-100 score.
func (c Components) Overall() int {
	weighted := WeightBudgetAdherence*c.BudgetAdherence +
		WeightSavingsRate*c.SavingsRate +
		WeightSpendingConsistency*c.SpendingConsistency +
		WeightGoalProgress*c.GoalProgress
	return int(weighted*100 + 0.5)
}

// Report is the endpoint payload: the score plus grade and trend context.
type Report struct {
	Score           *Score  `json:"score"`
	Grade           string  `json:"grade"`
	Trend           string  `json:"trend"`
	PreviousOverall *int    `json:"previous_overall,omitempty"`
}

// Repository persists scores.
type Repository interface {
	// Upsert overwrites the (user, month, year) row when it already exists.
	Upsert(ctx context.Context, score *Score) error
	Find(ctx context.Context, userID string, month, year int) (*Score, error)
}

// Grade maps an overall score onto a letter band.
func Grade(overall int) string {
	switch {
	case overall >= 85:
		return "A"
	case overall >= 70:
		return "B"
	case overall >= 55:
		return "C"
	case overall >= 40:
		return "D"
	default:
		return "F"
	}
}
