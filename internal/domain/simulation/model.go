// Package simulation projects investment outcomes under fixed return
// scenarios with Monte Carlo variance. Projections are feasibility read-outs,
// never advice.
package simulation

import (
	"context"
	"time"
)

// Disclaimer is embedded verbatim in every simulation result. Omitting it is
// a contract violation.
const Disclaimer = "These projections are illustrative estimates based on assumed rates of return, not guarantees. Markets fluctuate and actual outcomes will differ. This is not investment advice."

// Fixed annual nominal rates per scenario.
const (
	RateConservative = 0.05
	RateModerate     = 0.08
	RateAggressive   = 0.12
)

// TrialCount bounds the randomized variance trials per scenario.
const TrialCount = 1000

// Scenario is one named projection with its confidence spread.
type Scenario struct {
	AnnualRate    float64 `json:"annual_rate"`
	ExpectedValue float64 `json:"expected_value"`
	LowEstimate   float64 `json:"low_estimate"`
	HighEstimate  float64 `json:"high_estimate"`
	TotalReturn   float64 `json:"total_return"`
}

// Projections groups the three fixed scenarios.
type Projections struct {
	Conservative Scenario `json:"conservative"`
	Moderate     Scenario `json:"moderate"`
	Aggressive   Scenario `json:"aggressive"`
}

// Feasibility reads out whether the amount fits the user's surplus history.
type Feasibility struct {
	Score                  float64 `json:"score"`
	AverageMonthlySurplus  float64 `json:"average_monthly_surplus"`
	RequiredMonthlySavings float64 `json:"required_monthly_savings"`
}

// Simulation is the stored record. Immutable once created; re-running
// produces a new row.
type Simulation struct {
	ID             uint        `json:"-"`
	PublicID       string      `json:"id"`
	UserID         string      `json:"user_id"`
	ConversationID *string     `json:"conversation_id,omitempty"`
	Amount         float64     `json:"investment_amount"`
	HorizonMonths  int         `json:"time_horizon_months"`
	Currency       string      `json:"currency"`
	Projections    Projections `json:"projections"`
	Feasibility    Feasibility `json:"feasibility"`
	Disclaimer     string      `json:"disclaimer"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Repository persists simulations.
type Repository interface {
	Create(ctx context.Context, sim *Simulation) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Simulation, error)
}
