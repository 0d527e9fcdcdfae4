package healthscore

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/finance"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Service fetches period ledger data, scores it, and stores the result.
type Service struct {
	backend finance.Backend
	repo    Repository
	log     zerolog.Logger
}

// NewService wires the health score engine.
func NewService(backend finance.Backend, repo Repository, log zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		repo:    repo,
		log:     log.With().Str("component", "healthscore-service").Logger(),
	}
}

// Compute scores the given period and upserts the stored row. Calling it
// twice over unchanged ledger data returns identical values.
func (s *Service) Compute(ctx context.Context, userID string, month, year int) (*Report, error) {
	if month < 1 || month > 12 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "month must be within 1..12", nil)
	}
	if year < 2000 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "year is out of range", nil)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	budgets, err := s.backend.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "fetch budgets")
	}
	transactions, err := s.backend.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "fetch transactions")
	}
	goals, err := s.backend.ListGoals(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "fetch goals")
	}

	components, factors := Compute(Inputs{
		Budgets:      budgets,
		Transactions: transactions,
		Goals:        goals,
	})

	score := &Score{
		UserID:              userID,
		Month:               month,
		Year:                year,
		OverallScore:        components.Overall(),
		BudgetAdherence:     components.BudgetAdherence,
		SavingsRate:         components.SavingsRate,
		SpendingConsistency: components.SpendingConsistency,
		GoalProgress:        components.GoalProgress,
		Factors:             factors,
		Recommendations:     Recommendations(components),
	}

	if err := s.repo.Upsert(ctx, score); err != nil {
		return nil, err
	}

	report := &Report{
		Score: score,
		Grade: Grade(score.OverallScore),
		Trend: "stable",
	}

	prevMonth, prevYear := month-1, year
	if prevMonth == 0 {
		prevMonth, prevYear = 12, year-1
	}
	previous, err := s.repo.Find(ctx, userID, prevMonth, prevYear)
	if err == nil && previous != nil {
		report.PreviousOverall = &previous.OverallScore
		report.Trend = trend(score.OverallScore, previous.OverallScore)
	}

	s.log.Info().
		Str("user_id", userID).
		Int("month", month).
		Int("year", year).
		Int("overall", score.OverallScore).
		Msg("health score computed")

	return report, nil
}

func trend(current, previous int) string {
	switch delta := current - previous; {
	case delta > 3:
		return "improving"
	case delta < -3:
		return "declining"
	default:
		return "stable"
	}
}
