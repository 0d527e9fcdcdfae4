package simulation

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/finance"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/idgen"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// surplusLookbackMonths bounds how much history feeds the feasibility read.
const surplusLookbackMonths = 3

// Service runs simulations against the user's actual surplus history and
// persists each run as a new row.
type Service struct {
	backend finance.Backend
	repo    Repository
	seedFn  func(userID string, amount float64, horizonMonths int) int64
	log     zerolog.Logger
}

// NewService wires the simulation engine.
func NewService(backend finance.Backend, repo Repository, log zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		repo:    repo,
		seedFn:  defaultSeed,
		log:     log.With().Str("component", "simulation-service").Logger(),
	}
}

// WithSeedFn overrides seed derivation, used by tests to pin outcomes.
func (s *Service) WithSeedFn(fn func(userID string, amount float64, horizonMonths int) int64) *Service {
	s.seedFn = fn
	return s
}

// Simulate projects the amount over the horizon and stores the result.
func (s *Service) Simulate(ctx context.Context, userID string, conversationID *string, amount float64, horizonMonths int, currency string) (*Simulation, error) {
	if amount <= 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "investment amount must be positive", nil)
	}
	if horizonMonths < 1 || horizonMonths > 600 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "time horizon must be within 1..600 months", nil)
	}
	if currency == "" {
		currency = "PKR"
	}

	surplus, err := s.trailingMonthlySurplus(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "fetch surplus history")
	}

	seed := s.seedFn(userID, amount, horizonMonths)
	projections := Project(amount, horizonMonths, seed)

	sim := &Simulation{
		PublicID:       idgen.NewPublicID("sim"),
		UserID:         userID,
		ConversationID: conversationID,
		Amount:         amount,
		HorizonMonths:  horizonMonths,
		Currency:       currency,
		Projections:    projections,
		Feasibility: Feasibility{
			Score:                  FeasibilityScore(surplus, amount, horizonMonths),
			AverageMonthlySurplus:  round2(surplus),
			RequiredMonthlySavings: round2(amount / float64(horizonMonths)),
		},
		Disclaimer: Disclaimer,
	}

	if err := s.repo.Create(ctx, sim); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Float64("amount", amount).
		Int("horizon_months", horizonMonths).
		Float64("feasibility", sim.Feasibility.Score).
		Msg("investment simulation stored")

	return sim, nil
}

// List returns the user's most recent simulations, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Simulation, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// trailingMonthlySurplus averages (income - expense) over the lookback
// window, bounding what is actually investable.
func (s *Service) trailingMonthlySurplus(ctx context.Context, userID string) (float64, error) {
	to := time.Now()
	from := to.AddDate(0, -surplusLookbackMonths, 0)

	transactions, err := s.backend.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}

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

	return (income - expense) / surplusLookbackMonths, nil
}

// defaultSeed hashes the request identity with second resolution: identical
// requests inside the same second reproduce the same spread, while results
// stay stable enough for audit comparison.
func defaultSeed(userID string, amount float64, horizonMonths int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%.2f|%d|%d", userID, amount, horizonMonths, time.Now().Unix())
	return int64(h.Sum64())
}
