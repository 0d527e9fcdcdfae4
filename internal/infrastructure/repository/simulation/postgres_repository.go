package simulation

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database/entities"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Repository persists immutable simulation results.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a simulation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the simulation record.
func (r *Repository) Create(ctx context.Context, sim *domain.Simulation) error {
	entity := entities.NewSchemaInvestmentSimulation(sim)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create simulation", err)
	}

	sim.ID = entity.ID
	sim.CreatedAt = entity.CreatedAt
	return nil
}

// ListByUser returns the user's most recent simulations.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Simulation, error) {
	var rows []entities.InvestmentSimulation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list simulations", err)
	}

	simulations := make([]domain.Simulation, 0, len(rows))
	for i := range rows {
		simulations = append(simulations, *rows[i].EtoD())
	}
	return simulations, nil
}
