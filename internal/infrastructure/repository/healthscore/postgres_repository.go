package healthscore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/healthscore"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database/entities"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Repository persists monthly health scores.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a health score repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert overwrites the (user, month, year) row; recomputation always wins.
func (r *Repository) Upsert(ctx context.Context, score *domain.Score) error {
	entity := entities.NewSchemaHealthScore(score)

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score", "budget_adherence", "savings_rate",
				"spending_consistency", "goal_progress", "factors",
				"recommendations", "updated_at",
			}),
		}).
		Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to upsert health score", err)
	}

	score.ID = entity.ID
	score.CreatedAt = entity.CreatedAt
	return nil
}

// Find returns the stored score for a period, or NOT_FOUND.
func (r *Repository) Find(ctx context.Context, userID string, month, year int) (*domain.Score, error) {
	var entity entities.HealthScore
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("health score not found for %02d/%d", month, year), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch health score", err)
	}
	return entity.EtoD(), nil
}
