package memory

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database/entities"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Repository persists per-agent memory entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a memory repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the entry, overwriting content and expiry when the
// (user, agent_type, key) identity already exists.
func (r *Repository) Upsert(ctx context.Context, entry *domain.Entry) error {
	entity := entities.NewSchemaAgentMemory(entry)

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "agent_type"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"memory_type", "content", "importance", "expires_at", "updated_at",
			}),
		}).
		Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to upsert memory entry", err)
	}

	entry.ID = entity.ID
	return nil
}

// FindActive returns non-expired entries for the user and agent type, most
// important first.
func (r *Repository) FindActive(ctx context.Context, userID string, agentType domain.AgentType, now time.Time) ([]domain.Entry, error) {
	var rows []entities.AgentMemory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_type = ?", userID, string(agentType)).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("importance DESC, updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list memory entries", err)
	}

	result := make([]domain.Entry, 0, len(rows))
	for i := range rows {
		result = append(result, *rows[i].EtoD())
	}
	return result, nil
}

// Get fetches one entry by identity, expired or not.
func (r *Repository) Get(ctx context.Context, userID string, agentType domain.AgentType, key string) (*domain.Entry, error) {
	var entity entities.AgentMemory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_type = ? AND key = ?", userID, string(agentType), key).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "memory entry not found: "+key, nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch memory entry", err)
	}
	return entity.EtoD(), nil
}

// Touch bumps access bookkeeping on a read.
func (r *Repository) Touch(ctx context.Context, id uint, accessedAt time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.AgentMemory{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"access_count":     gorm.Expr("access_count + 1"),
			"last_accessed_at": accessedAt,
		}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to touch memory entry", err)
	}
	return nil
}

// DeleteExpired purges rows past expiry.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&entities.AgentMemory{})
	if result.Error != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete expired memory entries", result.Error)
	}
	return result.RowsAffected, nil
}
