package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database/entities"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create conversation", err)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a conversation by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, fmt.Sprintf("conversation not found: %s", publicID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch conversation", err)
	}

	return entity.EtoD(), nil
}

// ListByUser returns the user's conversations ordered by latest activity.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Conversation{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to count conversations", err)
	}

	var rows []entities.Conversation
	if err := query.
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list conversations", err)
	}

	conversations := make([]domain.Conversation, 0, len(rows))
	for i := range rows {
		conversations = append(conversations, *rows[i].EtoD())
	}
	return conversations, total, nil
}

// Deactivate marks a conversation inactive. Rows are never deleted.
func (r *Repository) Deactivate(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to deactivate conversation", err)
	}
	return nil
}

// DeactivateIdle marks active conversations without activity since the
// cutoff as inactive.
func (r *Repository) DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("is_active = ? AND updated_at < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to deactivate idle conversations", result.Error)
	}
	return result.RowsAffected, nil
}

// SetLanguage updates the conversation's active language tag.
func (r *Repository) SetLanguage(ctx context.Context, id uint, language string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("language", language).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to set conversation language", err)
	}
	return nil
}
