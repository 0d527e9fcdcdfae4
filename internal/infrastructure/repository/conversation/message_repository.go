package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database/entities"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// MessageRepository persists the append-only message log.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListRecent returns the newest limit messages in ascending creation order.
func (r *MessageRepository) ListRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list recent messages", err)
	}

	// Reverse into chronological order.
	messages := make([]domain.Message, len(rows))
	for i := range rows {
		messages[len(rows)-1-i] = *rows[i].EtoD()
	}
	return messages, nil
}

// ListPage returns one history page in ascending order. A non-empty
// beforePublicID restricts the page to messages older than that one.
func (r *MessageRepository) ListPage(ctx context.Context, conversationID uint, limit, offset int, beforePublicID string) (*domain.HistoryPage, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("conversation_id = ?", conversationID)

	if beforePublicID != "" {
		var anchor entities.Message
		if err := r.db.WithContext(ctx).
			Select("id", "created_at").
			Where("conversation_id = ? AND public_id = ?", conversationID, beforePublicID).
			First(&anchor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
					platformerrors.ErrorTypeNotFound, "cursor message not found: "+beforePublicID, nil)
			}
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to resolve history cursor", err)
		}
		query = query.Where("(created_at, id) < (?, ?)", anchor.CreatedAt, anchor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to count messages", err)
	}

	var rows []entities.Message
	if err := query.
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list messages", err)
	}

	page := &domain.HistoryPage{
		Messages: make([]domain.Message, 0, len(rows)),
		Total:    total,
	}
	for i := range rows {
		page.Messages = append(page.Messages, *rows[i].EtoD())
	}
	return page, nil
}

// AppendTurn writes both sides of an exchange and bumps the conversation's
// message count in one transaction. Either the whole turn lands or none of
// it does.
func (r *MessageRepository) AppendTurn(ctx context.Context, conv *domain.Conversation, userMsg, assistantMsg *domain.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userEntity := entities.NewSchemaMessage(userMsg)
		userEntity.ConversationID = conv.ID
		if err := tx.Create(userEntity).Error; err != nil {
			return err
		}

		assistantEntity := entities.NewSchemaMessage(assistantMsg)
		assistantEntity.ConversationID = conv.ID
		if err := tx.Create(assistantEntity).Error; err != nil {
			return err
		}

		// updated_at is the idle-TTL anchor, so it moves with every turn.
		if err := tx.Model(&entities.Conversation{}).
			Where("id = ?", conv.ID).
			Updates(map[string]any{
				"message_count": gorm.Expr("message_count + ?", 2),
				"updated_at":    time.Now(),
			}).Error; err != nil {
			return err
		}

		userMsg.ID = userEntity.ID
		userMsg.ConversationID = conv.ID
		userMsg.CreatedAt = userEntity.CreatedAt
		assistantMsg.ID = assistantEntity.ID
		assistantMsg.ConversationID = conv.ID
		assistantMsg.CreatedAt = assistantEntity.CreatedAt
		conv.MessageCount += 2
		return nil
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to append turn", err)
	}
	return nil
}
