package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
)

// Message represents the database schema for the append-only message log.
// Rows are written once and never updated.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_conversation_created"`

	PublicID          string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID    uint           `gorm:"index:idx_message_conversation_created;not null"`
	Role              string         `gorm:"type:varchar(16);not null"`
	Content           string         `gorm:"type:text;not null"`
	ContentTranslated *string        `gorm:"type:text"`
	Intent            *string        `gorm:"type:varchar(32)"`
	Entities          JSONMap        `gorm:"type:jsonb"`
	ToolCalls         datatypes.JSON `gorm:"type:jsonb"`
	Confidence        *float64
	InputMethod       string `gorm:"type:varchar(16);not null;default:'text'"`
	LatencyMS         *int64
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model.
func (m *Message) EtoD() *conversation.Message {
	var toolCalls []conversation.ToolCallRecord
	if len(m.ToolCalls) > 0 {
		_ = json.Unmarshal(m.ToolCalls, &toolCalls)
	}

	return &conversation.Message{
		ID:                m.ID,
		PublicID:          m.PublicID,
		ConversationID:    m.ConversationID,
		Role:              conversation.Role(m.Role),
		Content:           m.Content,
		ContentTranslated: m.ContentTranslated,
		Intent:            m.Intent,
		Entities:          m.Entities,
		ToolCalls:         toolCalls,
		Confidence:        m.Confidence,
		InputMethod:       conversation.InputMethod(m.InputMethod),
		LatencyMS:         m.LatencyMS,
		CreatedAt:         m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model.
func NewSchemaMessage(m *conversation.Message) *Message {
	var toolCalls datatypes.JSON
	if len(m.ToolCalls) > 0 {
		raw, err := json.Marshal(m.ToolCalls)
		if err == nil {
			toolCalls = datatypes.JSON(raw)
		}
	}

	return &Message{
		ID:                m.ID,
		PublicID:          m.PublicID,
		ConversationID:    m.ConversationID,
		Role:              string(m.Role),
		Content:           m.Content,
		ContentTranslated: m.ContentTranslated,
		Intent:            m.Intent,
		Entities:          m.Entities,
		ToolCalls:         toolCalls,
		Confidence:        m.Confidence,
		InputMethod:       string(m.InputMethod),
		LatencyMS:         m.LatencyMS,
		CreatedAt:         m.CreatedAt,
	}
}
