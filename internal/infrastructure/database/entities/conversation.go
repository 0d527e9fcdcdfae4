package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID     string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID       string  `gorm:"type:varchar(64);index:idx_conversation_user_active;not null"`
	Title        *string `gorm:"type:varchar(256)"`
	Language     string  `gorm:"type:varchar(10);not null;default:'en'"`
	IsActive     bool    `gorm:"index:idx_conversation_user_active;not null;default:true"`
	MessageCount int     `gorm:"not null;default:0"`

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// JSONMap is a custom type for map[string]string stored as JSONB.
type JSONMap map[string]string

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// EtoD converts database entity to domain model.
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:           c.ID,
		PublicID:     c.PublicID,
		UserID:       c.UserID,
		Title:        c.Title,
		Language:     c.Language,
		IsActive:     c.IsActive,
		MessageCount: c.MessageCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:           c.ID,
		PublicID:     c.PublicID,
		UserID:       c.UserID,
		Title:        c.Title,
		Language:     c.Language,
		IsActive:     c.IsActive,
		MessageCount: c.MessageCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
