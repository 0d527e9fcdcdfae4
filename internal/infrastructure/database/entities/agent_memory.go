package entities

import (
	"time"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
)

// AgentMemory represents the database schema for per-agent memory entries.
// Uniqueness is enforced per (user, agent type, key); upserts overwrite the
// content and TTL.
type AgentMemory struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID         string  `gorm:"type:varchar(64);uniqueIndex:idx_agent_memory_identity;not null"`
	AgentType      string  `gorm:"type:varchar(32);uniqueIndex:idx_agent_memory_identity;not null"`
	MemoryType     string  `gorm:"type:varchar(32);not null;default:'fact'"`
	Key            string  `gorm:"type:varchar(128);uniqueIndex:idx_agent_memory_identity;not null"`
	Content        string  `gorm:"type:text;not null"`
	Importance     float64 `gorm:"not null;default:0.5"`
	AccessCount    int     `gorm:"not null;default:0"`
	LastAccessedAt *time.Time
	ExpiresAt      *time.Time `gorm:"index"`
}

// TableName specifies the table name for AgentMemory.
func (AgentMemory) TableName() string {
	return "agent_memories"
}

// EtoD converts database entity to domain model.
func (m *AgentMemory) EtoD() *memory.Entry {
	return &memory.Entry{
		ID:             m.ID,
		UserID:         m.UserID,
		AgentType:      memory.AgentType(m.AgentType),
		MemoryType:     m.MemoryType,
		Key:            m.Key,
		Content:        m.Content,
		Importance:     m.Importance,
		AccessCount:    m.AccessCount,
		LastAccessedAt: m.LastAccessedAt,
		ExpiresAt:      m.ExpiresAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// NewSchemaAgentMemory creates a database entity from domain model.
func NewSchemaAgentMemory(e *memory.Entry) *AgentMemory {
	return &AgentMemory{
		ID:             e.ID,
		UserID:         e.UserID,
		AgentType:      string(e.AgentType),
		MemoryType:     e.MemoryType,
		Key:            e.Key,
		Content:        e.Content,
		Importance:     e.Importance,
		AccessCount:    e.AccessCount,
		LastAccessedAt: e.LastAccessedAt,
		ExpiresAt:      e.ExpiresAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
