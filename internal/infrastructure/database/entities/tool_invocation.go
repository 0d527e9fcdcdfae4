package entities

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
)

// ToolInvocation persists the audit row written for every registry call,
// success or failure.
type ToolInvocation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_tool_invocation_user_created"`

	UserID         string         `gorm:"type:varchar(64);index:idx_tool_invocation_user_created;not null"`
	ConversationID string         `gorm:"type:varchar(50);index"`
	ToolName       string         `gorm:"type:varchar(128);not null"`
	Arguments      datatypes.JSON `gorm:"type:jsonb"`
	Result         datatypes.JSON `gorm:"type:jsonb"`
	Status         string         `gorm:"type:varchar(32);not null"`
	ErrorMessage   string         `gorm:"type:text"`
	DurationMS     int64
}

// TableName specifies the table name for ToolInvocation.
func (ToolInvocation) TableName() string {
	return "tool_invocations"
}

// NewSchemaToolInvocation creates a database entity from domain model.
func NewSchemaToolInvocation(inv *tool.Invocation) *ToolInvocation {
	return &ToolInvocation{
		ID:             inv.ID,
		UserID:         inv.UserID,
		ConversationID: inv.ConversationID,
		ToolName:       inv.ToolName,
		Arguments:      datatypes.JSON(inv.Arguments),
		Result:         datatypes.JSON(inv.Result),
		Status:         inv.Status,
		ErrorMessage:   inv.ErrorMessage,
		DurationMS:     inv.DurationMS,
		CreatedAt:      inv.CreatedAt,
	}
}
