// Package conversation owns the durable session and its append-only message
// log.
package conversation

import (
	"encoding/json"
	"time"
)

// Language tags supported by the assistant.
const (
	LanguageEnglish = "en"
	LanguageUrdu    = "ur"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// InputMethod records how the user message arrived.
type InputMethod string

const (
	InputText  InputMethod = "text"
	InputVoice InputMethod = "voice"
)

// Conversation is a durable chat session. Conversations are never deleted,
// only deactivated, so the audit trail survives.
type Conversation struct {
	ID           uint      `json:"-"`
	PublicID     string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        *string   `json:"title,omitempty"`
	Language     string    `json:"language"`
	IsActive     bool      `json:"is_active"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToolCallRecord is one audited tool invocation attached to a message. The
// list is fixed at write time; corrections happen via new messages.
type ToolCallRecord struct {
	Name       string          `json:"name"`
	Arguments  json.RawMessage `json:"arguments"`
	Result     json.RawMessage `json:"result,omitempty"`
	Status     string          `json:"status"`
	DurationMS int64           `json:"duration_ms"`
}

// Message is one immutable entry in a conversation's append-only log.
type Message struct {
	ID                uint              `json:"-"`
	PublicID          string            `json:"id"`
	ConversationID    uint              `json:"-"`
	Role              Role              `json:"role"`
	Content           string            `json:"content"`
	ContentTranslated *string           `json:"content_translated,omitempty"`
	Intent            *string           `json:"intent,omitempty"`
	Entities          map[string]string `json:"entities,omitempty"`
	ToolCalls         []ToolCallRecord  `json:"tool_calls,omitempty"`
	Confidence        *float64          `json:"confidence,omitempty"`
	InputMethod       InputMethod       `json:"input_method"`
	LatencyMS         *int64            `json:"latency_ms,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// HistoryPage is one page of a conversation's message log.
type HistoryPage struct {
	Messages []Message `json:"messages"`
	Total    int64     `json:"total"`
}
